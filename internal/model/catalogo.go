package model

import (
	"time"

	"gorm.io/gorm"
)

type Produto struct {
	IDProduto    int            `gorm:"primaryKey" json:"id_produto"`
	Nome         string         `gorm:"not null" json:"nome"`
	CodigoBarras *string        `gorm:"uniqueIndex" json:"codigo_barras"`
	Descricao    *string        `json:"descricao"`
	PrecoVenda   float64        `gorm:"not null" json:"preco_venda"`
	Categoria    *string        `json:"categoria"`
	Ativo        bool           `gorm:"default:true" json:"ativo"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Produto) TableName() string {
	return "produtos"
}

// Estoque guarda quantidades por produto (uma linha por lote/local).
type Estoque struct {
	IDEstoque  int       `gorm:"primaryKey" json:"id_estoque"`
	IDProduto  int       `gorm:"not null;index" json:"id_produto"`
	Quantidade int       `gorm:"not null" json:"quantidade"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Estoque) TableName() string {
	return "estoque"
}

// ProdutoComEstoque é a projeção de listagem: produto + estoque agregado.
type ProdutoComEstoque struct {
	IDProduto    int     `json:"id_produto"`
	Nome         string  `json:"nome"`
	CodigoBarras *string `json:"codigo_barras"`
	Descricao    *string `json:"descricao"`
	PrecoVenda   float64 `json:"preco_venda"`
	Categoria    *string `json:"categoria"`
	EstoqueTotal int     `json:"estoque_total"`
}

type Servico struct {
	IDServico int            `gorm:"primaryKey" json:"id_servico"`
	Nome      string         `gorm:"not null" json:"nome"`
	Descricao *string        `json:"descricao"`
	PrecoBase float64        `gorm:"not null" json:"preco_base"`
	Ativo     bool           `gorm:"default:true" json:"ativo"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Servico) TableName() string {
	return "servicos"
}
