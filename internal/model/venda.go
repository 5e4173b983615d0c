package model

import "time"

type Venda struct {
	IDVenda       int       `gorm:"primaryKey" json:"id_venda"`
	IDCliente     *int      `gorm:"index" json:"id_cliente"`
	IDFuncionario int       `gorm:"not null" json:"id_funcionario"`
	DataHoraVenda time.Time `gorm:"not null;index" json:"data_hora_venda"`
	ValorTotal    float64   `gorm:"not null" json:"valor_total"`
	Desconto      float64   `json:"desconto"`
	ValorFinal    float64   `gorm:"not null" json:"valor_final"`
	CreatedAt     time.Time `json:"created_at"`

	Itens []ItemVenda `gorm:"foreignKey:IDVenda" json:"itens,omitempty"`
}

func (Venda) TableName() string {
	return "vendas"
}

type ItemVenda struct {
	IDItem    int     `gorm:"primaryKey" json:"id_item"`
	IDVenda   int     `gorm:"not null;index" json:"id_venda"`
	IDProduto int     `gorm:"not null" json:"id_produto"`
	Qtd       int     `gorm:"not null" json:"qtd"`
	Preco     float64 `gorm:"not null" json:"preco"`
}

func (ItemVenda) TableName() string {
	return "itens_da_venda"
}

type ItemVendaRequest struct {
	IDProduto int     `json:"id_produto" validate:"required,gt=0"`
	Qtd       int     `json:"qtd" validate:"required,gt=0"`
	Preco     float64 `json:"preco" validate:"required,gt=0"`
}

type VendaCreateRequest struct {
	IDCliente     *int               `json:"id_cliente" validate:"omitempty,gt=0"`
	IDFuncionario int                `json:"id_funcionario" validate:"required,gt=0"`
	Desconto      float64            `json:"desconto" validate:"gte=0"`
	Itens         []ItemVendaRequest `json:"itens" validate:"required,min=1,dive"`
}

type VendaCreateResponse struct {
	IDVenda    int     `json:"id_venda"`
	ValorFinal float64 `json:"valor_final"`
	Message    string  `json:"message"`
}
