package model

import (
	"time"

	"gorm.io/gorm"
)

// Tipos de pacote. O tipo decide a regra de consumo do ledger:
// creditos desconta uso a uso; combo é de uso único para o bundle inteiro.
const (
	PacoteTipoCreditos = "creditos"
	PacoteTipoCombo    = "combo"
)

// Status de um pacote comprado por um cliente.
const (
	ClientePacoteAtivo    = "ativo"
	ClientePacoteUsado    = "usado"
	ClientePacoteExpirado = "expirado"
)

// Pacote é dado de referência imutável: define o produto comercial.
// ValidadeDias e MaxUsos são obrigatórios para creditos, proibidos para combo.
type Pacote struct {
	IDPacote     int            `gorm:"primaryKey" json:"id_pacote"`
	Nome         string         `gorm:"not null" json:"nome"`
	Descricao    *string        `json:"descricao"`
	Tipo         string         `gorm:"not null" json:"tipo"`
	PrecoBase    float64        `gorm:"not null" json:"preco_base"`
	ValidadeDias *int           `json:"validade_dias"`
	MaxUsos      *int           `json:"max_usos"`
	Ativo        bool           `gorm:"default:true" json:"ativo"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Servicos []PacoteServico `gorm:"foreignKey:IDPacote" json:"servicos,omitempty"`
}

func (Pacote) TableName() string {
	return "pacotes"
}

type PacoteServico struct {
	IDPacote   int `gorm:"primaryKey" json:"id_pacote"`
	IDServico  int `gorm:"primaryKey" json:"id_servico"`
	Quantidade int `gorm:"not null;default:1" json:"quantidade"`
}

func (PacoteServico) TableName() string {
	return "pacotes_servicos"
}

// ClientePacote é o saldo de um pacote comprado. O ledger é o único que
// muta UsosRestantes/Status após a venda.
type ClientePacote struct {
	IDClientePacote int        `gorm:"primaryKey" json:"id_cliente_pacote"`
	IDCliente       int        `gorm:"not null;index" json:"id_cliente"`
	IDPacote        int        `gorm:"not null;index" json:"id_pacote"`
	UsosRestantes   *int       `json:"usos_restantes"`
	Status          string     `gorm:"not null;default:ativo" json:"status"`
	DataExpiracao   *time.Time `json:"data_expiracao"`
	ValorPago       float64    `json:"valor_pago"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Pacote Pacote `gorm:"foreignKey:IDPacote;references:IDPacote" json:"pacote,omitempty"`
}

func (ClientePacote) TableName() string {
	return "clientes_pacotes"
}

// ClientePacoteUso é o ledger append-only: uma linha por consumo, nunca
// sobrescrita.
type ClientePacoteUso struct {
	IDUso           int       `gorm:"primaryKey" json:"id_uso"`
	IDClientePacote int       `gorm:"not null;index" json:"id_cliente_pacote"`
	IDAgendamento   int       `gorm:"not null;index" json:"id_agendamento"`
	IDServico       int       `gorm:"not null" json:"id_servico"`
	Observacoes     *string   `json:"observacoes"`
	CreatedAt       time.Time `json:"created_at"`
}

func (ClientePacoteUso) TableName() string {
	return "clientes_pacotes_uso"
}

type PacoteCreateRequest struct {
	Nome         string   `json:"nome" validate:"required,min=2,max=200"`
	Descricao    *string  `json:"descricao"`
	Tipo         string   `json:"tipo" validate:"required,oneof=creditos combo"`
	PrecoBase    float64  `json:"preco_base" validate:"required,gt=0"`
	ValidadeDias *int     `json:"validade_dias" validate:"omitempty,gt=0"`
	MaxUsos      *int     `json:"max_usos" validate:"omitempty,gt=0"`
	Ativo        bool     `json:"ativo"`
	ServicosIDs  []int    `json:"servicos_ids"`
}

type PacoteUpdateRequest struct {
	Nome         *string  `json:"nome" validate:"omitempty,min=2,max=200"`
	Descricao    *string  `json:"descricao"`
	PrecoBase    *float64 `json:"preco_base" validate:"omitempty,gt=0"`
	ValidadeDias *int     `json:"validade_dias" validate:"omitempty,gt=0"`
	MaxUsos      *int     `json:"max_usos" validate:"omitempty,gt=0"`
	Ativo        *bool    `json:"ativo"`
	ServicosIDs  []int    `json:"servicos_ids"`
}

// VenderPacoteRequest cria um ClientePacote a partir de um Pacote.
type VenderPacoteRequest struct {
	IDCliente int     `json:"id_cliente" validate:"required,gt=0"`
	IDPacote  int     `json:"id_pacote" validate:"required,gt=0"`
	ValorPago float64 `json:"valor_pago" validate:"gte=0"`
}
