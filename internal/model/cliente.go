package model

import (
	"time"

	"gorm.io/gorm"
)

type Cliente struct {
	IDCliente           int            `gorm:"primaryKey" json:"id_cliente"`
	Nome                string         `gorm:"not null" json:"nome"`
	CPF                 *string        `gorm:"column:cpf;uniqueIndex" json:"cpf"`
	Telefone            *string        `json:"telefone"`
	Email               *string        `json:"email"`
	EnderecoRua         *string        `json:"endereco_rua"`
	EnderecoNumero      *string        `json:"endereco_numero"`
	EnderecoComplemento *string        `json:"endereco_complemento"`
	EnderecoBairro      *string        `json:"endereco_bairro"`
	EnderecoCidade      *string        `json:"endereco_cidade"`
	EnderecoEstado      *string        `json:"endereco_estado"`
	EnderecoCEP         *string        `gorm:"column:endereco_cep" json:"endereco_cep"`
	Ativo               bool           `gorm:"default:true" json:"ativo"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Pets []Pet `gorm:"foreignKey:IDCliente" json:"-"`
}

func (Cliente) TableName() string {
	return "clientes"
}

type Pet struct {
	IDPet          int            `gorm:"primaryKey" json:"id_pet"`
	IDCliente      int            `gorm:"not null;index" json:"id_cliente"`
	Nome           string         `gorm:"not null" json:"nome"`
	Especie        string         `gorm:"not null" json:"especie"`
	Raca           *string        `json:"raca"`
	Sexo           *string        `json:"sexo"`
	Peso           *float64       `json:"peso"`
	Cor            *string        `json:"cor"`
	Microchip      *string        `json:"microchip"`
	Castrado       *bool          `json:"castrado"`
	Observacoes    *string        `json:"observacoes"`
	DataNascimento *time.Time     `json:"data_nascimento"`
	Ativo          bool           `gorm:"default:true" json:"ativo"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Pet) TableName() string {
	return "pets"
}

type ClienteCreateRequest struct {
	Nome                string  `json:"nome" validate:"required,min=2,max=200"`
	CPF                 *string `json:"cpf" validate:"omitempty,max=14"`
	Telefone            *string `json:"telefone" validate:"omitempty,max=20"`
	Email               *string `json:"email" validate:"omitempty,email"`
	EnderecoRua         *string `json:"endereco_rua"`
	EnderecoNumero      *string `json:"endereco_numero"`
	EnderecoComplemento *string `json:"endereco_complemento"`
	EnderecoBairro      *string `json:"endereco_bairro"`
	EnderecoCidade      *string `json:"endereco_cidade"`
	EnderecoEstado      *string `json:"endereco_estado" validate:"omitempty,len=2"`
	EnderecoCEP         *string `json:"endereco_cep" validate:"omitempty,max=10"`
}

type ClienteUpdateRequest struct {
	Nome           *string `json:"nome" validate:"omitempty,min=2,max=200"`
	Telefone       *string `json:"telefone" validate:"omitempty,max=20"`
	Email          *string `json:"email" validate:"omitempty,email"`
	EnderecoCidade *string `json:"endereco_cidade"`
	EnderecoEstado *string `json:"endereco_estado" validate:"omitempty,len=2"`
}
