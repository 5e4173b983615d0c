package model

import (
	"time"

	"gorm.io/gorm"
)

// Empresa é o registro de controle de um tenant. Mora no banco default
// (plano de controle); os dados operacionais de cada empresa moram no banco
// apontado pelo seu código no registro de conexões.
type Empresa struct {
	ID           int            `gorm:"primaryKey" json:"id"`
	Codigo       string         `gorm:"uniqueIndex;not null" json:"codigo"`
	Nome         string         `gorm:"not null" json:"nome"`
	NomeFantasia *string        `json:"nome_fantasia"`
	CNPJ         *string        `gorm:"column:cnpj;uniqueIndex" json:"cnpj"`
	Email        *string        `json:"email"`
	Telefone     *string        `json:"telefone"`
	Plano        string         `gorm:"default:basic" json:"plano"`
	Ativo        bool           `gorm:"default:false" json:"ativo"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Empresa) TableName() string {
	return "empresas"
}

type EmpresaCreateRequest struct {
	Codigo       string  `json:"codigo" validate:"required,min=2,max=50,lowercase"`
	Nome         string  `json:"nome" validate:"required,min=3,max=200"`
	NomeFantasia *string `json:"nome_fantasia" validate:"omitempty,max=200"`
	CNPJ         *string `json:"cnpj" validate:"omitempty,max=18"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Telefone     *string `json:"telefone" validate:"omitempty,max=20"`
	Plano        string  `json:"plano" validate:"omitempty,oneof=free basic premium enterprise"`
}

// EmpresaUpdateRequest usa ponteiros para distinguir "não enviado" de zero:
// só campos não-nil entram no UPDATE.
type EmpresaUpdateRequest struct {
	Nome         *string `json:"nome" validate:"omitempty,min=3,max=200"`
	NomeFantasia *string `json:"nome_fantasia" validate:"omitempty,max=200"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Telefone     *string `json:"telefone" validate:"omitempty,max=20"`
	Plano        *string `json:"plano" validate:"omitempty,oneof=free basic premium enterprise"`
	Ativo        *bool   `json:"ativo"`
}

// ProvisionRequest registra o banco dedicado de uma empresa recém-aprovada.
type ProvisionRequest struct {
	DSN string `json:"dsn" validate:"required"`
}

// EmpresaConfiguracao é um par chave/valor de configuração da empresa. Mora
// no banco do tenant; o valor é sempre texto e Tipo diz como interpretá-lo
// na leitura.
type EmpresaConfiguracao struct {
	ID        int     `gorm:"primaryKey" json:"id"`
	EmpresaID int     `gorm:"uniqueIndex:idx_config_empresa_chave;not null" json:"empresa_id"`
	Chave     string  `gorm:"uniqueIndex:idx_config_empresa_chave;not null" json:"chave"`
	Valor     string  `gorm:"not null" json:"valor"`
	Tipo      string  `gorm:"default:string" json:"tipo"`
	Descricao *string `json:"descricao"`
}

func (EmpresaConfiguracao) TableName() string {
	return "empresa_configuracoes"
}

type ConfiguracaoUpdateRequest struct {
	Valor     string  `json:"valor" validate:"required"`
	Tipo      string  `json:"tipo" validate:"omitempty,oneof=string number boolean json"`
	Descricao *string `json:"descricao" validate:"omitempty,max=200"`
}

// ConfiguracaoValor é a leitura de uma chave com o valor já convertido
// conforme o Tipo armazenado.
type ConfiguracaoValor struct {
	Chave string      `json:"chave"`
	Valor interface{} `json:"valor"`
	Tipo  string      `json:"tipo"`
}

// EmpresaDashboardStats são as contagens operacionais do banco do tenant.
type EmpresaDashboardStats struct {
	TotalFuncionarios int64   `json:"total_funcionarios"`
	TotalClientes     int64   `json:"total_clientes"`
	TotalPets         int64   `json:"total_pets"`
	TotalVendas       int64   `json:"total_vendas"`
	ReceitaTotal      float64 `json:"receita_total"`
}

// EmpresaDashboard junta o cadastro do plano de controle com as contagens
// do banco do tenant.
type EmpresaDashboard struct {
	ID    int    `json:"id"`
	Nome  string `json:"nome"`
	Plano string `json:"plano"`
	Ativo bool   `json:"ativo"`
	EmpresaDashboardStats
}
