package model

import "time"

// Status de agendamento. Transições são disparadas pela API, nunca
// automáticas.
const (
	AgendamentoAgendado   = "Agendado"
	AgendamentoConfirmado = "Confirmado"
	AgendamentoCancelado  = "Cancelado"
	AgendamentoConcluido  = "Concluído"
)

func AgendamentoStatusValido(s string) bool {
	switch s {
	case AgendamentoAgendado, AgendamentoConfirmado, AgendamentoCancelado, AgendamentoConcluido:
		return true
	}
	return false
}

type Agendamento struct {
	IDAgendamento   int       `gorm:"primaryKey" json:"id_agendamento"`
	IDPet           int       `gorm:"not null;index" json:"id_pet"`
	IDServico       int       `gorm:"not null" json:"id_servico"`
	IDFuncionario   int       `gorm:"not null" json:"id_funcionario"`
	DataHora        time.Time `gorm:"not null;index" json:"data_hora"`
	DuracaoEstimada *int      `json:"duracao_estimada"`
	Status          string    `gorm:"not null;default:Agendado" json:"status"`
	Observacoes     *string   `json:"observacoes"`
	IDClientePacote *int      `json:"id_cliente_pacote"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Agendamento) TableName() string {
	return "agendamentos"
}

type AgendamentoCreateRequest struct {
	IDPet           int       `json:"id_pet" validate:"required,gt=0"`
	IDServico       int       `json:"id_servico" validate:"required,gt=0"`
	IDFuncionario   int       `json:"id_funcionario" validate:"required,gt=0"`
	DataHora        time.Time `json:"data_hora" validate:"required"`
	DuracaoEstimada *int      `json:"duracao_estimada" validate:"omitempty,gt=0"`
	Observacoes     *string   `json:"observacoes"`
	IDClientePacote *int      `json:"id_cliente_pacote" validate:"omitempty,gt=0"`
}

type AgendamentoCreateResponse struct {
	IDAgendamento int    `json:"id_agendamento"`
	Message       string `json:"message"`
}

type AgendamentoStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CalendarioDia é a contagem de agendamentos de um dia do mês.
type CalendarioDia struct {
	Dia   string `json:"dia"`
	Total int    `json:"total"`
}
