package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
)

type AgendamentoService interface {
	// Create insere o agendamento e, se houver pacote vinculado, debita o
	// crédito na mesma transação: ou tudo entra, ou nada entra.
	Create(ctx context.Context, db *gorm.DB, req *model.AgendamentoCreateRequest) (*model.AgendamentoCreateResponse, error)
	List(ctx context.Context, db *gorm.DB, filter repository.AgendamentoFilter) ([]model.Agendamento, error)
	ListHoje(ctx context.Context, db *gorm.DB) ([]model.Agendamento, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id int, status string) error
	Calendario(ctx context.Context, db *gorm.DB, ano, mes int) ([]model.CalendarioDia, error)
}

type agendamentoService struct {
	agendamentoRepo repository.AgendamentoRepository
	ledger          *Ledger
}

func NewAgendamentoService(agendamentoRepo repository.AgendamentoRepository, ledger *Ledger) AgendamentoService {
	return &agendamentoService{agendamentoRepo: agendamentoRepo, ledger: ledger}
}

func (s *agendamentoService) Create(ctx context.Context, db *gorm.DB, req *model.AgendamentoCreateRequest) (*model.AgendamentoCreateResponse, error) {
	logger := middleware.GetLogger(ctx)

	agendamento := &model.Agendamento{
		IDPet:           req.IDPet,
		IDServico:       req.IDServico,
		IDFuncionario:   req.IDFuncionario,
		DataHora:        req.DataHora,
		DuracaoEstimada: req.DuracaoEstimada,
		Status:          model.AgendamentoAgendado,
		Observacoes:     req.Observacoes,
		IDClientePacote: req.IDClientePacote,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.agendamentoRepo.Create(ctx, tx, agendamento); err != nil {
			return err
		}
		if req.IDClientePacote != nil {
			if err := s.ledger.Consume(ctx, tx, *req.IDClientePacote, agendamento.IDAgendamento, req.IDServico, req.Observacoes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Agendamento created",
		"id_agendamento", agendamento.IDAgendamento, "id_pet", req.IDPet)
	msg := "Agendamento criado com sucesso."
	if req.IDClientePacote != nil {
		msg = "Agendamento criado com sucesso utilizando pacote do cliente."
	}
	return &model.AgendamentoCreateResponse{
		IDAgendamento: agendamento.IDAgendamento,
		Message:       msg,
	}, nil
}

func (s *agendamentoService) List(ctx context.Context, db *gorm.DB, filter repository.AgendamentoFilter) ([]model.Agendamento, error) {
	return s.agendamentoRepo.List(ctx, db, filter)
}

func (s *agendamentoService) ListHoje(ctx context.Context, db *gorm.DB) ([]model.Agendamento, error) {
	return s.agendamentoRepo.ListHoje(ctx, db)
}

func (s *agendamentoService) UpdateStatus(ctx context.Context, db *gorm.DB, id int, status string) error {
	if !model.AgendamentoStatusValido(status) {
		return model.NewAppError("INVALID_STATUS",
			fmt.Sprintf("Status inválido: %q.", status), "status", model.ErrInvalidInput)
	}
	return s.agendamentoRepo.UpdateStatus(ctx, db, id, status)
}

func (s *agendamentoService) Calendario(ctx context.Context, db *gorm.DB, ano, mes int) ([]model.CalendarioDia, error) {
	if mes < 1 || mes > 12 {
		return nil, model.NewAppError("INVALID_INPUT",
			"Mês deve estar entre 1 e 12.", "mes", model.ErrInvalidInput)
	}
	return s.agendamentoRepo.ContagemPorDia(ctx, db, ano, mes)
}
