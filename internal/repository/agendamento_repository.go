//go:generate mockery --name AgendamentoRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
)

type AgendamentoFilter struct {
	Data   *time.Time
	Status string
	Offset int
	Limit  int
}

type AgendamentoRepository interface {
	Create(ctx context.Context, db *gorm.DB, agendamento *model.Agendamento) error
	List(ctx context.Context, db *gorm.DB, filter AgendamentoFilter) ([]model.Agendamento, error)
	ListHoje(ctx context.Context, db *gorm.DB) ([]model.Agendamento, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id int, status string) error
	ContagemPorDia(ctx context.Context, db *gorm.DB, ano, mes int) ([]model.CalendarioDia, error)
}

type gormAgendamentoRepository struct{}

func NewGormAgendamentoRepository() AgendamentoRepository {
	return &gormAgendamentoRepository{}
}

func (r *gormAgendamentoRepository) Create(ctx context.Context, db *gorm.DB, agendamento *model.Agendamento) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(agendamento)
	if result.Error != nil {
		logger.Error("Error creating agendamento", "error", result.Error, "id_pet", agendamento.IDPet)
		return fmt.Errorf("gormAgendamentoRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormAgendamentoRepository) List(ctx context.Context, db *gorm.DB, filter AgendamentoFilter) ([]model.Agendamento, error) {
	logger := middleware.GetLogger(ctx)
	var agendamentos []model.Agendamento

	query := db.WithContext(ctx).Order("data_hora DESC")
	if filter.Data != nil {
		// Meia-noite no fuso da data filtrada, não em UTC: Truncate(24h)
		// deslocaria a janela do dia em servidores fora de UTC.
		d := *filter.Data
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		query = query.Where("data_hora >= ? AND data_hora < ?", start, start.AddDate(0, 0, 1))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	result := query.Find(&agendamentos)
	if result.Error != nil {
		logger.Error("Error listing agendamentos", "error", result.Error)
		return nil, fmt.Errorf("gormAgendamentoRepository.List: %w", result.Error)
	}
	return agendamentos, nil
}

func (r *gormAgendamentoRepository) ListHoje(ctx context.Context, db *gorm.DB) ([]model.Agendamento, error) {
	now := time.Now()
	hoje := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return r.List(ctx, db, AgendamentoFilter{Data: &hoje})
}

func (r *gormAgendamentoRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id int, status string) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Agendamento{}).
		Where("id_agendamento = ?", id).
		Update("status", status)
	if result.Error != nil {
		logger.Error("Error updating agendamento status", "error", result.Error, "id_agendamento", id)
		return fmt.Errorf("gormAgendamentoRepository.UpdateStatus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormAgendamentoRepository) ContagemPorDia(ctx context.Context, db *gorm.DB, ano, mes int) ([]model.CalendarioDia, error) {
	logger := middleware.GetLogger(ctx)
	var dias []model.CalendarioDia

	inicio := time.Date(ano, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	fim := inicio.AddDate(0, 1, 0)

	result := db.WithContext(ctx).
		Model(&model.Agendamento{}).
		Select("DATE(data_hora) AS dia, COUNT(*) AS total").
		Where("data_hora >= ? AND data_hora < ?", inicio, fim).
		Group("DATE(data_hora)").
		Order("dia").
		Scan(&dias)
	if result.Error != nil {
		logger.Error("Error counting agendamentos per day", "error", result.Error, "ano", ano, "mes", mes)
		return nil, fmt.Errorf("gormAgendamentoRepository.ContagemPorDia: %w", result.Error)
	}
	return dias, nil
}
