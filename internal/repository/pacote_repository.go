//go:generate mockery --name PacoteRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
)

type PacoteRepository interface {
	List(ctx context.Context, db *gorm.DB, ativo *bool, tipo string) ([]model.Pacote, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*model.Pacote, error)
	Create(ctx context.Context, db *gorm.DB, pacote *model.Pacote) error
	UpdateFields(ctx context.Context, db *gorm.DB, id int, fields map[string]interface{}) error
	ReplaceServicos(ctx context.Context, db *gorm.DB, idPacote int, servicosIDs []int) error
	SoftDelete(ctx context.Context, db *gorm.DB, id int) error

	CreateClientePacote(ctx context.Context, db *gorm.DB, cp *model.ClientePacote) error
	// FindClientePacoteForUpdate carrega o pacote do cliente com o Pacote de
	// referência, travando a linha de saldo até o fim da transação. É o que
	// serializa consumos concorrentes do mesmo bundle.
	FindClientePacoteForUpdate(ctx context.Context, db *gorm.DB, id int) (*model.ClientePacote, error)
	UpdateClientePacote(ctx context.Context, db *gorm.DB, id int, fields map[string]interface{}) error
	CreateUso(ctx context.Context, db *gorm.DB, uso *model.ClientePacoteUso) error
	ListUsos(ctx context.Context, db *gorm.DB, idClientePacote int) ([]model.ClientePacoteUso, error)
}

type gormPacoteRepository struct{}

func NewGormPacoteRepository() PacoteRepository {
	return &gormPacoteRepository{}
}

func (r *gormPacoteRepository) List(ctx context.Context, db *gorm.DB, ativo *bool, tipo string) ([]model.Pacote, error) {
	logger := middleware.GetLogger(ctx)
	var pacotes []model.Pacote

	query := db.WithContext(ctx).Preload("Servicos").Order("nome")
	if ativo != nil {
		query = query.Where("ativo = ?", *ativo)
	}
	if tipo != "" {
		query = query.Where("tipo = ?", tipo)
	}

	result := query.Find(&pacotes)
	if result.Error != nil {
		logger.Error("Error listing pacotes", "error", result.Error)
		return nil, fmt.Errorf("gormPacoteRepository.List: %w", result.Error)
	}
	return pacotes, nil
}

func (r *gormPacoteRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*model.Pacote, error) {
	logger := middleware.GetLogger(ctx)
	var pacote model.Pacote

	result := db.WithContext(ctx).Preload("Servicos").First(&pacote, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding pacote", "error", result.Error, "id_pacote", id)
		return nil, fmt.Errorf("gormPacoteRepository.FindByID: %w", result.Error)
	}
	return &pacote, nil
}

func (r *gormPacoteRepository) Create(ctx context.Context, db *gorm.DB, pacote *model.Pacote) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(pacote)
	if result.Error != nil {
		logger.Error("Error creating pacote", "error", result.Error, "nome", pacote.Nome)
		return fmt.Errorf("gormPacoteRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormPacoteRepository) UpdateFields(ctx context.Context, db *gorm.DB, id int, fields map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Pacote{}).Where("id_pacote = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Error updating pacote", "error", result.Error, "id_pacote", id)
		return fmt.Errorf("gormPacoteRepository.UpdateFields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormPacoteRepository) ReplaceServicos(ctx context.Context, db *gorm.DB, idPacote int, servicosIDs []int) error {
	logger := middleware.GetLogger(ctx)

	if err := db.WithContext(ctx).Where("id_pacote = ?", idPacote).Delete(&model.PacoteServico{}).Error; err != nil {
		logger.Error("Error clearing pacote servicos", "error", err, "id_pacote", idPacote)
		return fmt.Errorf("gormPacoteRepository.ReplaceServicos: %w", err)
	}
	for _, idServico := range servicosIDs {
		ps := model.PacoteServico{IDPacote: idPacote, IDServico: idServico, Quantidade: 1}
		if err := db.WithContext(ctx).Create(&ps).Error; err != nil {
			logger.Error("Error linking servico to pacote", "error", err, "id_pacote", idPacote, "id_servico", idServico)
			return fmt.Errorf("gormPacoteRepository.ReplaceServicos: %w", err)
		}
	}
	return nil
}

func (r *gormPacoteRepository) SoftDelete(ctx context.Context, db *gorm.DB, id int) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Pacote{}).Where("id_pacote = ?", id).Update("ativo", false)
	if result.Error != nil {
		logger.Error("Error deactivating pacote", "error", result.Error, "id_pacote", id)
		return fmt.Errorf("gormPacoteRepository.SoftDelete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormPacoteRepository) CreateClientePacote(ctx context.Context, db *gorm.DB, cp *model.ClientePacote) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(cp)
	if result.Error != nil {
		logger.Error("Error creating cliente pacote", "error", result.Error, "id_cliente", cp.IDCliente)
		return fmt.Errorf("gormPacoteRepository.CreateClientePacote: %w", result.Error)
	}
	return nil
}

func (r *gormPacoteRepository) FindClientePacoteForUpdate(ctx context.Context, db *gorm.DB, id int) (*model.ClientePacote, error) {
	logger := middleware.GetLogger(ctx)
	var cp model.ClientePacote

	query := db.WithContext(ctx).Preload("Pacote")
	// SELECT ... FOR UPDATE só existe no postgres; o sqlite dos testes roda
	// a mesma consulta sem a cláusula.
	if db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	result := query.Where("id_cliente_pacote = ?", id).First(&cp)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error locking cliente pacote", "error", result.Error, "id_cliente_pacote", id)
		return nil, fmt.Errorf("gormPacoteRepository.FindClientePacoteForUpdate: %w", result.Error)
	}
	return &cp, nil
}

func (r *gormPacoteRepository) UpdateClientePacote(ctx context.Context, db *gorm.DB, id int, fields map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.ClientePacote{}).
		Where("id_cliente_pacote = ?", id).
		Updates(fields)
	if result.Error != nil {
		logger.Error("Error updating cliente pacote", "error", result.Error, "id_cliente_pacote", id)
		return fmt.Errorf("gormPacoteRepository.UpdateClientePacote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormPacoteRepository) CreateUso(ctx context.Context, db *gorm.DB, uso *model.ClientePacoteUso) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(uso)
	if result.Error != nil {
		logger.Error("Error recording pacote usage", "error", result.Error, "id_cliente_pacote", uso.IDClientePacote)
		return fmt.Errorf("gormPacoteRepository.CreateUso: %w", result.Error)
	}
	return nil
}

func (r *gormPacoteRepository) ListUsos(ctx context.Context, db *gorm.DB, idClientePacote int) ([]model.ClientePacoteUso, error) {
	logger := middleware.GetLogger(ctx)
	var usos []model.ClientePacoteUso

	result := db.WithContext(ctx).
		Where("id_cliente_pacote = ?", idClientePacote).
		Order("created_at").
		Find(&usos)
	if result.Error != nil {
		logger.Error("Error listing pacote usages", "error", result.Error, "id_cliente_pacote", idClientePacote)
		return nil, fmt.Errorf("gormPacoteRepository.ListUsos: %w", result.Error)
	}
	return usos, nil
}
