//go:generate mockery --name ClienteRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
)

type ClienteRepository interface {
	List(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Cliente, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*model.Cliente, error)
	Create(ctx context.Context, db *gorm.DB, cliente *model.Cliente) error
	UpdateFields(ctx context.Context, db *gorm.DB, id int, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, db *gorm.DB, id int) error
	ListPets(ctx context.Context, db *gorm.DB, idCliente int) ([]model.Pet, error)
}

type gormClienteRepository struct{}

func NewGormClienteRepository() ClienteRepository {
	return &gormClienteRepository{}
}

func (r *gormClienteRepository) List(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Cliente, error) {
	logger := middleware.GetLogger(ctx)
	var clientes []model.Cliente

	result := db.WithContext(ctx).
		Where("ativo = ?", true).
		Order("nome").
		Offset(offset).Limit(limit).
		Find(&clientes)
	if result.Error != nil {
		logger.Error("Error listing clientes", "error", result.Error)
		return nil, fmt.Errorf("gormClienteRepository.List: %w", result.Error)
	}
	return clientes, nil
}

func (r *gormClienteRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*model.Cliente, error) {
	logger := middleware.GetLogger(ctx)
	var cliente model.Cliente

	result := db.WithContext(ctx).Where("id_cliente = ? AND ativo = ?", id, true).First(&cliente)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding cliente", "error", result.Error, "id_cliente", id)
		return nil, fmt.Errorf("gormClienteRepository.FindByID: %w", result.Error)
	}
	return &cliente, nil
}

func (r *gormClienteRepository) Create(ctx context.Context, db *gorm.DB, cliente *model.Cliente) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(cliente)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Duplicate key on create cliente", "error", result.Error)
			return model.ErrConflict
		}
		logger.Error("Error creating cliente", "error", result.Error)
		return fmt.Errorf("gormClienteRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormClienteRepository) UpdateFields(ctx context.Context, db *gorm.DB, id int, fields map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Cliente{}).
		Where("id_cliente = ? AND ativo = ?", id, true).
		Updates(fields)
	if result.Error != nil {
		logger.Error("Error updating cliente", "error", result.Error, "id_cliente", id)
		return fmt.Errorf("gormClienteRepository.UpdateFields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormClienteRepository) SoftDelete(ctx context.Context, db *gorm.DB, id int) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Cliente{}).
		Where("id_cliente = ?", id).
		Update("ativo", false)
	if result.Error != nil {
		logger.Error("Error deactivating cliente", "error", result.Error, "id_cliente", id)
		return fmt.Errorf("gormClienteRepository.SoftDelete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormClienteRepository) ListPets(ctx context.Context, db *gorm.DB, idCliente int) ([]model.Pet, error) {
	logger := middleware.GetLogger(ctx)
	var pets []model.Pet

	result := db.WithContext(ctx).
		Where("id_cliente = ? AND ativo = ?", idCliente, true).
		Order("nome").
		Find(&pets)
	if result.Error != nil {
		logger.Error("Error listing pets", "error", result.Error, "id_cliente", idCliente)
		return nil, fmt.Errorf("gormClienteRepository.ListPets: %w", result.Error)
	}
	return pets, nil
}
