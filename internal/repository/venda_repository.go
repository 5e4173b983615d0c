//go:generate mockery --name VendaRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
)

type VendaRepository interface {
	Create(ctx context.Context, db *gorm.DB, venda *model.Venda) error
	CreateItem(ctx context.Context, db *gorm.DB, item *model.ItemVenda) error
	FindByIDComItens(ctx context.Context, db *gorm.DB, id int) (*model.Venda, error)
	List(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Venda, error)
}

type gormVendaRepository struct{}

func NewGormVendaRepository() VendaRepository {
	return &gormVendaRepository{}
}

func (r *gormVendaRepository) Create(ctx context.Context, db *gorm.DB, venda *model.Venda) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Omit("Itens").Create(venda)
	if result.Error != nil {
		logger.Error("Error creating venda", "error", result.Error)
		return fmt.Errorf("gormVendaRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormVendaRepository) CreateItem(ctx context.Context, db *gorm.DB, item *model.ItemVenda) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(item)
	if result.Error != nil {
		logger.Error("Error creating item de venda", "error", result.Error, "id_venda", item.IDVenda)
		return fmt.Errorf("gormVendaRepository.CreateItem: %w", result.Error)
	}
	return nil
}

func (r *gormVendaRepository) FindByIDComItens(ctx context.Context, db *gorm.DB, id int) (*model.Venda, error) {
	logger := middleware.GetLogger(ctx)
	var venda model.Venda

	result := db.WithContext(ctx).Preload("Itens").First(&venda, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding venda", "error", result.Error, "id_venda", id)
		return nil, fmt.Errorf("gormVendaRepository.FindByIDComItens: %w", result.Error)
	}
	return &venda, nil
}

func (r *gormVendaRepository) List(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Venda, error) {
	logger := middleware.GetLogger(ctx)
	var vendas []model.Venda

	result := db.WithContext(ctx).
		Order("data_hora_venda DESC").
		Offset(offset).Limit(limit).
		Find(&vendas)
	if result.Error != nil {
		logger.Error("Error listing vendas", "error", result.Error)
		return nil, fmt.Errorf("gormVendaRepository.List: %w", result.Error)
	}
	return vendas, nil
}
