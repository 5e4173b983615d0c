//go:generate mockery --name EmpresaConfigRepository --output ./mocks --outpkg mocks --case=underscore
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

// EmpresaConfigRepository opera sobre empresa_configuracoes no banco do
// tenant. O filtro por empresa_id protege as empresas que compartilham o
// banco default.
type EmpresaConfigRepository interface {
	List(ctx context.Context, db *gorm.DB, empresaID int) ([]model.EmpresaConfiguracao, error)
	Find(ctx context.Context, db *gorm.DB, empresaID int, chave string) (*model.EmpresaConfiguracao, error)
	Upsert(ctx context.Context, db *gorm.DB, config *model.EmpresaConfiguracao) error
}

type gormEmpresaConfigRepository struct{}

func NewGormEmpresaConfigRepository() EmpresaConfigRepository {
	return &gormEmpresaConfigRepository{}
}

func (r *gormEmpresaConfigRepository) List(ctx context.Context, db *gorm.DB, empresaID int) ([]model.EmpresaConfiguracao, error) {
	logger := middleware.GetLogger(ctx)
	var configs []model.EmpresaConfiguracao

	result := db.WithContext(ctx).
		Where("empresa_id = ?", empresaID).
		Order("chave").
		Find(&configs)
	if result.Error != nil {
		logger.Error("Error listing empresa configuracoes", "error", result.Error, "empresa_id", empresaID)
		return nil, fmt.Errorf("gormEmpresaConfigRepository.List: %w", result.Error)
	}
	return configs, nil
}

func (r *gormEmpresaConfigRepository) Find(ctx context.Context, db *gorm.DB, empresaID int, chave string) (*model.EmpresaConfiguracao, error) {
	logger := middleware.GetLogger(ctx)
	var config model.EmpresaConfiguracao

	result := db.WithContext(ctx).
		Where("empresa_id = ? AND chave = ?", empresaID, chave).
		First(&config)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding configuracao", "error", result.Error, "chave", chave)
		return nil, fmt.Errorf("gormEmpresaConfigRepository.Find: %w", result.Error)
	}
	return &config, nil
}

func (r *gormEmpresaConfigRepository) Upsert(ctx context.Context, db *gorm.DB, config *model.EmpresaConfiguracao) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "empresa_id"}, {Name: "chave"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor", "tipo", "descricao"}),
	}).Create(config)
	if result.Error != nil {
		logger.Error("Error upserting configuracao", "error", result.Error, "chave", config.Chave)
		return fmt.Errorf("gormEmpresaConfigRepository.Upsert: %w", result.Error)
	}
	return nil
}
