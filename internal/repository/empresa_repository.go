//go:generate mockery --name EmpresaRepository --output ./mocks --outpkg mocks --case=underscore
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

type EmpresaRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id int) (*model.Empresa, error)
	FindByCodigo(ctx context.Context, db *gorm.DB, codigo string) (*model.Empresa, error)
	Create(ctx context.Context, db *gorm.DB, empresa *model.Empresa) error
	UpdateFields(ctx context.Context, db *gorm.DB, id int, fields map[string]interface{}) error
	List(ctx context.Context, db *gorm.DB) ([]model.Empresa, error)
	// DashboardStats conta funcionarios, clientes, pets e vendas no banco
	// do TENANT, não no plano de controle.
	DashboardStats(ctx context.Context, db *gorm.DB) (*model.EmpresaDashboardStats, error)
}

type gormEmpresaRepository struct{}

func NewGormEmpresaRepository() EmpresaRepository {
	return &gormEmpresaRepository{}
}

func (r *gormEmpresaRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*model.Empresa, error) {
	logger := middleware.GetLogger(ctx)
	var empresa model.Empresa

	result := db.WithContext(ctx).First(&empresa, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding empresa by id", "error", result.Error, "id", id)
		return nil, fmt.Errorf("gormEmpresaRepository.FindByID: %w", result.Error)
	}
	return &empresa, nil
}

func (r *gormEmpresaRepository) FindByCodigo(ctx context.Context, db *gorm.DB, codigo string) (*model.Empresa, error) {
	logger := middleware.GetLogger(ctx)
	var empresa model.Empresa

	result := db.WithContext(ctx).Where("codigo = ?", codigo).First(&empresa)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding empresa by codigo", "error", result.Error, "codigo", codigo)
		return nil, fmt.Errorf("gormEmpresaRepository.FindByCodigo: %w", result.Error)
	}
	return &empresa, nil
}

func (r *gormEmpresaRepository) Create(ctx context.Context, db *gorm.DB, empresa *model.Empresa) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(empresa)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Duplicate key on create empresa", "codigo", empresa.Codigo)
			return model.ErrConflict
		}
		logger.Error("Error creating empresa", "error", result.Error, "codigo", empresa.Codigo)
		return fmt.Errorf("gormEmpresaRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormEmpresaRepository) UpdateFields(ctx context.Context, db *gorm.DB, id int, fields map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Empresa{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Error updating empresa", "error", result.Error, "id", id)
		return fmt.Errorf("gormEmpresaRepository.UpdateFields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormEmpresaRepository) DashboardStats(ctx context.Context, db *gorm.DB) (*model.EmpresaDashboardStats, error) {
	logger := middleware.GetLogger(ctx)
	stats := &model.EmpresaDashboardStats{}

	counts := []struct {
		modelo interface{}
		dest   *int64
	}{
		{&model.Funcionario{}, &stats.TotalFuncionarios},
		{&model.Cliente{}, &stats.TotalClientes},
		{&model.Pet{}, &stats.TotalPets},
		{&model.Venda{}, &stats.TotalVendas},
	}
	for _, c := range counts {
		if err := db.WithContext(ctx).Model(c.modelo).Count(c.dest).Error; err != nil {
			logger.Error("Error counting dashboard stats", "error", err)
			return nil, fmt.Errorf("gormEmpresaRepository.DashboardStats: %w", err)
		}
	}

	if err := db.WithContext(ctx).Model(&model.Venda{}).
		Select("COALESCE(SUM(valor_final), 0)").
		Scan(&stats.ReceitaTotal).Error; err != nil {
		logger.Error("Error summing receita", "error", err)
		return nil, fmt.Errorf("gormEmpresaRepository.DashboardStats: %w", err)
	}
	return stats, nil
}

func (r *gormEmpresaRepository) List(ctx context.Context, db *gorm.DB) ([]model.Empresa, error) {
	logger := middleware.GetLogger(ctx)
	var empresas []model.Empresa

	result := db.WithContext(ctx).Order("nome").Find(&empresas)
	if result.Error != nil {
		logger.Error("Error listing empresas", "error", result.Error)
		return nil, fmt.Errorf("gormEmpresaRepository.List: %w", result.Error)
	}
	return empresas, nil
}
