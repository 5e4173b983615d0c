//go:generate mockery --name FuncionarioRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
)

type FuncionarioRepository interface {
	FindByLogin(ctx context.Context, db *gorm.DB, login string) (*model.Funcionario, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Funcionario, error)
	UpdateSenha(ctx context.Context, db *gorm.DB, idFuncionario int, senhaHash string) error
}

type gormFuncionarioRepository struct{}

func NewGormFuncionarioRepository() FuncionarioRepository {
	return &gormFuncionarioRepository{}
}

func (r *gormFuncionarioRepository) FindByLogin(ctx context.Context, db *gorm.DB, login string) (*model.Funcionario, error) {
	logger := middleware.GetLogger(ctx)
	var f model.Funcionario

	result := db.WithContext(ctx).Where("login = ? AND ativo = ?", login, true).First(&f)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding funcionario by login", "error", result.Error, "login", login)
		return nil, fmt.Errorf("gormFuncionarioRepository.FindByLogin: %w", result.Error)
	}
	return &f, nil
}

func (r *gormFuncionarioRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Funcionario, error) {
	logger := middleware.GetLogger(ctx)
	var f model.Funcionario

	result := db.WithContext(ctx).Where("email = ? AND ativo = ?", email, true).First(&f)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding funcionario by email", "error", result.Error)
		return nil, fmt.Errorf("gormFuncionarioRepository.FindByEmail: %w", result.Error)
	}
	return &f, nil
}

func (r *gormFuncionarioRepository) UpdateSenha(ctx context.Context, db *gorm.DB, idFuncionario int, senhaHash string) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Funcionario{}).
		Where("id_funcionario = ?", idFuncionario).
		Update("senha", senhaHash)
	if result.Error != nil {
		logger.Error("Error updating funcionario password", "error", result.Error, "id_funcionario", idFuncionario)
		return fmt.Errorf("gormFuncionarioRepository.UpdateSenha: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
