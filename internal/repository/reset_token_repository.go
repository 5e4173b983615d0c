//go:generate mockery --name ResetTokenRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, db *gorm.DB, token *model.PasswordResetToken) error
	// FindValid devolve o token se ele existir, não tiver sido usado e não
	// tiver expirado.
	FindValid(ctx context.Context, db *gorm.DB, token string) (*model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, db *gorm.DB, id int) error
}

type gormResetTokenRepository struct{}

func NewGormResetTokenRepository() ResetTokenRepository {
	return &gormResetTokenRepository{}
}

func (r *gormResetTokenRepository) Create(ctx context.Context, db *gorm.DB, token *model.PasswordResetToken) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(token)
	if result.Error != nil {
		logger.Error("Error creating password reset token", "error", result.Error)
		return fmt.Errorf("gormResetTokenRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormResetTokenRepository) FindValid(ctx context.Context, db *gorm.DB, token string) (*model.PasswordResetToken, error) {
	logger := middleware.GetLogger(ctx)
	var prt model.PasswordResetToken

	result := db.WithContext(ctx).
		Where("token = ? AND used_at IS NULL AND expires_at > ?", token, time.Now()).
		First(&prt)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding password reset token", "error", result.Error)
		return nil, fmt.Errorf("gormResetTokenRepository.FindValid: %w", result.Error)
	}
	return &prt, nil
}

func (r *gormResetTokenRepository) MarkUsed(ctx context.Context, db *gorm.DB, id int) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used_at", time.Now())
	if result.Error != nil {
		logger.Error("Error marking reset token as used", "error", result.Error, "id", id)
		return fmt.Errorf("gormResetTokenRepository.MarkUsed: %w", result.Error)
	}
	return nil
}
