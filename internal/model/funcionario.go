package model

import (
	"time"

	"gorm.io/gorm"
)

// Funcionario é o usuário que loga no sistema. Vive no banco do tenant.
type Funcionario struct {
	IDFuncionario int            `gorm:"primaryKey" json:"id_funcionario"`
	Login         string         `gorm:"uniqueIndex;not null" json:"login"`
	Senha         string         `gorm:"not null" json:"-"` // hash bcrypt
	Nome          string         `gorm:"not null" json:"nome"`
	Cargo         string         `gorm:"not null" json:"cargo"`
	Email         *string        `gorm:"index" json:"email"`
	Ativo         bool           `gorm:"default:true" json:"ativo"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Funcionario) TableName() string {
	return "funcionarios"
}

// PasswordResetToken é de uso único, com validade de 1 hora.
type PasswordResetToken struct {
	ID            int        `gorm:"primaryKey" json:"id"`
	IDFuncionario int        `gorm:"not null;index" json:"id_funcionario"`
	Email         string     `gorm:"not null" json:"email"`
	Token         string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt     time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt        *time.Time `json:"used_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
