package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"petshop_saas_api/internal/config"
	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
	"petshop_saas_api/internal/token"
)

type AuthService interface {
	// Login autentica o funcionário no banco da empresa resolvida e emite o
	// token de sessão com o código da empresa embutido.
	Login(ctx context.Context, db *gorm.DB, empresaCode string, req *model.LoginRequest) (*model.LoginResponse, error)
	ForgotPassword(ctx context.Context, db *gorm.DB, email string) error
	ResetPassword(ctx context.Context, db *gorm.DB, req *model.ResetPasswordRequest) error
}

type authService struct {
	codec           *token.Codec
	funcionarioRepo repository.FuncionarioRepository
	resetTokenRepo  repository.ResetTokenRepository
	mailer          Mailer
	cfg             *config.Config
}

func NewAuthService(codec *token.Codec, funcionarioRepo repository.FuncionarioRepository, resetTokenRepo repository.ResetTokenRepository, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{
		codec:           codec,
		funcionarioRepo: funcionarioRepo,
		resetTokenRepo:  resetTokenRepo,
		mailer:          mailer,
		cfg:             cfg,
	}
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, empresaCode string, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx).With("login", req.Login, "empresa", empresaCode)

	funcionario, err := s.funcionarioRepo.FindByLogin(ctx, db, req.Login)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: funcionario not found")
			return nil, model.NewAppError("AUTHENTICATION_FAILED",
				"Login ou senha incorretos, ou empresa inativa.", "", model.ErrUnauthorized)
		}
		logger.Error("Login failed: db error", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Erro interno do servidor.", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(funcionario.Senha), []byte(req.Senha)); err != nil {
		logger.Warn("Login failed: password mismatch", "id_funcionario", funcionario.IDFuncionario)
		return nil, model.NewAppError("AUTHENTICATION_FAILED",
			"Login ou senha incorretos.", "", model.ErrUnauthorized)
	}

	// is_superadmin é decidido aqui, uma única vez: cargo admin dentro da
	// empresa raiz. Um admin de empresa comum não é superadmin.
	isSuperadmin := funcionario.Cargo == "admin" && empresaCode == s.cfg.App.RootEmpresa

	empresaID := 0
	if empresaCode == s.cfg.App.RootEmpresa {
		empresaID = s.cfg.App.RootEmpresaID
	}

	claims := token.Claims{
		IDFuncionario: funcionario.IDFuncionario,
		Nome:          funcionario.Nome,
		Cargo:         funcionario.Cargo,
		Empresa:       empresaCode,
		EmpresaID:     empresaID,
		IsSuperadmin:  isSuperadmin,
	}
	claims.Subject = funcionario.Login

	signed, err := s.codec.Issue(claims, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Error("Failed to sign session token", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Erro ao gerar token.", "", err)
	}

	logger.Info("Login successful", "id_funcionario", funcionario.IDFuncionario)
	return &model.LoginResponse{AccessToken: signed, TokenType: "bearer"}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, db *gorm.DB, email string) error {
	logger := middleware.GetLogger(ctx)

	funcionario, err := s.funcionarioRepo.FindByEmail(ctx, db, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Não revela se o email existe; a resposta ao cliente é a mesma.
			logger.Info("Password reset requested for unknown email")
			return nil
		}
		logger.Error("Failed to look up email for reset", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Erro interno do servidor.", "", err)
	}

	// uuid.NewString usa crypto/rand por baixo; dois concatenados dão um
	// token opaco não adivinhável.
	tokenString := uuid.NewString() + uuid.NewString()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prt := &model.PasswordResetToken{
			IDFuncionario: funcionario.IDFuncionario,
			Email:         email,
			Token:         tokenString,
			ExpiresAt:     time.Now().Add(1 * time.Hour),
		}
		if err := s.resetTokenRepo.Create(ctx, tx, prt); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Erro interno do servidor.", "", err)
		}

		resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.Frontend.BaseURL, tokenString)
		body := fmt.Sprintf(
			"Você solicitou um reset de senha.\n\nAcesse o link abaixo para redefinir sua senha:\n%s\n\nEste link é válido por 1 hora. Se você não solicitou, ignore este e-mail.",
			resetLink)
		if err := s.mailer.Send(ctx, email, "Reset de Senha - Petshop", body); err != nil {
			logger.Error("Failed to send reset email", "error", err)
			return model.NewAppError("EMAIL_SEND_FAILED",
				"Falha ao enviar e-mail. Tente novamente mais tarde.", "", err)
		}
		return nil
	})
}

func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, req *model.ResetPasswordRequest) error {
	logger := middleware.GetLogger(ctx)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prt, err := s.resetTokenRepo.FindValid(ctx, tx, req.Token)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Reset attempted with invalid or expired token")
				return model.NewAppError("INVALID_TOKEN",
					"Token inválido, expirado ou já utilizado.", "token", model.ErrInvalidInput)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Erro interno do servidor.", "", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NovaSenha), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash new password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Erro ao processar senha.", "", err)
		}

		if err := s.funcionarioRepo.UpdateSenha(ctx, tx, prt.IDFuncionario, string(hash)); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Erro ao atualizar senha.", "", err)
		}
		if err := s.resetTokenRepo.MarkUsed(ctx, tx, prt.ID); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Erro interno do servidor.", "", err)
		}

		logger.Info("Password reset completed", "id_funcionario", prt.IDFuncionario)
		return nil
	})
}
