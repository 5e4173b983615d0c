package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"petshop_saas_api/internal/config"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository/mocks"
	"petshop_saas_api/internal/token"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.RootEmpresa = "teste"
	cfg.App.RootEmpresaID = 1
	cfg.JWT.AccessTokenTTL = time.Hour
	cfg.Frontend.BaseURL = "http://localhost:3000"
	return cfg
}

func newAuthFixture(t *testing.T) (*authService, *mocks.FuncionarioRepository, *mocks.ResetTokenRepository, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec(testSecret, "petshop-test", time.Hour)
	require.NoError(t, err)

	funcRepo := new(mocks.FuncionarioRepository)
	resetRepo := new(mocks.ResetTokenRepository)
	svc := NewAuthService(codec, funcRepo, resetRepo, &LogMailer{}, testConfig()).(*authService)
	return svc, funcRepo, resetRepo, codec
}

func hashSenha(t *testing.T, senha string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name             string
		empresaCode      string
		funcionario      *model.Funcionario
		findErr          error
		senha            string
		wantErr          error
		wantSuperadmin   bool
		wantEmpresaClaim string
	}{
		{
			name:             "admin na empresa raiz vira superadmin",
			empresaCode:      "teste",
			funcionario:      &model.Funcionario{IDFuncionario: 1, Login: "maria", Cargo: "admin"},
			senha:            "senha-correta",
			wantSuperadmin:   true,
			wantEmpresaClaim: "teste",
		},
		{
			name:             "admin de empresa comum não é superadmin",
			empresaCode:      "petlove",
			funcionario:      &model.Funcionario{IDFuncionario: 2, Login: "joao", Cargo: "admin"},
			senha:            "senha-correta",
			wantSuperadmin:   false,
			wantEmpresaClaim: "petlove",
		},
		{
			name:             "cargo comum na empresa raiz não é superadmin",
			empresaCode:      "teste",
			funcionario:      &model.Funcionario{IDFuncionario: 3, Login: "ana", Cargo: "atendente"},
			senha:            "senha-correta",
			wantSuperadmin:   false,
			wantEmpresaClaim: "teste",
		},
		{
			name:        "funcionario inexistente",
			empresaCode: "petlove",
			findErr:     model.ErrNotFound,
			senha:       "qualquer",
			wantErr:     model.ErrUnauthorized,
		},
		{
			name:        "senha errada",
			empresaCode: "petlove",
			funcionario: &model.Funcionario{IDFuncionario: 4, Login: "rita", Cargo: "atendente"},
			senha:       "senha-errada",
			wantErr:     model.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, funcRepo, _, codec := newAuthFixture(t)

			if tt.funcionario != nil {
				tt.funcionario.Senha = hashSenha(t, "senha-correta")
				funcRepo.On("FindByLogin", ctx, mock.Anything, tt.funcionario.Login).
					Return(tt.funcionario, nil).Once()
			} else {
				funcRepo.On("FindByLogin", ctx, mock.Anything, "fantasma").
					Return(nil, tt.findErr).Once()
			}

			login := "fantasma"
			if tt.funcionario != nil {
				login = tt.funcionario.Login
			}
			resp, err := svc.Login(ctx, nil, tt.empresaCode, &model.LoginRequest{
				Login: login,
				Senha: tt.senha,
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "bearer", resp.TokenType)

			claims, err := codec.Decode(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, tt.funcionario.IDFuncionario, claims.IDFuncionario)
			assert.Equal(t, tt.wantEmpresaClaim, claims.EmpresaCodigo())
			assert.Equal(t, tt.wantSuperadmin, claims.IsSuperadmin)
			funcRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ForgotPassword_EmailDesconhecidoNaoVaza(t *testing.T) {
	ctx := context.Background()
	svc, funcRepo, resetRepo, _ := newAuthFixture(t)

	funcRepo.On("FindByEmail", ctx, mock.Anything, "ninguem@petshop.com").
		Return(nil, model.ErrNotFound).Once()

	err := svc.ForgotPassword(ctx, nil, "ninguem@petshop.com")
	assert.NoError(t, err)
	resetRepo.AssertNotCalled(t, "Create")
	funcRepo.AssertExpectations(t)
}

func TestAuthService_ResetPassword_TokenInvalido(t *testing.T) {
	ctx := context.Background()
	svc, funcRepo, resetRepo, _ := newAuthFixture(t)
	db := setupLedgerDB(t) // qualquer banco serve para abrir a transação

	resetRepo.On("FindValid", ctx, mock.Anything, "token-vencido").
		Return(nil, model.ErrNotFound).Once()

	err := svc.ResetPassword(ctx, db, &model.ResetPasswordRequest{
		Token:     "token-vencido",
		NovaSenha: "nova-senha-123",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	funcRepo.AssertNotCalled(t, "UpdateSenha")
	resetRepo.AssertExpectations(t)
}

func TestAuthService_ResetPassword_Sucesso(t *testing.T) {
	ctx := context.Background()
	svc, funcRepo, resetRepo, _ := newAuthFixture(t)
	db := setupLedgerDB(t)

	prt := &model.PasswordResetToken{
		ID:            10,
		IDFuncionario: 7,
		Email:         "maria@petshop.com",
		Token:         "token-valido",
		ExpiresAt:     time.Now().Add(30 * time.Minute),
	}
	resetRepo.On("FindValid", ctx, mock.Anything, "token-valido").
		Return(prt, nil).Once()
	funcRepo.On("UpdateSenha", ctx, mock.Anything, 7, mock.AnythingOfType("string")).
		Return(nil).Once()
	resetRepo.On("MarkUsed", ctx, mock.Anything, 10).
		Return(nil).Once()

	err := svc.ResetPassword(ctx, db, &model.ResetPasswordRequest{
		Token:     "token-valido",
		NovaSenha: "nova-senha-123",
	})
	require.NoError(t, err)
	funcRepo.AssertExpectations(t)
	resetRepo.AssertExpectations(t)
}
