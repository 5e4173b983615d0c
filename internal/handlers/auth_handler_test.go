package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"petshop_saas_api/internal/config"
	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/tenant"
	"petshop_saas_api/internal/token"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef"

// testStack sobe a fatia de autenticação da API contra bancos sqlite em
// memória, um por código de empresa, atrás do roteador real de tenants.
type testStack struct {
	server *httptest.Server
	dbs    map[string]*gorm.DB
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	t.Setenv(tenant.EnvDatabasesJSON, `{"default": "mem-default", "teste": "mem-teste", "petlove": "mem-petlove"}`)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbs := map[string]*gorm.DB{}

	open := func(dsn string, _ *slog.Logger) (*gorm.DB, error) {
		if db, ok := dbs[dsn]; ok {
			return db, nil
		}
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.AutoMigrate(&model.Funcionario{}, &model.PasswordResetToken{}); err != nil {
			return nil, err
		}
		dbs[dsn] = db
		return db, nil
	}

	codec, err := token.NewCodec(testSecret, "petshop-test", time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.RootEmpresa = "teste"
	cfg.App.RootEmpresaID = 1
	cfg.JWT.AccessTokenTTL = time.Hour

	dbRouter := tenant.NewRouter("mem-default", "", open, logger)
	resolver := tenant.NewResolver(codec)

	authService := service.NewAuthService(codec,
		repository.NewGormFuncionarioRepository(),
		repository.NewGormResetTokenRepository(),
		&service.LogMailer{}, cfg)
	authHandler := NewAuthHandler(authService, logger)

	r := chi.NewRouter()
	r.Use(middleware.NewStructuredLogger(logger))
	r.Group(func(r chi.Router) {
		r.Use(middleware.WithTenantDB(resolver, dbRouter))
		r.Post("/api/v1/auth/login", authHandler.Login)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(codec))
		r.Use(middleware.WithTenantDB(resolver, dbRouter))
		r.Get("/api/v1/auth/me", authHandler.Me)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	// Aquece os pools para poder semear os bancos.
	for _, code := range []string{"default", "teste", "petlove"} {
		_, err := dbRouter.Get(code)
		require.NoError(t, err)
	}
	return &testStack{server: server, dbs: dbs}
}

func (s *testStack) dbFor(t *testing.T, code string) *gorm.DB {
	t.Helper()
	db, ok := s.dbs["mem-"+code]
	require.True(t, ok, "banco do tenant %q não aquecido", code)
	return db
}

func seedFuncionario(t *testing.T, db *gorm.DB, login, senha, cargo string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Funcionario{
		Login: login,
		Senha: string(hash),
		Nome:  "Func " + login,
		Cargo: cargo,
		Ativo: true,
	}).Error)
}

func doLogin(t *testing.T, s *testStack, empresa, login, senha string) *http.Response {
	t.Helper()
	body, err := json.Marshal(model.LoginRequest{Login: login, Senha: senha})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/v1/auth/login", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if empresa != "" {
		req.Header.Set(tenant.HeaderEmpresa, empresa)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAuthAPI_LoginPorEmpresa(t *testing.T) {
	stack := newTestStack(t)

	// O mesmo login existe em duas empresas com senhas diferentes: cada
	// banco é um mundo.
	seedFuncionario(t, stack.dbFor(t, "teste"), "maria", "senha-teste", "admin")
	seedFuncionario(t, stack.dbFor(t, "petlove"), "maria", "senha-petlove", "admin")

	resp := doLogin(t, stack, "teste", "maria", "senha-teste")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp model.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	assert.Equal(t, "bearer", loginResp.TokenType)

	// A senha de uma empresa não abre a outra.
	cross := doLogin(t, stack, "petlove", "maria", "senha-teste")
	defer cross.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, cross.StatusCode)
}

func TestAuthAPI_MeDevolvePrincipalDoToken(t *testing.T) {
	stack := newTestStack(t)
	seedFuncionario(t, stack.dbFor(t, "teste"), "maria", "senha-teste", "admin")

	resp := doLogin(t, stack, "teste", "maria", "senha-teste")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp model.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))

	req, err := http.NewRequest(http.MethodGet, stack.server.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)

	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var principal model.Principal
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&principal))
	assert.Equal(t, "maria", principal.Login)
	assert.Equal(t, "teste", principal.Empresa)
	// Admin da empresa raiz é superadmin.
	assert.True(t, principal.IsSuperadmin)
}

func TestAuthAPI_MeSemToken(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Get(stack.server.URL + "/api/v1/auth/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestAuthAPI_TokenSemIDFuncionario(t *testing.T) {
	stack := newTestStack(t)

	// Assinatura válida, mas sem a claim de id: não passa do Authenticate.
	codec, err := token.NewCodec(testSecret, "petshop-test", time.Hour)
	require.NoError(t, err)
	tok, err := codec.Issue(token.Claims{
		Nome:    "Fantasma",
		Cargo:   "admin",
		Empresa: "teste",
	}, 0)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, stack.server.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthAPI_LoginSemEmpresaCaiNoDefault(t *testing.T) {
	stack := newTestStack(t)
	seedFuncionario(t, stack.dbFor(t, "default"), "zefa", "senha-zefa", "atendente")

	resp := doLogin(t, stack, "", "zefa", "senha-zefa")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
