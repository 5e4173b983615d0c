package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
	"petshop_saas_api/internal/tenant"
)

type EmpresaService interface {
	// AuthorizeAccess decide se o principal pode operar sobre a empresa.
	// Superadmin passa sempre; os demais só acessam a própria empresa, e
	// ela precisa existir e estar ativa.
	AuthorizeAccess(ctx context.Context, principal *model.Principal, empresaID int) (*model.Empresa, error)
	GetByID(ctx context.Context, id int) (*model.Empresa, error)
	Update(ctx context.Context, id int, req *model.EmpresaUpdateRequest) (*model.Empresa, error)
	List(ctx context.Context, principal *model.Principal) ([]model.Empresa, error)
	Create(ctx context.Context, principal *model.Principal, req *model.EmpresaCreateRequest) (*model.Empresa, error)
	// Provisionar registra o banco dedicado da empresa no roteador de
	// conexões, migra o schema do tenant e ativa a empresa.
	Provisionar(ctx context.Context, principal *model.Principal, id int, req *model.ProvisionRequest) error
	// Dashboard junta o cadastro do plano de controle com as contagens do
	// banco do tenant (tenantDB é o banco da empresa do principal).
	Dashboard(ctx context.Context, tenantDB *gorm.DB, principal *model.Principal) (*model.EmpresaDashboard, error)
	ListConfiguracoes(ctx context.Context, tenantDB *gorm.DB, principal *model.Principal) ([]model.EmpresaConfiguracao, error)
	GetConfiguracao(ctx context.Context, tenantDB *gorm.DB, principal *model.Principal, chave string) (*model.ConfiguracaoValor, error)
	PutConfiguracao(ctx context.Context, tenantDB *gorm.DB, principal *model.Principal, chave string, req *model.ConfiguracaoUpdateRequest) error
}

type empresaService struct {
	empresaRepo repository.EmpresaRepository
	configRepo  repository.EmpresaConfigRepository
	router      *tenant.Router
}

func NewEmpresaService(empresaRepo repository.EmpresaRepository, configRepo repository.EmpresaConfigRepository, router *tenant.Router) EmpresaService {
	return &empresaService{empresaRepo: empresaRepo, configRepo: configRepo, router: router}
}

// controlDB devolve o banco do plano de controle, onde vivem as empresas.
func (s *empresaService) controlDB(ctx context.Context) (*gorm.DB, error) {
	db, err := s.router.Default()
	if err != nil {
		middleware.GetLogger(ctx).Error("Control-plane database unavailable", "error", err)
		return nil, err
	}
	return db, nil
}

func (s *empresaService) AuthorizeAccess(ctx context.Context, principal *model.Principal, empresaID int) (*model.Empresa, error) {
	logger := middleware.GetLogger(ctx)

	if !principal.IsSuperadmin && principal.EmpresaID != empresaID {
		logger.Warn("Cross-tenant access denied",
			"principal_empresa", principal.EmpresaID, "target_empresa", empresaID)
		return nil, model.NewAppError("ACCESS_DENIED",
			"Acesso negado a esta empresa.", "", model.ErrForbidden)
	}

	db, err := s.controlDB(ctx)
	if err != nil {
		return nil, err
	}
	empresa, err := s.empresaRepo.FindByID(ctx, db, empresaID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("EMPRESA_NOT_FOUND",
				"Empresa não encontrada.", "", model.ErrNotFound)
		}
		return nil, err
	}

	// Empresa existe mas foi desativada: 403, não 404. O chamador sabe que
	// o cadastro existe, só não pode usá-lo.
	if !empresa.Ativo && !principal.IsSuperadmin {
		logger.Warn("Access denied to inactive empresa", "empresa_id", empresaID)
		return nil, model.NewAppError("EMPRESA_INATIVA",
			"Empresa está inativa.", "", model.ErrForbidden)
	}
	return empresa, nil
}

func (s *empresaService) GetByID(ctx context.Context, id int) (*model.Empresa, error) {
	db, err := s.controlDB(ctx)
	if err != nil {
		return nil, err
	}
	empresa, err := s.empresaRepo.FindByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("EMPRESA_NOT_FOUND",
				"Empresa não encontrada.", "", model.ErrNotFound)
		}
		return nil, err
	}
	return empresa, nil
}

func (s *empresaService) Update(ctx context.Context, id int, req *model.EmpresaUpdateRequest) (*model.Empresa, error) {
	db, err := s.controlDB(ctx)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Nome != nil {
		fields["nome"] = *req.Nome
	}
	if req.NomeFantasia != nil {
		fields["nome_fantasia"] = *req.NomeFantasia
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Telefone != nil {
		fields["telefone"] = *req.Telefone
	}
	if req.Plano != nil {
		fields["plano"] = *req.Plano
	}
	if req.Ativo != nil {
		fields["ativo"] = *req.Ativo
	}
	if len(fields) > 0 {
		if err := s.empresaRepo.UpdateFields(ctx, db, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

func (s *empresaService) List(ctx context.Context, principal *model.Principal) ([]model.Empresa, error) {
	if !principal.IsSuperadmin {
		return nil, model.NewAppError("ACCESS_DENIED",
			"Apenas superadmin pode listar empresas.", "", model.ErrForbidden)
	}
	db, err := s.controlDB(ctx)
	if err != nil {
		return nil, err
	}
	return s.empresaRepo.List(ctx, db)
}

func (s *empresaService) Create(ctx context.Context, principal *model.Principal, req *model.EmpresaCreateRequest) (*model.Empresa, error) {
	logger := middleware.GetLogger(ctx)

	if !principal.IsSuperadmin {
		return nil, model.NewAppError("ACCESS_DENIED",
			"Apenas superadmin pode cadastrar empresas.", "", model.ErrForbidden)
	}
	db, err := s.controlDB(ctx)
	if err != nil {
		return nil, err
	}

	plano := req.Plano
	if plano == "" {
		plano = "basic"
	}
	empresa := &model.Empresa{
		Codigo:       req.Codigo,
		Nome:         req.Nome,
		NomeFantasia: req.NomeFantasia,
		CNPJ:         req.CNPJ,
		Email:        req.Email,
		Telefone:     req.Telefone,
		Plano:        plano,
		Ativo:        false, // ativa só após o provisionamento do banco
	}
	if err := s.empresaRepo.Create(ctx, db, empresa); err != nil {
		return nil, err
	}

	logger.Info("Empresa created", "empresa_id", empresa.ID, "codigo", empresa.Codigo)
	return empresa, nil
}

func (s *empresaService) Dashboard(ctx context.Context, tenantDB *gorm.DB, principal *model.Principal) (*model.EmpresaDashboard, error) {
	empresa, err := s.AuthorizeAccess(ctx, principal, principal.EmpresaID)
	if err != nil {
		return nil, err
	}
	stats, err := s.empresaRepo.DashboardStats(ctx, tenantDB)
	if err != nil {
		return nil, err
	}
	return &model.EmpresaDashboard{
		ID:                    empresa.ID,
		Nome:                  empresa.Nome,
		Plano:                 empresa.Plano,
		Ativo:                 empresa.Ativo,
		EmpresaDashboardStats: *stats,
	}, nil
}

func (s *empresaService) ListConfiguracoes(ctx context.Context, tenantDB *gorm.DB, principal *model.Principal) ([]model.EmpresaConfiguracao, error) {
	if _, err := s.AuthorizeAccess(ctx, principal, principal.EmpresaID); err != nil {
		return nil, err
	}
	return s.configRepo.List(ctx, tenantDB, principal.EmpresaID)
}

func (s *empresaService) GetConfiguracao(ctx context.Context, tenantDB *gorm.DB, principal *model.Principal, chave string) (*model.ConfiguracaoValor, error) {
	if _, err := s.AuthorizeAccess(ctx, principal, principal.EmpresaID); err != nil {
		return nil, err
	}
	config, err := s.configRepo.Find(ctx, tenantDB, principal.EmpresaID, chave)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CONFIG_NOT_FOUND",
				"Configuração não encontrada.", "chave", model.ErrNotFound)
		}
		return nil, err
	}
	return &model.ConfiguracaoValor{
		Chave: config.Chave,
		Valor: converterValorConfig(config.Valor, config.Tipo),
		Tipo:  config.Tipo,
	}, nil
}

// converterValorConfig materializa o valor textual conforme o tipo
// declarado. Valor que não parseia volta como texto cru, nunca erro: a
// leitura de configuração não pode derrubar a requisição.
func converterValorConfig(valor, tipo string) interface{} {
	switch tipo {
	case "boolean":
		switch strings.ToLower(valor) {
		case "true", "1", "yes":
			return true
		default:
			return false
		}
	case "number":
		if strings.Contains(valor, ".") {
			if f, err := strconv.ParseFloat(valor, 64); err == nil {
				return f
			}
		} else if n, err := strconv.Atoi(valor); err == nil {
			return n
		}
		return valor
	case "json":
		var decoded interface{}
		if err := json.Unmarshal([]byte(valor), &decoded); err == nil {
			return decoded
		}
		return valor
	default:
		return valor
	}
}

func (s *empresaService) PutConfiguracao(ctx context.Context, tenantDB *gorm.DB, principal *model.Principal, chave string, req *model.ConfiguracaoUpdateRequest) error {
	logger := middleware.GetLogger(ctx)

	if _, err := s.AuthorizeAccess(ctx, principal, principal.EmpresaID); err != nil {
		return err
	}

	tipo := req.Tipo
	if tipo == "" {
		tipo = "string"
	}
	config := &model.EmpresaConfiguracao{
		EmpresaID: principal.EmpresaID,
		Chave:     chave,
		Valor:     req.Valor,
		Tipo:      tipo,
		Descricao: req.Descricao,
	}
	if err := s.configRepo.Upsert(ctx, tenantDB, config); err != nil {
		return err
	}

	logger.Info("Configuracao updated", "empresa_id", principal.EmpresaID, "chave", chave)
	return nil
}

// tenantModels é o schema operacional migrado em cada banco de empresa.
func tenantModels() []interface{} {
	return []interface{}{
		&model.Funcionario{},
		&model.PasswordResetToken{},
		&model.Cliente{},
		&model.Pet{},
		&model.Produto{},
		&model.Estoque{},
		&model.Servico{},
		&model.Pacote{},
		&model.PacoteServico{},
		&model.ClientePacote{},
		&model.ClientePacoteUso{},
		&model.Agendamento{},
		&model.Venda{},
		&model.ItemVenda{},
		&model.EmpresaConfiguracao{},
	}
}

func (s *empresaService) Provisionar(ctx context.Context, principal *model.Principal, id int, req *model.ProvisionRequest) error {
	logger := middleware.GetLogger(ctx)

	if !principal.IsSuperadmin {
		return model.NewAppError("ACCESS_DENIED",
			"Apenas superadmin pode provisionar empresas.", "", model.ErrForbidden)
	}

	empresa, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.router.RegisterTenant(empresa.Codigo, req.DSN)
	tenantDB, err := s.router.Get(empresa.Codigo)
	if err != nil {
		logger.Error("Failed to open tenant database during provisioning",
			"codigo", empresa.Codigo, "error", err)
		return err
	}
	if err := tenantDB.WithContext(ctx).AutoMigrate(tenantModels()...); err != nil {
		logger.Error("Tenant schema migration failed", "codigo", empresa.Codigo, "error", err)
		return model.NewAppError("PROVISION_FAILED",
			"Falha ao migrar o schema da empresa.", "", err)
	}

	db, err := s.controlDB(ctx)
	if err != nil {
		return err
	}
	if err := s.empresaRepo.UpdateFields(ctx, db, id, map[string]interface{}{"ativo": true}); err != nil {
		return err
	}

	logger.Info("Empresa provisioned", "empresa_id", id, "codigo", empresa.Codigo)
	return nil
}
