package tenant

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gorm.io/gorm"

	"petshop_saas_api/internal/model"
)

// EnvDatabasesJSON carrega o mapa code -> DSN por variável de ambiente,
// com prioridade sobre o arquivo.
const EnvDatabasesJSON = "DATABASES_JSON"

// OpenFunc abre um pool para um DSN. Injetável para teste.
type OpenFunc func(dsn string, logger *slog.Logger) (*gorm.DB, error)

// Router mapeia código de empresa para um pool de conexão vivo. Os
// descritores são carregados uma vez na inicialização; os pools são criados
// sob demanda, no máximo uma vez por código, e reutilizados pelo resto da
// vida do processo.
type Router struct {
	mu          sync.RWMutex
	descriptors map[string]string
	pools       map[string]*gorm.DB
	open        OpenFunc
	logger      *slog.Logger
}

// NewRouter carrega o registro de descritores na ordem: DATABASES_JSON,
// arquivo mapFile, fallback {"default": defaultDSN}. Falha de uma fonte
// (JSON malformado, arquivo ilegível) é engolida e cai para a próxima.
func NewRouter(defaultDSN, mapFile string, open OpenFunc, logger *slog.Logger) *Router {
	r := &Router{
		descriptors: loadDescriptors(defaultDSN, mapFile, logger),
		pools:       make(map[string]*gorm.DB),
		open:        open,
		logger:      logger,
	}
	return r
}

func loadDescriptors(defaultDSN, mapFile string, logger *slog.Logger) map[string]string {
	if raw := os.Getenv(EnvDatabasesJSON); raw != "" {
		m := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &m); err == nil && len(m) > 0 {
			logger.Info("Tenant database map loaded from environment", "tenants", len(m))
			return ensureDefault(m, defaultDSN)
		}
		logger.Warn("Ignoring malformed DATABASES_JSON")
	}

	if mapFile != "" {
		if data, err := os.ReadFile(mapFile); err == nil {
			m := map[string]string{}
			if err := json.Unmarshal(data, &m); err == nil && len(m) > 0 {
				logger.Info("Tenant database map loaded from file", "file", mapFile, "tenants", len(m))
				return ensureDefault(m, defaultDSN)
			}
			logger.Warn("Ignoring malformed tenant database map file", "file", mapFile)
		}
	}

	return map[string]string{DefaultEmpresa: defaultDSN}
}

func ensureDefault(m map[string]string, defaultDSN string) map[string]string {
	if _, ok := m[DefaultEmpresa]; !ok {
		m[DefaultEmpresa] = defaultDSN
	}
	return m
}

// Get devolve o pool da empresa, criando-o na primeira chamada. Código
// vazio ou desconhecido cai no descritor default em vez de falhar a
// requisição. Erro de construção do pool propaga como erro de conectividade.
func (r *Router) Get(code string) (*gorm.DB, error) {
	if code == "" {
		code = DefaultEmpresa
	}

	r.mu.RLock()
	dsn, known := r.descriptors[code]
	if !known {
		code = DefaultEmpresa
		dsn = r.descriptors[DefaultEmpresa]
	}
	if pool, ok := r.pools[code]; ok {
		r.mu.RUnlock()
		return pool, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// Outra goroutine pode ter criado o pool enquanto trocávamos de lock.
	if pool, ok := r.pools[code]; ok {
		return pool, nil
	}

	pool, err := r.open(dsn, r.logger)
	if err != nil {
		r.logger.Error("Failed to open tenant database pool", "empresa", code, "error", err)
		return nil, model.NewAppError("DATABASE_UNAVAILABLE",
			fmt.Sprintf("Banco de dados da empresa %q indisponível.", code), "", model.ErrConnectivity)
	}
	r.pools[code] = pool
	r.logger.Info("Tenant database pool created", "empresa", code)
	return pool, nil
}

// Default devolve o pool do banco de controle.
func (r *Router) Default() (*gorm.DB, error) {
	return r.Get(DefaultEmpresa)
}

// RegisterTenant registra o descritor de uma empresa recém-provisionada.
// Vale para chamadas Get subsequentes; não mexe em pool já criado, já que
// uma empresa recém-provisionada não tem pool aquecido sob o descritor
// antigo.
func (r *Router) RegisterTenant(code, dsn string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[code] = dsn
	r.logger.Info("Tenant registered", "empresa", code)
}

// Known informa se o código tem descritor próprio (sem considerar o
// fallback default).
func (r *Router) Known(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[code]
	return ok
}
