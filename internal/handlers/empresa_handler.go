package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/webutil"
)

type EmpresaHandler struct {
	service service.EmpresaService
	logger  *slog.Logger
}

func NewEmpresaHandler(s service.EmpresaService, logger *slog.Logger) *EmpresaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmpresaHandler{service: s, logger: logger}
}

// GetMinha devolve o cadastro da empresa do principal, após a checagem de
// acesso (existência e situação ativa).
func (h *EmpresaHandler) GetMinha(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMinhaEmpresa"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	empresa, err := h.service.AuthorizeAccess(r.Context(), principal, principal.EmpresaID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, empresa)
}

func (h *EmpresaHandler) UpdateMinha(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateMinhaEmpresa"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if _, err := h.service.AuthorizeAccess(r.Context(), principal, principal.EmpresaID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.EmpresaUpdateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	// Só superadmin muda a situação ativa da empresa.
	if req.Ativo != nil && !principal.IsSuperadmin {
		webutil.HandleError(w, logger, model.NewAppError("ACCESS_DENIED",
			"Apenas superadmin pode alterar a situação da empresa.", "ativo", model.ErrForbidden))
		return
	}

	empresa, err := h.service.Update(r.Context(), principal.EmpresaID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, empresa)
}

// Dashboard devolve o cadastro da empresa com as contagens operacionais do
// banco do tenant.
func (h *EmpresaHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DashboardEmpresa"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), db, principal)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, dashboard)
}

func (h *EmpresaHandler) ListConfiguracoes(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListConfiguracoes"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	configs, err := h.service.ListConfiguracoes(r.Context(), db, principal)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, configs)
}

func (h *EmpresaHandler) GetConfiguracao(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetConfiguracao"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	chave := chi.URLParam(r, "chave")

	valor, err := h.service.GetConfiguracao(r.Context(), db, principal, chave)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, valor)
}

// PutConfiguracao cria ou sobrescreve a chave: a escrita é um upsert.
func (h *EmpresaHandler) PutConfiguracao(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutConfiguracao"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	chave := chi.URLParam(r, "chave")

	var req model.ConfiguracaoUpdateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.PutConfiguracao(r.Context(), db, principal, chave, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, map[string]string{
		"message": "Configuração atualizada com sucesso.",
	})
}

func (h *EmpresaHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListEmpresas"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	empresas, err := h.service.List(r.Context(), principal)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, empresas)
}

func (h *EmpresaHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateEmpresa"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.EmpresaCreateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	empresa, err := h.service.Create(r.Context(), principal, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusCreated, empresa)
}

// Provisionar registra o banco dedicado da empresa e a ativa.
func (h *EmpresaHandler) Provisionar(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ProvisionarEmpresa"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	id, err := webutil.URLParamInt(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.ProvisionRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.Provisionar(r.Context(), principal, id, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, map[string]string{
		"message": "Empresa provisionada e ativada com sucesso.",
	})
}
