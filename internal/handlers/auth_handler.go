package handlers

import (
	"log/slog"
	"net/http"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/webutil"
)

type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{service: s, logger: logger}
}

// Login autentica contra o banco da empresa resolvida pelo middleware.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Login"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	empresaCode := middleware.GetEmpresaCode(r.Context())

	var req model.LoginRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid login request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Login(r.Context(), db, empresaCode, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, resp)
}

// Me devolve a identidade embutida no token, sem tocar no banco.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Me"))

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, principal)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ForgotPassword"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.ForgotPasswordRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), db, req.Email); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	// Resposta idêntica exista o e-mail ou não.
	webutil.RespondWithJSON(w, logger, http.StatusOK, map[string]string{
		"message": "Se o e-mail estiver cadastrado, você receberá as instruções de reset.",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ResetPassword"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.ResetPasswordRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), db, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, map[string]string{
		"message": "Senha redefinida com sucesso.",
	})
}
