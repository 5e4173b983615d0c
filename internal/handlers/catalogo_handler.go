package handlers

import (
	"log/slog"
	"net/http"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/webutil"
)

type CatalogoHandler struct {
	service service.CatalogoService
	logger  *slog.Logger
}

func NewCatalogoHandler(s service.CatalogoService, logger *slog.Logger) *CatalogoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogoHandler{service: s, logger: logger}
}

func (h *CatalogoHandler) ListProdutos(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListProdutos"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	offset := webutil.QueryInt(r, "offset", 0)
	limit := webutil.QueryInt(r, "limit", 50)

	produtos, err := h.service.ListProdutos(r.Context(), db, offset, limit)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, produtos)
}

func (h *CatalogoHandler) ListServicos(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListServicos"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	offset := webutil.QueryInt(r, "offset", 0)
	limit := webutil.QueryInt(r, "limit", 50)

	servicos, err := h.service.ListServicos(r.Context(), db, offset, limit)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, servicos)
}
