package handlers

import (
	"log/slog"
	"net/http"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/webutil"
)

type VendaHandler struct {
	service service.VendaService
	logger  *slog.Logger
}

func NewVendaHandler(s service.VendaService, logger *slog.Logger) *VendaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VendaHandler{service: s, logger: logger}
}

func (h *VendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateVenda"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.VendaCreateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Create(r.Context(), db, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusCreated, resp)
}

func (h *VendaHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetVenda"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	id, err := webutil.URLParamInt(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	venda, err := h.service.Get(r.Context(), db, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, venda)
}

func (h *VendaHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListVendas"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	offset := webutil.QueryInt(r, "offset", 0)
	limit := webutil.QueryInt(r, "limit", 50)

	vendas, err := h.service.List(r.Context(), db, offset, limit)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, vendas)
}
