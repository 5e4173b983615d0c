package handlers

import (
	"log/slog"
	"net/http"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/webutil"
)

type ClienteHandler struct {
	service service.ClienteService
	logger  *slog.Logger
}

func NewClienteHandler(s service.ClienteService, logger *slog.Logger) *ClienteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClienteHandler{service: s, logger: logger}
}

func (h *ClienteHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListClientes"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	offset := webutil.QueryInt(r, "offset", 0)
	limit := webutil.QueryInt(r, "limit", 50)

	clientes, err := h.service.List(r.Context(), db, offset, limit)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, clientes)
}

func (h *ClienteHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCliente"))

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

	cliente, err := h.service.Get(r.Context(), db, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, cliente)
}

func (h *ClienteHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateCliente"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.ClienteCreateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	cliente, err := h.service.Create(r.Context(), db, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusCreated, cliente)
}

func (h *ClienteHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateCliente"))

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

	var req model.ClienteUpdateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	cliente, err := h.service.Update(r.Context(), db, id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, cliente)
}

func (h *ClienteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteCliente"))

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

	if err := h.service.Delete(r.Context(), db, id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClienteHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListPets"))

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

	pets, err := h.service.ListPets(r.Context(), db, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, pets)
}
