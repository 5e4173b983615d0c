package handlers

import (
	"log/slog"
	"net/http"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/webutil"
)

type PacoteHandler struct {
	service service.PacoteService
	logger  *slog.Logger
}

func NewPacoteHandler(s service.PacoteService, logger *slog.Logger) *PacoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PacoteHandler{service: s, logger: logger}
}

func (h *PacoteHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListPacotes"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var ativo *bool
	switch r.URL.Query().Get("ativo") {
	case "true":
		v := true
		ativo = &v
	case "false":
		v := false
		ativo = &v
	}
	tipo := r.URL.Query().Get("tipo")

	pacotes, err := h.service.List(r.Context(), db, ativo, tipo)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, pacotes)
}

func (h *PacoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetPacote"))

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

	pacote, err := h.service.Get(r.Context(), db, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, pacote)
}

func (h *PacoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreatePacote"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.PacoteCreateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	pacote, err := h.service.Create(r.Context(), db, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusCreated, pacote)
}

func (h *PacoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdatePacote"))

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

	var req model.PacoteUpdateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	pacote, err := h.service.Update(r.Context(), db, id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, pacote)
}

func (h *PacoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeletePacote"))

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

// Vender registra a compra de um pacote por um cliente.
func (h *PacoteHandler) Vender(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "VenderPacote"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.VenderPacoteRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	cp, err := h.service.Vender(r.Context(), db, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusCreated, cp)
}

// ListUsos lista o histórico de consumos de um pacote vendido.
func (h *PacoteHandler) ListUsos(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListUsosPacote"))

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

	usos, err := h.service.ListUsos(r.Context(), db, id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, usos)
}
