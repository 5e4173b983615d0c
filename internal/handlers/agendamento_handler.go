package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/webutil"
)

type AgendamentoHandler struct {
	service service.AgendamentoService
	logger  *slog.Logger
}

func NewAgendamentoHandler(s service.AgendamentoService, logger *slog.Logger) *AgendamentoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgendamentoHandler{service: s, logger: logger}
}

func (h *AgendamentoHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateAgendamento"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.AgendamentoCreateRequest
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

func (h *AgendamentoHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListAgendamentos"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	filter := repository.AgendamentoFilter{
		Status: r.URL.Query().Get("status"),
		Offset: webutil.QueryInt(r, "offset", 0),
		Limit:  webutil.QueryInt(r, "limit", 50),
	}
	if raw := r.URL.Query().Get("data"); raw != "" {
		data, err := time.Parse("2006-01-02", raw)
		if err != nil {
			webutil.HandleError(w, logger, model.NewAppError("INVALID_PARAM",
				"Parâmetro data deve estar no formato YYYY-MM-DD.", "data", model.ErrInvalidInput))
			return
		}
		filter.Data = &data
	}

	agendamentos, err := h.service.List(r.Context(), db, filter)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, agendamentos)
}

func (h *AgendamentoHandler) ListHoje(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListAgendamentosHoje"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	agendamentos, err := h.service.ListHoje(r.Context(), db)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, agendamentos)
}

func (h *AgendamentoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateAgendamentoStatus"))

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

	var req model.AgendamentoStatusRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), db, id, req.Status); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, map[string]string{
		"message": "Status atualizado com sucesso.",
	})
}

// Calendario devolve a contagem de agendamentos por dia de um mês.
func (h *AgendamentoHandler) Calendario(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CalendarioAgendamentos"))

	db, err := middleware.GetDB(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	now := time.Now()
	ano := webutil.QueryInt(r, "ano", now.Year())
	mes := webutil.QueryInt(r, "mes", int(now.Month()))

	dias, err := h.service.Calendario(r.Context(), db, ano, mes)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, logger, http.StatusOK, dias)
}
