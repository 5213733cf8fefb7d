package settings

import (
	"net/http"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/service/settings/models"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Get GET /api/v1/settings и GET /api/v1/public/settings
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Get(r.Context())
	if err != nil {
		handlers.Fail(w, h.logger, "GET /settings", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Update PUT /api/v1/settings
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, "cuerpo de la solicitud inválido")
		return
	}

	resp, err := h.service.Update(r.Context(), session, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "PUT /settings", err)
		return
	}

	h.logger.Info("PUT /settings - Settings updated: closingHours=%d, user=%s", resp.BookingClosingHours, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
