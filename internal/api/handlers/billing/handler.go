package billing

import (
	"context"
	"net/http"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/service/billing/models"
)

const msgInvalidRequestBody = "cuerpo de la solicitud inválido"

type Handler struct {
	service  BillingService
	location *time.Location
	logger   Logger
}

func NewHandler(service BillingService, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Groups GET /api/v1/billing/groups?from=2025-06-01&to=2025-06-30&status=completed
// to включительно
func (h *Handler) Groups(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	from, err := handlers.QueryDate(r, "from", h.location)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /billing/groups", err)
		return
	}
	to, err := handlers.QueryDate(r, "to", h.location)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /billing/groups", err)
		return
	}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		to = &next
	}

	resp, err := h.service.Groups(r.Context(), session, &models.GroupsRequest{
		From:   from,
		To:     to,
		Status: handlers.QueryString(r, "status"),
	})
	if err != nil {
		handlers.Fail(w, h.logger, "GET /billing/groups", err)
		return
	}

	h.logger.Info("GET /billing/groups - Listed %d groups: user=%s", resp.Total, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Bill POST /api/v1/billing/bill
func (h *Handler) Bill(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "POST /billing/bill", h.service.Bill)
}

// Revert POST /api/v1/billing/revert
func (h *Handler) Revert(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "POST /billing/revert", h.service.Revert)
}

type bulkAction func(ctx context.Context, session auth.Session, req *models.BulkRequest) (*models.BulkResponse, error)

func (h *Handler) bulk(w http.ResponseWriter, r *http.Request, route string, action bulkAction) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req models.BulkRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := action(r.Context(), session, &req)
	if err != nil {
		handlers.Fail(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - %d updated, %d skipped: user=%s", route, len(resp.Updated), len(resp.Skipped), session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
