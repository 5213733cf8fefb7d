package clients

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/clients/models"
)

const msgInvalidRequestBody = "cuerpo de la solicitud inválido"

type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/clients?search=ana&includeInactive=true&limit=50&offset=0
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	req, err := listRequest(r)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /clients", err)
		return
	}

	resp, err := h.service.List(r.Context(), session, req)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /clients", err)
		return
	}

	h.logger.Info("GET /clients - Listed %d clients: user=%s", resp.Total, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Get GET /api/v1/clients/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	resp, err := h.service.Get(r.Context(), session, id)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /clients/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Create POST /api/v1/clients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req models.ClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clients - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Create(r.Context(), session, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /clients", err)
		return
	}

	h.logger.Info("POST /clients - Client created: id=%s, user=%s", resp.ID, session.UserID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Update PATCH /api/v1/clients/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req models.ClientUpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /clients/{id} - Invalid request body: id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Update(r.Context(), session, id, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "PATCH /clients/{id}", err)
		return
	}

	h.logger.Info("PATCH /clients/{id} - Client updated: id=%s, user=%s", id, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete DELETE /api/v1/clients/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), session, id); err != nil {
		handlers.Fail(w, h.logger, "DELETE /clients/{id}", err)
		return
	}

	h.logger.Info("DELETE /clients/{id} - Client deleted: id=%s, user=%s", id, session.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func listRequest(r *http.Request) (*models.ListRequest, error) {
	req := &models.ListRequest{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, domain.NewValidationError("includeInactive", "must be true or false")
		}
		req.IncludeInactive = v
	}

	var err error
	if req.Limit, err = handlers.QueryInt(r, "limit", 0); err != nil {
		return nil, err
	}
	if req.Offset, err = handlers.QueryInt(r, "offset", 0); err != nil {
		return nil, err
	}
	return req, nil
}
