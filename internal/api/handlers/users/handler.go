package users

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/staff/models"
)

const msgInvalidRequestBody = "cuerpo de la solicitud inválido"

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Login POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /auth/login", err)
		return
	}

	h.logger.Info("POST /auth/login - User logged in: id=%s, role=%s", resp.User.ID, resp.User.Role)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Me GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), session, session.UserID)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /auth/me", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// List GET /api/v1/users?role=peluquero&onlyActive=true
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	req := &models.ListRequest{Role: r.URL.Query().Get("role")}
	if raw := r.URL.Query().Get("onlyActive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.Fail(w, h.logger, "GET /users", domain.NewValidationError("onlyActive", "must be true or false"))
			return
		}
		req.OnlyActive = v
	}

	resp, err := h.service.List(r.Context(), session, req)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /users", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Get GET /api/v1/users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	resp, err := h.service.Get(r.Context(), session, id)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /users/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Create POST /api/v1/users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req models.CreateUserRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Create(r.Context(), session, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /users", err)
		return
	}

	h.logger.Info("POST /users - User created: id=%s, role=%s, by=%s", resp.ID, resp.Role, session.UserID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Update PATCH /api/v1/users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req models.UpdateUserRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /users/{id} - Invalid request body: id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Update(r.Context(), session, id, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "PATCH /users/{id}", err)
		return
	}

	h.logger.Info("PATCH /users/{id} - User updated: id=%s, by=%s", id, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// ChangePassword PUT /api/v1/users/{id}/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req models.ChangePasswordRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /users/{id}/password - Invalid request body: id=%s", id)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ChangePassword(r.Context(), session, id, &req); err != nil {
		handlers.Fail(w, h.logger, "PUT /users/{id}/password", err)
		return
	}

	h.logger.Info("PUT /users/{id}/password - Password changed: id=%s, by=%s", id, session.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Delete DELETE /api/v1/users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), session, id); err != nil {
		handlers.Fail(w, h.logger, "DELETE /users/{id}", err)
		return
	}

	h.logger.Info("DELETE /users/{id} - User deleted: id=%s, by=%s", id, session.UserID)
	w.WriteHeader(http.StatusNoContent)
}
