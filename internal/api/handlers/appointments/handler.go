package appointments

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgForbidden          = "acceso denegado"
)

type Handler struct {
	createUseCase CreateAppointmentUseCase
	service       AppointmentService
	location      *time.Location
	logger        Logger
}

func NewHandler(createUseCase CreateAppointmentUseCase, service AppointmentService, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		createUseCase: createUseCase,
		service:       service,
		location:      location,
		logger:        logger,
	}
}

// Create POST /api/v1/appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	if !session.Role.CanManageAppointments() {
		h.logger.Warn("POST /appointments - Access denied: user=%s role=%s", session.UserID, session.Role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(domain.SourceStaff, h.location)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /appointments", err)
		return
	}

	result, err := h.createUseCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /appointments", err)
		return
	}

	h.logger.Info("POST /appointments - Appointment created: id=%s, user=%s", result.Appointment.ID, session.UserID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// CreatePublic POST /api/v1/public/appointments
func (h *Handler) CreatePublic(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(domain.SourceSelfService, h.location)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /public/appointments", err)
		return
	}

	result, err := h.createUseCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /public/appointments", err)
		return
	}

	h.logger.Info("POST /public/appointments - Online booking created: id=%s", result.Appointment.ID)
	handlers.RespondJSON(w, http.StatusCreated, fromUseCasePublic(result))
}

// List GET /api/v1/appointments?from=&to=&status=&email=&employeeId=&limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	req, err := h.listRequest(r)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /appointments", err)
		return
	}

	resp, err := h.service.List(r.Context(), session, req)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /appointments", err)
		return
	}

	h.logger.Info("GET /appointments - Listed %d appointments: user=%s", resp.Total, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Get GET /api/v1/appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	resp, err := h.service.Get(r.Context(), session, id)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /appointments/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Update PUT /api/v1/appointments/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req models.UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid request body: id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Update(r.Context(), session, id, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "PUT /appointments/{id}", err)
		return
	}

	h.logger.Info("PUT /appointments/{id} - Appointment updated: id=%s, user=%s", id, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// ChangeStatus PATCH /api/v1/appointments/{id}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req models.ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.ChangeStatus(r.Context(), session, id, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "PATCH /appointments/{id}/status", err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status changed: id=%s, status=%s, user=%s", id, resp.Status, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Cancel PATCH /api/v1/appointments/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req models.CancelRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: id=%s, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	resp, err := h.service.Cancel(r.Context(), session, id, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "PATCH /appointments/{id}/cancel", err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled: id=%s, user=%s", id, session.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete DELETE /api/v1/appointments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), session, id); err != nil {
		handlers.Fail(w, h.logger, "DELETE /appointments/{id}", err)
		return
	}

	h.logger.Info("DELETE /appointments/{id} - Appointment deleted: id=%s, user=%s", id, session.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listRequest(r *http.Request) (*models.ListRequest, error) {
	from, err := handlers.QueryDate(r, "from", h.location)
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryDate(r, "to", h.location)
	if err != nil {
		return nil, err
	}
	if to != nil {
		// to включительно: весь последний день
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	limit, err := handlers.QueryInt(r, "limit", 0)
	if err != nil {
		return nil, err
	}
	offset, err := handlers.QueryInt(r, "offset", 0)
	if err != nil {
		return nil, err
	}

	return &models.ListRequest{
		From:          from,
		To:            to,
		Statuses:      handlers.QueryList(r, "status"),
		CustomerEmail: handlers.QueryString(r, "email"),
		EmployeeID:    handlers.QueryString(r, "employeeId"),
		Limit:         limit,
		Offset:        offset,
	}, nil
}
