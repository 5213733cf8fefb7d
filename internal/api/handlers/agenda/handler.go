package agenda

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	getAgenda "github.com/facumancuso/alessi-sub000/internal/usecase/get_agenda"
)

// DefaultEventsWaitTimeout сколько держится long poll без событий
const DefaultEventsWaitTimeout = 25 * time.Second

type Handler struct {
	agendaUseCase GetAgendaUseCase
	service       AppointmentService
	location      *time.Location
	waitTimeout   time.Duration
	logger        Logger
}

func NewHandler(agendaUseCase GetAgendaUseCase, service AppointmentService, location *time.Location, waitTimeout time.Duration, logger Logger) *Handler {
	if location == nil {
		location = time.Local
	}
	if waitTimeout <= 0 {
		waitTimeout = DefaultEventsWaitTimeout
	}
	return &Handler{
		agendaUseCase: agendaUseCase,
		service:       service,
		location:      location,
		waitTimeout:   waitTimeout,
		logger:        logger,
	}
}

// Agenda GET /api/v1/agenda?date=2025-06-01&interval=15
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	date, err := handlers.QueryDate(r, "date", h.location)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /agenda", err)
		return
	}

	req := &getAgenda.Request{Session: session}
	if date != nil {
		req.Date = *date
	}
	if r.URL.Query().Get("interval") != "" {
		interval, err := handlers.QueryInt(r, "interval", 0)
		if err != nil {
			handlers.Fail(w, h.logger, "GET /agenda", err)
			return
		}
		req.IntervalMinutes = &interval
	}

	result, err := h.agendaUseCase.Execute(r.Context(), req)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /agenda", err)
		return
	}

	h.logger.Info("GET /agenda - Agenda built: date=%s, columns=%d, user=%s",
		result.Date.Format(domain.DateFormat), len(result.Columns), session.UserID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// Conflicts GET /api/v1/agenda/conflicts?date=2025-06-01
func (h *Handler) Conflicts(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	day, err := h.dayOrToday(r)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /agenda/conflicts", err)
		return
	}

	conflicts, err := h.service.Conflicts(r.Context(), session, day)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /agenda/conflicts", err)
		return
	}

	if len(conflicts) > 0 {
		h.logger.Warn("GET /agenda/conflicts - %d overlaps on %s", len(conflicts), day.Format(domain.DateFormat))
	}
	handlers.RespondJSON(w, http.StatusOK, &ConflictListResponse{
		Date:      day.Format(domain.DateFormat),
		Conflicts: conflicts,
		Total:     len(conflicts),
	})
}

// Next GET /api/v1/agenda/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	next, err := h.service.NextPerEmployee(r.Context(), session)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /agenda/next", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, next)
}

// MyDay GET /api/v1/employees/{id}/day?date=2025-06-01
func (h *Handler) MyDay(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	employeeID := mux.Vars(r)["id"]

	day, err := h.dayOrToday(r)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /employees/{id}/day", err)
		return
	}

	resp, err := h.service.MyDay(r.Context(), session, employeeID, day)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /employees/{id}/day", err)
		return
	}

	h.logger.Info("GET /employees/{id}/day - %d appointments: employee=%s, date=%s",
		resp.Total, employeeID, day.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Events GET /api/v1/employees/{id}/events?after=12
// Long poll: отвечает сразу, если есть события новее after, иначе ждет до таймаута
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	employeeID := mux.Vars(r)["id"]

	var after uint64
	if raw := r.URL.Query().Get("after"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			handlers.Fail(w, h.logger, "GET /employees/{id}/events", domain.NewValidationError("after", "must be a non-negative integer"))
			return
		}
		after = v
	}

	events, err := h.service.WaitEvents(r.Context(), session, employeeID, after, h.waitTimeout)
	if err != nil {
		if r.Context().Err() != nil {
			// клиент ушел, отвечать некому
			return
		}
		handlers.Fail(w, h.logger, "GET /employees/{id}/events", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromEvents(events, after))
}

func (h *Handler) dayOrToday(r *http.Request) (time.Time, error) {
	date, err := handlers.QueryDate(r, "date", h.location)
	if err != nil {
		return time.Time{}, err
	}
	if date != nil {
		return *date, nil
	}
	return domain.StartOfDay(time.Now().In(h.location), h.location), nil
}
