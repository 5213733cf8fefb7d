package agenda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/notify"
	"github.com/facumancuso/alessi-sub000/internal/service/appointments/models"
	getAgenda "github.com/facumancuso/alessi-sub000/internal/usecase/get_agenda"
	"github.com/facumancuso/alessi-sub000/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getAgenda.Request) (*getAgenda.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*getAgenda.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockService struct{ mock.Mock }

func (m *mockService) MyDay(ctx context.Context, s auth.Session, employeeID string, day time.Time) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, s, employeeID, day)
	if resp, ok := args.Get(0).(*models.AppointmentListResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) Conflicts(ctx context.Context, s auth.Session, day time.Time) ([]models.ConflictResponse, error) {
	args := m.Called(ctx, s, day)
	if resp, ok := args.Get(0).([]models.ConflictResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) NextPerEmployee(ctx context.Context, s auth.Session) ([]models.NextAppointmentResponse, error) {
	args := m.Called(ctx, s)
	if resp, ok := args.Get(0).([]models.NextAppointmentResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) WaitEvents(ctx context.Context, s auth.Session, employeeID string, after uint64, timeout time.Duration) ([]notify.Event, error) {
	args := m.Called(ctx, s, employeeID, after, timeout)
	if resp, ok := args.Get(0).([]notify.Event); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	reception = auth.Session{UserID: "r1", Role: domain.RoleRecepcion}
	stylist   = auth.Session{UserID: "e1", Role: domain.RolePeluquero}
)

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/agenda", h.Agenda).Methods(http.MethodGet)
	r.HandleFunc("/agenda/conflicts", h.Conflicts).Methods(http.MethodGet)
	r.HandleFunc("/agenda/next", h.Next).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id}/day", h.MyDay).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id}/events", h.Events).Methods(http.MethodGet)
	return r
}

func get(router http.Handler, path string, session *auth.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), *session))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAgenda(t *testing.T) {
	uc := &mockUseCase{}
	router := newRouter(NewHandler(uc, &mockService{}, time.UTC, time.Second, nopLogger{}))

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAgenda.Request) bool {
		return req.Date.Equal(day) && req.IntervalMinutes != nil && *req.IntervalMinutes == 30 && req.Session.UserID == "r1"
	})).Return(&getAgenda.Response{
		Date:            day,
		IntervalMinutes: 30,
		PixelsPerMinute: 2,
		Rows:            []types.TimeString{"08:00", "08:30"},
		Columns: []getAgenda.Column{{
			EmployeeID:   "e1",
			EmployeeName: "Laura",
			Blocks: []getAgenda.Block{{
				AppointmentID: "a1", CustomerName: "Ana", ServiceName: "Corte", Time: "10:30",
				DurationMinutes: 60, Top: 300, Height: 120,
				Status: domain.StatusConfirmed, DisplayStatus: domain.StatusWaiting,
			}},
		}},
	}, nil)

	rec := get(router, "/agenda?date=2025-06-02&interval=30", &reception)
	require.Equal(t, http.StatusOK, rec.Code)

	var body AgendaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-06-02", body.Date)
	assert.Equal(t, []string{"08:00", "08:30"}, body.Rows)
	require.Len(t, body.Columns, 1)
	require.Len(t, body.Columns[0].Blocks, 1)
	assert.Equal(t, "10:30", body.Columns[0].Blocks[0].Time)
	assert.Equal(t, "waiting", body.Columns[0].Blocks[0].DisplayStatus)
	assert.Equal(t, 300.0, body.Columns[0].Blocks[0].Top)
	uc.AssertExpectations(t)
}

func TestAgenda_BadInput(t *testing.T) {
	router := newRouter(NewHandler(&mockUseCase{}, &mockService{}, time.UTC, time.Second, nopLogger{}))

	assert.Equal(t, http.StatusUnauthorized, get(router, "/agenda", nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/agenda?date=02/06/2025", &reception).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/agenda?interval=abc", &reception).Code)
}

func TestAgenda_StylistOtherDay(t *testing.T) {
	uc := &mockUseCase{}
	router := newRouter(NewHandler(uc, &mockService{}, time.UTC, time.Second, nopLogger{}))
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, domain.ErrAccessDenied)

	rec := get(router, "/agenda?date=2025-06-09", &stylist)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestConflicts(t *testing.T) {
	svc := &mockService{}
	router := newRouter(NewHandler(&mockUseCase{}, svc, time.UTC, time.Second, nopLogger{}))

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	svc.On("Conflicts", mock.Anything, reception, day).Return([]models.ConflictResponse{
		{EmployeeID: "e1", First: models.ConflictSideResponse{AppointmentID: "a1"}, Second: models.ConflictSideResponse{AppointmentID: "a2"}},
	}, nil)

	rec := get(router, "/agenda/conflicts?date=2025-06-02", &reception)
	require.Equal(t, http.StatusOK, rec.Code)

	var body ConflictListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "a2", body.Conflicts[0].Second.AppointmentID)
}

func TestMyDay(t *testing.T) {
	svc := &mockService{}
	router := newRouter(NewHandler(&mockUseCase{}, svc, time.UTC, time.Second, nopLogger{}))

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	svc.On("MyDay", mock.Anything, stylist, "e1", day).
		Return(&models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}, Total: 0}, nil)
	svc.On("MyDay", mock.Anything, stylist, "e2", day).Return(nil, domain.ErrAccessDenied)

	assert.Equal(t, http.StatusOK, get(router, "/employees/e1/day?date=2025-06-02", &stylist).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/employees/e2/day?date=2025-06-02", &stylist).Code)
}

func TestEvents(t *testing.T) {
	svc := &mockService{}
	router := newRouter(NewHandler(&mockUseCase{}, svc, time.UTC, 5*time.Second, nopLogger{}))

	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc.On("WaitEvents", mock.Anything, stylist, "e1", uint64(3), 5*time.Second).Return([]notify.Event{
		{Seq: 4, Type: notify.EventClientWaiting, EmployeeID: "e1", AppointmentID: "a1", CustomerName: "Ana", At: at},
		{Seq: 5, Type: notify.EventAppointmentChanged, EmployeeID: "e1", AppointmentID: "a2", At: at},
	}, nil)
	svc.On("WaitEvents", mock.Anything, stylist, "e1", uint64(9), 5*time.Second).Return([]notify.Event(nil), nil)

	rec := get(router, "/employees/e1/events?after=3", &stylist)
	require.Equal(t, http.StatusOK, rec.Code)
	var body EventListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 2)
	assert.Equal(t, "client_waiting", body.Events[0].Type)
	assert.Equal(t, uint64(5), body.Last)

	// таймаут: пустой список, last не меняется
	rec = get(router, "/employees/e1/events?after=9", &stylist)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Events)
	assert.Equal(t, uint64(9), body.Last)

	assert.Equal(t, http.StatusBadRequest, get(router, "/employees/e1/events?after=-1", &stylist).Code)
}
