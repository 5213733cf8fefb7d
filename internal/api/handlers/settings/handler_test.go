package settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/settings/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) Get(ctx context.Context) (*models.SettingsResponse, error) {
	args := m.Called(ctx)
	if resp, ok := args.Get(0).(*models.SettingsResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) Update(ctx context.Context, s auth.Session, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	args := m.Called(ctx, s, req)
	if resp, ok := args.Get(0).(*models.SettingsResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func request(method, body string, session *auth.Session) *http.Request {
	req := httptest.NewRequest(method, "/settings", strings.NewReader(body))
	if session != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), *session))
	}
	return req
}

func TestGet(t *testing.T) {
	svc := &mockService{}
	svc.On("Get", mock.Anything).Return(&models.SettingsResponse{BookingClosingHours: 2}, nil)
	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookingClosingHours":2`)
}

func TestUpdate(t *testing.T) {
	manager := auth.Session{UserID: "g1", Role: domain.RoleGerente}
	reception := auth.Session{UserID: "r1", Role: domain.RoleRecepcion}

	svc := &mockService{}
	svc.On("Update", mock.Anything, manager, mock.MatchedBy(func(req *models.UpdateSettingsRequest) bool {
		return req.BookingClosingHours != nil && *req.BookingClosingHours == 4
	})).Return(&models.SettingsResponse{BookingClosingHours: 4}, nil)
	svc.On("Update", mock.Anything, reception, mock.Anything).Return(nil, domain.ErrAccessDenied)
	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Update(rec, request(http.MethodPut, `{"bookingClosingHours":4}`, &manager))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, request(http.MethodPut, `{"bookingClosingHours":4}`, &reception))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, request(http.MethodPut, `{"closing":4}`, &manager))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, request(http.MethodPut, `{}`, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
