package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/catalog/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	args := m.Called(ctx)
	if resp, ok := args.Get(0).(*models.ServiceListResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) GetService(ctx context.Context, id string) (*models.ServiceResponse, error) {
	args := m.Called(ctx, id)
	if resp, ok := args.Get(0).(*models.ServiceResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) CreateService(ctx context.Context, s auth.Session, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	args := m.Called(ctx, s, req)
	if resp, ok := args.Get(0).(*models.ServiceResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UpdateService(ctx context.Context, s auth.Session, id string, req *models.ServiceUpdateRequest) (*models.ServiceResponse, error) {
	args := m.Called(ctx, s, id, req)
	if resp, ok := args.Get(0).(*models.ServiceResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) DeleteService(ctx context.Context, s auth.Session, id string) error {
	return m.Called(ctx, s, id).Error(0)
}

func (m *mockService) ListProducts(ctx context.Context) (*models.ProductListResponse, error) {
	args := m.Called(ctx)
	if resp, ok := args.Get(0).(*models.ProductListResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) GetProduct(ctx context.Context, id string) (*models.ProductResponse, error) {
	args := m.Called(ctx, id)
	if resp, ok := args.Get(0).(*models.ProductResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) CreateProduct(ctx context.Context, s auth.Session, req *models.ProductRequest) (*models.ProductResponse, error) {
	args := m.Called(ctx, s, req)
	if resp, ok := args.Get(0).(*models.ProductResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UpdateProduct(ctx context.Context, s auth.Session, id string, req *models.ProductUpdateRequest) (*models.ProductResponse, error) {
	args := m.Called(ctx, s, id, req)
	if resp, ok := args.Get(0).(*models.ProductResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) DeleteProduct(ctx context.Context, s auth.Session, id string) error {
	return m.Called(ctx, s, id).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var manager = auth.Session{UserID: "g1", Role: domain.RoleGerente}

func newRouter(svc *mockService) *mux.Router {
	h := NewHandler(svc, nopLogger{})
	r := mux.NewRouter()
	r.HandleFunc("/public/services", h.ListServices).Methods(http.MethodGet)
	r.HandleFunc("/services", h.CreateService).Methods(http.MethodPost)
	r.HandleFunc("/services/{id}", h.GetService).Methods(http.MethodGet)
	r.HandleFunc("/services/{id}", h.UpdateService).Methods(http.MethodPatch)
	r.HandleFunc("/services/{id}", h.DeleteService).Methods(http.MethodDelete)
	r.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	return r
}

func do(router http.Handler, method, path, body string, session *auth.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if session != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), *session))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicServices_NoSession(t *testing.T) {
	svc := &mockService{}
	svc.On("ListServices", mock.Anything).Return(&models.ServiceListResponse{
		Services: []models.ServiceResponse{{ID: "s1", Name: "Corte", Price: "50.00"}}, Total: 1,
	}, nil)

	rec := do(newRouter(svc), http.MethodGet, "/public/services", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":"50.00"`)
}

func TestCreateService(t *testing.T) {
	svc := &mockService{}
	svc.On("CreateService", mock.Anything, manager, mock.MatchedBy(func(req *models.ServiceRequest) bool {
		return req.Code == "CORTE" && req.Price.Equal(decimal.RequireFromString("50.5"))
	})).Return(&models.ServiceResponse{ID: "s1", Code: "CORTE", Price: "50.50"}, nil)

	router := newRouter(svc)
	rec := do(router, http.MethodPost, "/services", `{"code":"CORTE","name":"Corte","durationMinutes":30,"price":"50.50"}`, &manager)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(router, http.MethodPost, "/services", `{"code":`, &manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/services", `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertExpectations(t)
}

func TestCatalogErrors(t *testing.T) {
	svc := &mockService{}
	svc.On("GetService", mock.Anything, "nope").Return(nil, domain.NewNotFoundError("service", "nope"))
	svc.On("DeleteService", mock.Anything, manager, "s1").Return(domain.NewConflictError("service", "s1", "used by appointments"))
	svc.On("DeleteProduct", mock.Anything, manager, "p1").Return(nil)
	svc.On("UpdateService", mock.Anything, manager, "s2", mock.Anything).Return(nil, domain.NewValidationError("price", "must not be negative"))

	router := newRouter(svc)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/services/nope", "", &manager).Code)
	assert.Equal(t, http.StatusConflict, do(router, http.MethodDelete, "/services/s1", "", &manager).Code)
	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/products/p1", "", &manager).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPatch, "/services/s2", `{"price":"-1"}`, &manager).Code)
}
