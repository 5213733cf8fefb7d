package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/clients/models"
	"github.com/facumancuso/alessi-sub000/pkg/ptr"
)

type mockClientRepo struct{ mock.Mock }

func (m *mockClientRepo) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, c)
	if out, ok := args.Get(0).(*domain.Client); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if out, ok := args.Get(0).(*domain.Client); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, c)
	return c, args.Error(0)
}

func (m *mockClientRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var reception = auth.Session{UserID: "r1", Role: domain.RoleRecepcion}

func TestList_AppliesPaging(t *testing.T) {
	repo := &mockClientRepo{}
	svc := NewService(repo, nopLogger{})

	repo.On("List", mock.Anything, domain.ClientFilter{Search: "ana", Limit: domain.MaxPageSize}).
		Return([]*domain.Client{{ID: "c1", Name: "Ana"}}, nil)

	resp, err := svc.List(context.Background(), reception, &models.ListRequest{Search: " ana ", Limit: 10000})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	repo.AssertExpectations(t)
}

func TestCreate(t *testing.T) {
	repo := &mockClientRepo{}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Create(context.Background(), reception, &models.ClientRequest{Name: "Ana", Email: "no-email"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(context.Background(), auth.Session{Role: domain.RolePeluquero}, &models.ClientRequest{Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	repo.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.NewConflictError("client", "ana@x.com", "email already exists")).Once()
	_, err = svc.Create(context.Background(), reception, &models.ClientRequest{Name: "Ana", Email: "ana@x.com"})
	assert.True(t, domain.IsConflict(err))
}

func TestUpdate_Partial(t *testing.T) {
	repo := &mockClientRepo{}
	svc := NewService(repo, nopLogger{})

	repo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Client{ID: "c1", Name: "Ana", Email: "ana@x.com", City: "Rosario"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Update(context.Background(), reception, "c1", &models.ClientUpdateRequest{
		MobilePhone: ptr.Ptr(" 341 555 "),
		Inactive:    ptr.Ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "341 555", resp.MobilePhone)
	assert.Equal(t, "Rosario", resp.City)
	assert.True(t, resp.Inactive)

	_, err = svc.Update(context.Background(), reception, "c1", &models.ClientUpdateRequest{Name: ptr.Ptr("")})
	assert.True(t, domain.IsValidation(err))
}
