package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/settings/models"
	"github.com/facumancuso/alessi-sub000/pkg/ptr"
)

type memorySettings struct{ saved *domain.Settings }

func (r *memorySettings) Get(context.Context) (*domain.Settings, error) {
	if r.saved == nil {
		return domain.DefaultSettings(), nil
	}
	cp := *r.saved
	return &cp, nil
}

func (r *memorySettings) Save(_ context.Context, s *domain.Settings) (*domain.Settings, error) {
	cp := *s
	r.saved = &cp
	return s, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGet_Defaults(t *testing.T) {
	svc := NewService(&memorySettings{}, nopLogger{})

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.BookingClosingHours)
	assert.False(t, resp.WhatsAppEnabled)
}

func TestUpdate(t *testing.T) {
	repo := &memorySettings{}
	svc := NewService(repo, nopLogger{})
	manager := auth.Session{UserID: "g1", Role: domain.RoleGerente}

	resp, err := svc.Update(context.Background(), manager, &models.UpdateSettingsRequest{BookingClosingHours: ptr.Ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.BookingClosingHours)
	assert.Equal(t, 4, repo.saved.BookingClosingHours)

	_, err = svc.Update(context.Background(), manager, &models.UpdateSettingsRequest{WhatsAppEnabled: ptr.Ptr(true)})
	assert.True(t, domain.IsValidation(err))
	assert.False(t, repo.saved.WhatsAppEnabled)

	_, err = svc.Update(context.Background(), auth.Session{Role: domain.RoleRecepcion}, &models.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
