package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"validation", domain.NewValidationError("customerEmail", "invalid"), http.StatusBadRequest, "customerEmail"},
		{"not found", domain.NewNotFoundError("appointment", "x"), http.StatusNotFound, ""},
		{"conflict", domain.NewConflictError("appointment", "x", "status changed"), http.StatusConflict, ""},
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden, ""},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, ""},
		{"persistence", domain.NewPersistenceError("appointment.List", errors.New("boom")), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			status := RespondDomainError(rec, tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.field, body.Field)
			assert.NotEmpty(t, body.Message)
			assert.NotContains(t, body.Message, "boom")
		})
	}
}

func TestRespondDomainError_NotFoundMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.NewNotFoundError("client", "c1"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "cliente no encontrado", body.Message)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "Ana", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nombre":"Ana"}`))
	assert.Error(t, DecodeJSON(r, &dst))
}
