package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

const (
	msgInternalError = "error interno del servidor"
	msgForbidden     = "acceso denegado"
	msgUnauthorized  = "credenciales inválidas"
	msgNotFound      = "recurso no encontrado"
	msgConflict      = "conflicto con el estado actual"
)

// entityNames названия сущностей для сообщений клиенту
var entityNames = map[string]string{
	"appointment": "turno no encontrado",
	"service":     "servicio no encontrado",
	"product":     "producto no encontrado",
	"client":      "cliente no encontrado",
	"user":        "usuario no encontrado",
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondJSON пишет JSON-ответ с заданным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку с заданным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError переводит доменную ошибку в HTTP-статус.
// Возвращает статус, чтобы обработчик мог выбрать уровень лога
func RespondDomainError(w http.ResponseWriter, err error) int {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: validation.Message,
			Field:   validation.Field,
		})
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		message, ok := entityNames[notFound.Entity]
		if !ok {
			message = msgNotFound
		}
		RespondNotFound(w, message)
		return http.StatusNotFound
	case errors.As(err, &conflict):
		RespondJSON(w, http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: msgConflict,
			Details: conflict.Reason,
		})
		return http.StatusConflict
	case errors.Is(err, domain.ErrAccessDenied):
		RespondForbidden(w, msgForbidden)
		return http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		RespondUnauthorized(w, msgUnauthorized)
		return http.StatusUnauthorized
	default:
		RespondInternalError(w)
		return http.StatusInternalServerError
	}
}

// DecodeJSON читает тело запроса. Неизвестные поля - ошибка
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return io.EOF
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Fail отвечает доменной ошибкой. 5xx пишется как Error, остальное как Warn
func Fail(w http.ResponseWriter, logger Logger, route string, err error) {
	status := RespondDomainError(w, err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s - Request failed: %v", route, err)
		return
	}
	logger.Warn("%s - Request rejected (%d): %v", route, status, err)
}
