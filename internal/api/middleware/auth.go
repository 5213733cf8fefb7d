package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
)

const (
	msgMissingToken = "token requerido"
	msgInvalidToken = "token inválido o vencido"
	msgForbidden    = "acceso denegado"
)

type ctxKey string

const sessionKey ctxKey = "session"

// TokenParser проверка токена сессии
type TokenParser interface {
	Parse(raw string) (auth.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверяет Authorization: Bearer <token> и кладет сессию в контекст
func Auth(parser TokenParser, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if raw == "" || raw == header {
				logger.Warn("%s %s - Missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			session, err := parser.Parse(raw)
			if err != nil {
				logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireRole пропускает только сессии с ролью не ниже min
func RequireRole(min domain.Role, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r.Context())
			if !ok || !session.Role.AtLeast(min) {
				logger.Warn("%s %s - Role %s below %s: user=%s", r.Method, r.URL.Path, session.Role, min, session.UserID)
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithSession кладет сессию в контекст
func WithSession(ctx context.Context, session auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession достает сессию из контекста
func GetSession(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(sessionKey).(auth.Session)
	return session, ok
}

// SessionOrUnauthorized сессия из контекста, иначе ответ 401
func SessionOrUnauthorized(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	session, ok := GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingToken)
	}
	return session, ok
}
