package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// ParseDate "2025-06-01" как полночь дня в поясе салона
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "expected YYYY-MM-DD")
	}
	return t, nil
}

// QueryDate необязательный параметр даты. Пустой параметр - nil
func QueryDate(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return nil, domain.NewValidationError(name, "expected YYYY-MM-DD")
	}
	return &t, nil
}

// QueryInt необязательный целочисленный параметр
func QueryInt(r *http.Request, name string, def int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

// QueryString необязательный строковый параметр. Пустой - nil
func QueryString(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil
	}
	return &value
}

// QueryList список через запятую: ?status=confirmed,waiting
func QueryList(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
