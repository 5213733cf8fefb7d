package create_appointment

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// validateRequest проверяет обязательные поля. Ошибка привязана к полю формы
func validateRequest(req *Request) error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)

	switch req.Source {
	case domain.SourceStaff, domain.SourceSelfService:
	default:
		return domain.NewValidationError("source", "unknown booking source %q", req.Source)
	}

	if req.CustomerName == "" {
		return domain.NewValidationError("customerName", "is required")
	}

	if req.Source == domain.SourceSelfService {
		if req.CustomerEmail == "" {
			return domain.NewValidationError("customerEmail", "is required")
		}
		if req.CustomerPhone == "" {
			return domain.NewValidationError("customerPhone", "is required")
		}
		if req.ClientID != nil {
			return domain.NewValidationError("clientId", "is not allowed for online booking")
		}
	}

	if req.CustomerEmail != "" {
		if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
			return domain.NewValidationError("customerEmail", "invalid email address")
		}
	}

	if req.Date.IsZero() {
		return domain.NewValidationError("date", "is required")
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return domain.NewValidationError("notes", "must not exceed %d characters", domain.MaxNotesLength)
	}

	if len(req.Assignments) == 0 {
		return domain.NewValidationError("assignments", "at least one service is required")
	}
	if len(req.Assignments) > domain.MaxAssignmentsPerAppointment {
		return domain.NewValidationError("assignments", "at most %d services per appointment", domain.MaxAssignmentsPerAppointment)
	}

	for i, as := range req.Assignments {
		if strings.TrimSpace(as.EmployeeID) == "" {
			return domain.NewValidationError(field(i, "employeeId"), "employee is required")
		}
		if strings.TrimSpace(as.ServiceID) == "" {
			return domain.NewValidationError(field(i, "serviceId"), "service is required")
		}
		if err := as.Time.Validate(); err != nil {
			return domain.NewValidationError(field(i, "time"), "expected HH:MM")
		}
		if as.DurationMinutes != nil &&
			(*as.DurationMinutes <= 0 || *as.DurationMinutes > domain.MaxAssignmentDurationMinutes) {
			return domain.NewValidationError(field(i, "durationMinutes"), "must be between 1 and %d", domain.MaxAssignmentDurationMinutes)
		}
	}

	return nil
}

func field(i int, name string) string {
	return fmt.Sprintf("assignments[%d].%s", i, name)
}
