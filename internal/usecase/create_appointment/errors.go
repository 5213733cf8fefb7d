package create_appointment

import "github.com/facumancuso/alessi-sub000/internal/domain"

func errBookingClosed(closesAt string) error {
	return domain.NewValidationError("date", "online booking for this time closed at %s", closesAt)
}

func errInPast() error {
	return domain.NewValidationError("date", "appointment must start in the future")
}

func errUnknownEmployee(index int, id string) error {
	return domain.NewValidationError(field(index, "employeeId"), "unknown or inactive employee %q", id)
}
