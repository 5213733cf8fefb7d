package appointments

import (
	"fmt"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/appointments/models"
	createAppointment "github.com/facumancuso/alessi-sub000/internal/usecase/create_appointment"
	"github.com/facumancuso/alessi-sub000/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID      *string                  `json:"clientId,omitempty"`
	CustomerName  string                   `json:"customerName"`
	CustomerEmail string                   `json:"customerEmail"`
	CustomerPhone string                   `json:"customerPhone"`
	Date          string                   `json:"date"` // "2025-06-01"
	Assignments   []models.AssignmentInput `json:"assignments"`
	Notes         *string                  `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *CreateAppointmentRequest) ToUseCaseRequest(source domain.BookingSource, loc *time.Location) (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date, loc)
	if err != nil {
		return nil, err
	}

	assignments := make([]createAppointment.AssignmentRequest, 0, len(r.Assignments))
	for i, a := range r.Assignments {
		t, err := types.NewTimeStringFromString(a.Time)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("assignments[%d].time", i), "expected HH:MM")
		}
		assignments = append(assignments, createAppointment.AssignmentRequest{
			EmployeeID:      a.EmployeeID,
			ServiceID:       a.ServiceID,
			Time:            t,
			DurationMinutes: a.DurationMinutes,
			ProductIDs:      a.ProductIDs,
		})
	}

	return &createAppointment.Request{
		Source:        source,
		ClientID:      r.ClientID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Date:          date,
		Assignments:   assignments,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) models.AppointmentResponse {
	return models.FromDomainAppointment(resp.Appointment, resp.Appointment.Status, resp.Products)
}

// PublicBookingResponse подтверждение онлайн-записи без служебных полей
type PublicBookingResponse struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Date         time.Time `json:"date"`
	ServiceNames []string  `json:"serviceNames"`
	Duration     int       `json:"duration"`
	TotalPrice   string    `json:"totalPrice"`
	Status       string    `json:"status"`

	ConfirmationSent bool `json:"confirmationSent"`
}

func fromUseCasePublic(resp *createAppointment.Response) *PublicBookingResponse {
	full := FromUseCaseResponse(resp)
	return &PublicBookingResponse{
		ID:           full.ID,
		CustomerName: full.CustomerName,
		Date:         full.Date,
		ServiceNames: full.ServiceNames,
		Duration:     full.Duration,
		TotalPrice:   full.TotalPrice,
		Status:       full.Status,

		ConfirmationSent: resp.ConfirmationSent,
	}
}
