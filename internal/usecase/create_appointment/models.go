package create_appointment

import (
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/pkg/types"
)

// Config параметры записи
type Config struct {
	Location       *time.Location
	RejectOverlaps bool
}

// AssignmentRequest одна услуга в запросе
type AssignmentRequest struct {
	EmployeeID      string
	ServiceID       string
	Time            types.TimeString // "10:30"
	DurationMinutes *int             // если не указан, берется длительность услуги
	ProductIDs      []string
}

// Request модель запроса на создание записи
type Request struct {
	Source        domain.BookingSource
	ClientID      *string // только для записи персоналом
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Date          time.Time // день визита
	Assignments   []AssignmentRequest
	Notes         *string
}

// Response созданная запись и текущие цены ее товаров
type Response struct {
	Appointment *domain.Appointment
	Products    domain.ProductCatalog
	// ConfirmationSent клиенту ушло подтверждение в WhatsApp (только онлайн-запись)
	ConfirmationSent bool
}
