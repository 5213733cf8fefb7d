package models

import (
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/pkg/money"
)

// Request модели

// AssignmentInput позиция визита в запросе. Если durationMinutes не указан,
// берется длительность услуги по умолчанию
type AssignmentInput struct {
	EmployeeID      string   `json:"employeeId"`
	ServiceID       string   `json:"serviceId"`
	Time            string   `json:"time"` // "10:30"
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	ProductIDs      []string `json:"productIds,omitempty"`
}

// AssignmentPatchInput частичное изменение позиции
type AssignmentPatchInput struct {
	EmployeeID      *string   `json:"employeeId,omitempty"`
	ServiceID       *string   `json:"serviceId,omitempty"`
	Time            *string   `json:"time,omitempty"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	ProductIDs      *[]string `json:"productIds,omitempty"`
}

// Операции над списком позиций
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpUpdate = "update"
)

// AssignmentOperation одна операция над списком позиций, применяются по порядку
type AssignmentOperation struct {
	Op         string                `json:"op"`
	Index      int                   `json:"index"`
	Assignment *AssignmentInput      `json:"assignment,omitempty"` // для add
	Patch      *AssignmentPatchInput `json:"patch,omitempty"`      // для update
}

// UpdateAppointmentRequest редактирование визита.
// Assignments заменяет список целиком, Operations правит текущий список
type UpdateAppointmentRequest struct {
	CustomerName  *string               `json:"customerName,omitempty"`
	CustomerEmail *string               `json:"customerEmail,omitempty"`
	CustomerPhone *string               `json:"customerPhone,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	Date          *string               `json:"date,omitempty"` // "2025-06-01"
	Assignments   []AssignmentInput     `json:"assignments,omitempty"`
	Operations    []AssignmentOperation `json:"operations,omitempty"`
}

// ChangeStatusRequest смена статуса визита
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// CancelRequest отмена визита
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ListRequest фильтр списка визитов
type ListRequest struct {
	From          *time.Time
	To            *time.Time
	Statuses      []string
	CustomerEmail *string
	EmployeeID    *string
	Limit         int
	Offset        int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		From:          r.From,
		To:            r.To,
		CustomerEmail: r.CustomerEmail,
		EmployeeID:    r.EmployeeID,
		Limit:         r.Limit,
		Offset:        r.Offset,
	}

	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultPageSize
	}
	if filter.Limit > domain.MaxPageSize {
		filter.Limit = domain.MaxPageSize
	}
	if filter.Offset < 0 {
		return filter, domain.NewValidationError("offset", "must not be negative")
	}
	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return filter, domain.NewValidationError("to", "must be after from")
	}

	for _, s := range r.Statuses {
		status, err := domain.ParseStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	return filter, nil
}

// Response модели

// AssignmentResponse позиция визита
type AssignmentResponse struct {
	EmployeeID      string   `json:"employeeId"`
	ServiceID       string   `json:"serviceId"`
	ServiceName     string   `json:"serviceName"`
	Time            string   `json:"time"`
	DurationMinutes int      `json:"durationMinutes"`
	ProductIDs      []string `json:"productIds"`
	Price           string   `json:"price"` // "50.00"
}

// AppointmentResponse визит клиента
type AppointmentResponse struct {
	ID            string               `json:"id"`
	ClientID      *string              `json:"clientId,omitempty"`
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	CustomerPhone string               `json:"customerPhone"`
	Date          time.Time            `json:"date"`
	Assignments   []AssignmentResponse `json:"assignments"`
	Status        string               `json:"status"`
	DisplayStatus string               `json:"displayStatus"`
	Source        string               `json:"source"`
	Notes         *string              `json:"notes,omitempty"`

	// AllowedStatuses статусы, в которые визит можно перевести из текущего
	AllowedStatuses []string `json:"allowedStatuses"`

	CancelledBy        *string    `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`

	ServiceNames []string `json:"serviceNames"`
	Duration     int      `json:"duration"`
	ProductIDs   []string `json:"productIds"`
	TotalPrice   string   `json:"totalPrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse список визитов
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// ConflictResponse пересечение двух позиций одного сотрудника
type ConflictResponse struct {
	EmployeeID string               `json:"employeeId"`
	First      ConflictSideResponse `json:"first"`
	Second     ConflictSideResponse `json:"second"`
}

// ConflictSideResponse одна сторона пересечения
type ConflictSideResponse struct {
	AppointmentID   string    `json:"appointmentId"`
	AssignmentIndex int       `json:"assignmentIndex"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
}

// NextAppointmentResponse ближайшая позиция сотрудника
type NextAppointmentResponse struct {
	EmployeeID      string    `json:"employeeId"`
	EmployeeName    string    `json:"employeeName,omitempty"`
	AppointmentID   string    `json:"appointmentId"`
	CustomerName    string    `json:"customerName"`
	ServiceName     string    `json:"serviceName"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
}

// FromDomainAppointment конвертирует визит в ответ. Цена услуг берется из снимка,
// цена товаров из текущего каталога products
func FromDomainAppointment(a *domain.Appointment, display domain.AppointmentStatus, products domain.ProductCatalog) AppointmentResponse {
	assignments := make([]AssignmentResponse, 0, len(a.Assignments))
	for _, as := range a.Assignments {
		productIDs := as.ProductIDs
		if productIDs == nil {
			productIDs = []string{}
		}
		assignments = append(assignments, AssignmentResponse{
			EmployeeID:      as.EmployeeID,
			ServiceID:       as.ServiceID,
			ServiceName:     as.ServiceName,
			Time:            as.Time.String(),
			DurationMinutes: as.DurationMinutes,
			ProductIDs:      productIDs,
			Price:           money.Format(as.PriceMinorUnits),
		})
	}

	serviceNames := a.ServiceNames
	if serviceNames == nil {
		serviceNames = []string{}
	}
	productIDs := a.ProductIDs
	if productIDs == nil {
		productIDs = []string{}
	}

	next := domain.NextStatuses(a.Status)
	allowed := make([]string, 0, len(next))
	for _, st := range next {
		allowed = append(allowed, string(st))
	}

	return AppointmentResponse{
		ID:                 a.ID,
		ClientID:           a.ClientID,
		CustomerName:       a.CustomerName,
		CustomerEmail:      a.CustomerEmail,
		CustomerPhone:      a.CustomerPhone,
		Date:               a.Date,
		Assignments:        assignments,
		Status:             string(a.Status),
		DisplayStatus:      string(display),
		AllowedStatuses:    allowed,
		Source:             string(a.Source),
		Notes:              a.Notes,
		CancelledBy:        a.CancelledBy,
		CancelledAt:        a.CancelledAt,
		CancellationReason: a.CancellationReason,
		ServiceNames:       serviceNames,
		Duration:           a.Duration,
		ProductIDs:         productIDs,
		TotalPrice:         money.FormatDecimal(a.TotalPrice(products)),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainConflicts конвертирует пересечения в ответ
func FromDomainConflicts(conflicts []domain.Conflict) []ConflictResponse {
	out := make([]ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, ConflictResponse{
			EmployeeID: c.EmployeeID,
			First:      fromRef(c.First),
			Second:     fromRef(c.Second),
		})
	}
	return out
}

func fromRef(r domain.AssignmentRef) ConflictSideResponse {
	return ConflictSideResponse{
		AppointmentID:   r.AppointmentID,
		AssignmentIndex: r.AssignmentIndex,
		Start:           r.Start,
		End:             r.End,
	}
}
