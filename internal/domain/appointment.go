package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facumancuso/alessi-sub000/pkg/types"
)

// BookingSource откуда пришла запись
type BookingSource string

const (
	SourceStaff       BookingSource = "staff"
	SourceSelfService BookingSource = "self_service"
)

// Assignment одна услуга внутри визита: кто, что, во сколько и сколько длится.
// ServiceName и PriceMinorUnits - снимок услуги на момент записи
type Assignment struct {
	EmployeeID      string
	ServiceID       string
	Time            types.TimeString
	DurationMinutes int
	ProductIDs      []string

	ServiceName     string
	PriceMinorUnits int64
}

// Start момент начала услуги в день day
func (a Assignment) Start(day time.Time) time.Time {
	return a.Time.On(day)
}

// End момент окончания услуги в день day
func (a Assignment) End(day time.Time) time.Time {
	return a.Start(day).Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Appointment визит клиента, состоящий из одной или нескольких услуг
type Appointment struct {
	ID            string
	ClientID      *string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	// Date номинальное начало визита
	Date        time.Time
	Assignments []Assignment
	Status      AppointmentStatus
	Source      BookingSource
	Notes       *string

	CancelledBy        *string
	CancelledAt        *time.Time
	CancellationReason *string

	// Денормализованные поля, пересчитываются в RefreshDerived
	ServiceNames []string
	Duration     int
	ProductIDs   []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive запись занимает время сотрудников
func (a *Appointment) IsActive() bool {
	for _, s := range InactiveStatuses {
		if a.Status == s {
			return false
		}
	}
	return true
}

// IsBillable запись попадает в биллинг
func (a *Appointment) IsBillable() bool {
	return a.Status == StatusCompleted || a.Status == StatusBilled
}

// CanBeCancelled отменить можно только подтвержденную запись
func (a *Appointment) CanBeCancelled() bool {
	return CanTransition(a.Status, StatusCancelled)
}

// CanBeEdited услуги можно менять, пока визит не завершен
func (a *Appointment) CanBeEdited() bool {
	switch a.Status {
	case StatusConfirmed, StatusWaiting, StatusInProgress:
		return true
	default:
		return false
	}
}

// Day начало календарного дня записи в ее часовом поясе
func (a *Appointment) Day() time.Time {
	return StartOfDay(a.Date, a.Date.Location())
}

// HasEmployee true, если сотрудник выполняет хотя бы одну услугу визита
func (a *Appointment) HasEmployee(employeeID string) bool {
	for _, as := range a.Assignments {
		if as.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

// RefreshDerived пересчитывает duration, serviceNames и плоский список productIds
func (a *Appointment) RefreshDerived() {
	a.Duration = TotalDuration(a.Assignments)
	a.ProductIDs = FlattenProductIDs(a.Assignments)

	names := make([]string, 0, len(a.Assignments))
	for _, as := range a.Assignments {
		if as.ServiceName != "" {
			names = append(names, as.ServiceName)
		}
	}
	a.ServiceNames = names
}

// SnapshotServices копирует текущие название и цену услуги в каждую позицию визита.
// Позиции с неизвестной услугой не меняются
func (a *Appointment) SnapshotServices(services ServiceCatalog) {
	for i := range a.Assignments {
		svc, ok := services[a.Assignments[i].ServiceID]
		if !ok {
			continue
		}
		a.Assignments[i].ServiceName = svc.Name
		a.Assignments[i].PriceMinorUnits = svc.PriceMinorUnits
	}
	a.RefreshDerived()
}

// SnapshotCatalog каталог, собранный из снимков цен самой записи
func (a *Appointment) SnapshotCatalog() ServiceCatalog {
	catalog := make(ServiceCatalog, len(a.Assignments))
	for _, as := range a.Assignments {
		catalog[as.ServiceID] = Service{
			ID:              as.ServiceID,
			Name:            as.ServiceName,
			DurationMinutes: as.DurationMinutes,
			PriceMinorUnits: as.PriceMinorUnits,
		}
	}
	return catalog
}

// TotalPrice итог визита в отображаемых единицах: цены услуг из снимка, товары по текущему прайсу
func (a *Appointment) TotalPrice(products ProductCatalog) decimal.Decimal {
	return TotalPrice(a.Assignments, a.SnapshotCatalog(), a.ProductIDs, products)
}

// NormalizeEmail email как натуральный ключ клиента
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StartOfDay полночь дня t в часовом поясе loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AppointmentFilter фильтр списка записей. Пустые поля не ограничивают выборку
type AppointmentFilter struct {
	From          *time.Time // включительно
	To            *time.Time // не включительно
	Statuses      []AppointmentStatus
	CustomerEmail *string
	EmployeeID    *string
	Limit         int
	Offset        int
}

// DayRange фильтр на один календарный день
func DayRange(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(day, loc)
	return start, start.AddDate(0, 0, 1)
}

// AlignDate ставит номинальное начало визита на самую раннюю позицию в день day
func (a *Appointment) AlignDate(day time.Time) {
	if len(a.Assignments) == 0 {
		a.Date = day
		return
	}
	earliest := a.Assignments[0].Time
	for _, as := range a.Assignments[1:] {
		if as.Time.IsBefore(earliest) {
			earliest = as.Time
		}
	}
	a.Date = earliest.On(day)
}
