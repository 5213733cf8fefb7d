package domain

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/facumancuso/alessi-sub000/pkg/money"
	"github.com/facumancuso/alessi-sub000/pkg/types"
)

// TotalDuration сумма длительностей всех позиций. Пустой список -> 0
func TotalDuration(assignments []Assignment) int {
	total := 0
	for _, a := range assignments {
		total += a.DurationMinutes
	}
	return total
}

// TotalPrice сумма цен услуг (по serviceId) и товаров (по productIds) в отображаемых единицах.
// Ненайденные услуги и товары дают 0
func TotalPrice(assignments []Assignment, services ServiceCatalog, productIDs []string, products ProductCatalog) decimal.Decimal {
	return money.FromMinor(TotalPriceMinor(assignments, services, productIDs, products))
}

// TotalPriceMinor то же, что TotalPrice, но в центах
func TotalPriceMinor(assignments []Assignment, services ServiceCatalog, productIDs []string, products ProductCatalog) int64 {
	var total int64
	for _, a := range assignments {
		if svc, ok := services[a.ServiceID]; ok {
			total += svc.PriceMinorUnits
		}
	}
	for _, id := range productIDs {
		if p, ok := products[id]; ok {
			total += p.PriceMinorUnits
		}
	}
	return total
}

// FlattenProductIDs товары всех позиций в порядке следования
func FlattenProductIDs(assignments []Assignment) []string {
	ids := make([]string, 0)
	for _, a := range assignments {
		ids = append(ids, a.ProductIDs...)
	}
	return ids
}

// AddAssignment возвращает новый список с позицией в конце
func AddAssignment(assignments []Assignment, a Assignment) []Assignment {
	out := cloneAssignments(assignments, 1)
	return append(out, a)
}

// RemoveAssignment возвращает новый список без позиции index
func RemoveAssignment(assignments []Assignment, index int) ([]Assignment, error) {
	if index < 0 || index >= len(assignments) {
		return nil, NewValidationError("assignments", "index %d out of range", index)
	}
	out := make([]Assignment, 0, len(assignments)-1)
	out = append(out, assignments[:index]...)
	return append(out, cloneAssignments(assignments[index+1:], 0)...), nil
}

// AssignmentPatch изменение одной позиции. nil-поля не трогаются
type AssignmentPatch struct {
	EmployeeID      *string
	ServiceID       *string
	Time            *types.TimeString
	DurationMinutes *int
	ProductIDs      []string
	SetProducts     bool
}

// UpdateAssignment применяет patch к позиции index и возвращает новый список.
// Смена услуги подставляет длительность, название и цену новой услуги, время и сотрудник не меняются.
// Услуги нет в каталоге - NotFoundError. Явно переданная длительность применяется после этого
func UpdateAssignment(assignments []Assignment, index int, patch AssignmentPatch, services ServiceCatalog) ([]Assignment, error) {
	if index < 0 || index >= len(assignments) {
		return nil, NewValidationError("assignments", "index %d out of range", index)
	}

	out := cloneAssignments(assignments, 0)
	a := out[index]

	if patch.EmployeeID != nil {
		a.EmployeeID = *patch.EmployeeID
	}
	if patch.ServiceID != nil && *patch.ServiceID != a.ServiceID {
		svc, ok := services[*patch.ServiceID]
		if !ok {
			return nil, NewNotFoundError("service", *patch.ServiceID)
		}
		a.ServiceID = *patch.ServiceID
		a.DurationMinutes = svc.DurationMinutes
		a.ServiceName = svc.Name
		a.PriceMinorUnits = svc.PriceMinorUnits
	}
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.DurationMinutes != nil {
		a.DurationMinutes = *patch.DurationMinutes
	}
	if patch.SetProducts {
		a.ProductIDs = append([]string(nil), patch.ProductIDs...)
	}

	out[index] = a
	return out, nil
}

// ValidateAssignments проверяет инвариант: хотя бы одна позиция, у каждой
// сотрудник, услуга, корректное время и положительная длительность
func ValidateAssignments(assignments []Assignment) error {
	if len(assignments) == 0 {
		return NewValidationError("assignments", "at least one service is required")
	}
	if len(assignments) > MaxAssignmentsPerAppointment {
		return NewValidationError("assignments", "at most %d services per appointment", MaxAssignmentsPerAppointment)
	}

	for i, a := range assignments {
		if a.EmployeeID == "" {
			return NewValidationError(assignmentField(i, "employeeId"), "employee is required")
		}
		if a.ServiceID == "" {
			return NewValidationError(assignmentField(i, "serviceId"), "service is required")
		}
		if err := a.Time.Validate(); err != nil {
			return NewValidationError(assignmentField(i, "time"), "expected HH:MM")
		}
		if a.DurationMinutes <= 0 {
			return NewValidationError(assignmentField(i, "durationMinutes"), "must be positive")
		}
		if a.DurationMinutes > MaxAssignmentDurationMinutes {
			return NewValidationError(assignmentField(i, "durationMinutes"), "must not exceed %d", MaxAssignmentDurationMinutes)
		}
	}
	return nil
}

func assignmentField(i int, name string) string {
	return "assignments[" + strconv.Itoa(i) + "]." + name
}

func cloneAssignments(assignments []Assignment, extra int) []Assignment {
	out := make([]Assignment, len(assignments), len(assignments)+extra)
	for i, a := range assignments {
		a.ProductIDs = append([]string(nil), a.ProductIDs...)
		out[i] = a
	}
	return out
}

// ApplyServiceDefaults возвращает новый список, где позиции без длительности получают
// длительность услуги по умолчанию, а название и цена берутся из каталога
func ApplyServiceDefaults(assignments []Assignment, services ServiceCatalog) []Assignment {
	out := cloneAssignments(assignments, 0)
	for i := range out {
		svc, ok := services[out[i].ServiceID]
		if !ok {
			continue
		}
		if out[i].DurationMinutes == 0 {
			out[i].DurationMinutes = svc.DurationMinutes
		}
		out[i].ServiceName = svc.Name
		out[i].PriceMinorUnits = svc.PriceMinorUnits
	}
	return out
}

// ServiceIDs уникальные ID услуг в порядке появления
func ServiceIDs(assignments []Assignment) []string {
	seen := make(map[string]struct{}, len(assignments))
	out := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.ServiceID]; ok || a.ServiceID == "" {
			continue
		}
		seen[a.ServiceID] = struct{}{}
		out = append(out, a.ServiceID)
	}
	return out
}

// EmployeeIDs уникальные ID сотрудников в порядке появления
func EmployeeIDs(assignments []Assignment) []string {
	seen := make(map[string]struct{}, len(assignments))
	out := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.EmployeeID]; ok || a.EmployeeID == "" {
			continue
		}
		seen[a.EmployeeID] = struct{}{}
		out = append(out, a.EmployeeID)
	}
	return out
}
