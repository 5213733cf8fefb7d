package domain

import (
	"sort"
	"time"
)

// AssignmentRef ссылка на позицию визита с абсолютным интервалом
type AssignmentRef struct {
	AppointmentID   string
	AssignmentIndex int
	Start           time.Time
	End             time.Time
}

// Conflict две позиции одного сотрудника, пересекающиеся по времени
type Conflict struct {
	EmployeeID string
	First      AssignmentRef
	Second     AssignmentRef
}

// Overlaps интервалы пересекаются. Стык (конец одного = начало другого) не пересечение
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflicts ищет пересечения позиций у каждого сотрудника среди активных визитов.
// Двойная запись не запрещена, это только отчет
func FindConflicts(appointments []*Appointment) []Conflict {
	byEmployee := make(map[string][]AssignmentRef)
	employees := make([]string, 0)

	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		for i, as := range a.Assignments {
			if _, ok := byEmployee[as.EmployeeID]; !ok {
				employees = append(employees, as.EmployeeID)
			}
			byEmployee[as.EmployeeID] = append(byEmployee[as.EmployeeID], AssignmentRef{
				AppointmentID:   a.ID,
				AssignmentIndex: i,
				Start:           as.Start(a.Date),
				End:             as.End(a.Date),
			})
		}
	}
	sort.Strings(employees)

	conflicts := make([]Conflict, 0)
	for _, employeeID := range employees {
		refs := byEmployee[employeeID]
		sort.SliceStable(refs, func(i, j int) bool {
			return refs[i].Start.Before(refs[j].Start)
		})
		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				if !refs[j].Start.Before(refs[i].End) {
					break
				}
				if Overlaps(refs[i].Start, refs[i].End, refs[j].Start, refs[j].End) {
					conflicts = append(conflicts, Conflict{EmployeeID: employeeID, First: refs[i], Second: refs[j]})
				}
			}
		}
	}

	return conflicts
}

// ConflictsWith пересечения позиций candidate с уже существующими визитами (кроме него самого)
func ConflictsWith(candidate *Appointment, existing []*Appointment) []Conflict {
	others := make([]*Appointment, 0, len(existing))
	for _, a := range existing {
		if a != nil && a.ID != candidate.ID {
			others = append(others, a)
		}
	}

	result := make([]Conflict, 0)
	for _, c := range FindConflicts(append(others, candidate)) {
		if c.First.AppointmentID == candidate.ID || c.Second.AppointmentID == candidate.ID {
			result = append(result, c)
		}
	}
	return result
}
