package domain

import "time"

// NextAssignment ближайшая позиция сотрудника
type NextAssignment struct {
	EmployeeID      string
	AppointmentID   string
	CustomerName    string
	ServiceName     string
	Start           time.Time
	DurationMinutes int
	Status          AppointmentStatus
}

// NextAppointmentPerEmployee для каждого сотрудника ближайшая незавершенная позиция
// (confirmed/waiting), которая еще не закончилась к моменту now
func NextAppointmentPerEmployee(appointments []*Appointment, now time.Time) map[string]NextAssignment {
	result := make(map[string]NextAssignment)

	for _, a := range appointments {
		if a == nil || (a.Status != StatusConfirmed && a.Status != StatusWaiting) {
			continue
		}
		for _, as := range a.Assignments {
			start, end := as.Start(a.Date), as.End(a.Date)
			if !end.After(now) {
				continue
			}
			current, ok := result[as.EmployeeID]
			if ok && !start.Before(current.Start) {
				continue
			}
			result[as.EmployeeID] = NextAssignment{
				EmployeeID:      as.EmployeeID,
				AppointmentID:   a.ID,
				CustomerName:    a.CustomerName,
				ServiceName:     as.ServiceName,
				Start:           start,
				DurationMinutes: as.DurationMinutes,
				Status:          a.Status,
			}
		}
	}

	return result
}
