package domain

import "time"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxNotesLength               = 500
	MaxCancellationReasonLength  = 500
	MaxAssignmentsPerAppointment = 20
	MaxAssignmentDurationMinutes = 12 * 60
)

// Окно, в котором подтвержденная запись показывается как "waiting"
const (
	DefaultWaitingWindowBefore = 15 * time.Minute
	DefaultWaitingWindowAfter  = 60 * time.Minute
)

// Agenda defaults
const (
	DefaultAgendaIntervalMinutes = 15
	DefaultAgendaStartHour       = 8
	DefaultAgendaEndHour         = 21
	DefaultAgendaPixelsPerMinute = 2.0
)

// AllowedAgendaIntervals допустимый шаг сетки агенды в минутах
var AllowedAgendaIntervals = []int{10, 15, 30, 60}

// Pagination
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// InactiveStatuses записи, которые не занимают время сотрудника
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

// BillableStatuses записи, попадающие в биллинг
var BillableStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusBilled,
}
