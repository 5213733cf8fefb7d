package domain

import (
	"fmt"
	"time"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusWaiting    AppointmentStatus = "waiting"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no-show"
	StatusBilled     AppointmentStatus = "facturado"
)

// AllStatuses все допустимые статусы
var AllStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusWaiting,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
	StatusBilled,
}

// transitions разрешенные переходы. Все, чего нет в таблице, отклоняется
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusConfirmed:  {StatusWaiting, StatusCancelled, StatusNoShow},
	StatusWaiting:    {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {StatusBilled},
	StatusBilled:     {StatusCompleted},
}

// ParseStatus валидирует строку статуса
func ParseStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if !status.IsValid() {
		return "", NewValidationError("status", "unknown status %q", s)
	}
	return status, nil
}

func (s AppointmentStatus) IsValid() bool {
	for _, valid := range AllStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) String() string {
	return string(s)
}

// CanTransition true, если переход from -> to есть в таблице
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses статусы, доступные из from
func NextStatuses(from AppointmentStatus) []AppointmentStatus {
	return append([]AppointmentStatus(nil), transitions[from]...)
}

// TransitionTo переводит запись в статус to.
// Повтор текущего статуса - no-op (changed=false), недопустимый переход - ConflictError
func (a *Appointment) TransitionTo(to AppointmentStatus, at time.Time) (bool, error) {
	if !to.IsValid() {
		return false, NewValidationError("status", "unknown status %q", string(to))
	}
	if a.Status == to {
		return false, nil
	}
	if to == StatusCancelled {
		return false, NewValidationError("status", "use cancel to cancel an appointment")
	}
	if !CanTransition(a.Status, to) {
		return false, NewConflictError("appointment", a.ID,
			fmt.Sprintf("transition %s -> %s is not allowed", a.Status, to))
	}

	a.Status = to
	a.UpdatedAt = at
	return true, nil
}

// Cancel отменяет запись с указанием, кто и почему отменил
func (a *Appointment) Cancel(by, reason string, at time.Time) (bool, error) {
	if a.Status == StatusCancelled {
		return false, nil
	}
	if !a.CanBeCancelled() {
		return false, NewConflictError("appointment", a.ID,
			fmt.Sprintf("transition %s -> %s is not allowed", a.Status, StatusCancelled))
	}
	if len(reason) > MaxCancellationReasonLength {
		return false, NewValidationError("cancellationReason", "must not exceed %d characters", MaxCancellationReasonLength)
	}

	cancelledAt := at
	a.Status = StatusCancelled
	a.CancelledBy = &by
	a.CancelledAt = &cancelledAt
	a.CancellationReason = &reason
	a.UpdatedAt = at
	return true, nil
}

// WaitingWindow окно вокруг начала визита, в котором подтвержденная запись
// отображается как "waiting"
type WaitingWindow struct {
	Before time.Duration
	After  time.Duration
}

// DefaultWaitingWindow [-15 мин, +60 мин]
func DefaultWaitingWindow() WaitingWindow {
	return WaitingWindow{Before: DefaultWaitingWindowBefore, After: DefaultWaitingWindowAfter}
}

// DisplayStatus статус для раскраски дашборда. Сохраненный статус не меняется
func (w WaitingWindow) DisplayStatus(a *Appointment, now time.Time) AppointmentStatus {
	if a.Status != StatusConfirmed {
		return a.Status
	}
	from := a.Date.Add(-w.Before)
	to := a.Date.Add(w.After)
	if !now.Before(from) && !now.After(to) {
		return StatusWaiting
	}
	return a.Status
}

// DisplayStatus статус для дашборда с окном по умолчанию
func DisplayStatus(a *Appointment, now time.Time) AppointmentStatus {
	return DefaultWaitingWindow().DisplayStatus(a, now)
}
