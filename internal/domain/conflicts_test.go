package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConflicts(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	appointments := []*Appointment{
		{ID: "a1", Date: day, Status: StatusConfirmed, Assignments: []Assignment{
			{EmployeeID: "e1", Time: "10:00", DurationMinutes: 60},
		}},
		{ID: "a2", Date: day, Status: StatusConfirmed, Assignments: []Assignment{
			{EmployeeID: "e1", Time: "10:30", DurationMinutes: 30},
			{EmployeeID: "e2", Time: "10:30", DurationMinutes: 30},
		}},
		// стык с a1 не считается пересечением
		{ID: "a3", Date: day, Status: StatusConfirmed, Assignments: []Assignment{
			{EmployeeID: "e1", Time: "11:00", DurationMinutes: 30},
		}},
		// отмененная не занимает время
		{ID: "a4", Date: day, Status: StatusCancelled, Assignments: []Assignment{
			{EmployeeID: "e2", Time: "10:30", DurationMinutes: 30},
		}},
	}

	conflicts := FindConflicts(appointments)

	require.Len(t, conflicts, 1)
	assert.Equal(t, "e1", conflicts[0].EmployeeID)
	assert.Equal(t, "a1", conflicts[0].First.AppointmentID)
	assert.Equal(t, "a2", conflicts[0].Second.AppointmentID)
}

func TestConflictsWith_ExcludesSelf(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := &Appointment{ID: "a1", Date: day, Status: StatusConfirmed, Assignments: []Assignment{
		{EmployeeID: "e1", Time: "10:00", DurationMinutes: 60},
	}}
	candidate := &Appointment{ID: "a1", Date: day, Status: StatusConfirmed, Assignments: []Assignment{
		{EmployeeID: "e1", Time: "10:15", DurationMinutes: 60},
	}}

	assert.Empty(t, ConflictsWith(candidate, []*Appointment{existing}))

	candidate.ID = "new"
	assert.Len(t, ConflictsWith(candidate, []*Appointment{existing}), 1)
}

func TestNextAppointmentPerEmployee(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 10, 45, 0, 0, time.UTC)
	appointments := []*Appointment{
		{ID: "past", Date: day, Status: StatusConfirmed, Assignments: []Assignment{
			{EmployeeID: "e1", Time: "09:00", DurationMinutes: 30},
		}},
		{ID: "ongoing", Date: day, Status: StatusWaiting, Assignments: []Assignment{
			{EmployeeID: "e1", Time: "10:30", DurationMinutes: 30},
		}},
		{ID: "later", Date: day, Status: StatusConfirmed, Assignments: []Assignment{
			{EmployeeID: "e1", Time: "12:00", DurationMinutes: 30},
			{EmployeeID: "e2", Time: "12:30", DurationMinutes: 30},
		}},
		{ID: "done", Date: day, Status: StatusCompleted, Assignments: []Assignment{
			{EmployeeID: "e2", Time: "11:00", DurationMinutes: 30},
		}},
	}

	next := NextAppointmentPerEmployee(appointments, now)

	require.Len(t, next, 2)
	assert.Equal(t, "ongoing", next["e1"].AppointmentID)
	assert.Equal(t, "later", next["e2"].AppointmentID)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC), next["e2"].Start)
}
