package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/pkg/types"
)

func TestAgendaOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultAgendaOptions().Validate())

	opts := DefaultAgendaOptions()
	opts.IntervalMinutes = 20
	assert.True(t, IsValidation(opts.Validate()))

	opts = DefaultAgendaOptions()
	opts.StartHour, opts.EndHour = 20, 9
	assert.True(t, IsValidation(opts.Validate()))
}

func TestAgendaOptions_Rows(t *testing.T) {
	opts := AgendaOptions{IntervalMinutes: 30, StartHour: 9, EndHour: 11, PixelsPerMinute: 1}

	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00", "10:30"}, opts.Rows())
}

func TestAgendaOptions_Position(t *testing.T) {
	opts := AgendaOptions{IntervalMinutes: 15, StartHour: 8, EndHour: 20, PixelsPerMinute: 2}

	top, height := opts.Position("09:30", 45)

	assert.Equal(t, 180.0, top)
	assert.Equal(t, 90.0, height)
}

func TestBuildAgenda(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	employees := []*User{
		{ID: "e1", Name: "Lucia", Role: RolePeluquero, IsActive: true},
		{ID: "e2", Name: "Marta", Role: RolePeluquero, IsActive: true},
	}
	appointments := []*Appointment{
		{
			ID: "a1", CustomerName: "Ana", Status: StatusConfirmed,
			Date: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			Assignments: []Assignment{
				{EmployeeID: "e1", ServiceID: "corte", ServiceName: "Corte", Time: "10:30", DurationMinutes: 30},
				{EmployeeID: "e2", ServiceID: "color", ServiceName: "Color", Time: "10:00", DurationMinutes: 60},
			},
		},
		{
			ID: "a2", CustomerName: "Bea", Status: StatusConfirmed,
			Date:        time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			Assignments: []Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "09:00", DurationMinutes: 30}},
		},
		{
			ID: "a3", CustomerName: "Cancelada", Status: StatusCancelled,
			Date:        time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			Assignments: []Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "09:00", DurationMinutes: 30}},
		},
		{
			ID: "a4", CustomerName: "Otro", Status: StatusConfirmed,
			Date:        time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			Assignments: []Assignment{{EmployeeID: "ghost", ServiceID: "corte", Time: "09:00", DurationMinutes: 30}},
		},
	}
	opts := AgendaOptions{IntervalMinutes: 60, StartHour: 8, EndHour: 12, PixelsPerMinute: 1}
	now := time.Date(2025, 6, 1, 9, 50, 0, 0, time.UTC)

	agenda := BuildAgenda(day, employees, appointments, opts, DefaultWaitingWindow(), now)

	require.Len(t, agenda.Columns, 2)
	assert.Len(t, agenda.Rows, 4)

	e1 := agenda.Columns[0]
	require.Len(t, e1.Blocks, 2)
	assert.Equal(t, "a2", e1.Blocks[0].AppointmentID)
	assert.Equal(t, 60.0, e1.Blocks[0].Top)
	assert.Equal(t, "a1", e1.Blocks[1].AppointmentID)
	assert.Equal(t, 150.0, e1.Blocks[1].Top)
	assert.Equal(t, 30.0, e1.Blocks[1].Height)
	assert.Equal(t, StatusWaiting, e1.Blocks[1].DisplayStatus)
	assert.Equal(t, StatusConfirmed, e1.Blocks[1].Status)

	e2 := agenda.Columns[1]
	require.Len(t, e2.Blocks, 1)
	assert.Equal(t, 120.0, e2.Blocks[0].Top)
	assert.Equal(t, 60.0, e2.Blocks[0].Height)
}
