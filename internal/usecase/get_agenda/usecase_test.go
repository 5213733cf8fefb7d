package get_agenda

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/pkg/ptr"
	"github.com/facumancuso/alessi-sub000/pkg/types"
)

type memoryAppointments struct {
	list       []*domain.Appointment
	lastFilter domain.AppointmentFilter
}

func (r *memoryAppointments) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.lastFilter = filter
	out := make([]*domain.Appointment, 0)
	for _, a := range r.list {
		if filter.EmployeeID != nil && !a.HasEmployee(*filter.EmployeeID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type memoryUsers struct{ users []*domain.User }

func (u memoryUsers) List(context.Context, domain.UserFilter) ([]*domain.User, error) {
	return u.users, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T) (*UseCase, *memoryAppointments) {
	t.Helper()

	appointments := &memoryAppointments{list: []*domain.Appointment{
		{
			ID: "a1", CustomerName: "Ana", Date: day.Add(10 * time.Hour), Status: domain.StatusConfirmed,
			Assignments: []domain.Assignment{
				{EmployeeID: "e2", ServiceID: "corte", ServiceName: "Corte", Time: "10:00", DurationMinutes: 30},
				{EmployeeID: "e1", ServiceID: "tintura", ServiceName: "Tintura", Time: "10:30", DurationMinutes: 60},
			},
		},
		{
			ID: "a2", CustomerName: "Bea", Date: day.Add(9 * time.Hour), Status: domain.StatusCancelled,
			Assignments: []domain.Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "09:00", DurationMinutes: 30}},
		},
	}}
	users := memoryUsers{users: []*domain.User{
		{ID: "e2", Name: "Marta", Role: domain.RolePeluquero, IsActive: true},
		{ID: "e1", Name: "Laura", Role: domain.RolePeluquero, IsActive: true},
		{ID: "e3", Name: "Inactiva", Role: domain.RolePeluquero, IsActive: false},
	}}

	uc := NewUseCase(appointments, users, nopLogger{}, Config{
		Location:      time.UTC,
		Options:       domain.DefaultAgendaOptions(),
		WaitingWindow: domain.DefaultWaitingWindow(),
	})
	uc.timeProvider = fixedTime{now: day.Add(9*time.Hour + 50*time.Minute)}
	return uc, appointments
}

func TestExecute_BuildsColumns(t *testing.T) {
	uc, _ := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{
		Session: auth.Session{UserID: "r1", Role: domain.RoleRecepcion},
		Date:    day,
	})
	require.NoError(t, err)

	assert.Equal(t, 15, resp.IntervalMinutes)
	assert.Equal(t, types.TimeString("08:00"), resp.Rows[0])

	require.Len(t, resp.Columns, 2)
	assert.Equal(t, "Laura", resp.Columns[0].EmployeeName)
	assert.Equal(t, "Marta", resp.Columns[1].EmployeeName)

	// отмененный визит не показывается
	require.Len(t, resp.Columns[0].Blocks, 1)
	b := resp.Columns[0].Blocks[0]
	assert.Equal(t, "a1", b.AppointmentID)
	assert.Equal(t, 1, b.AssignmentIndex)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, domain.StatusWaiting, b.DisplayStatus)
	assert.Equal(t, 150*2.0, b.Top)
	assert.Equal(t, 60*2.0, b.Height)
}

func TestExecute_IntervalOverride(t *testing.T) {
	uc, _ := newUseCase(t)
	session := auth.Session{UserID: "g1", Role: domain.RoleGerente}

	resp, err := uc.Execute(context.Background(), &Request{Session: session, Date: day, IntervalMinutes: ptr.Ptr(30)})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.IntervalMinutes)
	assert.Equal(t, types.TimeString("08:30"), resp.Rows[1])

	_, err = uc.Execute(context.Background(), &Request{Session: session, Date: day, IntervalMinutes: ptr.Ptr(7)})
	assert.True(t, domain.IsValidation(err))
}

func TestExecute_StylistSeesOwnColumnToday(t *testing.T) {
	uc, appointments := newUseCase(t)
	session := auth.Session{UserID: "e1", Role: domain.RolePeluquero}

	resp, err := uc.Execute(context.Background(), &Request{Session: session})
	require.NoError(t, err)
	require.Len(t, resp.Columns, 1)
	assert.Equal(t, "e1", resp.Columns[0].EmployeeID)
	require.NotNil(t, appointments.lastFilter.EmployeeID)
	assert.Equal(t, "e1", *appointments.lastFilter.EmployeeID)

	_, err = uc.Execute(context.Background(), &Request{Session: session, Date: day.AddDate(0, 0, 1)})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
