package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billingFixture(loc *time.Location) []*Appointment {
	return []*Appointment{
		{
			ID: "a1", CustomerEmail: "cliente@x.com", CustomerName: "Cliente", Status: StatusCompleted,
			Date:        time.Date(2025, 6, 1, 10, 0, 0, 0, loc),
			Assignments: []Assignment{{ServiceID: "corte", DurationMinutes: 30, PriceMinorUnits: 5000}},
		},
		{
			ID: "a2", CustomerEmail: "Cliente@X.com ", CustomerName: "Cliente", Status: StatusCompleted,
			Date: time.Date(2025, 6, 1, 16, 0, 0, 0, loc),
			Assignments: []Assignment{
				{ServiceID: "corte", DurationMinutes: 30, PriceMinorUnits: 5000},
				{ServiceID: "coloracion", DurationMinutes: 60, PriceMinorUnits: 8000},
			},
		},
		{
			ID: "a3", CustomerEmail: "cliente@x.com", Status: StatusConfirmed,
			Date:        time.Date(2025, 6, 1, 18, 0, 0, 0, loc),
			Assignments: []Assignment{{ServiceID: "corte", DurationMinutes: 30}},
		},
		{
			ID: "a4", CustomerEmail: "otra@x.com", Status: StatusBilled,
			Date:        time.Date(2025, 6, 2, 11, 0, 0, 0, loc),
			Assignments: []Assignment{{ServiceID: "corte", DurationMinutes: 30, PriceMinorUnits: 5000}},
		},
	}
}

func TestGroupForBilling_SameClientSameDay(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)

	groups := GroupForBilling(billingFixture(loc), loc)

	require.Len(t, groups, 2)

	// новые дни сверху
	assert.Equal(t, "otra@x.com", groups[0].CustomerEmail)
	assert.Equal(t, GroupBilled, groups[0].Status)

	g := groups[1]
	assert.Equal(t, "cliente@x.com|2025-06-01", g.Key)
	assert.Equal(t, []string{"a1", "a2"}, g.AppointmentIDs)
	assert.Equal(t, 3, g.TotalServices)
	assert.Equal(t, GroupPending, g.Status)

	g.ApplyTotals(nil)
	assert.Equal(t, int64(18000), g.TotalMinor)
}

func TestGroupForBilling_UsesLocalDay(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	// 01:30 UTC 2 июня = 22:30 1 июня по Буэнос-Айресу
	a := &Appointment{
		ID: "late", CustomerEmail: "c@x.com", Status: StatusCompleted,
		Date:        time.Date(2025, 6, 2, 1, 30, 0, 0, time.UTC),
		Assignments: []Assignment{{ServiceID: "s", DurationMinutes: 30}},
	}

	groups := GroupForBilling([]*Appointment{a}, loc)

	require.Len(t, groups, 1)
	assert.Equal(t, "c@x.com|2025-06-01", groups[0].Key)
}

func TestGroupForBilling_WalkInsWithoutEmail(t *testing.T) {
	loc := time.UTC
	day := time.Date(2025, 6, 1, 10, 0, 0, 0, loc)
	clientID := "client-7"
	walkIn := func(id, name string, at time.Duration) *Appointment {
		return &Appointment{
			ID: id, CustomerName: name, Status: StatusCompleted, Date: day.Add(at),
			Assignments: []Assignment{{ServiceID: "corte", DurationMinutes: 30, PriceMinorUnits: 5000}},
		}
	}

	withCard := walkIn("a3", "Ana", 3*time.Hour)
	withCard.ClientID = &clientID

	groups := GroupForBilling([]*Appointment{
		walkIn("a1", "Ana Perez", 0),
		walkIn("a2", "Marta", time.Hour),
		withCard,
		walkIn("a4", " ana  PEREZ ", 2*time.Hour),
	}, loc)

	require.Len(t, groups, 3)
	byKey := make(map[string]*BillingGroup)
	for _, g := range groups {
		byKey[g.Key] = g
	}
	require.Contains(t, byKey, "name:ana perez|2025-06-01")
	assert.Equal(t, []string{"a1", "a4"}, byKey["name:ana perez|2025-06-01"].AppointmentIDs)
	assert.Equal(t, "Ana Perez", byKey["name:ana perez|2025-06-01"].CustomerName)
	assert.Equal(t, []string{"a2"}, byKey["name:marta|2025-06-01"].AppointmentIDs)
	assert.Equal(t, []string{"a3"}, byKey["client:client-7|2025-06-01"].AppointmentIDs)
}

func TestGroupForBilling_Idempotent(t *testing.T) {
	loc := time.UTC
	appointments := billingFixture(loc)

	first := GroupForBilling(appointments, loc)
	second := GroupForBilling(appointments, loc)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
		assert.Equal(t, first[i].AppointmentIDs, second[i].AppointmentIDs)
		assert.Equal(t, first[i].TotalServices, second[i].TotalServices)
	}
}

func TestGroupForBilling_MixedStatus(t *testing.T) {
	loc := time.UTC
	appointments := billingFixture(loc)
	appointments[1].Status = StatusBilled

	groups := GroupForBilling(appointments, loc)

	require.Len(t, groups, 2)
	assert.Equal(t, GroupMixed, groups[1].Status)
}

func TestBillRevert_Involution(t *testing.T) {
	loc := time.UTC
	appointments := billingFixture(loc)[:2]
	now := time.Now()

	for _, a := range appointments {
		_, err := a.TransitionTo(StatusBilled, now)
		require.NoError(t, err)
	}
	for _, a := range appointments {
		_, err := a.TransitionTo(StatusCompleted, now)
		require.NoError(t, err)
	}

	for _, a := range appointments {
		assert.Equal(t, StatusCompleted, a.Status)
	}
}
