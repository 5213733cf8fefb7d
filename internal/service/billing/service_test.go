package billing

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/billing/models"
)

// memoryRepo хранилище записей в памяти с условным переходом статуса
type memoryRepo struct {
	byID map[string]*domain.Appointment
}

func (r *memoryRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range r.byID {
		if filter.From != nil && a.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !a.Date.Before(*filter.To) {
			continue
		}
		if filter.CustomerEmail != nil && domain.NormalizeEmail(a.CustomerEmail) != domain.NormalizeEmail(*filter.CustomerEmail) {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, a.Status) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) TransitionMany(_ context.Context, ids []string, from, to domain.AppointmentStatus) ([]string, error) {
	updated := make([]string, 0)
	for _, id := range ids {
		if a, ok := r.byID[id]; ok && a.Status == from {
			a.Status = to
			updated = append(updated, id)
		}
	}
	return updated, nil
}

func hasStatus(list []domain.AppointmentStatus, s domain.AppointmentStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type noProducts struct{}

func (noProducts) GetByIDs(context.Context, []string) ([]*domain.Product, error) {
	return []*domain.Product{}, nil
}

type countingObserver struct {
	actions     []string
	transitions int
}

func (o *countingObserver) ObserveBilling(action string) { o.actions = append(o.actions, action) }
func (o *countingObserver) ObserveTransition(_, _ string) { o.transitions++ }

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var cashier = auth.Session{UserID: "r1", Role: domain.RoleRecepcion}

func assignment(price int64) domain.Assignment {
	return domain.Assignment{EmployeeID: "e1", ServiceID: "s", Time: "10:00", DurationMinutes: 30, PriceMinorUnits: price}
}

func newService(t *testing.T) (*Service, *memoryRepo, *countingObserver) {
	t.Helper()

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &memoryRepo{byID: map[string]*domain.Appointment{
		"a1": {ID: "a1", CustomerEmail: "cliente@x.com", CustomerName: "Cliente", Date: day.Add(10 * time.Hour),
			Status: domain.StatusCompleted, Assignments: []domain.Assignment{assignment(5000)}},
		"a2": {ID: "a2", CustomerEmail: "Cliente@X.com", CustomerName: "Cliente", Date: day.Add(16 * time.Hour),
			Status: domain.StatusCompleted, Assignments: []domain.Assignment{assignment(5000), assignment(8000)}},
		"a3": {ID: "a3", CustomerEmail: "otra@x.com", CustomerName: "Otra", Date: day.Add(11 * time.Hour),
			Status: domain.StatusConfirmed, Assignments: []domain.Assignment{assignment(5000)}},
	}}
	observer := &countingObserver{}

	svc := NewService(repo, noProducts{}, observer, inlineTx{}, nopLogger{}, time.UTC)
	svc.timeProvider = fixedTime{now: day.Add(20 * time.Hour)}
	return svc, repo, observer
}

func TestGroups(t *testing.T) {
	svc, _, _ := newService(t)

	resp, err := svc.Groups(context.Background(), cashier, &models.GroupsRequest{})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	g := resp.Groups[0]
	assert.Equal(t, "cliente@x.com|2025-06-01", g.Key)
	assert.Equal(t, 3, g.TotalServices)
	assert.Equal(t, []string{"a1", "a2"}, g.AppointmentIDs)
	assert.Equal(t, "180.00", g.Total)
	assert.Equal(t, string(domain.GroupPending), g.Status)

	_, err = svc.Groups(context.Background(), auth.Session{Role: domain.RolePeluquero}, &models.GroupsRequest{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestBillRevert_Involution(t *testing.T) {
	svc, repo, observer := newService(t)
	ctx := context.Background()

	ids := []string{"a1", "a2", "a3"}
	before := map[string]domain.AppointmentStatus{}
	for id, a := range repo.byID {
		before[id] = a.Status
	}

	billed, err := svc.Bill(ctx, cashier, &models.BulkRequest{AppointmentIDs: ids})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, billed.Updated)
	assert.Equal(t, []string{"a3"}, billed.Skipped)
	assert.Equal(t, domain.StatusBilled, repo.byID["a1"].Status)

	// повтор ничего не меняет
	again, err := svc.Bill(ctx, cashier, &models.BulkRequest{AppointmentIDs: ids})
	require.NoError(t, err)
	assert.Empty(t, again.Updated)

	reverted, err := svc.Revert(ctx, cashier, &models.BulkRequest{AppointmentIDs: billed.Updated})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, reverted.Updated)

	for id, a := range repo.byID {
		assert.Equal(t, before[id], a.Status, id)
	}
	assert.Equal(t, []string{ActionBill, ActionBill, ActionRevert}, observer.actions)
	assert.Equal(t, 4, observer.transitions)
}

func TestBill_ByCustomerAndDay(t *testing.T) {
	svc, repo, _ := newService(t)

	resp, err := svc.Bill(context.Background(), cashier, &models.BulkRequest{CustomerEmail: " CLIENTE@x.com", Date: "2025-06-01"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, resp.Updated)
	assert.Equal(t, domain.StatusConfirmed, repo.byID["a3"].Status)

	_, err = svc.Bill(context.Background(), cashier, &models.BulkRequest{})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Bill(context.Background(), cashier, &models.BulkRequest{CustomerEmail: "a@b.c", Date: "01/06/2025"})
	assert.True(t, domain.IsValidation(err))
}
