package appointments

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/notify"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*domain.Appointment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]*domain.Appointment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	args := m.Called(ctx, a)
	return a, args.Error(0)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockAppointmentRepo) Cancel(ctx context.Context, id, cancelledBy string, reason *string, at time.Time) error {
	return m.Called(ctx, id, cancelledBy, reason, at).Error(0)
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// catalogRepo каталог услуг и товаров в памяти
type catalogRepo struct {
	services map[string]*domain.Service
	products map[string]*domain.Product
}

func (r *catalogRepo) lookupServices(ids []string) []*domain.Service {
	out := make([]*domain.Service, 0)
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

type serviceRepoStub struct{ *catalogRepo }

func (r serviceRepoStub) GetByIDs(_ context.Context, ids []string) ([]*domain.Service, error) {
	return r.lookupServices(ids), nil
}

type productRepoStub struct{ *catalogRepo }

func (r productRepoStub) GetByIDs(_ context.Context, ids []string) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type userRepoStub struct {
	users []*domain.User
}

func (r *userRepoStub) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("user", id)
}

func (r *userRepoStub) List(_ context.Context, _ domain.UserFilter) ([]*domain.User, error) {
	return r.users, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Publish(ev notify.Event) notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return ev
}

func (n *recordingNotifier) Wait(_ context.Context, employeeID string, _ uint64, _ time.Duration) ([]notify.Event, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Event
	for _, ev := range n.events {
		if ev.EmployeeID == employeeID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type recordingObserver struct {
	transitions []string
}

func (o *recordingObserver) ObserveTransition(from, to string) {
	o.transitions = append(o.transitions, from+"->"+to)
}

// inlineTx выполняет функцию без транзакции
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
