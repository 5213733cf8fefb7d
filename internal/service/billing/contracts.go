package billing

import (
	"context"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	TransitionMany(ctx context.Context, ids []string, from, to domain.AppointmentStatus) ([]string, error)
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
}

// BillingObserver учет массовых действий в метриках
type BillingObserver interface {
	ObserveBilling(action string)
	ObserveTransition(from, to string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
