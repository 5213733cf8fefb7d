package create_appointment

import (
	"context"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/integrations/whatsapp"
	"github.com/facumancuso/alessi-sub000/internal/notify"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Service, error)
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
}

// UserRepository интерфейс репозитория сотрудников
type UserRepository interface {
	List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	UpsertByEmail(ctx context.Context, c *domain.Client) (*domain.Client, error)
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

// Notifier рассылка событий сотрудникам
type Notifier interface {
	Publish(ev notify.Event) notify.Event
}

// Messenger клиент шлюза WhatsApp для подтверждения онлайн-записи
type Messenger interface {
	SendWithGracefulDegradation(ctx context.Context, msg whatsapp.Message) (*whatsapp.SendResult, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
