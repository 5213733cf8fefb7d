package domain

import (
	"strings"
	"time"
)

// Settings настройки салона (одна запись)
type Settings struct {
	// BookingClosingHours за сколько часов до начала закрывается онлайн-запись
	BookingClosingHours int

	WhatsAppEnabled         bool
	WhatsAppPhoneNumber     string
	WhatsAppMessageTemplate string

	UpdatedAt time.Time
}

// DefaultSettings настройки, если запись еще не сохранена
func DefaultSettings() *Settings {
	return &Settings{
		BookingClosingHours:     2,
		WhatsAppMessageTemplate: "Hola {name}, te recordamos tu turno del {date} a las {time}.",
	}
}

// Validate проверяет настройки
func (s *Settings) Validate() error {
	if s.BookingClosingHours < 0 || s.BookingClosingHours > 24*30 {
		return NewValidationError("bookingClosingHours", "must be between 0 and %d", 24*30)
	}
	if s.WhatsAppEnabled && s.WhatsAppPhoneNumber == "" {
		return NewValidationError("whatsappPhoneNumber", "is required when whatsapp is enabled")
	}
	return nil
}

// BookingClosesAt момент, после которого онлайн-запись на start закрыта
func (s *Settings) BookingClosesAt(start time.Time) time.Time {
	return start.Add(-time.Duration(s.BookingClosingHours) * time.Hour)
}

// ConfirmationMessage подставляет данные записи в шаблон WhatsApp.
// Поддерживаются {name}, {date}, {time} и {services}
func (s *Settings) ConfirmationMessage(a *Appointment, loc *time.Location) string {
	start := a.Date.In(loc)
	r := strings.NewReplacer(
		"{name}", a.CustomerName,
		"{date}", start.Format("02/01/2006"),
		"{time}", start.Format(TimeFormat),
		"{services}", strings.Join(a.ServiceNames, ", "),
	)
	return r.Replace(s.WhatsAppMessageTemplate)
}

// SendsConfirmations включена ли отправка подтверждений онлайн-записи
func (s *Settings) SendsConfirmations() bool {
	return s.WhatsAppEnabled && s.WhatsAppPhoneNumber != "" && s.WhatsAppMessageTemplate != ""
}
