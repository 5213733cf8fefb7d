package models

import (
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// UpdateSettingsRequest частичное обновление настроек
type UpdateSettingsRequest struct {
	BookingClosingHours     *int    `json:"bookingClosingHours,omitempty"`
	WhatsAppEnabled         *bool   `json:"whatsappEnabled,omitempty"`
	WhatsAppPhoneNumber     *string `json:"whatsappPhoneNumber,omitempty"`
	WhatsAppMessageTemplate *string `json:"whatsappMessageTemplate,omitempty"`
}

// SettingsResponse модель ответа с настройками
type SettingsResponse struct {
	BookingClosingHours     int       `json:"bookingClosingHours"`
	WhatsAppEnabled         bool      `json:"whatsappEnabled"`
	WhatsAppPhoneNumber     string    `json:"whatsappPhoneNumber"`
	WhatsAppMessageTemplate string    `json:"whatsappMessageTemplate"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// Apply применяет заданные поля
func (r *UpdateSettingsRequest) Apply(s *domain.Settings) {
	if r.BookingClosingHours != nil {
		s.BookingClosingHours = *r.BookingClosingHours
	}
	if r.WhatsAppEnabled != nil {
		s.WhatsAppEnabled = *r.WhatsAppEnabled
	}
	if r.WhatsAppPhoneNumber != nil {
		s.WhatsAppPhoneNumber = *r.WhatsAppPhoneNumber
	}
	if r.WhatsAppMessageTemplate != nil {
		s.WhatsAppMessageTemplate = *r.WhatsAppMessageTemplate
	}
}

// FromDomainSettings конвертирует настройки в модель ответа
func FromDomainSettings(s *domain.Settings) *SettingsResponse {
	return &SettingsResponse{
		BookingClosingHours:     s.BookingClosingHours,
		WhatsAppEnabled:         s.WhatsAppEnabled,
		WhatsAppPhoneNumber:     s.WhatsAppPhoneNumber,
		WhatsAppMessageTemplate: s.WhatsAppMessageTemplate,
		UpdatedAt:               s.UpdatedAt,
	}
}
