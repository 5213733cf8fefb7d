package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSettings_BookingClosesAt(t *testing.T) {
	s := &Settings{BookingClosingHours: 2}
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), s.BookingClosesAt(start))
}

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
	assert.True(t, IsValidation((&Settings{BookingClosingHours: -1}).Validate()))
	assert.True(t, IsValidation((&Settings{WhatsAppEnabled: true}).Validate()))
}

func TestSettings_ConfirmationMessage(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	s := &Settings{WhatsAppMessageTemplate: "Hola {name}, tu turno es el {date} a las {time} ({services})."}
	a := &Appointment{
		CustomerName: "Ana",
		Date:         time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC),
		ServiceNames: []string{"Corte", "Brushing"},
	}

	assert.Equal(t, "Hola Ana, tu turno es el 02/06/2025 a las 10:30 (Corte, Brushing).", s.ConfirmationMessage(a, loc))

	assert.False(t, s.SendsConfirmations())
	s.WhatsAppEnabled = true
	s.WhatsAppPhoneNumber = "+54 11 5555-0000"
	assert.True(t, s.SendsConfirmations())
}
