package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromMinor(t *testing.T) {
	assert.True(t, FromMinor(13000).Equal(decimal.NewFromInt(130)))
	assert.Equal(t, "130.00", Format(13000))
	assert.Equal(t, "0.05", Format(5))
}

func TestToMinor(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinor(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(0), ToMinor(decimal.Zero))
}
