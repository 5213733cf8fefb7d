package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("9:05")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:05"), ts)

	ts, err = NewTimeStringFromString("10:30:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestFromMinutes(t *testing.T) {
	ts, err := FromMinutes(11*60 + 15)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), ts)

	_, err = FromMinutes(24*60 + 15)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = FromMinutes(-1)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("12:00").IsBefore("12:00"))
	assert.Equal(t, 615, TimeString("10:15").Minutes())
	assert.Equal(t, -1, TimeString("x").Minutes())
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	day := time.Date(2025, 6, 1, 18, 40, 0, 0, loc)

	got := TimeString("10:15").On(day)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 15, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("14:30:00")))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
