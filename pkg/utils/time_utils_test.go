package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripDayCount(t *testing.T) {
	assert.Equal(t, 3, TripDayCount("2026-02-01", "2026-02-03"))
	assert.Equal(t, 1, TripDayCount("2026-02-01", "2026-02-01"))
	assert.Equal(t, 2, TripDayCount("2024-02-28", "2024-02-29"))
	assert.Equal(t, 0, TripDayCount("2026-02-03", "2026-02-01"))
	assert.Equal(t, 0, TripDayCount("", "2026-02-01"))
	assert.Equal(t, 0, TripDayCount("2026-02-01", "02/03/2026"))
}

func TestDayDate(t *testing.T) {
	d, err := DayDate("2026-01-31", 2)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", d.Format(DateLayout))

	_, err = DayDate("soon", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTripDates(t *testing.T) {
	assert.Equal(t, []string{"2026-02-01", "2026-02-02", "2026-02-03"}, TripDates("2026-02-01", "2026-02-03"))
	assert.Empty(t, TripDates("2026-02-03", "2026-02-01"))
}
