package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayDelta(t *testing.T) {
	assert.Equal(t, 0, DayDelta(day(2024, 1, 10), day(2024, 1, 10)))
	assert.Equal(t, 1, DayDelta(day(2024, 1, 10), day(2024, 1, 11)))
	assert.Equal(t, 10, DayDelta(day(2024, 1, 1), day(2024, 1, 11)))
	assert.Equal(t, 366, DayDelta(day(2024, 1, 1), day(2025, 1, 1)))

	// Rounded to the nearest day.
	noon := day(2024, 1, 10).Add(13 * time.Hour)
	assert.Equal(t, 1, DayDelta(day(2024, 1, 10), noon))
	assert.Equal(t, 0, DayDelta(day(2024, 1, 10), day(2024, 1, 10).Add(11*time.Hour)))

	// Spans beyond time.Duration's range: five 400-year Gregorian cycles.
	assert.Equal(t, 730485, DayDelta(day(24, 1, 2), day(2024, 1, 2)))
	assert.Equal(t, 730485, DayDelta(day(2024, 1, 2), day(24, 1, 2)))
}

func TestDayDeltaIsSymmetric(t *testing.T) {
	pairs := [][2]time.Time{
		{day(2024, 1, 10), day(2024, 1, 11)},
		{day(2023, 12, 31), day(2024, 3, 1)},
		{day(2024, 1, 10).Add(7 * time.Hour), day(2024, 1, 20)},
	}
	for _, p := range pairs {
		assert.Equal(t, DayDelta(p[0], p[1]), DayDelta(p[1], p[0]))
	}
}

func TestParseTimestamp(t *testing.T) {
	got := ParseTimestamp("2024-01-11")
	require.NotNil(t, got)
	assert.True(t, got.Equal(day(2024, 1, 11)))

	got = ParseTimestamp("2024-01-11T15:04:05Z")
	require.NotNil(t, got)
	assert.Equal(t, 15, got.Hour())

	got = ParseTimestamp("2024-01-11T10:00:00-05:00")
	require.NotNil(t, got)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 15, got.Hour())

	assert.Nil(t, ParseTimestamp(""))
	assert.Nil(t, ParseTimestamp("next tuesday"))
}
