package schedule_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"alcyxob/kinevo/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestToDateKey(t *testing.T) {
	assert.Equal(t, "2024-01-03", schedule.ToDateKey(date(2024, 1, 3)))
	assert.Equal(t, "0987-11-09", schedule.ToDateKey(date(987, 11, 9)))
}

func TestToDateKey_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	night := time.Date(2024, 1, 3, 23, 59, 59, 999999999, time.UTC)
	nextDay := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, schedule.ToDateKey(morning), schedule.ToDateKey(night))
	assert.NotEqual(t, schedule.ToDateKey(night), schedule.ToDateKey(nextDay))
	assert.True(t, schedule.SameDay(morning, night))
}

func TestToDateKey_UsesOwnLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	// 01:00 UTC on the 4th is still the evening of the 3rd in BRT
	instant := time.Date(2024, 1, 4, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-04", schedule.ToDateKey(instant))
	assert.Equal(t, "2024-01-03", schedule.ToDateKey(instant.In(saoPaulo)))
}

func TestParseDateKey(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	parsed, err := schedule.ParseDateKey("2024-02-29", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 2, 29, 0, 0, 0, 0, loc).Equal(parsed))
	assert.Equal(t, loc, parsed.Location())
	assert.Equal(t, "2024-02-29", schedule.ToDateKey(parsed))

	_, err = schedule.ParseDateKey("2024-13-01", loc)
	assert.Error(t, err)
	_, err = schedule.ParseDateKey("yesterday", nil)
	assert.Error(t, err)
}

func TestStartAndEndOfDay(t *testing.T) {
	instant := time.Date(2024, 5, 6, 14, 30, 12, 5, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), schedule.StartOfDay(instant))
	assert.Equal(t, time.Date(2024, 5, 6, 23, 59, 59, 0, time.UTC), schedule.EndOfDay(instant))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, schedule.DaysBetween(date(2024, 1, 1), time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 28, schedule.DaysBetween(date(2024, 1, 1), date(2024, 1, 29)))
	assert.Equal(t, -1, schedule.DaysBetween(date(2024, 1, 1), date(2023, 12, 31)))
	assert.Equal(t, 366, schedule.DaysBetween(date(2024, 1, 1), date(2025, 1, 1)))
}

func TestDaysBetween_AcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 only has 23 hours in New York
	before := time.Date(2024, 3, 9, 0, 0, 0, 0, ny)
	after := time.Date(2024, 3, 11, 0, 0, 0, 0, ny)
	assert.Equal(t, 2, schedule.DaysBetween(before, after))
	assert.Equal(t, after, schedule.AddDays(before, 2))
}
