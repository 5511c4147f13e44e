package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s unavailable: %v", name, err)
	}
	return loc
}

func TestStartOfDay_UsesLocalBoundary(t *testing.T) {
	loc := mustLoad(t, "Asia/Jakarta")
	// 20:30 UTC is already the next day in UTC+7.
	ts := time.Date(2024, 3, 10, 20, 30, 0, 0, time.UTC)
	got := StartOfDay(ts, loc)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), got)
	assert.Equal(t, "2024-03-11", Key(ts, loc))
}

func TestDayRange_DSTDayIsNot24Hours(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	start, end := DayRange(time.Date(2024, 3, 10, 12, 0, 0, 0, loc), loc)
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestSameDay(t *testing.T) {
	loc := time.UTC
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	b := time.Date(2024, 1, 1, 23, 59, 59, 0, loc)
	c := time.Date(2024, 1, 2, 0, 0, 0, 0, loc)
	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(b, c, loc))
	// Same day of year, different year.
	assert.False(t, SameDay(a, a.AddDate(1, 0, 0), loc))
}

func TestTransplantTimeOfDay(t *testing.T) {
	loc := time.UTC
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	now := time.Date(2024, 5, 4, 13, 45, 10, 0, loc)
	got := TransplantTimeOfDay(date, now, loc)
	assert.Equal(t, time.Date(2024, 5, 1, 13, 45, 10, 0, loc), got)
}

func TestParseKey(t *testing.T) {
	got, err := ParseKey("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseKey("29/02/2024", time.UTC)
	assert.Error(t, err)
}

func TestSpanRange(t *testing.T) {
	loc := time.UTC
	start, end := SpanRange(time.Date(2024, 1, 1, 9, 0, 0, 0, loc), time.Date(2024, 1, 3, 1, 0, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, loc), end)
}
