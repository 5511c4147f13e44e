// Package calendar normalizes timestamps to local calendar days.
package calendar

import "time"

const KeyLayout = "2006-01-02"

// StartOfDay returns local midnight of the day containing value.
func StartOfDay(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.Local
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayRange returns the half-open [start, end) bounds of the local day. The
// bounds come from calendar arithmetic so DST days are 23 or 25 hours long.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := StartOfDay(value, location)
	return start, start.AddDate(0, 0, 1)
}

// SpanRange returns [start of first day, start of the day after last).
func SpanRange(first, last time.Time, location *time.Location) (time.Time, time.Time) {
	start := StartOfDay(first, location)
	end := StartOfDay(last, location).AddDate(0, 0, 1)
	return start, end
}

func Key(value time.Time, location *time.Location) string {
	return StartOfDay(value, location).Format(KeyLayout)
}

// ParseKey reads a YYYY-MM-DD date as local midnight.
func ParseKey(key string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.Local
	}
	return time.ParseInLocation(KeyLayout, key, location)
}

func SameDay(a, b time.Time, location *time.Location) bool {
	return StartOfDay(a, location).Equal(StartOfDay(b, location))
}

// TransplantTimeOfDay keeps the calendar date of date and the wall-clock time
// of now, so backdated entries keep a stable intra-day order.
func TransplantTimeOfDay(date, now time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.Local
	}
	d := date.In(location)
	n := now.In(location)
	return time.Date(d.Year(), d.Month(), d.Day(), n.Hour(), n.Minute(), n.Second(), n.Nanosecond(), location)
}
