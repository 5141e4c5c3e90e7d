package util

import "time"

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month, 23:59:59.999.
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location()).
		Add(-time.Millisecond)
}

// StartOfYear returns midnight on January 1 of t's year.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// EndOfYear returns the last instant of t's year, 23:59:59.999.
func EndOfYear(t time.Time) time.Time {
	return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, t.Location()).
		Add(-time.Millisecond)
}

// EndOfDay returns the last instant of t's day, 23:59:59.999.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location()).
		Add(-time.Millisecond)
}

// StartOfWeek returns midnight on the Sunday of t's week.
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// DaysPassed counts calendar days elapsed from start through ref inclusive.
// Minimum 1, also when ref precedes start.
func DaysPassed(start, ref time.Time) int {
	if ref.Before(start) {
		return 1
	}
	return int(ref.Sub(start).Hours()/24) + 1
}
