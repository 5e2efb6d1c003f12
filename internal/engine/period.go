package engine

import (
	"time"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// Period boundaries are calendar-aligned in UTC. Weeks start on Monday
// (ISO 8601), months are calendar months. The alignment rule is fixed
// here so every component buckets identically.

// dayOf truncates a time to the start of its UTC calendar day.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// periodStart returns the start of the calendar period containing t.
func periodStart(t time.Time, p models.Period) time.Time {
	d := dayOf(t)
	switch p {
	case models.PeriodWeek:
		// Monday-based: Sunday counts as 6 days into the week.
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case models.PeriodMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// periodEnd returns the exclusive end of the period containing t.
func periodEnd(t time.Time, p models.Period) time.Time {
	start := periodStart(t, p)
	switch p {
	case models.PeriodWeek:
		return start.AddDate(0, 0, 7)
	case models.PeriodMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// samePeriod reports whether a and b fall into the same calendar period.
func samePeriod(a, b time.Time, p models.Period) bool {
	return periodStart(a, p).Equal(periodStart(b, p))
}

// periodsBetween counts the periods from the one containing `from`
// through the one containing `to`, inclusive. Returns 0 when `to`
// precedes `from`'s period.
func periodsBetween(from, to time.Time, p models.Period) int {
	start := periodStart(from, p)
	end := periodStart(to, p)
	if end.Before(start) {
		return 0
	}
	switch p {
	case models.PeriodWeek:
		return int(end.Sub(start).Hours()/(24*7)) + 1
	case models.PeriodMonth:
		return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	default:
		return int(end.Sub(start).Hours()/24) + 1
	}
}

// daysBetween is the whole-day distance between two dates.
func daysBetween(a, b time.Time) int {
	return int(dayOf(b).Sub(dayOf(a)).Hours() / 24)
}
