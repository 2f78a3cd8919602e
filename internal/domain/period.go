package domain

import "time"

// PeriodWindow is a closed date interval [Start, End] scoping every
// analytics aggregation. Both endpoints count toward the length.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// DefaultPeriodDays is the trailing window applied when no dates are given.
const DefaultPeriodDays = 30

// NewPeriodWindow builds a window from optional endpoints, defaulting to the
// trailing 30 days ending today. Times are truncated to calendar dates.
func NewPeriodWindow(start, end *time.Time, now time.Time) PeriodWindow {
	e := truncateDate(now)
	if end != nil {
		e = truncateDate(*end)
	}
	s := e.AddDate(0, 0, -DefaultPeriodDays)
	if start != nil {
		s = truncateDate(*start)
	}
	return PeriodWindow{Start: s, End: e}
}

// TrailingWindow returns the window of exactly days calendar days ending at
// now's date.
func TrailingWindow(days int, now time.Time) PeriodWindow {
	e := truncateDate(now)
	return PeriodWindow{Start: e.AddDate(0, 0, -(days - 1)), End: e}
}

// Valid reports whether the interval is well formed.
func (w PeriodWindow) Valid() bool {
	return !w.Start.After(w.End)
}

// Days returns the window length inclusive of both endpoints.
func (w PeriodWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Contains reports whether t's date falls inside the window.
func (w PeriodWindow) Contains(t time.Time) bool {
	d := truncateDate(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// EachDay calls fn for every calendar day of the window in ascending order.
func (w PeriodWindow) EachDay(fn func(day time.Time)) {
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
