package timecalc

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used for day keys.
const DateLayout = "2006-01-02"

// DateKey formats t as a local calendar date key (YYYY-MM-DD).
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// MaxWindow is the largest trailing window, in days, TrailingDays produces.
const MaxWindow = 3660

// TrailingDays returns the window+1 calendar days from now-window to now
// inclusive, ascending, each at 00:00 in now's location.
// The window is clamped to [0, MaxWindow].
func TrailingDays(now time.Time, window int) []time.Time {
	window = ClampWindow(window)
	today := StartOfDay(now)
	days := make([]time.Time, 0, window+1)
	for i := window; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i))
	}
	return days
}

// ClampWindow limits window to [0, MaxWindow].
func ClampWindow(window int) int {
	switch {
	case window < 0:
		return 0
	case window > MaxWindow:
		return MaxWindow
	}
	return window
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := EndOfDay(monday.AddDate(0, 0, 6))
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InRange reports whether the date key falls in [from, to] by calendar day.
// Unparseable keys are never in range.
func InRange(key string, from, to time.Time) bool {
	d, err := ParseDate(key, from.Location())
	if err != nil {
		return false
	}
	return !d.Before(StartOfDay(from)) && !d.After(StartOfDay(to))
}
