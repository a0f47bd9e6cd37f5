package timecalc_test

import (
	"math"
	"testing"
	"time"

	"github.com/Tiliavir/headache-tracker/internal/timecalc"
)

func TestTrailingDays(t *testing.T) {
	now := time.Date(2024, 1, 3, 18, 45, 0, 0, time.UTC)
	days := timecalc.TrailingDays(now, 3)

	want := []string{"2023-12-31", "2024-01-01", "2024-01-02", "2024-01-03"}
	if len(days) != len(want) {
		t.Fatalf("TrailingDays len = %d, want %d", len(days), len(want))
	}
	for i, d := range days {
		if got := timecalc.DateKey(d); got != want[i] {
			t.Errorf("day[%d] = %s, want %s", i, got, want[i])
		}
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("day[%d] = %v, want midnight", i, d)
		}
	}
}

func TestTrailingDaysZeroAndNegative(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC)
	for _, w := range []int{0, -5} {
		days := timecalc.TrailingDays(now, w)
		if len(days) != 1 || timecalc.DateKey(days[0]) != "2024-03-01" {
			t.Errorf("TrailingDays(%d) = %v, want only today", w, days)
		}
	}
}

func TestTrailingDaysClampsLargeWindow(t *testing.T) {
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	days := timecalc.TrailingDays(now, math.MaxInt)
	if len(days) != timecalc.MaxWindow+1 {
		t.Fatalf("len = %d, want %d", len(days), timecalc.MaxWindow+1)
	}
	if got := timecalc.DateKey(days[len(days)-1]); got != "2024-01-03" {
		t.Errorf("last day = %s, want 2024-01-03", got)
	}
}

func TestTrailingDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// DST starts 2024-03-31 in Berlin; day arithmetic must not skip or repeat.
	now := time.Date(2024, 4, 2, 0, 30, 0, 0, loc)
	days := timecalc.TrailingDays(now, 4)
	want := []string{"2024-03-29", "2024-03-30", "2024-03-31", "2024-04-01", "2024-04-02"}
	for i, d := range days {
		if got := timecalc.DateKey(d); got != want[i] {
			t.Errorf("day[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestInRange(t *testing.T) {
	from := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)
	tests := []struct {
		key  string
		want bool
	}{
		{"2026-02-22", false},
		{"2026-02-23", true},
		{"2026-03-01", true},
		{"2026-03-02", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := timecalc.InRange(tt.key, from, to); got != tt.want {
			t.Errorf("InRange(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
