// Package series projects the sparse entry log into fixed-length daily
// series, one point per calendar day of a trailing window.
package series

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/timecalc"
)

// DefaultWindow is the number of days before today covered by a series.
// A series always has DefaultWindow+1 points.
const DefaultWindow = 31

// MaxWindow is the largest window Project honours; larger ones are clamped.
const MaxWindow = timecalc.MaxWindow

// CheckWindow reports whether window is usable as a projection window.
func CheckWindow(window int) error {
	if window < 0 || window > MaxWindow {
		return fmt.Errorf("window must be between 0 and %d days, got %d", MaxWindow, window)
	}
	return nil
}

// Metric names a projectable entry field.
type Metric string

const (
	Intensity    Metric = "intensity"
	Water        Metric = "water"
	ComputerTime Metric = "computerTime"
	InOffice     Metric = "inOffice"
)

// Metrics lists every metric in default panel order.
var Metrics = []Metric{Intensity, Water, ComputerTime, InOffice}

var titles = map[Metric]string{
	Intensity:    "Headache Intensity",
	Water:        "Water Intake",
	ComputerTime: "Screen Time",
	InOffice:     "In Office",
}

// ParseMetric resolves a metric name, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	name := strings.TrimSpace(s)
	for _, m := range Metrics {
		if strings.EqualFold(name, string(m)) {
			return m, nil
		}
	}
	names := make([]string, len(Metrics))
	for i, m := range Metrics {
		names[i] = string(m)
	}
	return "", fmt.Errorf("unknown metric %q (want one of %s)", s, strings.Join(names, ", "))
}

// Title returns the display name of m.
func (m Metric) Title() string {
	if t, ok := titles[m]; ok {
		return t
	}
	return string(m)
}

// Value extracts m from e. It returns nil when e does not record m.
func (m Metric) Value(e model.Entry) *float64 {
	var v float64
	switch m {
	case Intensity:
		if e.Intensity == nil {
			return nil
		}
		v = float64(*e.Intensity)
	case Water:
		if e.Water == nil {
			return nil
		}
		v = float64(*e.Water)
	case ComputerTime:
		if e.ComputerTime == nil {
			return nil
		}
		v = *e.ComputerTime
	case InOffice:
		if e.InOffice {
			v = 1
		}
	default:
		return nil
	}
	return &v
}

// Point is one day of a series. A nil Value is a gap.
type Point struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Series is the projection of one metric over a window.
type Series struct {
	Metric Metric  `json:"metric"`
	Title  string  `json:"title"`
	Points []Point `json:"points"`
}

// Label formats a point value for display: "" for gaps, Yes/No for InOffice.
func (s Series) Label(v *float64) string {
	if v == nil {
		return ""
	}
	if s.Metric == InOffice {
		if *v != 0 {
			return "Yes"
		}
		return "No"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Max returns the largest recorded value, or 0 when the series is all gaps.
func (s Series) Max() float64 {
	var top float64
	for _, p := range s.Points {
		if p.Value != nil && *p.Value > top {
			top = *p.Value
		}
	}
	return top
}

// Project builds the series of m for the window+1 days ending on now's
// calendar day. When several entries share a date, the one that sorts last
// wins, even if it does not record m. Days without entries are gaps.
// window is clamped to [0, MaxWindow].
func Project(entries []model.Entry, m Metric, window int, now time.Time) Series {
	byDate := lastWrite(entries, m)

	days := timecalc.TrailingDays(now, window)
	points := make([]Point, len(days))
	for i, d := range days {
		key := timecalc.DateKey(d)
		points[i] = Point{Date: key, Value: byDate[key]}
	}
	return Series{Metric: m, Title: m.Title(), Points: points}
}

// ProjectAll projects every metric against the same now.
func ProjectAll(entries []model.Entry, window int, now time.Time) []Series {
	out := make([]Series, len(Metrics))
	for i, m := range Metrics {
		out[i] = Project(entries, m, window, now)
	}
	return out
}

func lastWrite(entries []model.Entry, m Metric) map[string]*float64 {
	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	byDate := make(map[string]*float64, len(sorted))
	for _, e := range sorted {
		byDate[e.Date] = m.Value(e)
	}
	return byDate
}
