package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for Entry.Date.
const DateLayout = "2006-01-02"

// Intensity bounds of the pain scale.
const (
	MinIntensity = 0
	MaxIntensity = 10
)

// MaxCount is the largest whole-number measurement (water) accepted, so
// counts survive every encoding the log is written in.
const MaxCount = math.MaxInt32

// WholeNumber converts f to an int when it is integral and within
// [-MaxCount, MaxCount].
func WholeNumber(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > MaxCount {
		return 0, false
	}
	return int(f), true
}

// Entry represents a single logged headache observation.
// Pointer fields are optional: nil means "not recorded", which is distinct
// from zero. Empty Time and Notes are likewise treated as absent.
type Entry struct {
	Date         string   `json:"date" msgpack:"date"`
	Time         string   `json:"time" msgpack:"time"`
	Intensity    *int     `json:"intensity" msgpack:"intensity"`
	Water        *int     `json:"water" msgpack:"water"`
	ComputerTime *float64 `json:"computerTime" msgpack:"computerTime"`
	InOffice     bool     `json:"inOffice" msgpack:"inOffice"`
	Notes        string   `json:"notes" msgpack:"notes"`
}

// Fields lists the entry field names in canonical order.
var Fields = []string{"date", "time", "intensity", "water", "computerTime", "inOffice", "notes"}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	out := e
	if e.Intensity != nil {
		v := *e.Intensity
		out.Intensity = &v
	}
	if e.Water != nil {
		v := *e.Water
		out.Water = &v
	}
	if e.ComputerTime != nil {
		v := *e.ComputerTime
		out.ComputerTime = &v
	}
	return out
}

// Day parses Date in loc.
func (e Entry) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, loc)
}

// ValidationError reports an entry field that violates the data model.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks e against the data model. Only Date is required.
func (e Entry) Validate() error {
	if e.Date == "" {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", e.Date)}
	}
	if e.Time != "" && !validTimeOfDay(e.Time) {
		return &ValidationError{Field: "time", Reason: fmt.Sprintf("%q is not HH:MM", e.Time)}
	}
	if e.Intensity != nil && (*e.Intensity < MinIntensity || *e.Intensity > MaxIntensity) {
		return &ValidationError{Field: "intensity", Reason: fmt.Sprintf("%d outside %d-%d", *e.Intensity, MinIntensity, MaxIntensity)}
	}
	if e.Water != nil && (*e.Water < 0 || *e.Water > MaxCount) {
		return &ValidationError{Field: "water", Reason: fmt.Sprintf("%d outside 0-%d", *e.Water, MaxCount)}
	}
	if e.ComputerTime != nil {
		v := *e.ComputerTime
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return &ValidationError{Field: "computerTime", Reason: "must be a non-negative number of hours"}
		}
	}
	return nil
}

// Summary renders the recorded fields of e on one line, without the date.
func (e Entry) Summary() string {
	var parts []string
	if e.Time != "" {
		parts = append(parts, e.Time)
	}
	if e.Intensity != nil {
		parts = append(parts, fmt.Sprintf("intensity %d/10", *e.Intensity))
	}
	if e.Water != nil {
		parts = append(parts, fmt.Sprintf("water %d", *e.Water))
	}
	if e.ComputerTime != nil {
		parts = append(parts, fmt.Sprintf("screen %gh", *e.ComputerTime))
	}
	if e.InOffice {
		parts = append(parts, "in office")
	}
	if e.Notes != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Notes))
	}
	if len(parts) == 0 {
		return "(no measurements)"
	}
	return strings.Join(parts, " · ")
}

func validTimeOfDay(s string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// IntPtr and FloatPtr build optional values.
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }
