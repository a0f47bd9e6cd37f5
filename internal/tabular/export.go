// Package tabular converts the entry log to and from CSV.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/timecalc"
)

// ErrNoData is returned when exporting an empty log.
var ErrNoData = errors.New("no data to export")

// Header is the exported column order.
var Header = model.Fields

// ExportFilename returns the conventional export file name for now's date.
func ExportFilename(now time.Time) string {
	return "headache-tracker-" + timecalc.DateKey(now) + ".csv"
}

// Encode writes entries as CSV: a header line, then one row per entry.
// Lines are separated by "\n" with no trailing newline; absent values are
// empty cells.
func Encode(w io.Writer, entries []model.Entry) error {
	if len(entries) == 0 {
		return ErrNoData
	}

	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	for _, e := range entries {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row(e), ","))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func row(e model.Entry) []string {
	cells := make([]string, 0, len(Header))
	cells = append(cells,
		Escape(e.Date),
		Escape(e.Time),
		formatInt(e.Intensity),
		formatInt(e.Water),
		formatFloat(e.ComputerTime),
		strconv.FormatBool(e.InOffice),
		Escape(e.Notes),
	)
	return cells
}

// Escape wraps a field in quotes if it contains a comma, quote, or newline.
func Escape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
