package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Tiliavir/headache-tracker/internal/model"
)

var (
	// ErrEmptyInput is returned when the source has no header row.
	ErrEmptyInput = errors.New("csv has no header row")
	// ErrMissingDateColumn is returned when the header has no date column.
	ErrMissingDateColumn = errors.New("csv header has no date column")
	// ErrNoValidRows is returned when data rows exist but every one was
	// skipped. The report still lists the reasons.
	ErrNoValidRows = errors.New("csv has no valid rows")
)

// Row is one split record and the 1-based line it starts on.
type Row struct {
	Line  int
	Cells []string
}

// Splitter breaks CSV text into rows. Blank lines yield no row.
type Splitter func(r io.Reader) ([]Row, error)

// SplitQuoteAware splits RFC 4180 style CSV: quoted cells may contain
// commas, doubled quotes and newlines.
func SplitQuoteAware(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, Row{Line: line, Cells: rec})
	}
}

// SplitNaive splits on every newline and every comma, ignoring quotes.
// Notes containing a comma or newline do not survive it.
func SplitNaive(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rows []Row
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, Row{Line: i + 1, Cells: strings.Split(line, ",")})
	}
	return rows, nil
}

// Options configures Decode.
type Options struct {
	// Split defaults to SplitQuoteAware.
	Split Splitter
}

// SkippedRow describes a data row that was not imported.
type SkippedRow struct {
	Line   int
	Reason string
}

func (s SkippedRow) String() string {
	return fmt.Sprintf("line %d: %s", s.Line, s.Reason)
}

// Report summarizes a decode.
type Report struct {
	Rows     int
	Imported int
	Skipped  []SkippedRow
}

// Decoder returns a decode function bound to opts.
func Decoder(opts Options) func(io.Reader) ([]model.Entry, Report, error) {
	return func(r io.Reader) ([]model.Entry, Report, error) {
		return Decode(r, opts)
	}
}

// Decode reads CSV produced by Encode (or by hand). The header row names the
// columns; unknown columns are ignored and missing ones are absent. Rows that
// cannot be turned into a valid entry are skipped and listed in the report.
// If every data row is skipped Decode fails with ErrNoValidRows.
func Decode(r io.Reader, opts Options) ([]model.Entry, Report, error) {
	var report Report
	split := opts.Split
	if split == nil {
		split = SplitQuoteAware
	}

	rows, err := split(r)
	if err != nil {
		return nil, report, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, report, ErrEmptyInput
	}

	header := rows[0].Cells
	cols := columns(header)
	if _, ok := cols["date"]; !ok {
		return nil, report, ErrMissingDateColumn
	}

	entries := []model.Entry{}
	for _, row := range rows[1:] {
		if blank(row.Cells) {
			continue
		}
		report.Rows++
		if len(row.Cells) != len(header) {
			report.Skipped = append(report.Skipped, SkippedRow{
				Line:   row.Line,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(header), len(row.Cells)),
			})
			continue
		}
		e, err := parseRow(row.Cells, cols)
		if err == nil {
			err = e.Validate()
		}
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Line: row.Line, Reason: err.Error()})
			continue
		}
		entries = append(entries, e)
	}
	report.Imported = len(entries)
	if report.Rows > 0 && report.Imported == 0 {
		return nil, report, fmt.Errorf("%w: all %d rows skipped", ErrNoValidRows, report.Rows)
	}
	return entries, report, nil
}

func columns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(cells []string, cols map[string]int) (model.Entry, error) {
	cell := func(name string) string {
		if i, ok := cols[name]; ok {
			return cells[i]
		}
		return ""
	}

	e := model.Entry{
		Date:  strings.TrimSpace(cell("date")),
		Time:  strings.TrimSpace(cell("time")),
		Notes: cell("notes"),
	}
	var err error
	if e.Intensity, err = parseInt("intensity", cell("intensity")); err != nil {
		return e, err
	}
	if e.Water, err = parseInt("water", cell("water")); err != nil {
		return e, err
	}
	if e.ComputerTime, err = parseFloat("computerTime", cell("computerTime")); err != nil {
		return e, err
	}
	if s := strings.TrimSpace(cell("inOffice")); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return e, fmt.Errorf("inOffice: %q is not true or false", s)
		}
		e.InOffice = b
	}
	return e, nil
}

func parseInt(field, s string) (*int, error) {
	f, err := parseFloat(field, s)
	if err != nil || f == nil {
		return nil, err
	}
	v, ok := model.WholeNumber(*f)
	if !ok {
		return nil, fmt.Errorf("%s: %q is not a whole number", field, strings.TrimSpace(s))
	}
	return &v, nil
}

func parseFloat(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%s: %q is not a number", field, s)
	}
	return &f, nil
}
