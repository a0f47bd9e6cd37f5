package tabular_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/tabular"
)

func encode(t *testing.T, entries []model.Entry) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tabular.Encode(&buf, entries))
	return buf.String()
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"", ""},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
	}
	for _, tt := range tests {
		if got := tabular.Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	entries := []model.Entry{
		{Date: "2024-01-01", Notes: "a, b", InOffice: true},
		{Date: "2024-01-02", Time: "08:15", Intensity: model.IntPtr(0), Water: model.IntPtr(6), ComputerTime: model.FloatPtr(6.5), Notes: `said "hi"`},
	}
	want := "date,time,intensity,water,computerTime,inOffice,notes\n" +
		`2024-01-01,,,,,true,"a, b"` + "\n" +
		`2024-01-02,08:15,0,6,6.5,false,"said ""hi"""`
	assert.Equal(t, want, encode(t, entries))
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, tabular.Encode(&buf, nil), tabular.ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "headache-tracker-2024-03-09.csv", tabular.ExportFilename(now))
}

func TestRoundTrip(t *testing.T) {
	entries := []model.Entry{
		{Date: "2024-01-01", Time: "09:30", Intensity: model.IntPtr(5), Water: model.IntPtr(4), InOffice: true, Notes: "after standup"},
		{Date: "2024-01-02"},
		{Date: "2024-01-03", Intensity: model.IntPtr(10), ComputerTime: model.FloatPtr(0.25)},
	}
	for name, split := range map[string]tabular.Splitter{"quote-aware": tabular.SplitQuoteAware, "naive": tabular.SplitNaive} {
		t.Run(name, func(t *testing.T) {
			got, report, err := tabular.Decode(strings.NewReader(encode(t, entries)), tabular.Options{Split: split})
			require.NoError(t, err)
			assert.Equal(t, entries, got)
			assert.Equal(t, 3, report.Rows)
			assert.Equal(t, 3, report.Imported)
			assert.Empty(t, report.Skipped)
		})
	}
}

func TestRoundTripDelimitersInNotes(t *testing.T) {
	entries := []model.Entry{
		{Date: "2024-01-01", Notes: "a, b", InOffice: true},
		{Date: "2024-01-02", Notes: "line one\nline two"},
		{Date: "2024-01-03", Notes: `"quoted", really`},
	}
	got, report, err := tabular.Decode(strings.NewReader(encode(t, entries)), tabular.Options{})
	require.NoError(t, err)
	assert.Equal(t, entries, got)
	assert.Empty(t, report.Skipped)
}

func TestNaiveSplitMisSplitsQuotedComma(t *testing.T) {
	entries := []model.Entry{
		{Date: "2024-01-01", Notes: "a, b", InOffice: true},
		{Date: "2024-01-02", Intensity: model.IntPtr(3)},
	}
	got, report, err := tabular.Decode(strings.NewReader(encode(t, entries)), tabular.Options{Split: tabular.SplitNaive})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-02", got[0].Date)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2, report.Skipped[0].Line)
	assert.Equal(t, "line 2: expected 7 columns, got 8", report.Skipped[0].String())
}

func TestDecodeSkipsMalformedRows(t *testing.T) {
	in := strings.Join([]string{
		"date,time,intensity,water,computerTime,inOffice,notes",
		"2024-01-01,,5,,,false,ok",
		"not-a-date,,5,,,false,bad date",
		"2024-01-02,,five,,,false,bad number",
		"2024-01-03,,11,,,false,out of range",
		"2024-01-04,,,,-1,false,negative",
		"2024-01-05,,2.5,,,false,fractional",
		"2024-01-06,,,,,maybe,bad bool",
		"2024-01-07,,,",
		"2024-01-08,25:00,,,,false,bad time",
		"2024-01-09,,1,2,3,true,ok",
	}, "\n")

	got, report, err := tabular.Decode(strings.NewReader(in), tabular.Options{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, "2024-01-09", got[1].Date)
	assert.Equal(t, 10, report.Rows)
	assert.Equal(t, 2, report.Imported)

	lines := make([]int, len(report.Skipped))
	for i, s := range report.Skipped {
		lines[i] = s.Line
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10}, lines)
	assert.Contains(t, report.Skipped[1].Reason, `intensity: "five" is not a number`)
	assert.Contains(t, report.Skipped[4].Reason, "not a whole number")
}

func TestDecodeHeaderHandling(t *testing.T) {
	t.Run("reordered and unknown columns", func(t *testing.T) {
		in := "notes, mood ,date,intensity\nfine,ok,2024-01-01,4\n"
		got, _, err := tabular.Decode(strings.NewReader(in), tabular.Options{})
		require.NoError(t, err)
		assert.Equal(t, []model.Entry{{Date: "2024-01-01", Intensity: model.IntPtr(4), Notes: "fine"}}, got)
	})

	t.Run("byte order mark", func(t *testing.T) {
		in := "\ufeffdate,water\n2024-01-01,3"
		got, _, err := tabular.Decode(strings.NewReader(in), tabular.Options{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 3, *got[0].Water)
	})

	t.Run("missing date column", func(t *testing.T) {
		_, _, err := tabular.Decode(strings.NewReader("time,notes\n09:00,x"), tabular.Options{})
		assert.ErrorIs(t, err, tabular.ErrMissingDateColumn)
	})

	t.Run("empty input", func(t *testing.T) {
		_, _, err := tabular.Decode(strings.NewReader("\n\n"), tabular.Options{Split: tabular.SplitNaive})
		assert.ErrorIs(t, err, tabular.ErrEmptyInput)
	})

	t.Run("header only", func(t *testing.T) {
		got, report, err := tabular.Decode(strings.NewReader("date,notes\n"), tabular.Options{})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
		assert.Zero(t, report.Rows)
	})
}

func TestDecodeBlankLinesAndCRLF(t *testing.T) {
	in := "date,intensity,inOffice\r\n\r\n2024-01-01,7,TRUE\r\n\r\n2024-01-02,,false\r\n"
	for name, split := range map[string]tabular.Splitter{"quote-aware": tabular.SplitQuoteAware, "naive": tabular.SplitNaive} {
		t.Run(name, func(t *testing.T) {
			got, report, err := tabular.Decode(strings.NewReader(in), tabular.Options{Split: split})
			require.NoError(t, err)
			assert.Equal(t, []model.Entry{
				{Date: "2024-01-01", Intensity: model.IntPtr(7), InOffice: true},
				{Date: "2024-01-02"},
			}, got)
			assert.Equal(t, 2, report.Rows)
		})
	}
}

func TestSplitQuoteAwareLineNumbers(t *testing.T) {
	rows, err := tabular.SplitQuoteAware(strings.NewReader("date,notes\n2024-01-01,\"two\nlines\"\n2024-01-02,x"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{rows[0].Line, rows[1].Line, rows[2].Line})
	assert.Equal(t, []string{"2024-01-01", "two\nlines"}, rows[1].Cells)
}

func TestDecodeAllRowsSkipped(t *testing.T) {
	in := encode(t, []model.Entry{
		{Date: "2024-01-01", Notes: "a, b"},
		{Date: "2024-01-02", Notes: "c, d"},
	})
	got, report, err := tabular.Decode(strings.NewReader(in), tabular.Options{Split: tabular.SplitNaive})
	require.ErrorIs(t, err, tabular.ErrNoValidRows)
	assert.Nil(t, got)
	assert.Equal(t, 2, report.Rows)
	assert.Zero(t, report.Imported)
	assert.Len(t, report.Skipped, 2)
}

func TestWaterCeilingRoundTrip(t *testing.T) {
	entries := []model.Entry{{Date: "2024-01-01", Water: model.IntPtr(model.MaxCount)}}
	got, _, err := tabular.Decode(strings.NewReader(encode(t, entries)), tabular.Options{})
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	in := "date,water\n2024-01-01,2147483648\n2024-01-02,1"
	got, report, err := tabular.Decode(strings.NewReader(in), tabular.Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2, report.Skipped[0].Line)
}

func TestDecoder(t *testing.T) {
	decode := tabular.Decoder(tabular.Options{Split: tabular.SplitNaive})
	got, report, err := decode(strings.NewReader("date\n2024-01-01"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, report.Imported)
}
