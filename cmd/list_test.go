package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/headache-tracker/internal/model"
)

func TestFilterRange(t *testing.T) {
	entries := []model.Entry{
		{Date: "2024-01-14"},
		{Date: "2024-01-15"},
		{Date: "2024-01-17"},
		{Date: "2024-01-22"},
	}
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 1, 21, 0, 0, 0, 0, time.Local)

	got := filterRange(entries, from, to)
	if len(got) != 2 || got[0].Date != "2024-01-15" || got[1].Date != "2024-01-17" {
		t.Errorf("filterRange = %+v", got)
	}
}

func TestPrintListEmpty(t *testing.T) {
	var buf bytes.Buffer
	printList(&buf, nil, time.Now())
	if got := buf.String(); got != "No entries found.\n" {
		t.Errorf("got %q", got)
	}
}

func TestPrintListGroupsByDate(t *testing.T) {
	now := time.Date(2024, 1, 16, 12, 0, 0, 0, time.Local)
	entries := []model.Entry{
		{Date: "2024-01-16", Time: "08:00", Intensity: model.IntPtr(3)},
		{Date: "2024-01-15", Water: model.IntPtr(4)},
		{Date: "2024-01-16", InOffice: true},
	}

	var buf bytes.Buffer
	printList(&buf, entries, now)

	want := strings.Join([]string{
		"2024-01-15",
		"  water 4",
		"2024-01-16 (today)",
		"  08:00 · intensity 3/10",
		"  in office",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("printList =\n%s\nwant\n%s", got, want)
	}
}
