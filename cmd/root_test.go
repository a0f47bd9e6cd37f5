package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/Tiliavir/headache-tracker/internal/config"
	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/series"
	"github.com/Tiliavir/headache-tracker/internal/storage"
	"github.com/Tiliavir/headache-tracker/internal/tabular"
	"github.com/Tiliavir/headache-tracker/internal/uistate"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"durability", &logstore.DurabilityError{Err: storage.ErrCapacityExceeded}, 3},
		{"wrapped durability", fmt.Errorf("add: %w", &logstore.DurabilityError{Err: errors.New("disk full")}), 3},
		{"validation", &model.ValidationError{Field: "intensity", Reason: "11 outside 0-10"}, 1},
		{"import in flight", logstore.ErrImportInFlight, 1},
		{"no valid rows", fmt.Errorf("import: %w", tabular.ErrNoValidRows), 1},
		{"other", errors.New("boom"), 2},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := &logstore.DurabilityError{Err: errors.New("quota")}
	want := "Warning: there was an error saving your data (quota). Please export your data to CSV as a backup."
	if got := errorMessage(err); got != want {
		t.Errorf("errorMessage = %q, want %q", got, want)
	}
	noRows := fmt.Errorf("import: %w: all 2 rows skipped", tabular.ErrNoValidRows)
	if got := errorMessage(noRows); got != "import: csv has no valid rows: all 2 rows skipped. The log was not changed." {
		t.Errorf("errorMessage = %q", got)
	}
	if got := errorMessage(errors.New("plain")); got != "plain" {
		t.Errorf("errorMessage = %q, want plain", got)
	}
}

func TestApplyFlags(t *testing.T) {
	flagDataDir, flagBackend, flagLogLevel = "/tmp/h", "", "debug"
	t.Cleanup(func() { flagDataDir, flagBackend, flagLogLevel = "", "", "" })

	cfg := config.Config{DataDir: "/data", Backend: "sqlite", LogLevel: "warn"}
	applyFlags(&cfg)
	if cfg.DataDir != "/tmp/h" || cfg.Backend != "sqlite" || cfg.LogLevel != "debug" {
		t.Errorf("applyFlags = %+v", cfg)
	}
}

func TestPrintSkipped(t *testing.T) {
	var buf bytes.Buffer
	printSkipped(&buf, tabular.Report{Rows: 3, Imported: 3})
	if buf.Len() != 0 {
		t.Errorf("nothing skipped should print nothing, got %q", buf.String())
	}

	printSkipped(&buf, tabular.Report{
		Rows:     3,
		Imported: 2,
		Skipped:  []tabular.SkippedRow{{Line: 3, Reason: "invalid date: \"2024-13-01\""}},
	})
	want := "1 rows skipped:\n  line 3: invalid date: \"2024-13-01\"\n"
	if got := buf.String(); got != want {
		t.Errorf("printSkipped = %q, want %q", got, want)
	}
}

func TestPrintPanels(t *testing.T) {
	st := uistate.State{
		ChartOrder:    []series.Metric{series.Water, series.Intensity, series.ComputerTime, series.InOffice},
		FormCollapsed: true,
	}
	var buf bytes.Buffer
	printPanels(&buf, st)
	want := "1. water         Water Intake\n" +
		"2. intensity     Headache Intensity\n" +
		"3. computerTime  Screen Time\n" +
		"4. inOffice      In Office\n" +
		"Entry form: collapsed\n"
	if got := buf.String(); got != want {
		t.Errorf("printPanels =\n%s\nwant\n%s", got, want)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"add", "list", "report", "chart", "export", "import", "panels", "serve"} {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("command %q not registered (err=%v)", name, err)
		}
	}
}
