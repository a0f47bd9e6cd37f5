package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/series"
)

var (
	chartDays   int
	chartFormat string
)

var chartCmd = &cobra.Command{
	Use:   "chart [metric...]",
	Short: "Chart daily values over the trailing window",
	Long: `Chart daily values of intensity, water, computerTime and inOffice for the
days ending today. Without arguments every panel is shown in the saved panel
order (see "headache panels"). Days without data are shown as gaps.`,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().IntVar(&chartDays, "days", 0, "Days before today to include (default from config, 31)")
	chartCmd.Flags().StringVar(&chartFormat, "format", "text", "Output format: text, json")
}

func runChart(cmd *cobra.Command, args []string) error {
	var metrics []series.Metric
	for _, arg := range args {
		m, err := series.ParseMetric(arg)
		if err != nil {
			return err
		}
		metrics = append(metrics, m)
	}
	if err := series.CheckWindow(chartDays); err != nil {
		return fmt.Errorf("--days: %w", err)
	}

	a := openApp(cmd.Context())
	defer a.close()

	window := a.cfg.WindowDays
	if cmd.Flags().Changed("days") {
		window = chartDays
	}
	if len(metrics) == 0 {
		metrics = a.ui.Load(cmd.Context()).ChartOrder
	}

	now := time.Now()
	entries := a.store.Snapshot()
	out := make([]series.Series, len(metrics))
	for i, m := range metrics {
		out[i] = series.Project(entries, m, window, now)
	}

	switch chartFormat {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Println(string(data))
	case "text", "":
		width := terminalWidth()
		for i, s := range out {
			if i > 0 {
				fmt.Println()
			}
			renderChart(os.Stdout, s, width)
		}
	default:
		return fmt.Errorf("unknown format %q (want text or json)", chartFormat)
	}
	return nil
}

// terminalWidth returns the width of stdout, or 80 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

const (
	gapMark   = "·"
	barMark   = "█"
	dateWidth = len(model.DateLayout)
)

// renderChart draws s as one horizontal bar per day, scaled to width columns.
func renderChart(w io.Writer, s series.Series, width int) {
	fmt.Fprintln(w, s.Title)

	labelWidth := 0
	for _, p := range s.Points {
		if l := len(s.Label(p.Value)); l > labelWidth {
			labelWidth = l
		}
	}
	barWidth := width - dateWidth - labelWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	for _, p := range s.Points {
		if p.Value == nil {
			fmt.Fprintf(w, "%s │%s\n", p.Date, gapMark)
			continue
		}
		n := int(math.Round(*p.Value / chartScale(s) * float64(barWidth)))
		if n > barWidth {
			n = barWidth
		}
		bar := strings.Repeat(barMark, n)
		pad := strings.Repeat(" ", barWidth-n)
		fmt.Fprintf(w, "%s │%s%s %s\n", p.Date, bar, pad, s.Label(p.Value))
	}
}

// chartScale is the value drawn as a full bar.
func chartScale(s series.Series) float64 {
	switch s.Metric {
	case series.Intensity:
		return model.MaxIntensity
	case series.InOffice:
		return 1
	}
	if m := s.Max(); m > 0 {
		return m
	}
	return 1
}
