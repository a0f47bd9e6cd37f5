package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/timecalc"
)

var (
	reportWeek   bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a per-day summary of the current week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// daySummary aggregates the entries of one date.
type daySummary struct {
	Date         string   `json:"date"`
	Entries      int      `json:"entries"`
	MaxIntensity *int     `json:"max_intensity"`
	Water        *int     `json:"water"`
	ComputerTime *float64 `json:"computer_time"`
	InOffice     bool     `json:"in_office"`
}

type weekReport struct {
	Week         string       `json:"week"`
	Days         []daySummary `json:"days"`
	HeadacheDays int          `json:"headache_days"`
}

func runReport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	a := openApp(cmd.Context())
	defer a.close()

	from, to := timecalc.WeekRange(now)
	r := buildReport(filterRange(a.store.Snapshot(), from, to), timecalc.ISOWeekLabel(now))

	if err := writeReport(os.Stdout, r, reportFormat); err != nil {
		return err
	}
	return nil
}

// buildReport aggregates entries by date: highest intensity, total water,
// total screen time, and whether any entry was in the office.
func buildReport(entries []model.Entry, label string) weekReport {
	byDate := map[string]*daySummary{}
	var order []string
	for _, e := range entries {
		d, seen := byDate[e.Date]
		if !seen {
			d = &daySummary{Date: e.Date}
			byDate[e.Date] = d
			order = append(order, e.Date)
		}
		d.Entries++
		if e.Intensity != nil && (d.MaxIntensity == nil || *e.Intensity > *d.MaxIntensity) {
			d.MaxIntensity = model.IntPtr(*e.Intensity)
		}
		if e.Water != nil {
			d.Water = model.IntPtr(deref(d.Water) + *e.Water)
		}
		if e.ComputerTime != nil {
			d.ComputerTime = model.FloatPtr(derefFloat(d.ComputerTime) + *e.ComputerTime)
		}
		d.InOffice = d.InOffice || e.InOffice
	}
	sort.Strings(order)

	r := weekReport{Week: label, Days: []daySummary{}}
	for _, date := range order {
		d := *byDate[date]
		if d.MaxIntensity != nil && *d.MaxIntensity > 0 {
			r.HeadacheDays++
		}
		r.Days = append(r.Days, d)
	}
	return r
}

func writeReport(w io.Writer, r weekReport, format string) error {
	switch format {
	case "csv":
		fmt.Fprintln(w, "date,entries,max_intensity,water,computer_time,in_office")
		for _, d := range r.Days {
			fmt.Fprintf(w, "%s,%d,%s,%s,%s,%t\n", d.Date, d.Entries,
				optInt(d.MaxIntensity), optInt(d.Water), optFloat(d.ComputerTime), d.InOffice)
		}
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "md", "":
		fmt.Fprintf(w, "Week %s\n", r.Week)
		fmt.Fprintln(w, "--------------------------------------------")
		for _, d := range r.Days {
			office := ""
			if d.InOffice {
				office = "office"
			}
			fmt.Fprintf(w, "%-12s%-6s%-8s%-8s%s\n", d.Date,
				dash(optInt(d.MaxIntensity)), dash(optInt(d.Water)), dash(optFloat(d.ComputerTime)), office)
		}
		fmt.Fprintln(w, "--------------------------------------------")
		fmt.Fprintf(w, "%-12s%d of %d logged days\n", "Headache", r.HeadacheDays, len(r.Days))
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", format)
	}
	return nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}

func optFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
