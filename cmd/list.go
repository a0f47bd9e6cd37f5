package cmd

import (
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
	listToday bool
	listWeek  bool
	listAll   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged entries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's entries")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's entries (default)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Show every entry")
}

func runList(cmd *cobra.Command, args []string) error {
	now := time.Now()

	a := openApp(cmd.Context())
	defer a.close()

	entries := a.store.Snapshot()
	switch {
	case listAll:
	case listToday:
		entries = filterRange(entries, now, now)
	default:
		// Default to this week (covers --week and the bare command).
		from, to := timecalc.WeekRange(now)
		entries = filterRange(entries, from, to)
	}

	printList(os.Stdout, entries, now)
	return nil
}

// filterRange keeps entries dated within [from, to] by calendar day.
func filterRange(entries []model.Entry, from, to time.Time) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if timecalc.InRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out
}

// printList groups entries by date and prints them.
func printList(w io.Writer, entries []model.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	var currentDay string
	for _, e := range sorted {
		if e.Date != currentDay {
			currentDay = e.Date
			label := currentDay
			if d, err := e.Day(now.Location()); err == nil && timecalc.SameDay(d, now) {
				label += " (today)"
			}
			fmt.Fprintln(w, label)
		}
		fmt.Fprintf(w, "  %s\n", e.Summary())
	}
}
