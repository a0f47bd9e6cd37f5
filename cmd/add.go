package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/timecalc"
)

var (
	addDate         string
	addTime         string
	addIntensity    int
	addWater        int
	addComputerTime float64
	addInOffice     bool
	addNotes        string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a headache observation",
	Long: `Log a headache observation. Only the date is required and defaults to today.
Measurements that are not given are stored as not recorded, never as zero.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Date YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addTime, "time", "", "Time of day HH:MM (use \"now\" for the current time)")
	addCmd.Flags().IntVarP(&addIntensity, "intensity", "i", 0, "Pain intensity 0-10")
	addCmd.Flags().IntVarP(&addWater, "water", "w", 0, "Glasses of water")
	addCmd.Flags().Float64VarP(&addComputerTime, "computer-time", "c", 0, "Hours of screen time")
	addCmd.Flags().BoolVar(&addInOffice, "in-office", false, "Spent the day in the office")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "Free-text notes")
}

func runAdd(cmd *cobra.Command, args []string) error {
	entry := buildEntry(cmd.Flags().Changed, time.Now())
	if err := entry.Validate(); err != nil {
		return err
	}

	a := openApp(cmd.Context())
	defer a.close()

	if err := a.store.AddEntry(cmd.Context(), entry); err != nil {
		a.close()
		exitOnWriteError(err)
	}

	fmt.Printf("Logged %s: %s\n", entry.Date, entry.Summary())
	return nil
}

// buildEntry assembles an entry from the add flags. Numeric flags only count
// when changed is true for them, so "not given" stays distinct from zero.
func buildEntry(changed func(name string) bool, now time.Time) model.Entry {
	e := model.Entry{
		Date:     addDate,
		Time:     addTime,
		InOffice: addInOffice,
		Notes:    addNotes,
	}
	if e.Date == "" {
		e.Date = timecalc.DateKey(now)
	}
	if e.Time == "now" {
		e.Time = now.Format("15:04")
	}
	if changed("intensity") {
		e.Intensity = model.IntPtr(addIntensity)
	}
	if changed("water") {
		e.Water = model.IntPtr(addWater)
	}
	if changed("computer-time") {
		e.ComputerTime = model.FloatPtr(addComputerTime)
	}
	return e
}
