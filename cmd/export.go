package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/tabular"
)

var (
	exportFormat string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all entries as CSV or JSON",
	Long: `Export every entry. CSV goes to headache-tracker-<date>.csv in the current
directory unless --stdout is given; JSON always goes to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write CSV to stdout instead of a file")
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	a := openApp(cmd.Context())
	defer a.close()

	entries := a.store.Snapshot()

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "csv", "":
		if exportStdout {
			return printCSV(os.Stdout, entries)
		}
		name := tabular.ExportFilename(now)
		if err := writeCSVFile(name, entries); err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", len(entries), name)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}

	return nil
}

func printCSV(w io.Writer, entries []model.Entry) error {
	if err := tabular.Encode(w, entries); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// writeCSVFile writes entries to path atomically (temp file + rename).
func writeCSVFile(path string, entries []model.Entry) error {
	if len(entries) == 0 {
		return tabular.ErrNoData
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := tabular.Encode(f, entries); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
