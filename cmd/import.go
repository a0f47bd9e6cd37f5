package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/tabular"
)

var importNaiveSplit bool

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace all entries with the contents of a CSV file",
	Long: `Replace all entries with the rows of a CSV file ("-" reads stdin).
The header row names the columns. Malformed rows are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importNaiveSplit, "naive-split", false, "Split on every comma and newline, ignoring quotes")
}

func runImport(cmd *cobra.Command, args []string) error {
	var src io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	opts := tabular.Options{}
	if importNaiveSplit {
		opts.Split = tabular.SplitNaive
	}

	a := openApp(cmd.Context())
	defer a.close()

	report, err := logstore.Import[tabular.Report](cmd.Context(), a.store, src, tabular.Decoder(opts))
	printSkipped(os.Stderr, report)

	var durErr *logstore.DurabilityError
	if err == nil || errors.As(err, &durErr) {
		// The collection was replaced even when saving it failed.
		fmt.Printf("Imported %d of %d rows.\n", report.Imported, report.Rows)
	}
	if err != nil {
		a.close()
		exitOnWriteError(err)
	}
	return nil
}

func printSkipped(w io.Writer, report tabular.Report) {
	if len(report.Skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "%d rows skipped:\n", len(report.Skipped))
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "  %s\n", s)
	}
}
