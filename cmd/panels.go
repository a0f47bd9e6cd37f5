package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/headache-tracker/internal/uistate"
)

var (
	panelsOrder    string
	panelsCollapse bool
	panelsExpand   bool
)

var panelsCmd = &cobra.Command{
	Use:   "panels",
	Short: "Show or change chart panel order and form state",
	Args:  cobra.NoArgs,
	RunE:  runPanels,
}

func init() {
	panelsCmd.Flags().StringVar(&panelsOrder, "order", "", "Comma-separated panel order, e.g. water,intensity")
	panelsCmd.Flags().BoolVar(&panelsCollapse, "collapse", false, "Collapse the entry form")
	panelsCmd.Flags().BoolVar(&panelsExpand, "expand", false, "Expand the entry form")
	panelsCmd.MarkFlagsMutuallyExclusive("collapse", "expand")
}

func runPanels(cmd *cobra.Command, args []string) error {
	a := openApp(cmd.Context())
	defer a.close()

	ctx := cmd.Context()
	st := a.ui.Load(ctx)
	var err error
	if panelsOrder != "" {
		if st, err = a.ui.SetOrder(ctx, strings.Split(panelsOrder, ",")); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if panelsCollapse || panelsExpand {
		if st, err = a.ui.SetCollapsed(ctx, panelsCollapse); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	printPanels(os.Stdout, st)
	return nil
}

func printPanels(w io.Writer, st uistate.State) {
	for i, m := range st.ChartOrder {
		fmt.Fprintf(w, "%d. %-14s%s\n", i+1, m, m.Title())
	}
	form := "expanded"
	if st.FormCollapsed {
		form = "collapsed"
	}
	fmt.Fprintf(w, "Entry form: %s\n", form)
}
