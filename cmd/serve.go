package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/headache-tracker/internal/logging"
	"github.com/Tiliavir/headache-tracker/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the log to MCP clients over stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a := openApp(cmd.Context())
	defer a.close()

	s := server.New(server.Deps{
		Store:  a.store,
		UI:     a.ui,
		Window: a.cfg.WindowDays,
	})

	// Logs go to stderr; stdout carries the protocol.
	a.log.Info(cmd.Context(), "serving MCP over stdio", logging.Fields{
		"entries": a.store.Len(),
		"backend": a.cfg.Backend,
	})
	if err := mcpserver.ServeStdio(s); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
