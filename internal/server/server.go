// Package server wires the MCP tools over a shared log store.
//
// No business logic lives here, only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/mcptools"
	"github.com/Tiliavir/headache-tracker/internal/uistate"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Deps are the shared dependencies of all tools.
type Deps struct {
	Store *logstore.Store
	UI    *uistate.Store
	// Window is the default number of days before today in a series.
	Window int
	// Now defaults to time.Now.
	Now mcptools.Clock
}

// New creates the MCP server with every tool registered.
func New(d Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"headache-tracker",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	addTool := mcptools.NewAddTool(d.Store, d.Now)
	s.AddTool(addTool.Definition(), addTool.Handle)

	listTool := mcptools.NewListTool(d.Store)
	s.AddTool(listTool.Definition(), listTool.Handle)

	seriesTool := mcptools.NewSeriesTool(d.Store, d.Window, d.Now)
	s.AddTool(seriesTool.Definition(), seriesTool.Handle)

	exportTool := mcptools.NewExportTool(d.Store, d.Now)
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	importTool := mcptools.NewImportTool(d.Store)
	s.AddTool(importTool.Definition(), importTool.Handle)

	if d.UI != nil {
		panelsTool := mcptools.NewPanelsTool(d.UI)
		s.AddTool(panelsTool.Definition(), panelsTool.Handle)
	}

	return s
}

func serverInstructions() string {
	return "Headache tracker. Use headache_add to log an observation (only the date is required), " +
		"headache_list to read the log, headache_series for per-day chart data over a trailing window, " +
		"and headache_export / headache_import to move the log as CSV. " +
		"An import replaces the whole log; other writes are rejected while it runs."
}
