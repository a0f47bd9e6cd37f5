package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/tabular"
)

// ExportTool handles the headache_export MCP tool.
type ExportTool struct {
	store *logstore.Store
	now   Clock
}

// NewExportTool creates an ExportTool.
func NewExportTool(store *logstore.Store, now Clock) *ExportTool {
	return &ExportTool{store: store, now: clockOrNow(now)}
}

// Definition returns the MCP tool definition for headache_export.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("headache_export",
		mcp.WithDescription(
			"Export the whole log as CSV (header date,time,intensity,water,computerTime,inOffice,notes). "+
				"The result is the file content; the suggested file name is on the first line.",
		),
	)
}

// Handle processes the headache_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	err := tabular.Encode(&b, t.store.Snapshot())
	if errors.Is(err, tabular.ErrNoData) {
		return mcp.NewToolResultText("No data to export."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(tabular.ExportFilename(t.now()) + "\n\n" + b.String()), nil
}

// ImportTool handles the headache_import MCP tool.
type ImportTool struct {
	store *logstore.Store
}

// NewImportTool creates an ImportTool.
func NewImportTool(store *logstore.Store) *ImportTool {
	return &ImportTool{store: store}
}

// Definition returns the MCP tool definition for headache_import.
func (t *ImportTool) Definition() mcp.Tool {
	return mcp.NewTool("headache_import",
		mcp.WithDescription(
			"Replace the whole log with entries read from CSV text. "+
				"Malformed rows are skipped and reported. This discards the current log.",
		),
		mcp.WithString("csv",
			mcp.Required(),
			mcp.Description("CSV content with a header row naming the columns"),
		),
		mcp.WithBoolean("naive_split",
			mcp.Description("Split on every comma and newline, ignoring quotes (legacy behaviour)"),
		),
	)
}

// Handle processes the headache_import tool call.
func (t *ImportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("csv", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'csv' is required"), nil
	}
	opts := tabular.Options{}
	if boolArg(req, "naive_split", false) {
		opts.Split = tabular.SplitNaive
	}

	report, err := logstore.Import[tabular.Report](ctx, t.store, strings.NewReader(text), tabular.Decoder(opts))
	if errors.Is(err, tabular.ErrNoValidRows) {
		var b strings.Builder
		fmt.Fprintf(&b, "Import refused: none of %d rows could be read. The log was not changed.\n", report.Rows)
		writeSkipped(&b, report)
		return mcp.NewToolResultError(b.String()), nil
	}
	var durErr *logstore.DurabilityError
	if err != nil && !errors.As(err, &durErr) {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d of %d rows.\n", report.Imported, report.Rows)
	writeSkipped(&b, report)
	if durErr != nil {
		fmt.Fprintf(&b, "Warning: %v\n", durErr)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func writeSkipped(b *strings.Builder, report tabular.Report) {
	if n := len(report.Skipped); n > 0 {
		fmt.Fprintf(b, "%d rows skipped:\n", n)
		for _, s := range report.Skipped {
			b.WriteString("- " + s.String() + "\n")
		}
	}
}
