package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/series"
)

// SeriesTool handles the headache_series MCP tool.
type SeriesTool struct {
	store  *logstore.Store
	window int
	now    Clock
}

// NewSeriesTool creates a SeriesTool. window is the default number of days
// before today covered by a series.
func NewSeriesTool(store *logstore.Store, window int, now Clock) *SeriesTool {
	return &SeriesTool{store: store, window: window, now: clockOrNow(now)}
}

// Definition returns the MCP tool definition for headache_series.
func (t *SeriesTool) Definition() mcp.Tool {
	names := make([]string, len(series.Metrics))
	for i, m := range series.Metrics {
		names[i] = string(m)
	}
	return mcp.NewTool("headache_series",
		mcp.WithDescription(
			"Project the log into daily chart series ending today. Each series has one point "+
				"per day; null marks a day without data. Omit 'metric' for all series.",
		),
		mcp.WithString("metric",
			mcp.Description("Metric to project"),
			mcp.Enum(names...),
		),
		mcp.WithNumber("days",
			mcp.Description(fmt.Sprintf("Days before today to include, 0-%d (default: %d)", series.MaxWindow, t.window)),
		),
	)
}

// Handle processes the headache_series tool call.
func (t *SeriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window := t.window
	if _, ok := req.GetArguments()["days"]; ok {
		days, err := optInt(req, "days")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if days != nil {
			window = *days
		}
	}
	if err := series.CheckWindow(window); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'days': %v", err)), nil
	}

	entries := t.store.Snapshot()
	now := t.now()

	var out []series.Series
	if name := req.GetString("metric", ""); name != "" {
		m, err := series.ParseMetric(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out = []series.Series{series.Project(entries, m, window, now)}
	} else {
		out = series.ProjectAll(entries, window, now)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode series: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
