package mcptools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/timecalc"
)

const defaultListLimit = 50

// ListTool handles the headache_list MCP tool.
type ListTool struct {
	store *logstore.Store
}

// NewListTool creates a ListTool.
func NewListTool(store *logstore.Store) *ListTool {
	return &ListTool{store: store}
}

// Definition returns the MCP tool definition for headache_list.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("headache_list",
		mcp.WithDescription(
			"List logged headache entries by date, newest date last. "+
				"Optionally restrict to a date range.",
		),
		mcp.WithString("from",
			mcp.Description("First date to include, YYYY-MM-DD"),
		),
		mcp.WithString("to",
			mcp.Description("Last date to include, YYYY-MM-DD"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries, most recent kept (default: 50)"),
		),
	)
}

// Handle processes the headache_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := dateArg(req, "from", time.Time{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := dateArg(req, "to", time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := intArg(req, "limit", defaultListLimit)

	var entries []model.Entry
	for _, e := range t.store.Snapshot() {
		if timecalc.InRange(e.Date, from, to) {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No entries found."), nil
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	total := len(entries)
	if limit > 0 && total > limit {
		entries = entries[total-limit:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Headache log (%d of %d entries)\n", len(entries), total)
	current := ""
	for _, e := range entries {
		if e.Date != current {
			current = e.Date
			fmt.Fprintf(&b, "\n## %s\n\n", current)
		}
		b.WriteString("- " + e.Summary() + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func dateArg(req mcp.CallToolRequest, key string, def time.Time) (time.Time, error) {
	s := req.GetString(key, "")
	if s == "" {
		return def, nil
	}
	d, err := timecalc.ParseDate(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("'%s': %v", key, err)
	}
	return d, nil
}
