package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tiliavir/headache-tracker/internal/uistate"
)

// PanelsTool handles the headache_panels MCP tool.
type PanelsTool struct {
	ui *uistate.Store
}

// NewPanelsTool creates a PanelsTool.
func NewPanelsTool(ui *uistate.Store) *PanelsTool {
	return &PanelsTool{ui: ui}
}

// Definition returns the MCP tool definition for headache_panels.
func (t *PanelsTool) Definition() mcp.Tool {
	return mcp.NewTool("headache_panels",
		mcp.WithDescription(
			"Show or change the chart panel order and the entry form collapse state. "+
				"Call without arguments to read the current state.",
		),
		mcp.WithString("order",
			mcp.Description("Comma-separated panel ids, e.g. \"water,intensity\". Unknown ids are ignored; missing ones keep their default order."),
		),
		mcp.WithBoolean("collapsed",
			mcp.Description("Collapse (true) or expand (false) the entry form"),
		),
	)
}

// Handle processes the headache_panels tool call.
func (t *PanelsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := t.ui.Load(ctx)
	args := req.GetArguments()

	changed := false
	if order, ok := args["order"].(string); ok && strings.TrimSpace(order) != "" {
		st.ChartOrder = uistate.NormalizeOrder(splitList(order))
		changed = true
	}
	if collapsed, ok := args["collapsed"].(bool); ok {
		st.FormCollapsed = collapsed
		changed = true
	}
	if changed {
		if err := t.ui.Save(st); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to save panel state: %v", err)), nil
		}
	}

	names := make([]string, len(st.ChartOrder))
	for i, m := range st.ChartOrder {
		names[i] = string(m)
	}
	form := "expanded"
	if st.FormCollapsed {
		form = "collapsed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Panel order: %s\nEntry form: %s", strings.Join(names, ", "), form)), nil
}
