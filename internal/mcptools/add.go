package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/timecalc"
)

// AddTool handles the headache_add MCP tool.
type AddTool struct {
	store *logstore.Store
	now   Clock
}

// NewAddTool creates an AddTool.
func NewAddTool(store *logstore.Store, now Clock) *AddTool {
	return &AddTool{store: store, now: clockOrNow(now)}
}

// Definition returns the MCP tool definition for headache_add.
func (t *AddTool) Definition() mcp.Tool {
	return mcp.NewTool("headache_add",
		mcp.WithDescription(
			"Log a headache observation. Only the date is required (defaults to today); "+
				"omitted measurements are stored as not recorded, never as zero.",
		),
		mcp.WithString("date",
			mcp.Description("Calendar date YYYY-MM-DD (default: today)"),
		),
		mcp.WithString("time",
			mcp.Description("Local time of day HH:MM"),
		),
		mcp.WithNumber("intensity",
			mcp.Description("Pain intensity from 0 (none) to 10 (worst)"),
		),
		mcp.WithNumber("water",
			mcp.Description("Glasses of water drunk"),
		),
		mcp.WithNumber("computer_time",
			mcp.Description("Hours spent in front of a screen"),
		),
		mcp.WithBoolean("in_office",
			mcp.Description("Whether the day was spent in the office"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-text notes"),
		),
	)
}

// Handle processes the headache_add tool call.
func (t *AddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e := model.Entry{
		Date:     req.GetString("date", ""),
		Time:     req.GetString("time", ""),
		InOffice: boolArg(req, "in_office", false),
		Notes:    req.GetString("notes", ""),
	}
	if e.Date == "" {
		e.Date = timecalc.DateKey(t.now())
	}

	var err error
	if e.Intensity, err = optInt(req, "intensity"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if e.Water, err = optInt(req, "water"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if e.ComputerTime, err = optFloat(req, "computer_time"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = t.store.AddEntry(ctx, e)
	var durErr *logstore.DurabilityError
	switch {
	case err == nil:
		return mcp.NewToolResultText(fmt.Sprintf("Entry saved for %s (%d entries total).", e.Date, t.store.Len())), nil
	case errors.As(err, &durErr):
		return mcp.NewToolResultText(fmt.Sprintf("Entry recorded for %s but not saved.\nWarning: %v", e.Date, err)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("failed to add entry: %v", err)), nil
	}
}
