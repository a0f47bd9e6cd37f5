// Package mcptools provides MCP tool handlers over the headache log.
//
// Each tool follows the same pattern:
// - A struct with its dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// User-facing failures (validation, import in flight) are returned as tool
// errors, never as Go errors, so the client can show them.
package mcptools

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tiliavir/headache-tracker/internal/model"
)

// Clock returns the current time. Tools take one so tests can pin "today".
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// optFloat returns nil when key is absent or null.
func optFloat(req mcp.CallToolRequest, key string) (*float64, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	v, ok := raw.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("'%s' must be a number", key)
	}
	return &v, nil
}

// optInt is optFloat restricted to whole numbers.
func optInt(req mcp.CallToolRequest, key string) (*int, error) {
	f, err := optFloat(req, key)
	if err != nil || f == nil {
		return nil, err
	}
	v, ok := model.WholeNumber(*f)
	if !ok {
		return nil, fmt.Errorf("'%s' must be a whole number", key)
	}
	return &v, nil
}

// splitList parses a comma-separated argument, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
