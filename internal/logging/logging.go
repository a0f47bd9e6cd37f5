// Package logging provides the leveled logger used across the tracker.
// It is backed by go-zero's logx and always writes to stderr so stdout stays
// free for CSV, JSON and the MCP stdio transport.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

// Fields represents structured logging fields.
type Fields map[string]interface{}

// Logger wraps the logging behaviour used by the store and commands.
type Logger interface {
	Debug(ctx context.Context, msg string, fields Fields)
	Info(ctx context.Context, msg string, fields Fields)
	Warn(ctx context.Context, msg string, fields Fields)
	Error(ctx context.Context, err error, fields Fields)
}

type logxLogger struct{}

// Setup configures logx for console output on w (stderr when nil) and
// returns a Logger at the given level.
func Setup(level string, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	logx.MustSetup(logx.LogConf{Mode: "console", Encoding: "plain"})
	logx.DisableStat()
	logx.SetWriter(logx.NewWriter(w))
	return New(level)
}

// New returns a Logger backed by go-zero's logx.
func New(level string) Logger {
	logx.SetLevel(parseLevel(level))
	return &logxLogger{}
}

func (l *logxLogger) Debug(ctx context.Context, msg string, fields Fields) {
	logx.WithContext(ctx).Debug(msgWithFields(msg, fields))
}

func (l *logxLogger) Info(ctx context.Context, msg string, fields Fields) {
	logx.WithContext(ctx).Info(msgWithFields(msg, fields))
}

// logx has no warn level; slow logs sit between info and error.
func (l *logxLogger) Warn(ctx context.Context, msg string, fields Fields) {
	logx.WithContext(ctx).Slow(msgWithFields(msg, fields))
}

func (l *logxLogger) Error(ctx context.Context, err error, fields Fields) {
	logx.WithContext(ctx).Error(msgWithFields(err.Error(), fields))
}

func parseLevel(level string) uint32 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logx.DebugLevel
	case "info":
		return logx.InfoLevel
	case "warn", "warning", "error":
		// Slow (our warn) is emitted at error level.
		return logx.ErrorLevel
	case "severe", "fatal":
		return logx.SevereLevel
	default:
		return logx.InfoLevel
	}
}

func msgWithFields(msg string, fields Fields) string {
	if len(fields) == 0 {
		return msg
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(fields))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return fmt.Sprintf("%s | %s", msg, strings.Join(parts, " "))
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, Fields) {}
func (nopLogger) Info(context.Context, string, Fields)  {}
func (nopLogger) Warn(context.Context, string, Fields)  {}
func (nopLogger) Error(context.Context, error, Fields)  {}
