package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "severe", "", "bogus"} {
		t.Run(level, func(t *testing.T) {
			logger := New(level)
			require.NotNil(t, logger)
			require.Implements(t, (*Logger)(nil), logger)
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("debug", &buf)
	ctx := context.Background()

	require.NotPanics(t, func() {
		logger.Debug(ctx, "debug message", Fields{"key": "value"})
		logger.Info(ctx, "info message", nil)
		logger.Warn(ctx, "warn message", Fields{"entries": 3})
		logger.Error(ctx, errors.New("boom"), Fields{"key": "value"})
	})
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, uint32(logx.DebugLevel), parseLevel("DEBUG"))
	require.Equal(t, uint32(logx.ErrorLevel), parseLevel("warn"))
	require.Equal(t, uint32(logx.InfoLevel), parseLevel("bogus"))
}

func TestMsgWithFields(t *testing.T) {
	require.Equal(t, "plain", msgWithFields("plain", nil))
	require.Equal(t, "saved | backend=file entries=3",
		msgWithFields("saved", Fields{"entries": 3, "backend": "file"}))
}

func TestNop(t *testing.T) {
	require.NotPanics(t, func() {
		l := Nop()
		l.Info(context.Background(), "x", nil)
		l.Error(context.Background(), errors.New("x"), nil)
	})
}
