package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)

	// Parsing is case-insensitive and trims whitespace.
	got, ok := ParseLogLevel("  WARN ")
	require.True(t, ok)
	require.Equal(t, zapcore.WarnLevel, got)
}

// TestFromContext verifies the global logger is returned when the context carries none.
func TestFromContext(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestToContext verifies a logger stored in the context is returned as-is.
func TestToContext(t *testing.T) {
	t.Parallel()

	l := New(zapcore.ErrorLevel)
	ctx := ToContext(context.Background(), l)

	require.Same(t, l, FromContext(ctx))
}

// TestWithName verifies WithName replaces the context logger with a named one.
func TestWithName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	named := WithName(ctx, "sentinel")

	require.NotSame(t, FromContext(ctx), FromContext(named))
}
