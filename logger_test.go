package flax

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgorg/flax/state"
)

func captureLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewLogger(handler), &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		lines = append(lines, m)
	}
	return lines
}

func TestLoggerWithHelpers(t *testing.T) {
	l, buf := captureLogger(slog.LevelInfo)

	l.WithPath(state.ParsePath("layers/0/kernel")).
		WithGroupName("params").
		WithCount(3).
		Info("entry assigned")

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "layers/0/kernel", lines[0]["path"])
	assert.Equal(t, "params", lines[0]["group"])
	assert.Equal(t, float64(3), lines[0]["count"])
}

func TestLogSaveLoad(t *testing.T) {
	ctx := context.Background()
	l, buf := captureLogger(slog.LevelInfo)

	l.LogSave(ctx, 7, 2, nil)
	l.LogLoad(ctx, 7, 2, nil)
	l.LogLoad(ctx, 7, 0, errors.New("corrupt"))

	lines := logLines(t, buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "checkpoint saved", lines[0]["msg"])
	assert.Equal(t, float64(7), lines[0]["id"])
	assert.Equal(t, "checkpoint loaded", lines[1]["msg"])
	assert.Equal(t, "checkpoint load failed", lines[2]["msg"])
}

func TestLogSaveFailure(t *testing.T) {
	l, buf := captureLogger(slog.LevelInfo)
	l.LogSave(context.Background(), 7, 2, errors.New("boom"))

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "checkpoint save failed", lines[0]["msg"])
	assert.Equal(t, "boom", lines[0]["error"])
}

func TestNoopLoggerDiscards(t *testing.T) {
	// Must not panic and must not write anywhere observable.
	l := NoopLogger()
	l.LogSave(context.Background(), 1, 1, nil)
	l.Error("dropped")
}
