package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{" INFO ", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestInitLoggerToWritesJSON(t *testing.T) {
	prev, prevDefault := L, slog.Default()
	t.Cleanup(func() {
		L = prev
		slog.SetDefault(prevDefault)
	})

	var buf bytes.Buffer
	InitLoggerTo(&buf, "warn")
	L.Info("dropped")
	L.Warn("kept", "runID", "r1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "r1", entry["runID"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestFromContext(t *testing.T) {
	assert.Same(t, L, FromContext(context.Background()))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
