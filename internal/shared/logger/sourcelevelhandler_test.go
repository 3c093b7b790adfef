package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLevelHandler(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := slog.New(NewSourceLevelHandler(base, slog.LevelWarn, slog.LevelError))

	decode := func() map[string]any {
		t.Helper()
		var m map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
		buf.Reset()
		return m
	}

	l.Info("plain")
	assert.NotContains(t, decode(), slog.SourceKey)

	l.Warn("noisy")
	rec := decode()
	require.Contains(t, rec, slog.SourceKey)
	src, ok := rec[slog.SourceKey].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, src["file"], "sourcelevelhandler_test.go")

	l.With("component", "x").Error("boom")
	rec = decode()
	assert.Contains(t, rec, slog.SourceKey)
	assert.Equal(t, "x", rec["component"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
