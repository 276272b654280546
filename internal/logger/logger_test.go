package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		envValue   string
		expectDbg  bool
		totalLines int
	}{
		{name: "info level hides debug", debug: false, expectDbg: false, totalLines: 3},
		{name: "debug flag shows debug", debug: true, expectDbg: true, totalLines: 4},
		{name: "env var shows debug", envValue: "1", expectDbg: true, totalLines: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DebugEnv, tt.envValue)

			var buf bytes.Buffer
			l := New(&buf, "test", tt.debug)
			l.Debug("debug %d", 1)
			l.Info("info %s", "x")
			l.Warn("warn")
			l.Error("error")

			entries := decodeLines(t, &buf)
			assert.Len(t, entries, tt.totalLines)
			if tt.expectDbg {
				assert.Equal(t, "debug", entries[0]["level"])
				assert.Equal(t, "debug 1", entries[0]["message"])
			}
			for _, e := range entries {
				assert.Equal(t, "test", e["component"])
			}
		})
	}
}

func TestWith_AddsComponent(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	l := With(New(&buf, "", false), "collector")
	l.Warn("slow snapshot %dms", 900)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "collector", entries[0]["component"])
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "slow snapshot 900ms", entries[0]["message"])
}

func TestWith_NonZerologPassesThrough(t *testing.T) {
	buf := NewBufferLogger()
	assert.Same(t, buf, With(buf, "x"))
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rtop.log")
	l, closeFn := NewFileLogger(path, false)
	l.Info("started")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"started"`)
}

func TestNewFileLogger_UnwritableFallsBackToNoop(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	l, closeFn := NewFileLogger(filepath.Join(blocker, "sub", "rtop.log"), false)
	assert.NotPanics(t, func() { l.Error("dropped") })
	assert.NoError(t, closeFn())
	assert.IsType(t, &noopLogger{}, l)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, filepath.Join("/tmp/state", "rtop", "rtop.log"), DefaultPath())
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	l.Debug("d %d", 1)
	l.Warn("w")

	assert.True(t, l.HasLevel("debug"))
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))
	assert.Equal(t, []LogMessage{{"debug", "d 1"}, {"warn", "w"}}, l.Snapshot())

	l.Clear()
	assert.Empty(t, l.Snapshot())
}

func TestDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("hello")
	assert.True(t, buf.HasLevel("info"))
}
