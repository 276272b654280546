package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSnapshot,
		ErrTerminal,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid preferences file",
			suggestion: "Delete the file to regenerate defaults",
		},
		{
			name:       "snapshot error",
			code:       ErrSnapshot,
			message:    "Could not list processes",
			suggestion: "Check that /proc is mounted",
		},
		{
			name:       "terminal error",
			code:       ErrTerminal,
			message:    "stdout is not a terminal",
			suggestion: "Run rtop from an interactive shell",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestWrap_DefaultsToSnapshotCode(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(cause, "Snapshot failed")

	assert.Equal(t, ErrSnapshot, err.Code)
	assert.Equal(t, cause, err.Cause)
	assert.True(t, errors.Is(err, cause))
}

func TestError_Format(t *testing.T) {
	err := WrapWithCode(fmt.Errorf("yaml: line 3: bad indent"), ErrConfig,
		"Preferences file is malformed", "Defaults will be used")

	out := err.Error()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "✗ Preferences file is malformed", lines[0])
	assert.Contains(t, out, "  yaml: line 3: bad indent")
	assert.Contains(t, out, "  Defaults will be used")
}

func TestError_FormatWithoutCauseOrSuggestion(t *testing.T) {
	err := New(ErrTerminal, "no tty", "")
	assert.Equal(t, "✗ no tty\n", err.Error())
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "bad", "")
	wrapped := fmt.Errorf("loading: %w", err)

	assert.True(t, IsCode(err, ErrConfig))
	assert.True(t, IsCode(wrapped, ErrConfig))
	assert.False(t, IsCode(err, ErrSnapshot))
	assert.False(t, IsCode(nil, ErrConfig))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrConfig))
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{"nil", nil, ""},
		{"plain multi-line", fmt.Errorf("first\nsecond"), "first"},
		{"structured without cause", New(ErrSnapshot, "source unavailable", "retrying"), "source unavailable"},
		{"structured with cause", Wrap(fmt.Errorf("timeout\nmore"), "snapshot failed"), "snapshot failed: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Summary(tt.err))
		})
	}
}
