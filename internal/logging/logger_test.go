package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatMessage tests placeholder substitution and cause extraction.
func TestFormatMessage(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name          string
		format        string
		args          []any
		expected      string
		expectedCause error
	}{
		{name: "no args", format: "plain {}", expected: "plain {}"},
		{name: "single", format: "hello {}", args: []any{"world"}, expected: "hello world"},
		{name: "two", format: "{} of {}", args: []any{1, 2}, expected: "1 of 2"},
		{name: "missing arg", format: "{} and {}", args: []any{"a"}, expected: "a and {}"},
		{name: "extra arg", format: "{}", args: []any{"a", "b"}, expected: "a"},
		{name: "escaped", format: `literal \{} then {}`, args: []any{"x"}, expected: "literal {} then x"},
		{name: "escaped escape", format: `path \\{}`, args: []any{"x"}, expected: `path \x`},
		{
			name:          "trailing cause",
			format:        "request {} failed",
			args:          []any{"GET", errBoom},
			expected:      "request GET failed",
			expectedCause: errBoom,
		},
		{name: "consumed error", format: "failed: {}", args: []any{errBoom}, expected: "failed: boom"},
		{name: "only cause", format: "failed", args: []any{errBoom}, expected: "failed", expectedCause: errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, cause := FormatMessage(tt.format, tt.args...)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expectedCause, cause)
		})
	}
}

// TestLogger_WriterSink tests logging through a writer sink.
func TestLogger_WriterSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewLogger(TagClient, NewWriterSink(&buf, Info))

	assert.False(t, l.IsTraceEnabled())
	assert.False(t, l.IsDebugEnabled())
	assert.True(t, l.IsInfoEnabled())
	assert.True(t, l.IsWarnEnabled())
	assert.True(t, l.IsErrorEnabled())

	l.Debug("hidden {}", 1)
	l.Info("connection {} leased", "route-1")
	l.Error("closing {}", "pool", errors.New("broken pipe"))

	require.Equal(t,
		"I/HttpClient: connection route-1 leased\nE/HttpClient: closing pool\nbroken pipe\n",
		buf.String())
}
