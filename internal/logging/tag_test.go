package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTagForLoggerName tests the mapping of logger names to sink tags.
func TestTagForLoggerName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "wire", input: "httpkit.http.wire", expected: TagWire},
		{name: "headers", input: "httpkit.http.headers", expected: TagHeaders},
		{name: "module logger", input: "httpkit.transport.pool", expected: TagClient},
		{name: "wire lookalike", input: "httpkit.http.wire.extra", expected: TagClient},
		{name: "empty", input: "", expected: "null"},
		{name: "short foreign", input: "app.main", expected: "app.main"},
		{name: "exactly max length", input: "abcdefghij.klmnopqrstuv", expected: "abcdefghij.klmnopqrstuv"},
		{name: "last segment", input: "com.example.service.DownloadWorker", expected: "DownloadWorker"},
		{
			name:     "long last segment",
			input:    "com.example.AVeryLongComponentNameForTags",
			expected: "ongComponentNameForTags",
		},
		{name: "no dots", input: "abcdefghijklmnopqrstuvwxyz", expected: "defghijklmnopqrstuvwxyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TagForLoggerName(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, len(got), MaxTagLength)
		})
	}
}
