package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/httpkit/internal/exec"
)

func TestParseContentTypeLenient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		value       string
		wantMime    string
		wantCharset string
		wantNil     bool
	}{
		{
			name:        "with charset",
			value:       "text/html; charset=UTF-8",
			wantMime:    "text/html",
			wantCharset: "UTF-8",
		},
		{
			name:     "upper case type",
			value:    "Application/JSON",
			wantMime: "application/json",
		},
		{
			name:     "broken parameter is dropped",
			value:    "text/plain; charset",
			wantMime: "text/plain",
		},
		{
			name:    "empty",
			value:   "  ",
			wantNil: true,
		},
		{
			name:    "garbage",
			value:   "/;;",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exec.ParseContentTypeLenient(tt.value)
			if tt.wantNil {
				assert.Nil(t, got)
				assert.Empty(t, got.Charset())

				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantMime, got.MimeType)
			assert.Equal(t, tt.wantCharset, got.Charset())
		})
	}
}

func TestContentTypeString(t *testing.T) {
	t.Parallel()

	contentType := exec.ParseContentTypeLenient("text/plain; charset=utf-8")
	require.NotNil(t, contentType)
	assert.Equal(t, "text/plain; charset=utf-8", contentType.String())
}
