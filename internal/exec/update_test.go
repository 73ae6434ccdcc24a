package exec_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshokin/httpkit/internal/exec"
)

func TestUpdateString(t *testing.T) {
	t.Parallel()

	requestLine := exec.RequestLine{Method: http.MethodGet, URI: "/x", Proto: "HTTP/1.1"}
	statusLine := exec.StatusLine{Proto: "HTTP/1.1", Code: http.StatusOK, Reason: "OK"}

	tests := []struct {
		name   string
		update exec.Update
		want   string
	}{
		{
			name:   "request",
			update: exec.RequestUpdate(requestLine),
			want:   "REQUEST GET /x HTTP/1.1",
		},
		{
			name:   "response",
			update: exec.ResponseUpdate(requestLine, statusLine, 2048, 5000),
			want:   "RESPONSE HTTP/1.1 200 OK (2048 of 5000)",
		},
		{
			name:   "error",
			update: exec.ErrorUpdate(requestLine, errors.New("connection reset")),
			want:   "ERROR connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.update.String())
		})
	}
}

func TestUpdateConstructors(t *testing.T) {
	t.Parallel()

	requestLine := exec.RequestLine{Method: http.MethodPost, URI: "/", Proto: "HTTP/1.1"}

	request := exec.RequestUpdate(requestLine)
	assert.Equal(t, exec.StateRequest, request.State)
	assert.Equal(t, int64(-1), request.Total)

	failure := exec.ErrorUpdate(requestLine, assert.AnError)
	assert.Equal(t, exec.StateError, failure.State)
	assert.Equal(t, int64(-1), failure.Total)
	assert.ErrorIs(t, failure.Err, assert.AnError)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "REQUEST", exec.StateRequest.String())
	assert.Equal(t, "RESPONSE", exec.StateResponse.String())
	assert.Equal(t, "ERROR", exec.StateError.String())
	assert.Equal(t, "STATE(9)", exec.State(9).String())
}

func TestNewRequestLine(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/a/b?c=d", http.NoBody)
	assert.Equal(t, "GET /a/b?c=d HTTP/1.1", exec.NewRequestLine(req).String())

	req, err := http.NewRequest(http.MethodDelete, "https://example.com", http.NoBody)
	assert.NoError(t, err)

	req.Proto = ""
	assert.Equal(t, "DELETE / HTTP/1.1", exec.NewRequestLine(req).String())
}

func TestNewStatusLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *http.Response
		want string
	}{
		{
			name: "status with reason",
			resp: &http.Response{Proto: "HTTP/1.1", StatusCode: http.StatusNotFound, Status: "404 Not Found"},
			want: "HTTP/1.1 404 Not Found",
		},
		{
			name: "custom reason",
			resp: &http.Response{Proto: "HTTP/1.0", StatusCode: http.StatusOK, Status: "200 Fine"},
			want: "HTTP/1.0 200 Fine",
		},
		{
			name: "missing status text",
			resp: &http.Response{Proto: "HTTP/2.0", StatusCode: http.StatusCreated},
			want: "HTTP/2.0 201 Created",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, exec.NewStatusLine(tt.resp).String())
		})
	}
}
