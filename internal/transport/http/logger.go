package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oshokin/httpkit/internal/config"
	"github.com/oshokin/httpkit/internal/logging"
	"github.com/oshokin/httpkit/internal/utils"
)

// clientLoggerName is the logger for exchange summaries and failures.
const clientLoggerName = "httpkit.http.client"

// LogTransport is a custom http.RoundTripper that logs HTTP requests and responses.
// Header lines go to the headers logger, full dumps to the wire logger,
// and a one-line summary of every exchange to the client logger.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxLogLength is the maximum length of logged request/response data.
	maxLogLength uint64
	// wire receives request and response dumps including text bodies.
	wire *logging.Logger
	// headers receives request and response heads.
	headers *logging.Logger
	// client receives exchange summaries.
	client *logging.Logger
	// exchanges numbers the logged exchanges.
	exchanges atomic.Uint64
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")
)

// NewLogTransport creates and returns a new instance of LogTransport.
// If maxLogLength is 0, it defaults to config.DefaultMaxLogLength.
// A nil factory means logging.DefaultFactory().
func NewLogTransport(next http.RoundTripper, maxLogLength uint64, factory *logging.Factory) http.RoundTripper {
	if maxLogLength == 0 {
		maxLogLength = config.DefaultMaxLogLength
	}

	if factory == nil {
		factory = logging.DefaultFactory()
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
		wire:         factory.GetLogger(logging.WireLoggerName),
		headers:      factory.GetLogger(logging.HeadersLoggerName),
		client:       factory.GetLogger(clientLoggerName),
	}
}

// RoundTrip executes a single HTTP transaction and logs the request and response.
// It implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	var (
		wireEnabled    = t.wire.IsDebugEnabled()
		headersEnabled = t.headers.IsDebugEnabled()
		clientEnabled  = t.client.IsDebugEnabled()
	)

	// Skip all dumping work when nobody listens.
	if !wireEnabled && !headersEnabled && !clientEnabled {
		return t.next.RoundTrip(req)
	}

	exchangeID := fmt.Sprintf("ex-%010d", t.exchanges.Add(1))

	if headersEnabled {
		t.logHead(exchangeID, ">>", t.dumpRequest(req, false))
	}

	if wireEnabled {
		t.wire.Debug("{} >> {}", exchangeID, t.dumpRequest(req, true))
	}

	// Record the start time to measure the duration of the request.
	startTime := time.Now()

	// Forward the request to the underlying RoundTripper.
	resp, err := t.next.RoundTrip(req)

	// Calculate the duration of the request.
	duration := time.Since(startTime)

	if err != nil {
		t.client.Debug("{} {} {} failed after {}", exchangeID, req.Method, req.URL.String(), duration, err)

		return nil, err
	}

	if headersEnabled {
		t.logHead(exchangeID, "<<", t.dumpResponse(resp, false))
	}

	if wireEnabled {
		t.wire.Debug("{} << {}", exchangeID, t.dumpResponse(resp, true))
	}

	t.client.Debug("{} {} {} [{}] {}", exchangeID, req.Method, req.URL.Path, resp.StatusCode, duration)

	return resp, nil
}

// CloseIdleConnections forwards to the wrapped transport.
func (t *LogTransport) CloseIdleConnections() {
	closeIdleConnections(t.next)
}

// logHead writes one headers-logger line per head line, like "ex-0000000001 >> Host: example.com".
func (t *LogTransport) logHead(exchangeID, direction, head string) {
	for line := range strings.SplitSeq(strings.TrimRight(head, "\r\n"), "\n") {
		t.headers.Debug("{} {} {}", exchangeID, direction, strings.TrimRight(line, "\r"))
	}
}

func (t *LogTransport) dumpRequest(req *http.Request, body bool) string {
	dump, err := httputil.DumpRequestOut(req, body && req.Body != nil && req.Body != http.NoBody)
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

func (t *LogTransport) dumpResponse(resp *http.Response, body bool) string {
	// Check the Content-Type header to determine if the response body should be dumped.
	contentType := resp.Header.Get("Content-Type")

	dump, err := httputil.DumpResponse(resp, body && utils.IsTextContentType(contentType))
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

func (t *LogTransport) truncate(data []byte) string {
	if uint64(len(data)) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated]"
	}

	return string(data)
}
