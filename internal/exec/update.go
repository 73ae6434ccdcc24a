package exec

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// State is the kind of an Update.
type State int

// Update states.
const (
	// StateRequest is published before a request is sent.
	StateRequest State = iota
	// StateResponse is published when a response head arrives and while its body is read.
	StateResponse
	// StateError is published once when an exchange fails. Nothing follows it.
	StateError
)

// String returns the upper-case state name.
func (s State) String() string {
	switch s {
	case StateRequest:
		return "REQUEST"
	case StateResponse:
		return "RESPONSE"
	case StateError:
		return "ERROR"
	default:
		return "STATE(" + strconv.Itoa(int(s)) + ")"
	}
}

// RequestLine is the first line of an HTTP request.
type RequestLine struct {
	Method string
	URI    string
	Proto  string
}

// NewRequestLine describes req.
func NewRequestLine(req *http.Request) RequestLine {
	proto := req.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}

	uri := ""
	if req.URL != nil {
		uri = req.URL.RequestURI()
	}

	return RequestLine{
		Method: req.Method,
		URI:    uri,
		Proto:  proto,
	}
}

// String returns "GET /path HTTP/1.1".
func (l RequestLine) String() string {
	return l.Method + " " + l.URI + " " + l.Proto
}

// StatusLine is the first line of an HTTP response.
type StatusLine struct {
	Proto  string
	Code   int
	Reason string
}

// NewStatusLine describes resp.
func NewStatusLine(resp *http.Response) StatusLine {
	reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if reason == "" || reason == resp.Status {
		reason = http.StatusText(resp.StatusCode)
	}

	return StatusLine{
		Proto:  resp.Proto,
		Code:   resp.StatusCode,
		Reason: reason,
	}
}

// String returns "HTTP/1.1 200 OK".
func (l StatusLine) String() string {
	return l.Proto + " " + strconv.Itoa(l.Code) + " " + l.Reason
}

// Update is a status message about the exchange in progress.
type Update struct {
	// State is the kind of the update.
	State State
	// RequestLine identifies the request the update belongs to.
	RequestLine RequestLine
	// StatusLine is set for StateResponse.
	StatusLine StatusLine
	// Current is the number of body bytes read so far.
	Current int64
	// Total is the body length, -1 when unknown.
	Total int64
	// Err is set for StateError.
	Err error
}

// RequestUpdate announces a request.
func RequestUpdate(requestLine RequestLine) Update {
	return Update{
		State:       StateRequest,
		RequestLine: requestLine,
		Total:       -1,
	}
}

// ResponseUpdate reports response progress.
func ResponseUpdate(requestLine RequestLine, statusLine StatusLine, current, total int64) Update {
	return Update{
		State:       StateResponse,
		RequestLine: requestLine,
		StatusLine:  statusLine,
		Current:     current,
		Total:       total,
	}
}

// ErrorUpdate reports a failed exchange.
func ErrorUpdate(requestLine RequestLine, err error) Update {
	return Update{
		State:       StateError,
		RequestLine: requestLine,
		Total:       -1,
		Err:         err,
	}
}

// String formats the update the way it is shown to users.
func (u Update) String() string {
	switch u.State {
	case StateRequest:
		return "REQUEST " + u.RequestLine.String()
	case StateResponse:
		return fmt.Sprintf("RESPONSE %s (%d of %d)", u.StatusLine, u.Current, u.Total)
	case StateError:
		return fmt.Sprintf("ERROR %v", u.Err)
	default:
		return u.RequestLine.String()
	}
}
