package logging

import "strings"

// Logger names with dedicated tags.
const (
	// LoggerNamePrefix prefixes every logger name owned by this module.
	LoggerNamePrefix = "httpkit."
	// WireLoggerName is the name of the raw wire dump logger.
	WireLoggerName = "httpkit.http.wire"
	// HeadersLoggerName is the name of the header dump logger.
	HeadersLoggerName = "httpkit.http.headers"
)

// Tags produced by TagForLoggerName.
const (
	TagWire       = "HttpClientWire"
	TagHeaders    = "HttpClientHeader"
	TagClient     = "HttpClient"
	TagLogHandler = "HttpClientLogHandler"
)

// MaxTagLength is the longest tag a platform sink accepts.
const MaxTagLength = 23

const nullTag = "null"

// TagForLoggerName maps a logger name to a sink tag.
func TagForLoggerName(name string) string {
	switch {
	case name == WireLoggerName:
		return TagWire
	case name == HeadersLoggerName:
		return TagHeaders
	case strings.HasPrefix(name, LoggerNamePrefix):
		return TagClient
	default:
		return NameToTag(name)
	}
}

// NameToTag shortens a logger name to at most MaxTagLength bytes.
// It prefers the segment after the last dot and falls back to the tail of the name.
func NameToTag(name string) string {
	if name == "" {
		return nullTag
	}

	if len(name) <= MaxTagLength {
		return name
	}

	segment := name[strings.LastIndexByte(name, '.')+1:]
	if len(segment) <= MaxTagLength {
		return segment
	}

	return name[len(name)-MaxTagLength:]
}
