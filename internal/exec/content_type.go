package exec

import (
	"errors"
	"mime"
	"strings"
)

// ContentType is a parsed Content-Type header.
type ContentType struct {
	// MimeType is the lower-cased media type, for example "text/html".
	MimeType string
	// Params holds the media type parameters with lower-cased names.
	Params map[string]string
}

// ParseContentTypeLenient parses a Content-Type header value.
// Malformed parameters are dropped; nil is returned for an empty or unusable value.
func ParseContentTypeLenient(value string) *ContentType {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	mediaType, params, err := mime.ParseMediaType(value)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return nil
	}

	if mediaType == "" {
		return nil
	}

	return &ContentType{
		MimeType: mediaType,
		Params:   params,
	}
}

// Charset returns the charset parameter, or "" when absent.
func (c *ContentType) Charset() string {
	if c == nil {
		return ""
	}

	return c.Params["charset"]
}

// String formats the content type back into header form.
func (c *ContentType) String() string {
	if c == nil {
		return ""
	}

	return mime.FormatMediaType(c.MimeType, c.Params)
}
