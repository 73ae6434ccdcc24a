package ssl

import (
	"errors"
	"fmt"
)

// Static error definitions for better error handling.
var (
	// ErrMalformedVersion indicates that a TLS protocol version string could not be parsed.
	ErrMalformedVersion = errors.New("malformed TLS version")
	// ErrIncomparableVersions indicates that two protocol versions carry different protocol tags.
	ErrIncomparableVersions = errors.New("protocol versions are not comparable")
	// ErrUnsupportedTLSVersion indicates that a TLS version is not known to crypto/tls.
	ErrUnsupportedTLSVersion = errors.New("unsupported TLS version")
	// ErrHostnameMismatch indicates that the peer certificate does not match the requested host.
	ErrHostnameMismatch = errors.New("hostname verification failed")
	// ErrNoPeerCertificates indicates that the peer presented no certificates.
	ErrNoPeerCertificates = errors.New("peer presented no certificates")
)

// Reasons reported by MalformedVersionError.
const (
	ReasonTruncatedInput = "truncated input"
	ReasonMissingPrefix  = "missing TLS prefix"
	ReasonMissingDigits  = "missing version digits"
	ReasonInvalidMajor   = "invalid major version"
	ReasonInvalidMinor   = "invalid minor version"
)

// MalformedVersionError describes why a TLS version could not be parsed.
type MalformedVersionError struct {
	// Input is the text that was scanned.
	Input string
	// Position is the cursor position where parsing failed.
	Position int
	// Reason is a short description of the failure.
	Reason string
}

// Error implements the error interface.
func (e *MalformedVersionError) Error() string {
	return fmt.Sprintf("%s: %s at position %d in %q", ErrMalformedVersion, e.Reason, e.Position, e.Input)
}

// Unwrap allows errors.Is(err, ErrMalformedVersion).
func (e *MalformedVersionError) Unwrap() error {
	return ErrMalformedVersion
}

func malformed(input string, pos int, reason string) error {
	return &MalformedVersionError{
		Input:    input,
		Position: pos,
		Reason:   reason,
	}
}
