package ssl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseVersionString_Basic tests parsing of well-formed identifiers.
func TestParseVersionString_Basic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected ProtocolVersion
	}{
		{name: "major only", input: "TLSv1", expected: V1_0.Version()},
		{name: "tls 1.1", input: "TLSv1.1", expected: V1_1.Version()},
		{name: "tls 1.2", input: "TLSv1.2", expected: V1_2.Version()},
		{name: "tls 1.3", input: "TLSv1.3", expected: V1_3.Version()},
		{name: "multi-digit numbers", input: "TLSv22.356", expected: NewTLSVersion(22, 356)},
		{name: "surrounding whitespace in token", input: "TLSv 1.2 ", expected: NewTLSVersion(1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			version, err := ParseVersionString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, version)
		})
	}
}

// TestParseVersionString_RoundTrip tests that formatted versions parse back to the same numbers.
func TestParseVersionString_RoundTrip(t *testing.T) {
	t.Parallel()

	for major := range 12 {
		for _, minor := range []int{0, 1, 7, 10, 99, 4096} {
			input := fmt.Sprintf("TLSv%d.%d", major, minor)

			version, err := ParseVersionString(input)
			require.NoError(t, err, input)
			assert.Equal(t, ProtocolVersion{Protocol: ProtocolTLS, Major: major, Minor: minor}, version, input)
		}
	}
}

// TestParseVersion_Buffer tests cursor-based parsing with a delimiter.
func TestParseVersion_Buffer(t *testing.T) {
	t.Parallel()

	buf := " TLSv1.2,0000"
	cursor := NewCursor(1, 13)

	version, err := ParseVersion(buf, cursor, NewDelimiters(','))
	require.NoError(t, err)
	assert.Equal(t, V1_2.Version(), version)
	assert.Equal(t, 8, cursor.Pos())
}

// TestParseVersion_SequentialTokens tests that the cursor can be reused for a delimited list.
func TestParseVersion_SequentialTokens(t *testing.T) {
	t.Parallel()

	buf := "TLSv1.2,TLSv1.3"
	cursor := NewCursor(0, len(buf))
	delimiters := NewDelimiters(',')

	first, err := ParseVersion(buf, cursor, delimiters)
	require.NoError(t, err)
	assert.Equal(t, V1_2.Version(), first)
	assert.Equal(t, 7, cursor.Pos())

	cursor.UpdatePos(cursor.Pos() + 1)

	second, err := ParseVersion(buf, cursor, delimiters)
	require.NoError(t, err)
	assert.Equal(t, V1_3.Version(), second)
	assert.True(t, cursor.AtEnd())
}

// TestParseVersionString_Failures tests that malformed identifiers are rejected with a reason.
func TestParseVersionString_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{name: "lower case prefix", input: "Tlsv1", reason: ReasonMissingPrefix},
		{name: "upper case v", input: "TLSV1", reason: ReasonMissingPrefix},
		{name: "all lower case", input: "tlsv1", reason: ReasonMissingPrefix},
		{name: "prefix only", input: "TLSv", reason: ReasonMissingDigits},
		{name: "truncated prefix", input: "TLS", reason: ReasonTruncatedInput},
		{name: "empty input", input: "", reason: ReasonTruncatedInput},
		{name: "letter in major", input: "TLSv1A", reason: ReasonInvalidMajor},
		{name: "letter in minor", input: "TLSv1.A", reason: ReasonInvalidMinor},
		{name: "empty minor", input: "TLSv1.", reason: ReasonInvalidMinor},
		{name: "empty major", input: "TLSv.2", reason: ReasonInvalidMajor},
		{name: "signed major", input: "TLSv-1", reason: ReasonInvalidMajor},
		{name: "plus-signed major", input: "TLSv+1", reason: ReasonInvalidMajor},
		{name: "overflowing major", input: "TLSv99999999999999999999", reason: ReasonInvalidMajor},
		{name: "second dot", input: "TLSv1.2.3", reason: ReasonInvalidMinor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseVersionString(tt.input)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformedVersion)

			var malformedErr *MalformedVersionError
			require.ErrorAs(t, err, &malformedErr)
			assert.Equal(t, tt.reason, malformedErr.Reason)
			assert.Equal(t, tt.input, malformedErr.Input)
		})
	}
}

// TestParseVersion_UpperBoundLimitsScan tests that the parser never reads past the cursor bound.
func TestParseVersion_UpperBoundLimitsScan(t *testing.T) {
	t.Parallel()

	buf := "TLSv1.2"
	cursor := NewCursor(0, 5)

	version, err := ParseVersion(buf, cursor, nil)
	require.NoError(t, err)
	assert.Equal(t, V1_0.Version(), version)
	assert.Equal(t, 5, cursor.Pos())

	_, err = ParseVersion(buf, NewCursor(0, 4), nil)
	require.ErrorIs(t, err, ErrMalformedVersion)
}

// TestNewCursor_InvalidBounds tests that invalid bounds panic.
func TestNewCursor_InvalidBounds(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewCursor(-1, 3) })
	assert.Panics(t, func() { NewCursor(4, 3) })
	assert.Panics(t, func() { NewCursor(0, 3).UpdatePos(4) })
	assert.Equal(t, "[0>0>3]", NewCursor(0, 3).String())
}
