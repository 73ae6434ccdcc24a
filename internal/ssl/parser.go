package ssl

import (
	"strconv"
	"strings"
)

// tlsVersionPrefix is the literal every TLS version identifier starts with.
const tlsVersionPrefix = "TLSv"

// Delimiters is a set of runes that terminate a token.
// A nil set means the token runs to the cursor's upper bound.
type Delimiters map[byte]struct{}

// NewDelimiters builds a delimiter set from the given ASCII characters.
func NewDelimiters(chars ...byte) Delimiters {
	d := make(Delimiters, len(chars))
	for _, c := range chars {
		d[c] = struct{}{}
	}

	return d
}

// Contains reports whether c is a delimiter.
func (d Delimiters) Contains(c byte) bool {
	_, ok := d[c]

	return ok
}

// ParseVersion parses a "TLSv<major>[.<minor>]" identifier starting at the cursor position.
// On success the cursor is left on the delimiter that ended the token, or on the upper bound.
// Every failure is a *MalformedVersionError.
func ParseVersion(buf string, cursor *Cursor, delimiters Delimiters) (ProtocolVersion, error) {
	upperBound := min(cursor.UpperBound(), len(buf))

	pos := cursor.Pos()
	if pos+len(tlsVersionPrefix) > upperBound {
		return ProtocolVersion{}, malformed(buf, pos, ReasonTruncatedInput)
	}

	if buf[pos:pos+len(tlsVersionPrefix)] != tlsVersionPrefix {
		return ProtocolVersion{}, malformed(buf, pos, ReasonMissingPrefix)
	}

	pos += len(tlsVersionPrefix)
	cursor.UpdatePos(pos)

	if pos >= upperBound {
		return ProtocolVersion{}, malformed(buf, pos, ReasonMissingDigits)
	}

	token := parseToken(buf, cursor, upperBound, delimiters)

	majorText, minorText, hasMinor := strings.Cut(token, ".")

	major, ok := parseNumber(majorText)
	if !ok {
		return ProtocolVersion{}, malformed(buf, pos, ReasonInvalidMajor)
	}

	if !hasMinor {
		return NewTLSVersion(major, 0), nil
	}

	minor, ok := parseNumber(minorText)
	if !ok {
		return ProtocolVersion{}, malformed(buf, pos, ReasonInvalidMinor)
	}

	return NewTLSVersion(major, minor), nil
}

// ParseVersionString parses a whole string as a TLS version identifier.
func ParseVersionString(s string) (ProtocolVersion, error) {
	return ParseVersion(s, NewCursor(0, len(s)), nil)
}

// parseToken consumes characters up to the next delimiter or the upper bound.
// Leading and trailing whitespace is dropped and inner whitespace runs collapse to one space.
func parseToken(buf string, cursor *Cursor, upperBound int, delimiters Delimiters) string {
	var (
		sb         strings.Builder
		whitespace bool
		pos        = cursor.Pos()
	)

	for ; pos < upperBound; pos++ {
		c := buf[pos]
		if delimiters.Contains(c) {
			break
		}

		if isWhitespace(c) {
			whitespace = true

			continue
		}

		if whitespace && sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		whitespace = false

		sb.WriteByte(c)
	}

	cursor.UpdatePos(pos)

	return sb.String()
}

// parseNumber accepts a non-empty run of decimal digits that fits into int.
func parseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return n, true
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
