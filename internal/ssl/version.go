package ssl

import (
	"cmp"
	"fmt"
	"strconv"
)

// ProtocolTLS is the protocol tag carried by every parsed TLS version.
const ProtocolTLS = "TLS"

// ProtocolVersion is an immutable (protocol, major, minor) triple.
// Two versions are equal when all three fields are equal.
type ProtocolVersion struct {
	// Protocol is the protocol tag, for example "TLS".
	Protocol string
	// Major is the major version number.
	Major int
	// Minor is the minor version number.
	Minor int
}

// NewTLSVersion returns a TLS protocol version with the given numbers.
func NewTLSVersion(major, minor int) ProtocolVersion {
	return ProtocolVersion{
		Protocol: ProtocolTLS,
		Major:    major,
		Minor:    minor,
	}
}

// IsComparable reports whether both versions carry the same protocol tag.
func (v ProtocolVersion) IsComparable(other ProtocolVersion) bool {
	return v.Protocol == other.Protocol
}

// Compare orders comparable versions by major and then minor number.
// It returns -1, 0 or +1, or ErrIncomparableVersions when the protocol tags differ.
func (v ProtocolVersion) Compare(other ProtocolVersion) (int, error) {
	if !v.IsComparable(other) {
		return 0, fmt.Errorf("%w: %s and %s", ErrIncomparableVersions, v, other)
	}

	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c, nil
	}

	return cmp.Compare(v.Minor, other.Minor), nil
}

// GreaterEquals reports whether v is comparable with other and not lower than it.
func (v ProtocolVersion) GreaterEquals(other ProtocolVersion) bool {
	c, err := v.Compare(other)

	return err == nil && c >= 0
}

// LessEquals reports whether v is comparable with other and not greater than it.
func (v ProtocolVersion) LessEquals(other ProtocolVersion) bool {
	c, err := v.Compare(other)

	return err == nil && c <= 0
}

// String returns the version in "TLS/1.2" form.
func (v ProtocolVersion) String() string {
	return v.Protocol + "/" + strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}
