package ssl

import (
	"crypto/tls"
	"strings"
)

// TLS enumerates the TLS protocol versions known to the library.
type TLS int

// Supported TLS protocol versions.
const (
	V1_0 TLS = iota
	V1_1
	V1_2
	V1_3
)

type tlsInfo struct {
	ident   string
	version ProtocolVersion
	code    uint16
}

//nolint:gochecknoglobals // Immutable lookup table indexed by TLS.
var tlsTable = [...]tlsInfo{
	V1_0: {ident: "TLSv1", version: NewTLSVersion(1, 0), code: tls.VersionTLS10},
	V1_1: {ident: "TLSv1.1", version: NewTLSVersion(1, 1), code: tls.VersionTLS11},
	V1_2: {ident: "TLSv1.2", version: NewTLSVersion(1, 2), code: tls.VersionTLS12},
	V1_3: {ident: "TLSv1.3", version: NewTLSVersion(1, 3), code: tls.VersionTLS13},
}

// AllTLS returns every known TLS version, oldest first.
func AllTLS() []TLS {
	return []TLS{V1_0, V1_1, V1_2, V1_3}
}

// AllTLSIdents returns the identifiers of every known TLS version, oldest first.
func AllTLSIdents() []string {
	idents := make([]string, 0, len(tlsTable))
	for _, t := range AllTLS() {
		idents = append(idents, t.Ident())
	}

	return idents
}

// Ident returns the wire identifier, for example "TLSv1.2".
func (t TLS) Ident() string {
	return tlsTable[t].ident
}

// Version returns the structured protocol version.
func (t TLS) Version() ProtocolVersion {
	return tlsTable[t].version
}

// Code returns the crypto/tls version constant.
func (t TLS) Code() uint16 {
	return tlsTable[t].code
}

// String implements fmt.Stringer.
func (t TLS) String() string {
	return t.Ident()
}

// IsSame reports whether v equals this TLS version.
func (t TLS) IsSame(v ProtocolVersion) bool {
	return t.Version() == v
}

// IsComparable reports whether v can be ordered against this TLS version.
func (t TLS) IsComparable(v ProtocolVersion) bool {
	return t.Version().IsComparable(v)
}

// GreaterEquals reports whether this TLS version is at least v.
func (t TLS) GreaterEquals(v ProtocolVersion) bool {
	return t.Version().GreaterEquals(v)
}

// LessEquals reports whether this TLS version is at most v.
func (t TLS) LessEquals(v ProtocolVersion) bool {
	return t.Version().LessEquals(v)
}

// LookupTLS finds a TLS version by identifier, ignoring case.
func LookupTLS(ident string) (TLS, bool) {
	for _, t := range AllTLS() {
		if strings.EqualFold(t.Ident(), ident) {
			return t, true
		}
	}

	return 0, false
}

// LookupTLSCode finds a TLS version by its crypto/tls constant.
func LookupTLSCode(code uint16) (TLS, bool) {
	for _, t := range AllTLS() {
		if t.Code() == code {
			return t, true
		}
	}

	return 0, false
}

// ParseTLS parses a TLS version identifier. It is a shorthand for ParseVersionString.
func ParseTLS(s string) (ProtocolVersion, error) {
	return ParseVersionString(s)
}

// ExcludeWeakProtocols drops SSL protocols as well as TLSv1 and TLSv1.1.
// A nil input is returned as is. When nothing survives, the result is TLSv1.2 alone.
func ExcludeWeakProtocols(protocols []string) []string {
	if protocols == nil {
		return nil
	}

	enabled := make([]string, 0, len(protocols))

	for _, protocol := range protocols {
		if strings.HasPrefix(protocol, "SSL") || protocol == V1_0.Ident() || protocol == V1_1.Ident() {
			continue
		}

		enabled = append(enabled, protocol)
	}

	if len(enabled) == 0 {
		enabled = append(enabled, V1_2.Ident())
	}

	return enabled
}
