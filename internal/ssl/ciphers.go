package ssl

import (
	"crypto/tls"
	"regexp"
)

var (
	// weakCipherSuitePatterns match cipher suites with a weak key exchange or a weak bulk cipher.
	//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
	weakCipherSuitePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(TLS|SSL)_(NULL|ECDH_anon|DH_anon|DH_anon_EXPORT|DHE_RSA_EXPORT|DHE_DSS_EXPORT|` +
			`DSS_EXPORT|DH_DSS_EXPORT|DH_RSA_EXPORT|RSA_EXPORT|KRB5_EXPORT)_(.*)$`),
		regexp.MustCompile(`(?i)^(TLS|SSL)_(.*)_WITH_(NULL|DES_CBC|DES40_CBC|DES_CBC_40|3DES_EDE_CBC|` +
			`RC4_128|RC4_40|RC2_CBC_40)_(.*)$`),
	}
)

// IsWeakCipher reports whether the named cipher suite is considered weak.
func IsWeakCipher(cipherSuite string) bool {
	for _, pattern := range weakCipherSuitePatterns {
		if pattern.MatchString(cipherSuite) {
			return true
		}
	}

	return false
}

// ExcludeWeakCiphers drops weak cipher suites while keeping the order of the rest.
// A nil input is returned as is. When every entry is weak, the original list is returned unchanged.
func ExcludeWeakCiphers(ciphers []string) []string {
	if ciphers == nil {
		return nil
	}

	enabled := make([]string, 0, len(ciphers))

	for _, cipher := range ciphers {
		if !IsWeakCipher(cipher) {
			enabled = append(enabled, cipher)
		}
	}

	if len(enabled) == 0 {
		return ciphers
	}

	return enabled
}

// KnownCipherSuiteNames returns the names of every cipher suite implemented by crypto/tls,
// secure ones first.
func KnownCipherSuiteNames() []string {
	var names []string

	for _, suite := range tls.CipherSuites() {
		names = append(names, suite.Name)
	}

	for _, suite := range tls.InsecureCipherSuites() {
		names = append(names, suite.Name)
	}

	return names
}

// cipherSuiteIDs resolves cipher suite names to crypto/tls identifiers.
// Names crypto/tls does not implement are returned separately.
func cipherSuiteIDs(names []string) (ids []uint16, unknown []string) {
	byName := make(map[string]uint16)

	for _, suite := range tls.CipherSuites() {
		byName[suite.Name] = suite.ID
	}

	for _, suite := range tls.InsecureCipherSuites() {
		byName[suite.Name] = suite.ID
	}

	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			unknown = append(unknown, name)

			continue
		}

		ids = append(ids, id)
	}

	return ids, unknown
}
