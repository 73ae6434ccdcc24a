package ssl

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/oshokin/httpkit/internal/logger"
)

const (
	// DefaultConnectTimeout bounds the TCP connect phase of the default dialer.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultKeepAlive is the TCP keep-alive period of the default dialer.
	DefaultKeepAlive = 30 * time.Second
)

// ContextDialer opens raw network connections. *net.Dialer satisfies it.
type ContextDialer interface {
	// DialContext connects to the address on the named network.
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// HostnameVerifier decides whether a completed handshake is acceptable for the requested host.
type HostnameVerifier interface {
	// Verify returns nil when the peer described by state may serve host.
	Verify(host string, state tls.ConnectionState) error
}

// HostnameVerifierFunc adapts a function to the HostnameVerifier interface.
type HostnameVerifierFunc func(host string, state tls.ConnectionState) error

// Verify calls f(host, state).
func (f HostnameVerifierFunc) Verify(host string, state tls.ConnectionState) error {
	return f(host, state)
}

// DefaultHostnameVerifier checks the leaf certificate against the host name or IP address.
func DefaultHostnameVerifier() HostnameVerifier {
	return HostnameVerifierFunc(func(host string, state tls.ConnectionState) error {
		if len(state.PeerCertificates) == 0 {
			return ErrNoPeerCertificates
		}

		if err := state.PeerCertificates[0].VerifyHostname(host); err != nil {
			return fmt.Errorf("%w: %w", ErrHostnameMismatch, err)
		}

		return nil
	})
}

// SocketFactoryBuilder assembles a SocketFactory from optional parts.
// Unset parts fall back to crypto/tls and net defaults.
type SocketFactoryBuilder struct {
	// tlsConfig is the base configuration carrying roots and client certificates.
	tlsConfig *tls.Config
	// tlsVersions is the allowlist of protocol identifiers.
	tlsVersions []string
	// ciphers is the allowlist of IANA cipher suite names.
	ciphers []string
	// hostnameVerifier replaces the built-in host name check when set.
	hostnameVerifier HostnameVerifier
	// dialer opens the underlying TCP connections.
	dialer ContextDialer
}

// NewSocketFactoryBuilder creates an empty builder.
func NewSocketFactoryBuilder() *SocketFactoryBuilder {
	return new(SocketFactoryBuilder)
}

// SetTLSConfig assigns the base TLS configuration. It is cloned on Build.
func (b *SocketFactoryBuilder) SetTLSConfig(cfg *tls.Config) *SocketFactoryBuilder {
	b.tlsConfig = cfg

	return b
}

// SetTLSVersions assigns the enabled protocol identifiers, for example "TLSv1.2".
func (b *SocketFactoryBuilder) SetTLSVersions(versions ...string) *SocketFactoryBuilder {
	b.tlsVersions = versions

	return b
}

// SetTLSVersionsEnum assigns the enabled protocols from TLS values.
func (b *SocketFactoryBuilder) SetTLSVersionsEnum(versions ...TLS) *SocketFactoryBuilder {
	b.tlsVersions = make([]string, len(versions))
	for i, v := range versions {
		b.tlsVersions[i] = v.Ident()
	}

	return b
}

// SetCiphers assigns the enabled cipher suite names.
func (b *SocketFactoryBuilder) SetCiphers(ciphers ...string) *SocketFactoryBuilder {
	b.ciphers = ciphers

	return b
}

// SetHostnameVerifier assigns a custom host name verifier.
func (b *SocketFactoryBuilder) SetHostnameVerifier(verifier HostnameVerifier) *SocketFactoryBuilder {
	b.hostnameVerifier = verifier

	return b
}

// SetDialer assigns the dialer used for the underlying TCP connections.
func (b *SocketFactoryBuilder) SetDialer(dialer ContextDialer) *SocketFactoryBuilder {
	b.dialer = dialer

	return b
}

// Build creates the socket factory.
// The version allowlist becomes a MinVersion..MaxVersion range, since crypto/tls cannot express gaps.
func (b *SocketFactoryBuilder) Build() (*SocketFactory, error) {
	cfg := new(tls.Config)
	if b.tlsConfig != nil {
		cfg = b.tlsConfig.Clone()
	}

	var protocols []string

	if b.tlsVersions != nil {
		minVersion, maxVersion, err := versionRange(b.tlsVersions)
		if err != nil {
			return nil, err
		}

		cfg.MinVersion = minVersion.Code()
		cfg.MaxVersion = maxVersion.Code()
		protocols = slices.Clone(b.tlsVersions)
	}

	var ciphers []string

	if b.ciphers != nil {
		ids, unknown := cipherSuiteIDs(b.ciphers)
		if len(unknown) > 0 {
			logger.Logger().Debugw("Skipping cipher suites unknown to crypto/tls", "ciphers", unknown)
		}

		if len(ids) > 0 {
			cfg.CipherSuites = ids
		}

		ciphers = slices.Clone(b.ciphers)
	}

	dialer := b.dialer
	if dialer == nil {
		dialer = &net.Dialer{
			Timeout:   DefaultConnectTimeout,
			KeepAlive: DefaultKeepAlive,
		}
	}

	return &SocketFactory{
		config:    cfg,
		dialer:    dialer,
		verifier:  b.hostnameVerifier,
		protocols: protocols,
		ciphers:   ciphers,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *SocketFactoryBuilder) MustBuild() *SocketFactory {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}

	return f
}

// SocketFactory opens TLS client connections with a fixed configuration.
type SocketFactory struct {
	config    *tls.Config
	dialer    ContextDialer
	verifier  HostnameVerifier
	protocols []string
	ciphers   []string
}

// SystemSocketFactory returns a factory restricted to non-weak protocols and cipher suites.
func SystemSocketFactory() *SocketFactory {
	return NewSocketFactoryBuilder().
		SetTLSVersions(ExcludeWeakProtocols(AllTLSIdents())...).
		SetCiphers(ExcludeWeakCiphers(KnownCipherSuiteNames())...).
		MustBuild()
}

// DialTLSContext connects to addr and performs the TLS handshake.
// Its signature matches http.Transport.DialTLSContext.
func (f *SocketFactory) DialTLSContext(ctx context.Context, network, addr string) (net.Conn, error) {
	raw, err := f.dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, splitErr := net.SplitHostPort(addr)
	if splitErr != nil {
		host = addr
	}

	conn, err := f.Layer(ctx, raw, host)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Layer performs a TLS handshake over an established connection using host for SNI and verification.
// The raw connection is closed when the handshake fails.
func (f *SocketFactory) Layer(ctx context.Context, raw net.Conn, host string) (*tls.Conn, error) {
	cfg := f.config.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}

	if f.verifier != nil {
		installHostnameVerifier(cfg, f.verifier, host)
	}

	conn := tls.Client(raw, cfg)
	if err := conn.HandshakeContext(ctx); err != nil {
		_ = raw.Close()

		return nil, fmt.Errorf("TLS handshake with %s failed: %w", host, err)
	}

	return conn, nil
}

// TLSConfig returns a copy of the base TLS configuration.
// A custom hostname verifier is installed per connection and is not part of it.
func (f *SocketFactory) TLSConfig() *tls.Config {
	return f.config.Clone()
}

// SupportedProtocols returns the configured protocol allowlist, or nil when crypto/tls defaults apply.
func (f *SocketFactory) SupportedProtocols() []string {
	return slices.Clone(f.protocols)
}

// SupportedCiphers returns the configured cipher allowlist, or nil when crypto/tls defaults apply.
func (f *SocketFactory) SupportedCiphers() []string {
	return slices.Clone(f.ciphers)
}

// Profile summarizes the factory configuration in a serializable form.
type Profile struct {
	// Protocols lists the enabled protocol identifiers.
	Protocols []string `yaml:"protocols"`
	// Ciphers lists the enabled cipher suite names.
	Ciphers []string `yaml:"ciphers"`
	// MinVersion is the lowest negotiated protocol, empty when defaulted.
	MinVersion string `yaml:"min_version,omitempty"`
	// MaxVersion is the highest negotiated protocol, empty when defaulted.
	MaxVersion string `yaml:"max_version,omitempty"`
}

// Profile describes the effective configuration.
func (f *SocketFactory) Profile() Profile {
	p := Profile{
		Protocols: f.SupportedProtocols(),
		Ciphers:   f.SupportedCiphers(),
	}

	if t, ok := LookupTLSCode(f.config.MinVersion); ok {
		p.MinVersion = t.Ident()
	}

	if t, ok := LookupTLSCode(f.config.MaxVersion); ok {
		p.MaxVersion = t.Ident()
	}

	return p
}

func versionRange(idents []string) (TLS, TLS, error) {
	if len(idents) == 0 {
		return 0, 0, fmt.Errorf("%w: empty version list", ErrUnsupportedTLSVersion)
	}

	var minVersion, maxVersion TLS

	for i, ident := range idents {
		t, ok := LookupTLS(ident)
		if !ok {
			return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedTLSVersion, ident)
		}

		if i == 0 || t < minVersion {
			minVersion = t
		}

		if i == 0 || t > maxVersion {
			maxVersion = t
		}
	}

	return minVersion, maxVersion, nil
}

// installHostnameVerifier turns off the built-in verification and replaces it with
// a chain check against the configured roots followed by the custom host check.
// A VerifyConnection already set on cfg runs first.
func installHostnameVerifier(cfg *tls.Config, verifier HostnameVerifier, host string) {
	roots := cfg.RootCAs
	clock := cfg.Time
	previous := cfg.VerifyConnection

	cfg.InsecureSkipVerify = true
	cfg.VerifyConnection = func(state tls.ConnectionState) error {
		if previous != nil {
			if err := previous(state); err != nil {
				return err
			}
		}

		if len(state.PeerCertificates) == 0 {
			return ErrNoPeerCertificates
		}

		now := time.Now()
		if clock != nil {
			now = clock()
		}

		intermediates := x509.NewCertPool()
		for _, cert := range state.PeerCertificates[1:] {
			intermediates.AddCert(cert)
		}

		_, err := state.PeerCertificates[0].Verify(x509.VerifyOptions{
			Roots:         roots,
			Intermediates: intermediates,
			CurrentTime:   now,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		})
		if err != nil {
			return fmt.Errorf("certificate verification failed: %w", err)
		}

		return verifier.Verify(host, state)
	}
}
