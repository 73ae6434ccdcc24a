package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/oshokin/httpkit/internal/logger"
	"github.com/oshokin/httpkit/internal/ssl"
)

// Static error definitions for better error handling.
var (
	// ErrManagerClosed is returned by RoundTrip after Close.
	ErrManagerClosed = errors.New("connection manager is closed")
	// ErrUnsupportedScheme indicates that no default port is known for a URL scheme.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	// ErrNoAddresses indicates that the DNS resolver returned nothing for a host.
	ErrNoAddresses = errors.New("no addresses resolved")
)

// DNSResolver maps a host name to the addresses to connect to, in preference order.
type DNSResolver interface {
	// Resolve returns the addresses of host.
	Resolve(ctx context.Context, host string) ([]net.IP, error)
}

// DNSResolverFunc adapts a function to the DNSResolver interface.
type DNSResolverFunc func(ctx context.Context, host string) ([]net.IP, error)

// Resolve calls f(ctx, host).
func (f DNSResolverFunc) Resolve(ctx context.Context, host string) ([]net.IP, error) {
	return f(ctx, host)
}

// SystemDNSResolver resolves through net.DefaultResolver.
type SystemDNSResolver struct{}

// Resolve looks up the IPv4 and IPv6 addresses of host.
func (SystemDNSResolver) Resolve(ctx context.Context, host string) ([]net.IP, error) {
	return net.DefaultResolver.LookupIP(ctx, "ip", host)
}

// SchemePortResolver supplies the port for URLs that do not carry one.
type SchemePortResolver interface {
	// ResolvePort returns the default port of scheme.
	ResolvePort(scheme string) (int, error)
}

// DefaultSchemePortResolver knows the ports of http and https.
type DefaultSchemePortResolver struct{}

// ResolvePort returns 80 for http and 443 for https.
func (DefaultSchemePortResolver) ResolvePort(scheme string) (int, error) {
	switch scheme {
	case schemeHTTP:
		return defaultHTTPPort, nil
	case schemeHTTPS:
		return defaultHTTPSPort, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// SocketConfig holds the options of newly opened TCP connections.
type SocketConfig struct {
	// ConnectTimeout bounds a single connect attempt. Zero means no limit beyond the context.
	ConnectTimeout time.Duration
	// KeepAlive is the TCP keep-alive period of the default dialer.
	KeepAlive time.Duration
}

// DefaultSocketConfig returns the options used when none are set.
func DefaultSocketConfig() SocketConfig {
	return SocketConfig{
		ConnectTimeout: ssl.DefaultConnectTimeout,
		KeepAlive:      ssl.DefaultKeepAlive,
	}
}

// ConnectionManagerBuilder assembles a ConnectionManager.
type ConnectionManagerBuilder struct {
	connectionFactory  ssl.ContextDialer
	tlsSocketFactory   *ssl.SocketFactory
	dnsResolver        DNSResolver
	schemePortResolver SchemePortResolver
	maxConnTotal       int
	maxConnPerRoute    int
	socketConfig       *SocketConfig
	connectionTTL      time.Duration
}

// NewConnectionManagerBuilder creates an empty builder.
func NewConnectionManagerBuilder() *ConnectionManagerBuilder {
	return new(ConnectionManagerBuilder)
}

// SetConnectionFactory assigns the dialer for plain TCP connections.
// TLS connections are layered on top of the same dialer.
func (b *ConnectionManagerBuilder) SetConnectionFactory(dialer ssl.ContextDialer) *ConnectionManagerBuilder {
	b.connectionFactory = dialer

	return b
}

// SetTLSSocketFactory assigns the factory used for https. The default is ssl.SystemSocketFactory.
func (b *ConnectionManagerBuilder) SetTLSSocketFactory(factory *ssl.SocketFactory) *ConnectionManagerBuilder {
	b.tlsSocketFactory = factory

	return b
}

// SetDNSResolver assigns a custom resolver.
func (b *ConnectionManagerBuilder) SetDNSResolver(resolver DNSResolver) *ConnectionManagerBuilder {
	b.dnsResolver = resolver

	return b
}

// SetSchemePortResolver assigns the resolver for URLs without a port.
func (b *ConnectionManagerBuilder) SetSchemePortResolver(resolver SchemePortResolver) *ConnectionManagerBuilder {
	b.schemePortResolver = resolver

	return b
}

// SetMaxConnTotal limits idle connections across all routes.
func (b *ConnectionManagerBuilder) SetMaxConnTotal(maxConnTotal int) *ConnectionManagerBuilder {
	b.maxConnTotal = maxConnTotal

	return b
}

// SetMaxConnPerRoute limits connections per route.
func (b *ConnectionManagerBuilder) SetMaxConnPerRoute(maxConnPerRoute int) *ConnectionManagerBuilder {
	b.maxConnPerRoute = maxConnPerRoute

	return b
}

// SetDefaultSocketConfig assigns the options of new connections.
func (b *ConnectionManagerBuilder) SetDefaultSocketConfig(cfg SocketConfig) *ConnectionManagerBuilder {
	b.socketConfig = &cfg

	return b
}

// SetConnectionTTL limits how long a connection may stay idle in the pool.
func (b *ConnectionManagerBuilder) SetConnectionTTL(ttl time.Duration) *ConnectionManagerBuilder {
	b.connectionTTL = ttl

	return b
}

// Build creates the connection manager. Unset parts fall back to defaults.
func (b *ConnectionManagerBuilder) Build() *ConnectionManager {
	socketConfig := DefaultSocketConfig()
	if b.socketConfig != nil {
		socketConfig = *b.socketConfig
	}

	connectionFactory := b.connectionFactory
	if connectionFactory == nil {
		connectionFactory = &net.Dialer{
			KeepAlive: socketConfig.KeepAlive,
		}
	}

	tlsSocketFactory := b.tlsSocketFactory
	if tlsSocketFactory == nil {
		tlsSocketFactory = ssl.SystemSocketFactory()
	}

	m := &ConnectionManager{
		connectionFactory:  connectionFactory,
		tlsSocketFactory:   tlsSocketFactory,
		dnsResolver:        b.dnsResolver,
		schemePortResolver: b.schemePortResolver,
		connectTimeout:     socketConfig.ConnectTimeout,
		connectionTTL:      b.connectionTTL,
		now:                time.Now,
	}

	transport := &http.Transport{
		DialContext:           m.dialContext,
		DialTLSContext:        m.dialTLSContext,
		MaxIdleConns:          DefaultMaxIdleConns,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		ExpectContinueTimeout: DefaultExpectContinueTimeout,
	}

	if b.maxConnTotal > 0 {
		transport.MaxIdleConns = b.maxConnTotal
	}

	if b.maxConnPerRoute > 0 {
		transport.MaxConnsPerHost = b.maxConnPerRoute
		transport.MaxIdleConnsPerHost = b.maxConnPerRoute
	}

	if b.connectionTTL > 0 {
		transport.IdleConnTimeout = b.connectionTTL
	}

	m.transport = transport
	m.lastActivity.Store(m.now().UnixNano())

	return m
}

// ConnectionManager is a pooled http.RoundTripper.
// Pooling and HTTP framing are delegated to http.Transport; the manager owns dialing and TLS.
type ConnectionManager struct {
	transport          *http.Transport
	connectionFactory  ssl.ContextDialer
	tlsSocketFactory   *ssl.SocketFactory
	dnsResolver        DNSResolver
	schemePortResolver SchemePortResolver
	connectTimeout     time.Duration
	connectionTTL      time.Duration

	closed       atomic.Bool
	lastActivity atomic.Int64
	now          func() time.Time
}

// RoundTrip implements http.RoundTripper.
func (m *ConnectionManager) RoundTrip(req *http.Request) (*http.Response, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	req, err := m.withExplicitPort(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		m.lastActivity.Store(m.now().UnixNano())
	}()

	return m.transport.RoundTrip(req)
}

// CloseIdle closes every pooled connection that is not in use.
func (m *ConnectionManager) CloseIdle() {
	m.transport.CloseIdleConnections()
}

// CloseIdleConnections is CloseIdle under the name http.Client looks for.
func (m *ConnectionManager) CloseIdleConnections() {
	m.CloseIdle()
}

// CloseExpired closes idle connections once the TTL has elapsed since the last exchange,
// and reports whether it did. The transport also evicts connections individually after the TTL.
func (m *ConnectionManager) CloseExpired() bool {
	if m.connectionTTL <= 0 {
		return false
	}

	idleSince := time.Unix(0, m.lastActivity.Load())
	if m.now().Sub(idleSince) < m.connectionTTL {
		return false
	}

	m.transport.CloseIdleConnections()

	return true
}

// Close shuts the pool down. Later round trips fail with ErrManagerClosed.
func (m *ConnectionManager) Close() error {
	if m.closed.Swap(true) {
		return nil
	}

	m.transport.CloseIdleConnections()

	return nil
}

// IsClosed reports whether Close was called.
func (m *ConnectionManager) IsClosed() bool {
	return m.closed.Load()
}

// TLSSocketFactory returns the factory used for https connections.
func (m *ConnectionManager) TLSSocketFactory() *ssl.SocketFactory {
	return m.tlsSocketFactory
}

func (m *ConnectionManager) withExplicitPort(req *http.Request) (*http.Request, error) {
	if m.schemePortResolver == nil || req.URL == nil || req.URL.Port() != "" {
		return req, nil
	}

	port, err := m.schemePortResolver.ResolvePort(req.URL.Scheme)
	if err != nil {
		return nil, err
	}

	resolved := req.Clone(req.Context())
	if resolved.Host == "" {
		resolved.Host = req.URL.Host
	}

	resolved.URL.Host = net.JoinHostPort(req.URL.Hostname(), strconv.Itoa(port))

	return resolved, nil
}

func (m *ConnectionManager) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if m.dnsResolver == nil {
		return m.dialAddress(ctx, network, addr)
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	ips, err := m.dnsResolver.Resolve(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", host, err)
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAddresses, host)
	}

	var errs []error

	for _, ip := range ips {
		conn, dialErr := m.dialAddress(ctx, network, net.JoinHostPort(ip.String(), port))
		if dialErr == nil {
			return conn, nil
		}

		logger.DebugKV(ctx, "Connect attempt failed", "host", host, "address", ip.String(), "error", dialErr)

		errs = append(errs, dialErr)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("failed to connect to %s: %w", host, errors.Join(errs...))
}

func (m *ConnectionManager) dialAddress(ctx context.Context, network, addr string) (net.Conn, error) {
	if m.connectTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, m.connectTimeout)
		defer cancel()
	}

	return m.connectionFactory.DialContext(ctx, network, addr)
}

func (m *ConnectionManager) dialTLSContext(ctx context.Context, network, addr string) (net.Conn, error) {
	raw, err := m.dialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := m.tlsSocketFactory.Layer(ctx, raw, host)
	if err != nil {
		return nil, err
	}

	return conn, nil
}
