package http

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oshokin/httpkit/internal/config"
	"github.com/oshokin/httpkit/internal/logging"
	"github.com/oshokin/httpkit/internal/ssl"
	"github.com/oshokin/httpkit/internal/utils"
)

// ClientOption customizes NewDefaultClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	manager           *ConnectionManager
	userAgentProvider utils.UserAgentProvider
	timeout           time.Duration
	maxLogLength      uint64
	logFactory        *logging.Factory
}

// WithConnectionManager makes the client use an existing manager, so the caller controls its lifecycle.
func WithConnectionManager(manager *ConnectionManager) ClientOption {
	return func(o *clientOptions) {
		o.manager = manager
	}
}

// WithUserAgent sets the User-Agent injected into requests that have none.
func WithUserAgent(userAgent string) ClientOption {
	return WithUserAgentProvider(utils.NewSimpleUserAgentProvider(userAgent))
}

// WithUserAgentProvider sets the source of the injected User-Agent.
func WithUserAgentProvider(provider utils.UserAgentProvider) ClientOption {
	return func(o *clientOptions) {
		o.userAgentProvider = provider
	}
}

// WithTimeout sets the client timeout. Zero disables it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithMaxLogLength limits the size of logged dumps.
func WithMaxLogLength(maxLogLength uint64) ClientOption {
	return func(o *clientOptions) {
		o.maxLogLength = maxLogLength
	}
}

// WithLogFactory sets the factory of the wire, headers and client loggers.
func WithLogFactory(factory *logging.Factory) ClientOption {
	return func(o *clientOptions) {
		o.logFactory = factory
	}
}

// NewDefaultClient creates an HTTP client whose transport chain is
// UserAgentInjector, LogTransport and a ConnectionManager, outermost first.
// Without WithConnectionManager the manager uses ssl.SystemSocketFactory.
func NewDefaultClient(opts ...ClientOption) *http.Client {
	options := clientOptions{
		userAgentProvider: utils.NewSimpleUserAgentProvider(DefaultUserAgent),
		timeout:           DefaultTimeout,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.manager == nil {
		options.manager = NewConnectionManagerBuilder().
			SetSchemePortResolver(DefaultSchemePortResolver{}).
			Build()
	}

	return &http.Client{
		Transport: NewUserAgentInjector(
			NewLogTransport(options.manager, options.maxLogLength, options.logFactory),
			options.userAgentProvider),
		Timeout: options.timeout,
	}
}

// NewSystemClient creates a client with the default configuration.
func NewSystemClient() *http.Client {
	return NewDefaultClient()
}

// NewConnectionManagerFromConfig builds a connection manager from validated settings.
func NewConnectionManagerFromConfig(cfg *config.Config) (*ConnectionManager, error) {
	socketFactory, err := NewSocketFactoryFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	socketConfig := DefaultSocketConfig()
	socketConfig.ConnectTimeout = cfg.ParsedConnectTimeout

	return NewConnectionManagerBuilder().
		SetConnectionFactory(&net.Dialer{KeepAlive: socketConfig.KeepAlive}).
		SetTLSSocketFactory(socketFactory).
		SetSchemePortResolver(DefaultSchemePortResolver{}).
		SetMaxConnTotal(cfg.MaxConnTotal).
		SetMaxConnPerRoute(cfg.MaxConnPerRoute).
		SetDefaultSocketConfig(socketConfig).
		SetConnectionTTL(cfg.ParsedConnectionTTL).
		Build(), nil
}

// NewSocketFactoryFromConfig builds the TLS socket factory from validated settings.
// Lists left empty by the configuration keep crypto/tls defaults, unless weak
// exclusion is on, in which case the system factory is used for them.
func NewSocketFactoryFromConfig(cfg *config.Config) (*ssl.SocketFactory, error) {
	builder := ssl.NewSocketFactoryBuilder()
	system := ssl.SystemSocketFactory()

	switch {
	case cfg.ParsedTLSVersions != nil:
		builder.SetTLSVersions(cfg.ParsedTLSVersions...)
	case cfg.ExcludeWeak:
		builder.SetTLSVersions(system.SupportedProtocols()...)
	}

	switch {
	case cfg.ParsedCiphers != nil:
		builder.SetCiphers(cfg.ParsedCiphers...)
	case cfg.ExcludeWeak:
		builder.SetCiphers(system.SupportedCiphers()...)
	}

	factory, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build TLS socket factory: %w", err)
	}

	return factory, nil
}

// NewClientFromConfig creates a client and its connection manager from validated settings.
// The caller closes the manager when done.
func NewClientFromConfig(cfg *config.Config, factory *logging.Factory) (*http.Client, *ConnectionManager, error) {
	manager, err := NewConnectionManagerFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []ClientOption{
		WithConnectionManager(manager),
		WithTimeout(cfg.ParsedRequestTimeout),
		WithMaxLogLength(cfg.ParsedMaxLogLength),
		WithLogFactory(factory),
	}

	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}

	return NewDefaultClient(opts...), manager, nil
}
