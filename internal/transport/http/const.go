package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for HTTP requests.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is the User-Agent sent when neither the request nor the configuration sets one.
	DefaultUserAgent = "httpkit/1.0 (+https://github.com/oshokin/httpkit)"

	// DefaultMaxIdleConns is the idle pool size used when no total limit is set.
	DefaultMaxIdleConns = 100

	// DefaultIdleConnTimeout is how long an idle connection is kept when no TTL is set.
	DefaultIdleConnTimeout = 90 * time.Second

	// DefaultExpectContinueTimeout matches http.DefaultTransport.
	DefaultExpectContinueTimeout = 1 * time.Second
)

const (
	schemeHTTP  = "http"
	schemeHTTPS = "https"

	defaultHTTPPort  = 80
	defaultHTTPSPort = 443
)
