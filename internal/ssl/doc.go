// Package ssl provides TLS protocol version parsing, weak protocol and cipher suite filtering,
// and a builder for TLS socket factories used by the HTTP transport.
// Handshakes themselves are performed by crypto/tls.
package ssl
