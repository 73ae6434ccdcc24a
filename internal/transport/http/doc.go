// Package http assembles HTTP clients over net/http.
// ConnectionManager owns the pooled transport with TLS from internal/ssl,
// and the RoundTripper decorators add wire logging and User-Agent injection.
package http
