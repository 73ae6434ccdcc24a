// Package exec runs a sequence of HTTP requests on a background goroutine
// and streams ordered progress updates about each exchange to the caller.
package exec
