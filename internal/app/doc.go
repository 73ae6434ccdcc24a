// Package app provides the application logic behind the httpkit commands.
// It wires configuration, logging, the connection manager and the exec task
// together, runs URL sequences with progress output, and implements the TLS
// and configuration inspection commands.
package app
