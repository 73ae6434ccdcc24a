// Package logging routes named HTTP client loggers to a platform log sink.
// Logger names are mapped to short tags, every tag carries its own
// loggability threshold, and messages use "{}" placeholders.
// NewCore adapts the same routing to zap, so ordinary zap loggers can feed a sink.
package logging
