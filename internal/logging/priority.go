package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Priority is the severity of a sink message.
type Priority int

// Priorities in ascending order of severity.
const (
	Verbose Priority = iota + 2
	Debug
	Info
	Warn
	Error
	Assert
)

// ErrUnknownPriority is returned when a priority name cannot be parsed.
var ErrUnknownPriority = errors.New("unknown log priority")

//nolint:gochecknoglobals // Lookup table.
var priorityNames = map[Priority]string{
	Verbose: "verbose",
	Debug:   "debug",
	Info:    "info",
	Warn:    "warn",
	Error:   "error",
	Assert:  "assert",
}

// String returns the single-letter form used in log lines, for example "I".
func (p Priority) String() string {
	name, ok := priorityNames[p]
	if !ok {
		return "?"
	}

	return strings.ToUpper(name[:1])
}

// Name returns the lower-case priority name.
func (p Priority) Name() string {
	name, ok := priorityNames[p]
	if !ok {
		return fmt.Sprintf("priority(%d)", int(p))
	}

	return name
}

// ParsePriority accepts a priority name or its letter, case-insensitively.
// "trace" is an alias of verbose and "warning" of warn.
func ParsePriority(s string) (Priority, error) {
	value := strings.ToLower(strings.TrimSpace(s))

	switch value {
	case "trace":
		return Verbose, nil
	case "warning":
		return Warn, nil
	}

	for p, name := range priorityNames {
		if value == name || value == name[:1] {
			return p, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, s)
}

// priorityForLevel maps a zap level to a sink priority.
// Everything below info collapses to Debug.
func priorityForLevel(level zapcore.Level) Priority {
	switch {
	case level >= zapcore.ErrorLevel:
		return Error
	case level == zapcore.WarnLevel:
		return Warn
	case level == zapcore.InfoLevel:
		return Info
	default:
		return Debug
	}
}

// levelForPriority maps a sink priority to the closest zap level.
func levelForPriority(p Priority) zapcore.Level {
	switch {
	case p >= Error:
		return zapcore.ErrorLevel
	case p == Warn:
		return zapcore.WarnLevel
	case p == Info:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
