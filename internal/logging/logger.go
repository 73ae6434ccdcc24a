package logging

import (
	"fmt"
	"strings"
)

const (
	placeholder = "{}"
	escapeChar  = '\\'
)

// Logger writes "{}"-formatted messages to a sink under a fixed tag.
// A Logger is safe for concurrent use when its sink is.
type Logger struct {
	tag  string
	sink Sink
}

// NewLogger creates a logger for an already mapped tag.
// Most callers should use Factory.GetLogger instead.
func NewLogger(tag string, sink Sink) *Logger {
	return &Logger{
		tag:  tag,
		sink: sink,
	}
}

// Tag returns the sink tag.
func (l *Logger) Tag() string {
	return l.tag
}

// IsTraceEnabled reports whether Trace messages reach the sink.
func (l *Logger) IsTraceEnabled() bool {
	return l.sink.IsLoggable(l.tag, Verbose)
}

// IsDebugEnabled reports whether Debug messages reach the sink.
func (l *Logger) IsDebugEnabled() bool {
	return l.sink.IsLoggable(l.tag, Debug)
}

// IsInfoEnabled reports whether Info messages reach the sink.
func (l *Logger) IsInfoEnabled() bool {
	return l.sink.IsLoggable(l.tag, Info)
}

// IsWarnEnabled reports whether Warn messages reach the sink.
func (l *Logger) IsWarnEnabled() bool {
	return l.sink.IsLoggable(l.tag, Warn)
}

// IsErrorEnabled reports whether Error messages reach the sink.
func (l *Logger) IsErrorEnabled() bool {
	return l.sink.IsLoggable(l.tag, Error)
}

// Trace logs at Verbose priority.
func (l *Logger) Trace(format string, args ...any) {
	l.logf(Verbose, format, args)
}

// Debug logs at Debug priority.
func (l *Logger) Debug(format string, args ...any) {
	l.logf(Debug, format, args)
}

// Info logs at Info priority.
func (l *Logger) Info(format string, args ...any) {
	l.logf(Info, format, args)
}

// Warn logs at Warn priority.
func (l *Logger) Warn(format string, args ...any) {
	l.logf(Warn, format, args)
}

// Error logs at Error priority.
func (l *Logger) Error(format string, args ...any) {
	l.logf(Error, format, args)
}

func (l *Logger) logf(priority Priority, format string, args []any) {
	if !l.sink.IsLoggable(l.tag, priority) {
		return
	}

	msg, cause := FormatMessage(format, args...)
	if cause != nil {
		msg += "\n" + cause.Error()
	}

	l.sink.Println(priority, l.tag, msg)
}

// FormatMessage substitutes args for "{}" placeholders from left to right.
//
// "\{}" produces a literal "{}" and "\\{}" a backslash followed by the argument.
// Placeholders left without an argument are kept as is.
// When the last argument is an error that no placeholder consumed, it is returned as the cause.
func FormatMessage(format string, args ...any) (string, error) {
	var (
		sb   strings.Builder
		used int
		pos  int
	)

	for pos < len(format) && used < len(args) {
		idx := strings.Index(format[pos:], placeholder)
		if idx < 0 {
			break
		}

		idx += pos

		switch {
		case isEscaped(format, pos, idx) && isEscaped(format, pos, idx-1):
			sb.WriteString(format[pos : idx-1])
			fmt.Fprint(&sb, args[used])

			used++
		case isEscaped(format, pos, idx):
			sb.WriteString(format[pos : idx-1])
			sb.WriteString(placeholder)
		default:
			sb.WriteString(format[pos:idx])
			fmt.Fprint(&sb, args[used])

			used++
		}

		pos = idx + len(placeholder)
	}

	sb.WriteString(format[pos:])

	if used < len(args) {
		if cause, ok := args[len(args)-1].(error); ok {
			return sb.String(), cause
		}
	}

	return sb.String(), nil
}

// isEscaped reports whether the byte before idx, not earlier than lower, is the escape character.
func isEscaped(format string, lower, idx int) bool {
	return idx-1 >= lower && format[idx-1] == escapeChar
}
