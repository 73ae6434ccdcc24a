package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

const logHandlerFailure = "Error logging message."

// sinkCore is a zapcore.Core that forwards entries to a Sink.
type sinkCore struct {
	zapcore.LevelEnabler

	sink    Sink
	encoder zapcore.Encoder
}

// NewCore creates a zap core that routes entries to sink.
// The tag comes from the entry's logger name and the priority from its level.
// A nil enabler accepts every level and leaves filtering to the sink.
func NewCore(sink Sink, enabler zapcore.LevelEnabler) zapcore.Core {
	if enabler == nil {
		enabler = zapcore.DebugLevel
	}

	return &sinkCore{
		LevelEnabler: enabler,
		sink:         sink,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			ConsoleSeparator: " ",
			EncodeDuration:   zapcore.StringDurationEncoder,
			EncodeTime:       zapcore.ISO8601TimeEncoder,
			SkipLineEnding:   true,
		}),
	}
}

// With adds structured context to the core.
func (c *sinkCore) With(fields []zapcore.Field) zapcore.Core {
	encoder := c.encoder.Clone()
	for _, field := range fields {
		field.AddTo(encoder)
	}

	return &sinkCore{
		LevelEnabler: c.LevelEnabler,
		sink:         c.sink,
		encoder:      encoder,
	}
}

// Check adds the core when the level is enabled.
func (c *sinkCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}

	return checked
}

// Write formats the entry and hands it to the sink if the tag accepts its priority.
func (c *sinkCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tag := TagForLoggerName(entry.LoggerName)
	priority := priorityForLevel(entry.Level)

	if !c.sink.IsLoggable(tag, priority) {
		return nil
	}

	msg, err := c.format(entry, fields)
	if err != nil {
		return err
	}

	c.println(priority, tag, msg)

	return nil
}

// Sync is a no-op, sinks write synchronously.
func (c *sinkCore) Sync() error {
	return nil
}

func (c *sinkCore) format(entry zapcore.Entry, fields []zapcore.Field) (string, error) {
	buf, err := c.encoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode log fields: %w", err)
	}
	defer buf.Free()

	var sb strings.Builder

	sb.WriteString(entry.Message)

	if encoded := strings.TrimSpace(buf.String()); encoded != "" {
		sb.WriteByte(' ')
		sb.WriteString(encoded)
	}

	if entry.Stack != "" {
		sb.WriteByte('\n')
		sb.WriteString(entry.Stack)
	}

	return sb.String(), nil
}

// println writes to the sink. A panicking sink is reported to itself under
// TagLogHandler, and a second panic is dropped.
func (c *sinkCore) println(priority Priority, tag, msg string) {
	defer func() {
		if r := recover(); r != nil {
			c.reportFailure(r)
		}
	}()

	c.sink.Println(priority, tag, msg)
}

func (c *sinkCore) reportFailure(cause any) {
	defer func() {
		_ = recover()
	}()

	c.sink.Println(Error, TagLogHandler, fmt.Sprintf("%s\n%v", logHandlerFailure, cause))
}
