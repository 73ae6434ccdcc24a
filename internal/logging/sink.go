package logging

//go:generate $MOCKGEN -source=sink.go -destination=mocks/sink_mock.go

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Sink is the platform log facility that receives tagged messages.
type Sink interface {
	// IsLoggable reports whether messages of the priority are accepted for the tag.
	IsLoggable(tag string, priority Priority) bool
	// Println writes one message.
	Println(priority Priority, tag, msg string)
}

// ZapSink writes messages to a zap logger named after the tag.
type ZapSink struct {
	// base is the parent logger, children are named by tag.
	base *zap.Logger
	// defaultPriority applies to tags missing from tagPriorities.
	defaultPriority Priority
	// tagPriorities holds per-tag minimum priorities keyed by lower-cased tag.
	tagPriorities map[string]Priority
}

// NewZapSink creates a sink over base. A nil base uses zap.L().
// Tags in tagPriorities match case-insensitively, since configuration keys arrive lower-cased.
func NewZapSink(base *zap.Logger, defaultPriority Priority, tagPriorities map[string]Priority) *ZapSink {
	if base == nil {
		base = zap.L()
	}

	priorities := make(map[string]Priority, len(tagPriorities))
	for tag, priority := range tagPriorities {
		priorities[strings.ToLower(tag)] = priority
	}

	return &ZapSink{
		base:            base,
		defaultPriority: defaultPriority,
		tagPriorities:   priorities,
	}
}

// IsLoggable compares the priority with the tag's threshold.
func (s *ZapSink) IsLoggable(tag string, priority Priority) bool {
	threshold, ok := s.tagPriorities[strings.ToLower(tag)]
	if !ok {
		threshold = s.defaultPriority
	}

	return priority >= threshold
}

// Println writes msg to the child logger named tag.
func (s *ZapSink) Println(priority Priority, tag, msg string) {
	if ce := s.base.Named(tag).Check(levelForPriority(priority), msg); ce != nil {
		ce.Write(zap.Stringer("priority", priority))
	}
}

// WriterSink writes logcat-style lines, "I/HttpClient: message", to an io.Writer.
type WriterSink struct {
	mu          sync.Mutex
	w           io.Writer
	minPriority Priority
}

// NewWriterSink creates a sink accepting every tag at minPriority and above.
func NewWriterSink(w io.Writer, minPriority Priority) *WriterSink {
	return &WriterSink{
		w:           w,
		minPriority: minPriority,
	}
}

// IsLoggable ignores the tag.
func (s *WriterSink) IsLoggable(_ string, priority Priority) bool {
	return priority >= s.minPriority
}

// Println writes one line. Write errors are dropped.
func (s *WriterSink) Println(priority Priority, tag, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.w, "%s/%s: %s\n", priority, tag, msg)
}
