package logging

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/httpkit/internal/logger"
)

// DefaultCacheSize bounds the number of tags a Factory keeps loggers for.
const DefaultCacheSize = 128

// ErrNilSink is returned when a factory is created without a sink.
var ErrNilSink = errors.New("log sink is nil")

// Factory hands out loggers by name, one per tag.
type Factory struct {
	sink    Sink
	loggers *lru.Cache[string, *Logger]
}

var (
	//nolint:gochecknoglobals // Process-wide factory used when callers do not pass one.
	defaultFactory *Factory
	//nolint:gochecknoglobals // Guards defaultFactory.
	defaultFactoryMutex sync.Mutex
)

// NewFactory creates a factory writing to sink.
func NewFactory(sink Sink) (*Factory, error) {
	if sink == nil {
		return nil, ErrNilSink
	}

	loggers, err := lru.New[string, *Logger](DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create loggers cache: %w", err)
	}

	return &Factory{
		sink:    sink,
		loggers: loggers,
	}, nil
}

// GetLogger returns the logger for the tag that name maps to.
// Names sharing a tag share a logger.
func (f *Factory) GetLogger(name string) *Logger {
	tag := TagForLoggerName(name)

	if l, ok := f.loggers.Get(tag); ok {
		return l
	}

	created := NewLogger(tag, f.sink)
	if previous, ok, _ := f.loggers.PeekOrAdd(tag, created); ok {
		return previous
	}

	return created
}

// Sink returns the sink loggers write to.
func (f *Factory) Sink() Sink {
	return f.sink
}

// DefaultFactory returns the process-wide factory.
// Unless replaced, it writes to the global zap logger with an Info threshold.
func DefaultFactory() *Factory {
	defaultFactoryMutex.Lock()
	defer defaultFactoryMutex.Unlock()

	if defaultFactory == nil {
		// NewFactory only fails for a nil sink.
		defaultFactory, _ = NewFactory(NewZapSink(logger.Logger().Desugar(), Info, nil))
	}

	return defaultFactory
}

// SetDefaultFactory replaces the process-wide factory. A nil factory restores the built-in one.
func SetDefaultFactory(f *Factory) {
	defaultFactoryMutex.Lock()
	defer defaultFactoryMutex.Unlock()

	defaultFactory = f
}
