package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/httpkit/internal/config"
	"github.com/oshokin/httpkit/internal/logger"
	"github.com/oshokin/httpkit/internal/logging"
)

//nolint:tparallel // Cannot run in parallel due to the global logger and log factory.
func TestConfigureLogging(t *testing.T) {
	previousFactory := logging.DefaultFactory()
	previousLevel := logger.Level()

	t.Cleanup(func() {
		logging.SetDefaultFactory(previousFactory)
		logger.SetLevel(previousLevel)
	})

	cfg := &config.Config{
		ParsedLogLevel: zapcore.WarnLevel,
		ParsedLogTags:  map[string]logging.Priority{"httpclientwire": logging.Verbose},
	}

	factory, err := ConfigureLogging(cfg)
	require.NoError(t, err)

	assert.Same(t, factory, logging.DefaultFactory())
	assert.Equal(t, zapcore.WarnLevel, logger.Level())

	sink := factory.Sink()
	assert.True(t, sink.IsLoggable(logging.TagWire, logging.Verbose))
	assert.False(t, sink.IsLoggable(logging.TagClient, logging.Info))
	assert.True(t, sink.IsLoggable(logging.TagClient, logging.Warn))

	wire := factory.GetLogger(logging.WireLoggerName)
	assert.True(t, wire.IsTraceEnabled())
}
