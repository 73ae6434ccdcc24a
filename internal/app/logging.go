package app

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/oshokin/httpkit/internal/config"
	"github.com/oshokin/httpkit/internal/logger"
	"github.com/oshokin/httpkit/internal/logging"
)

// ConfigureLogging applies the configured log level and installs a logging factory
// with the configured per-tag priorities. The sink's console logger accepts every
// level so that log_tags can lower a tag's threshold below log_level.
func ConfigureLogging(cfg *config.Config) (*logging.Factory, error) {
	logger.SetLevel(cfg.ParsedLogLevel)

	base := logger.New(zapcore.DebugLevel).Desugar()
	sink := logging.NewZapSink(base, cfg.DefaultPriority(), cfg.ParsedLogTags)

	factory, err := logging.NewFactory(sink)
	if err != nil {
		return nil, fmt.Errorf("failed to create log factory: %w", err)
	}

	logging.SetDefaultFactory(factory)

	return factory, nil
}
