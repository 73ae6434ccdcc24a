package app

import (
	"context"
	"fmt"
	"io"

	"github.com/oshokin/httpkit/internal/config"
	"github.com/oshokin/httpkit/internal/logger"
)

// ConfigDump is the effective configuration printed by config show.
type ConfigDump struct {
	LogLevel        string            `yaml:"log_level"`
	TLSVersions     []string          `yaml:"tls_versions"`
	Ciphers         []string          `yaml:"ciphers"`
	ExcludeWeak     bool              `yaml:"exclude_weak"`
	MaxConnTotal    int               `yaml:"max_conn_total"`
	MaxConnPerRoute int               `yaml:"max_conn_per_route"`
	ConnectionTTL   string            `yaml:"connection_ttl"`
	ConnectTimeout  string            `yaml:"connect_timeout"`
	RequestTimeout  string            `yaml:"request_timeout"`
	UserAgent       string            `yaml:"user_agent"`
	MaxLogLength    uint64            `yaml:"max_log_length"`
	ProgressStep    int64             `yaml:"progress_step"`
	OutputPath      string            `yaml:"output_path"`
	LogTags         map[string]string `yaml:"log_tags,omitempty"`
}

// NewConfigDump captures the parsed values of a validated configuration.
func NewConfigDump(cfg *config.Config) ConfigDump {
	var logTags map[string]string

	if len(cfg.ParsedLogTags) > 0 {
		logTags = make(map[string]string, len(cfg.ParsedLogTags))
		for tag, priority := range cfg.ParsedLogTags {
			logTags[tag] = priority.Name()
		}
	}

	return ConfigDump{
		LogLevel:        cfg.ParsedLogLevel.String(),
		TLSVersions:     cfg.ParsedTLSVersions,
		Ciphers:         cfg.ParsedCiphers,
		ExcludeWeak:     cfg.ExcludeWeak,
		MaxConnTotal:    cfg.MaxConnTotal,
		MaxConnPerRoute: cfg.MaxConnPerRoute,
		ConnectionTTL:   cfg.ParsedConnectionTTL.String(),
		ConnectTimeout:  cfg.ParsedConnectTimeout.String(),
		RequestTimeout:  cfg.ParsedRequestTimeout.String(),
		UserAgent:       cfg.UserAgent,
		MaxLogLength:    cfg.ParsedMaxLogLength,
		ProgressStep:    cfg.ParsedProgressStep,
		OutputPath:      cfg.OutputPath,
		LogTags:         logTags,
	}
}

// ExecuteConfigShowCommand writes the effective configuration as YAML.
func ExecuteConfigShowCommand(w io.Writer, cfg *config.Config) error {
	return writeYAML(w, NewConfigDump(cfg))
}

// ExecuteSetUserAgentCommand stores a new User-Agent in the configuration file.
func ExecuteSetUserAgentCommand(ctx context.Context, cfg *config.Config, userAgent string) error {
	cfg.UserAgent = userAgent

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Infof(ctx, "User-Agent set to %q", userAgent)

	return nil
}
