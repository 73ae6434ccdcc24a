package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/httpkit/internal/constants"
	"github.com/oshokin/httpkit/internal/logger"
	"github.com/oshokin/httpkit/internal/logging"
	"github.com/oshokin/httpkit/internal/ssl"
	"github.com/oshokin/httpkit/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// TLSVersions lists the enabled protocol identifiers, for example "TLSv1.2".
	// Empty means crypto/tls defaults.
	TLSVersions []string `mapstructure:"tls_versions"`
	// Ciphers lists the enabled IANA cipher suite names. Empty means crypto/tls defaults.
	Ciphers []string `mapstructure:"ciphers"`
	// ExcludeWeak removes weak protocols and cipher suites from the lists above.
	ExcludeWeak bool `mapstructure:"exclude_weak"`
	// MaxConnTotal limits idle connections across all hosts. Zero keeps the transport default.
	MaxConnTotal int `mapstructure:"max_conn_total"`
	// MaxConnPerRoute limits connections per host. Zero keeps the transport default.
	MaxConnPerRoute int `mapstructure:"max_conn_per_route"`
	// ConnectionTTL is how long an idle connection may stay pooled (e.g., "90s"). Empty keeps the default.
	ConnectionTTL string `mapstructure:"connection_ttl"`
	// ConnectTimeout bounds the TCP connect phase (e.g., "10s").
	ConnectTimeout string `mapstructure:"connect_timeout"`
	// RequestTimeout bounds a whole request including the body (e.g., "1m").
	RequestTimeout string `mapstructure:"request_timeout"`
	// UserAgent is sent when a request has no User-Agent header.
	UserAgent string `mapstructure:"user_agent"`
	// MaxLogLength limits wire dumps (e.g., "1MB").
	MaxLogLength string `mapstructure:"max_log_length"`
	// ProgressStep is the number of body bytes between progress updates (e.g., "2KiB").
	ProgressStep string `mapstructure:"progress_step"`
	// OutputPath is the directory response bodies are saved to. Empty discards bodies.
	OutputPath string `mapstructure:"output_path"`
	// LogTags maps log tags to their minimum priority, for example HttpClientWire: verbose.
	LogTags map[string]string `mapstructure:"log_tags"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedTLSVersions is the effective protocol list after weak filtering.
	ParsedTLSVersions []string
	// ParsedCiphers is the effective cipher list after weak filtering.
	ParsedCiphers []string
	// ParsedConnectionTTL is the parsed connection time to live.
	ParsedConnectionTTL time.Duration
	// ParsedConnectTimeout is the parsed connect timeout.
	ParsedConnectTimeout time.Duration
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration
	// ParsedMaxLogLength is the parsed wire dump limit in bytes.
	ParsedMaxLogLength uint64
	// ParsedProgressStep is the parsed progress step in bytes.
	ParsedProgressStep int64
	// ParsedLogTags is the parsed per-tag priority map.
	ParsedLogTags map[string]logging.Priority
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".httpkit.yaml"

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged request or response.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// DefaultProgressStep is the default number of bytes between progress updates.
	DefaultProgressStep = 2048

	// DefaultConnectTimeout is the default TCP connect timeout.
	DefaultConnectTimeout = 30 * time.Second

	// DefaultRequestTimeout is the default timeout of a whole request.
	DefaultRequestTimeout = 60 * time.Second

	// DefaultLogLevel is used when the configuration does not set one.
	DefaultLogLevel = "info"

	// userAgentKey is the configuration key rewritten by SaveConfig.
	userAgentKey = "user_agent"
)

// Static error definitions for better error handling.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownTLSVersion indicates that a configured protocol is not supported.
	ErrUnknownTLSVersion = errors.New("unknown TLS version")
	// ErrInvalidMaxConnTotal indicates that the total connection limit is negative.
	ErrInvalidMaxConnTotal = errors.New("max_conn_total must not be negative")
	// ErrInvalidMaxConnPerRoute indicates that the per-route connection limit is negative.
	ErrInvalidMaxConnPerRoute = errors.New("max_conn_per_route must not be negative")
	// ErrInvalidConnectionTTL indicates that the connection TTL is negative.
	ErrInvalidConnectionTTL = errors.New("connection_ttl must not be negative")
	// ErrInvalidConnectTimeout indicates that the connect timeout is not positive.
	ErrInvalidConnectTimeout = errors.New("connect_timeout must be positive")
	// ErrInvalidRequestTimeout indicates that the request timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrInvalidProgressStep indicates that the progress step is zero.
	ErrInvalidProgressStep = errors.New("progress_step must be positive")
	// ErrUnknownLogTagPriority indicates that a log_tags entry has an unknown priority.
	ErrUnknownLogTagPriority = errors.New("unknown log tag priority")
)

// LoadConfig loads configuration settings from a YAML file.
// A missing default file is not an error: built-in defaults apply.
func LoadConfig(configFilename string) (*Config, error) {
	explicit := configFilename != ""
	if !explicit {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)
	viper.SetDefault("log_level", DefaultLogLevel)
	viper.SetDefault("exclude_weak", true)

	if err := viper.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}

		logger.Logger().Debugf("Config file %s not found, using defaults", configFilename)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,gocognit,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	for _, version := range cfg.TLSVersions {
		if _, ok := ssl.LookupTLS(version); !ok {
			return fmt.Errorf("%w: '%s', expected one of %s",
				ErrUnknownTLSVersion, version, strings.Join(ssl.AllTLSIdents(), ", "))
		}
	}

	cfg.ParsedTLSVersions = nonEmpty(cfg.TLSVersions)
	cfg.ParsedCiphers = nonEmpty(cfg.Ciphers)

	if cfg.ExcludeWeak {
		cfg.ParsedTLSVersions = ssl.ExcludeWeakProtocols(cfg.ParsedTLSVersions)
		cfg.ParsedCiphers = ssl.ExcludeWeakCiphers(cfg.ParsedCiphers)
	}

	if cfg.MaxConnTotal < 0 {
		return ErrInvalidMaxConnTotal
	}

	if cfg.MaxConnPerRoute < 0 {
		return ErrInvalidMaxConnPerRoute
	}

	cfg.ParsedConnectionTTL, err = parseDuration(cfg.ConnectionTTL, 0)
	if err != nil {
		return fmt.Errorf("failed to parse connection TTL: %w", err)
	}

	if cfg.ParsedConnectionTTL < 0 {
		return ErrInvalidConnectionTTL
	}

	cfg.ParsedConnectTimeout, err = parseDuration(cfg.ConnectTimeout, DefaultConnectTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse connect timeout: %w", err)
	}

	if cfg.ParsedConnectTimeout <= 0 {
		return ErrInvalidConnectTimeout
	}

	cfg.ParsedRequestTimeout, err = parseDuration(cfg.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse request timeout: %w", err)
	}

	if cfg.ParsedRequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	cfg.ParsedMaxLogLength, err = parseBytes(cfg.MaxLogLength, DefaultMaxLogLength)
	if err != nil {
		return fmt.Errorf("failed to parse max log length: %w", err)
	}

	progressStep, err := parseBytes(cfg.ProgressStep, DefaultProgressStep)
	if err != nil {
		return fmt.Errorf("failed to parse progress step: %w", err)
	}

	if progressStep == 0 {
		return ErrInvalidProgressStep
	}

	// Byte counters in progress updates are int64.
	cfg.ParsedProgressStep = utils.SafeUint64ToInt64(progressStep)

	cfg.ParsedLogTags = make(map[string]logging.Priority, len(cfg.LogTags))

	for tag, value := range cfg.LogTags {
		priority, parseErr := logging.ParsePriority(value)
		if parseErr != nil {
			return fmt.Errorf("%w: %s=%s", ErrUnknownLogTagPriority, tag, value)
		}

		cfg.ParsedLogTags[tag] = priority
	}

	return nil
}

// DefaultPriority converts the log level into the sink threshold for tags missing from log_tags.
func (cfg *Config) DefaultPriority() logging.Priority {
	switch {
	case cfg.ParsedLogLevel <= zapcore.DebugLevel:
		return logging.Debug
	case cfg.ParsedLogLevel == zapcore.InfoLevel:
		return logging.Info
	case cfg.ParsedLogLevel == zapcore.WarnLevel:
		return logging.Warn
	default:
		return logging.Error
	}
}

// SaveConfig rewrites the user_agent key while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, cfg.UserAgent, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	setStringInNode(&node, userAgentKey, cfg.UserAgent)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, userAgent string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// File doesn't exist, create it with viper.
	viper.Set(userAgentKey, userAgent)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// setStringInNode sets a top-level string key in the YAML node tree, appending it when absent.
func setStringInNode(node *yaml.Node, key, value string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == key {
			valueNode.Kind = yaml.ScalarNode
			valueNode.Tag = "!!str"
			valueNode.Value = value

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			return
		}
	}

	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
	)
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}

	return time.ParseDuration(value)
}

func parseBytes(value string, fallback uint64) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}

	return humanize.ParseBytes(value)
}

func nonEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	return values
}
