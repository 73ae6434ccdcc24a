package app

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/httpkit/internal/config"
	"github.com/oshokin/httpkit/internal/ssl"
	http_transport "github.com/oshokin/httpkit/internal/transport/http"
	"github.com/oshokin/httpkit/internal/utils"
)

// ErrInvalidVersions indicates that at least one version string could not be parsed.
var ErrInvalidVersions = errors.New("some versions could not be parsed")

// ParsedVersion is one row of the tls parse output.
type ParsedVersion struct {
	// Input is the string as given.
	Input string `yaml:"input"`
	// Version is the parsed version, for example "TLS/1.2".
	Version string `yaml:"version,omitempty"`
	// Known is the matching identifier among the supported versions.
	Known string `yaml:"known,omitempty"`
	// Error describes why parsing failed.
	Error string `yaml:"error,omitempty"`
}

// FilterResult is the tls filter output.
type FilterResult struct {
	// Protocols are the protocols left after weak exclusion.
	Protocols []string `yaml:"protocols"`
	// Ciphers are the cipher suites left after weak exclusion.
	Ciphers []string `yaml:"ciphers"`
	// WeakCiphers are the input cipher suites classified as weak.
	WeakCiphers []string `yaml:"weak_ciphers,omitempty"`
}

// ExecuteTLSParseCommand parses every input as a TLS version and writes the results as YAML.
func ExecuteTLSParseCommand(w io.Writer, inputs []string) error {
	rows := utils.Map(inputs, parseVersion)

	if err := writeYAML(w, rows); err != nil {
		return err
	}

	for _, row := range rows {
		if row.Error != "" {
			return ErrInvalidVersions
		}
	}

	return nil
}

// ExecuteTLSFilterCommand removes weak protocols and cipher suites and writes the result as YAML.
func ExecuteTLSFilterCommand(w io.Writer, protocols, ciphers []string) error {
	result := FilterResult{
		Protocols: ssl.ExcludeWeakProtocols(protocols),
		Ciphers:   ssl.ExcludeWeakCiphers(ciphers),
	}

	for _, cipher := range ciphers {
		if ssl.IsWeakCipher(cipher) {
			result.WeakCiphers = append(result.WeakCiphers, cipher)
		}
	}

	return writeYAML(w, result)
}

// ExecuteTLSProfileCommand writes the effective TLS profile of the configuration as YAML.
func ExecuteTLSProfileCommand(w io.Writer, cfg *config.Config) error {
	factory, err := http_transport.NewSocketFactoryFromConfig(cfg)
	if err != nil {
		return err
	}

	return writeYAML(w, factory.Profile())
}

func parseVersion(input string) ParsedVersion {
	row := ParsedVersion{Input: input}

	version, err := ssl.ParseVersionString(input)
	if err != nil {
		row.Error = err.Error()

		return row
	}

	row.Version = version.String()

	for _, t := range ssl.AllTLS() {
		if t.IsSame(version) {
			row.Known = t.Ident()

			break
		}
	}

	return row
}

func writeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}

	return nil
}
