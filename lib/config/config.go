// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment variable the server reads.
	EnvPrefix = "SERVER_"

	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultShutdownTimeout = 10 * time.Second
)

// ServerConfig configures ars-server.
type ServerConfig struct {
	// Host and Port form the listen address when Address is empty.
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT"`

	// Address is a full host:port listen address. Overrides Host and
	// Port when set.
	Address string `yaml:"address" env:"ADDRESS"`

	// PublicURL is the externally visible base URL substituted for
	// the package's target URL. Defaults to http://<listen address>.
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`

	// AssetPackage is the path of the .ars archive to serve. Required.
	AssetPackage string `yaml:"asset_package" env:"ASSET_PACKAGE"`

	// MetricsAddress enables the Prometheus endpoint on a separate
	// listener. Empty disables it.
	MetricsAddress string `yaml:"metrics_address" env:"METRICS_ADDRESS"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// RuntimeConfig is an optional JSON, JSONC, or YAML file whose
	// object is served at /config.json. Unset serves {}.
	RuntimeConfig string `yaml:"runtime_config" env:"RUNTIME_CONFIG"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// ConfigError reports an unusable configuration. Err joins every
// problem found.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Default returns the configuration before any file, environment, or
// flag is applied.
func Default() *ServerConfig {
	return &ServerConfig{
		Host:            DefaultHost,
		Port:            DefaultPort,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogLevel:        "info",
	}
}

// Load builds a configuration from defaults, the YAML file at path
// (skipped when path is empty), and the process environment.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

// LoadFile loads defaults overlaid with the YAML file at path. The
// environment is not consulted.
func LoadFile(path string) (*ServerConfig, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

// loadFile merges a YAML file into the current config. Unknown keys
// are errors so that typos do not silently fall back to defaults.
func (c *ServerConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("reading config %s: %w", path, err)}
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigError{Err: fmt.Errorf("parsing config %s: %w", path, err)}
	}
	return nil
}

// ApplyEnv overrides fields from SERVER_* variables. A nil environ
// reads the process environment. Unset variables leave fields alone.
func (c *ServerConfig) ApplyEnv(environ map[string]string) error {
	options := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		options.Environment = environ
	}
	if err := env.ParseWithOptions(c, options); err != nil {
		return &ConfigError{Err: fmt.Errorf("parsing %s* environment: %w", EnvPrefix, err)}
	}
	return nil
}

// ListenAddress is Address, or Host:Port when Address is empty.
func (c *ServerConfig) ListenAddress() string {
	if c.Address != "" {
		return c.Address
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ResolvedPublicURL is PublicURL, or http://<listen address> when
// PublicURL is empty.
func (c *ServerConfig) ResolvedPublicURL() string {
	if c.PublicURL != "" {
		return c.PublicURL
	}
	return "http://" + c.ListenAddress()
}

// Level parses LogLevel. Validate rejects values this cannot parse.
func (c *ServerConfig) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *ServerConfig) expandVariables() {
	c.AssetPackage = expandVars(c.AssetPackage)
	c.RuntimeConfig = expandVars(c.RuntimeConfig)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration, reporting every problem.
func (c *ServerConfig) Validate() error {
	var errs []error

	if c.AssetPackage == "" {
		errs = append(errs, errors.New("asset_package is required"))
	}

	if c.Address == "" {
		if c.Port < 1 || c.Port > 65535 {
			errs = append(errs, fmt.Errorf("port %d is out of range", c.Port))
		}
	} else if _, _, err := net.SplitHostPort(c.Address); err != nil {
		errs = append(errs, fmt.Errorf("address %q: %w", c.Address, err))
	}

	publicURL, err := url.Parse(c.ResolvedPublicURL())
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("public_url: %w", err))
	case publicURL.Scheme != "http" && publicURL.Scheme != "https":
		errs = append(errs, fmt.Errorf("public_url %q must be an http or https URL", c.ResolvedPublicURL()))
	case publicURL.Host == "":
		errs = append(errs, fmt.Errorf("public_url %q has no host", c.ResolvedPublicURL()))
	}

	if c.MetricsAddress != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddress); err != nil {
			errs = append(errs, fmt.Errorf("metrics_address %q: %w", c.MetricsAddress, err))
		} else if c.MetricsAddress == c.ListenAddress() {
			errs = append(errs, fmt.Errorf("metrics_address %q must differ from the listen address", c.MetricsAddress))
		}
	}

	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level %q: must be debug, info, warn, or error", c.LogLevel))
	}

	if len(errs) > 0 {
		return &ConfigError{Err: errors.Join(errs...)}
	}
	return nil
}
