// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/mia-platform/lumber/internal/hierarchy"
	"github.com/mia-platform/lumber/internal/logger"
)

const (
	FormatJSON = "json"
	FormatText = "text"

	DefaultLoggerName = "default"
)

var (
	// ErrParsing reports failures that occur while decoding configuration files.
	ErrParsing = errors.New("error parsing")
	// ErrInvalidConfig reports a configuration that has been read correctly but is not usable.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Root binds a type to the namespace of its logger.
type Root struct {
	Type      hierarchy.TypeID `json:"type" yaml:"type"`
	Namespace string           `json:"namespace" yaml:"namespace"`
}

// Config holds the logging configuration.
type Config struct {
	Level         string            `json:"level" yaml:"level"`
	Format        string            `json:"format" yaml:"format"`
	Output        string            `json:"output,omitempty" yaml:"output,omitempty"`
	DefaultLogger string            `json:"defaultLogger" yaml:"defaultLogger"`
	Hostname      string            `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Loggers       map[string]string `json:"loggers,omitempty" yaml:"loggers,omitempty"`
	Roots         []Root            `json:"roots,omitempty" yaml:"roots,omitempty"`
}

// envOverrides are the values that can be set from the environment, empty
// values leave the configuration untouched.
type envOverrides struct {
	ConfigFile    string `env:"LUMBER_CONFIG_FILE"`
	Level         string `env:"LUMBER_LEVEL"`
	Format        string `env:"LUMBER_FORMAT"`
	Output        string `env:"LUMBER_OUTPUT"`
	DefaultLogger string `env:"LUMBER_DEFAULT_LOGGER"`
	Hostname      string `env:"LUMBER_HOSTNAME"`
}

func loadEnv() (*envOverrides, error) {
	var vars envOverrides
	if err := env.Parse(&vars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	return &vars, nil
}

func (c *Config) apply(vars *envOverrides) {
	overrides := []struct {
		target *string
		value  string
	}{
		{&c.Level, vars.Level},
		{&c.Format, vars.Format},
		{&c.Output, vars.Output},
		{&c.DefaultLogger, vars.DefaultLogger},
		{&c.Hostname, vars.Hostname},
	}

	for _, override := range overrides {
		if override.value != "" {
			*override.target = override.value
		}
	}
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Level:         strings.ToLower(logger.INFO.String()),
		Format:        FormatJSON,
		DefaultLogger: DefaultLoggerName,
	}
}

// PathFromEnv returns the configuration file path set in LUMBER_CONFIG_FILE.
func PathFromEnv() (string, error) {
	vars, err := loadEnv()
	if err != nil {
		return "", err
	}

	return vars.ConfigFile, nil
}

// Load reads the configuration at path, an empty path means defaults only.
// Environment variables are applied on top of the file content and the
// hostname is resolved when not set.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	vars, err := loadEnv()
	if err != nil {
		return nil, err
	}
	cfg.apply(vars)

	if cfg.Hostname == "" {
		// a missing hostname only removes a field from the log lines
		cfg.Hostname, _ = os.Hostname()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config file %q: %w", path, err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}

	return nil
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	errorsList := make([]string, 0)

	if _, err := logger.ParseLevel(c.Level); err != nil {
		errorsList = append(errorsList, fmt.Sprintf("unknown level %q", c.Level))
	}

	if c.Format != FormatJSON && c.Format != FormatText {
		errorsList = append(errorsList, fmt.Sprintf("unknown format %q", c.Format))
	}

	if c.DefaultLogger == "" {
		errorsList = append(errorsList, "defaultLogger cannot be empty")
	}

	for name, level := range c.Loggers {
		if _, err := logger.ParseLevel(level); err != nil {
			errorsList = append(errorsList, fmt.Sprintf("unknown level %q for logger %q", level, name))
		}
	}

	for idx, root := range c.Roots {
		if root.Type == "" || root.Namespace == "" {
			errorsList = append(errorsList, fmt.Sprintf("root %d needs both type and namespace", idx))
		}
	}

	if len(errorsList) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errorsList, ", "))
	}
	return nil
}

// BackendLevels returns the default level and the per namespace levels.
// It must be called on a validated configuration.
func (c *Config) BackendLevels() (logger.Level, map[string]logger.Level) {
	levels := make(map[string]logger.Level, len(c.Loggers))
	for name, level := range c.Loggers {
		levels[name] = logger.LevelFromString(level)
	}

	return logger.LevelFromString(c.Level), levels
}
