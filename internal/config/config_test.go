// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/lumber/internal/logger"
)

func TestLoad(t *testing.T) {
	testCases := map[string]struct {
		path          string
		env           map[string]string
		expected      *Config
		expectedError error
	}{
		"no path returns defaults": {
			env: map[string]string{"LUMBER_HOSTNAME": "env-host"},
			expected: &Config{
				Level:         "info",
				Format:        FormatJSON,
				DefaultLogger: DefaultLoggerName,
				Hostname:      "env-host",
			},
		},
		"full file": {
			path: filepath.Join("testdata", "lumber.yaml"),
			expected: &Config{
				Level:         "warn",
				Format:        FormatText,
				DefaultLogger: "rails",
				Hostname:      "test-host",
				Loggers: map[string]string{
					"app::models":        "debug",
					"app::models::Audit": "error",
				},
				Roots: []Root{
					{Type: "app.models.Model", Namespace: "app::models"},
					{Type: "app.jobs.Job", Namespace: "app::jobs"},
				},
			},
		},
		"environment overrides file": {
			path: filepath.Join("testdata", "lumber.yaml"),
			env: map[string]string{
				"LUMBER_LEVEL":  "trace",
				"LUMBER_FORMAT": "json",
				"LUMBER_OUTPUT": "/var/log/app.log",
			},
			expected: &Config{
				Level:         "trace",
				Format:        FormatJSON,
				Output:        "/var/log/app.log",
				DefaultLogger: "rails",
				Hostname:      "test-host",
				Loggers: map[string]string{
					"app::models":        "debug",
					"app::models::Audit": "error",
				},
				Roots: []Root{
					{Type: "app.models.Model", Namespace: "app::models"},
					{Type: "app.jobs.Job", Namespace: "app::jobs"},
				},
			},
		},
		"empty file returns defaults": {
			path: filepath.Join("testdata", "empty.yaml"),
			env:  map[string]string{"LUMBER_HOSTNAME": "env-host"},
			expected: &Config{
				Level:         "info",
				Format:        FormatJSON,
				DefaultLogger: DefaultLoggerName,
				Hostname:      "env-host",
			},
		},
		"missing file": {
			path:          filepath.Join("testdata", "missing.yaml"),
			expectedError: syscall.ENOENT,
		},
		"malformed file": {
			path:          filepath.Join("testdata", "malformed.yaml"),
			expectedError: ErrParsing,
		},
		"invalid values": {
			path:          filepath.Join("testdata", "invalid.yaml"),
			expectedError: ErrInvalidConfig,
		},
		"invalid environment level": {
			env:           map[string]string{"LUMBER_LEVEL": "loud"},
			expectedError: ErrInvalidConfig,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			for key, value := range test.env {
				t.Setenv(key, value)
			}

			cfg, err := Load(test.path)
			if test.expectedError != nil {
				assert.ErrorIs(t, err, test.expectedError)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expected, cfg)
		})
	}
}

func TestLoadResolvesHostname(t *testing.T) {
	t.Setenv("LUMBER_HOSTNAME", "")
	expected, _ := os.Hostname()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, expected, cfg.Hostname)
}

func TestValidateReportsEveryError(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Level:   "verbose",
		Format:  "xml",
		Loggers: map[string]string{"app": "loud"},
		Roots:   []Root{{Type: "app.Model"}},
	}

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, `invalid configuration: unknown level "verbose", unknown format "xml", defaultLogger cannot be empty, unknown level "loud" for logger "app", root 0 needs both type and namespace`, err.Error())
}

func TestBackendLevels(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Level = "warn"
	cfg.Loggers = map[string]string{"app::models": "DEBUG"}

	level, levels := cfg.BackendLevels()
	assert.Equal(t, logger.WARN, level)
	assert.Equal(t, map[string]logger.Level{"app::models": logger.DEBUG}, levels)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("LUMBER_CONFIG_FILE", "/etc/lumber.yaml")

	path, err := PathFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/etc/lumber.yaml", path)
}
