// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads the logging configuration and the type declaration files.
// Configuration is read from YAML and can be overridden with LUMBER_* environment variables.
package config
