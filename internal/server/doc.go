// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the admin HTTP server of lumber.
// It sets up the HTTP server using the Fiber framework, configures middleware for logging,
// and defines routes for health checks and for reading and changing logger levels at runtime.
package server
