// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps the underlying logging stack behind a consistent interface.
// It provides the Backend handing out "::" namespaced loggers whose levels are
// inherited along the namespace tree, and makes loggers available through context helpers.
package logger
