// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package lumber gives every declared type a logger named after its position
// in the type hierarchy.
//
// Types are anchored to a namespace with Register. Every type declared below
// a registered type receives a logger named "<parent logger>::<type name>",
// so that verbosity can be tuned per subtree through the logger backend:
//
//	lm := lumber.New(ctx, backend, types)
//	_ = lm.Register("app.models.Model", "app::models")
//	lm.Install()
//
//	_, _ = types.Declare("app.models.Model", "")
//	_, _ = types.Declare("app.models.User", "app.models.Model") // app::models::User
//
// Loggers are assigned once, when the type is declared. They are never
// recomputed afterwards, and a type without a registered ancestor has none.
package lumber
