// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package hierarchy keeps track of declared types and of their parents.
// Every declaration is announced synchronously to the chain of observers
// registered with Observe, before Declare returns to the caller.
package hierarchy
