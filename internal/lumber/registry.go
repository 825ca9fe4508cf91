// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package lumber

import (
	"maps"
	"slices"
	"sync"

	"github.com/mia-platform/lumber/internal/hierarchy"
	"github.com/mia-platform/lumber/internal/logger"
)

// Namespace is a logger name made of segments joined by logger.Delimiter.
type Namespace string

// Registry maps the registered types to their namespace.
type Registry struct {
	lock  sync.RWMutex
	roots map[hierarchy.TypeID]Namespace
}

func NewRegistry() *Registry {
	return &Registry{
		roots: make(map[hierarchy.TypeID]Namespace),
	}
}

// Set binds id to namespace, replacing any previous binding.
func (r *Registry) Set(id hierarchy.TypeID, namespace Namespace) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.roots[id] = namespace
}

func (r *Registry) Namespace(id hierarchy.TypeID) (Namespace, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	namespace, ok := r.roots[id]
	return namespace, ok
}

// Contains reports whether name lives within any registered namespace.
// When more than one namespace matches no preference is given to any of them.
func (r *Registry) Contains(name string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, namespace := range r.roots {
		if logger.Within(name, string(namespace)) {
			return true
		}
	}
	return false
}

// Root is a registry entry.
type Root struct {
	Type      hierarchy.TypeID
	Namespace Namespace
}

// Roots returns the registered entries sorted by type.
func (r *Registry) Roots() []Root {
	r.lock.RLock()
	defer r.lock.RUnlock()

	roots := make([]Root, 0, len(r.roots))
	for _, id := range slices.Sorted(maps.Keys(r.roots)) {
		roots = append(roots, Root{Type: id, Namespace: r.roots[id]})
	}
	return roots
}
