// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hierarchy

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
)

var (
	ErrAlreadyDeclared = errors.New("type already declared")
	ErrUnknownParent   = errors.New("parent type not declared")
	ErrInvalidType     = errors.New("invalid type identifier")
)

// Observer is notified of every declaration. A returned error aborts the
// declaration and is handed back to the caller of Declare.
type Observer func(declared *Type) error

// Hierarchy is the set of declared types.
type Hierarchy struct {
	lock     sync.Mutex
	types    map[TypeID]*Type
	observer Observer
}

func New() *Hierarchy {
	return &Hierarchy{
		types: make(map[TypeID]*Type),
	}
}

// Observe chains observer after the ones already registered: on every
// declaration the previous observers run first, and observer runs only if
// they all succeeded.
// Observers run while the hierarchy is locked and must not call Declare.
func (h *Hierarchy) Observe(observer Observer) {
	h.lock.Lock()
	defer h.lock.Unlock()

	previous := h.observer
	if previous == nil {
		h.observer = observer
		return
	}

	h.observer = func(declared *Type) error {
		if err := previous(declared); err != nil {
			return err
		}
		return observer(declared)
	}
}

// Declare adds id as a subtype of parent, an empty parent declares a root type.
// The type is added only after every observer accepted it.
func (h *Hierarchy) Declare(id, parent TypeID) (*Type, error) {
	if id == "" {
		return nil, ErrInvalidType
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.types[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyDeclared, id)
	}

	declared := &Type{id: id}
	if parent != "" {
		parentType, ok := h.types[parent]
		if !ok {
			return nil, fmt.Errorf("%w: %s (parent of %s)", ErrUnknownParent, parent, id)
		}
		declared.parent = parentType
	}

	if h.observer != nil {
		if err := h.observer(declared); err != nil {
			return nil, fmt.Errorf("declaring %s: %w", id, err)
		}
	}

	h.types[id] = declared
	return declared, nil
}

// DeclareOf declares the Go type of value as a subtype of the Go type of parent.
// A nil parent declares a root type.
func (h *Hierarchy) DeclareOf(value, parent any) (*Type, error) {
	id := TypeIDOf(reflect.TypeOf(value))
	if id == "" {
		return nil, fmt.Errorf("%w: %T", ErrInvalidType, value)
	}

	var parentID TypeID
	if parent != nil {
		if parentID = TypeIDOf(reflect.TypeOf(parent)); parentID == "" {
			return nil, fmt.Errorf("%w: %T", ErrInvalidType, parent)
		}
	}

	return h.Declare(id, parentID)
}

// Lookup returns the declared type with the given id.
func (h *Hierarchy) Lookup(id TypeID) (*Type, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	declared, ok := h.types[id]
	return declared, ok
}

// Types returns the identifiers of every declared type, sorted.
func (h *Hierarchy) Types() []TypeID {
	h.lock.Lock()
	defer h.lock.Unlock()

	return slices.Sorted(maps.Keys(h.types))
}
