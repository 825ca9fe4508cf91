// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package lumber

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mia-platform/lumber/internal/hierarchy"
	"github.com/mia-platform/lumber/internal/logger"
)

const (
	loggerName = "lumber:core"
)

// Backend hands out loggers by full name. Calling GetOrCreate twice with the
// same name must return equivalent loggers.
type Backend interface {
	GetOrCreate(name string) (logger.Logger, error)
}

// Lumber assigns loggers to the types of a hierarchy.
type Lumber struct {
	backend  Backend
	types    *hierarchy.Hierarchy
	registry *Registry
	log      logger.Logger

	install  sync.Once
	detached atomic.Bool

	// registering serializes Register, so that the registry and the
	// accessor of a re-registered type always agree.
	registering sync.Mutex

	lock    sync.RWMutex
	loggers map[hierarchy.TypeID]logger.Logger
}

// New returns a Lumber for types. Nothing is observed until Install is called.
func New(ctx context.Context, backend Backend, types *hierarchy.Hierarchy) *Lumber {
	return &Lumber{
		backend:  backend,
		types:    types,
		registry: NewRegistry(),
		log:      logger.FromContext(ctx).WithName(loggerName),
		loggers:  make(map[hierarchy.TypeID]logger.Logger),
	}
}

// Registry returns the registry of root bindings.
func (l *Lumber) Registry() *Registry {
	return l.registry
}

// Register binds id to namespace. Types declared afterwards pick the binding up
// when they are declared, and an already declared id gets its logger right away.
func (l *Lumber) Register(id hierarchy.TypeID, namespace Namespace) error {
	l.registering.Lock()
	defer l.registering.Unlock()

	l.registry.Set(id, namespace)

	if _, declared := l.types.Lookup(id); !declared {
		l.log.Debug("root registered", "type", id, "namespace", namespace)
		return nil
	}

	log, err := l.backend.GetOrCreate(string(namespace))
	if err != nil {
		return fmt.Errorf("registering %s: %w", id, err)
	}

	l.SetLogger(id, log)
	l.log.Debug("root registered on declared type", "type", id, "namespace", namespace)
	return nil
}

// Install starts observing declarations. Calling it more than once has no effect.
func (l *Lumber) Install() {
	l.install.Do(func() {
		l.types.Observe(l.assign)
		l.log.Trace("declaration observer installed")
	})
}

// Detach stops assigning loggers to new declarations. The observer stays in
// the hierarchy chain but does nothing from now on.
func (l *Lumber) Detach() {
	l.detached.Store(true)
}

// assign picks the logger of a newly declared type: its own registered
// namespace if any, otherwise a child of the closest ancestor whose logger
// lives within a registered namespace.
func (l *Lumber) assign(declared *hierarchy.Type) error {
	if l.detached.Load() {
		return nil
	}

	if namespace, ok := l.registry.Namespace(declared.ID()); ok {
		return l.assignName(declared, string(namespace))
	}

	for ancestor := range declared.Ancestors() {
		parentLog, ok := l.Logger(ancestor.ID())
		if !ok || !l.registry.Contains(parentLog.FullName()) {
			continue
		}

		return l.assignName(declared, parentLog.FullName()+logger.Delimiter+declared.SimpleName())
	}

	l.log.Trace("no registered ancestor, type left without logger", "type", declared.ID())
	return nil
}

func (l *Lumber) assignName(declared *hierarchy.Type, name string) error {
	log, err := l.backend.GetOrCreate(name)
	if err != nil {
		return err
	}

	l.SetLogger(declared.ID(), log)
	l.log.Trace("logger assigned", "type", declared.ID(), "logger", name)
	return nil
}
