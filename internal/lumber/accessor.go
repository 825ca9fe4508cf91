// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package lumber

import (
	"github.com/mia-platform/lumber/internal/hierarchy"
	"github.com/mia-platform/lumber/internal/logger"
)

// Logger returns the logger assigned to id. Types without their own logger
// report false, their parent logger is never returned in its place.
func (l *Lumber) Logger(id hierarchy.TypeID) (logger.Logger, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	log, ok := l.loggers[id]
	return log, ok
}

// SetLogger replaces the logger of id, other types are left untouched.
func (l *Lumber) SetLogger(id hierarchy.TypeID, log logger.Logger) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.loggers[id] = log
}

// Bound gives a value access to the logger of its type, it is meant to be
// embedded so that methods can call Log without knowing how the logger has
// been assigned.
type Bound struct {
	lumber *Lumber
	id     hierarchy.TypeID
}

// Bind returns the accessor for the type of value.
func Bind[T any](lm *Lumber) Bound {
	return Bound{lumber: lm, id: hierarchy.TypeIDFor[T]()}
}

// BindID returns the accessor for id.
func BindID(lm *Lumber, id hierarchy.TypeID) Bound {
	return Bound{lumber: lm, id: id}
}

// Logger returns the logger of the bound type.
func (b Bound) Logger() (logger.Logger, bool) {
	if b.lumber == nil {
		return nil, false
	}
	return b.lumber.Logger(b.id)
}

// Log returns the logger of the bound type or a logger discarding everything.
func (b Bound) Log() logger.Logger {
	if log, ok := b.Logger(); ok {
		return log
	}
	return logger.Null()
}
