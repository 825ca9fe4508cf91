// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Delimiter separates the segments of a namespaced logger name.
const Delimiter = "::"

var (
	// ErrBackend is returned when the backend cannot hand out a logger.
	ErrBackend = errors.New("logger backend unavailable")
)

// Within reports whether name is prefix itself or lives below it in the
// namespace tree. The match is done on whole segments, so "app::model" is
// not within "app::mod".
func Within(name, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return false
	}

	return len(name) == len(prefix) || strings.HasPrefix(name[len(prefix):], Delimiter)
}

// BackendOptions configures a Backend.
type BackendOptions struct {
	// Output is where every logger writes, it defaults to io.Discard.
	Output io.Writer
	// JSONFormat selects the json encoder instead of the human readable one.
	JSONFormat bool
	// Level is used for loggers that have no configured ancestor. The zero value is ERROR.
	Level Level
	// Levels contains per namespace levels. A logger takes the level of the
	// longest configured namespace it lives within.
	Levels map[string]Level
	// Hostname, when set, is attached to every log line.
	Hostname string
	// TimeFn overrides the clock used for log lines.
	TimeFn func() time.Time
	// Closer is released by Backend.Close, usually the opened log file.
	Closer io.Closer
}

// Entry describes a logger created by a Backend.
type Entry struct {
	Name  string
	Level Level
}

// Backend is a lookup-or-create facility for namespaced loggers.
type Backend struct {
	root         hclog.Logger
	defaultLevel Level

	lock    sync.Mutex
	closed  bool
	closer  io.Closer
	levels  map[string]Level
	loggers map[string]*instance
}

// NewBackend returns a Backend writing through a single hclog root logger.
func NewBackend(opts BackendOptions) *Backend {
	output := opts.Output
	if output == nil {
		output = io.Discard
	}

	timeFn := opts.TimeFn
	if timeFn == nil {
		timeFn = time.Now
	}

	var root hclog.Logger = hclog.New(&hclog.LoggerOptions{
		JSONFormat:        opts.JSONFormat,
		Output:            output,
		TimeFn:            timeFn,
		Level:             opts.Level.convertedLevel(),
		IndependentLevels: true,
	})
	if opts.Hostname != "" {
		root = root.With("hostname", opts.Hostname)
	}

	levels := make(map[string]Level, len(opts.Levels))
	maps.Copy(levels, opts.Levels)

	backend := &Backend{
		root:         root,
		defaultLevel: opts.Level,
		levels:       levels,
		loggers:      make(map[string]*instance),
		closer:       opts.Closer,
	}

	return backend
}

// GetOrCreate returns the logger registered under name, creating it on first use.
// Calling it again with the same name returns the same logger.
func (b *Backend) GetOrCreate(name string) (Logger, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty logger name", ErrBackend)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if b.closed {
		return nil, fmt.Errorf("%w: backend closed, cannot create %q", ErrBackend, name)
	}

	if log, ok := b.loggers[name]; ok {
		return log, nil
	}

	log := &instance{
		log:  b.root.ResetNamed(name),
		name: name,
	}
	log.SetLevel(b.levelFor(name))
	b.loggers[name] = log

	return log, nil
}

// Lookup returns an already created logger.
func (b *Backend) Lookup(name string) (Logger, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	log, ok := b.loggers[name]
	if !ok {
		return nil, false
	}
	return log, true
}

// SetLevel changes the level of name and of every logger below it that has no
// more specific level configured. Loggers created later inherit the new value.
func (b *Backend) SetLevel(name string, level Level) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.levels[name] = level
	for loggerName, log := range b.loggers {
		if Within(loggerName, name) {
			log.SetLevel(b.levelFor(loggerName))
		}
	}
}

// Loggers returns every created logger sorted by name.
func (b *Backend) Loggers() []Entry {
	b.lock.Lock()
	defer b.lock.Unlock()

	entries := make([]Entry, 0, len(b.loggers))
	for _, name := range slices.Sorted(maps.Keys(b.loggers)) {
		entries = append(entries, Entry{Name: name, Level: b.loggers[name].GetLevel()})
	}

	return entries
}

// Close releases the output when it is closable. Every following GetOrCreate fails.
func (b *Backend) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}

// levelFor must be called with the lock held.
func (b *Backend) levelFor(name string) Level {
	level := b.defaultLevel
	matched := -1
	for prefix, configured := range b.levels {
		if Within(name, prefix) && len(prefix) > matched {
			level = configured
			matched = len(prefix)
		}
	}

	return level
}
