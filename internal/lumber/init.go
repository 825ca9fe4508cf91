// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package lumber

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mia-platform/lumber/internal/config"
	"github.com/mia-platform/lumber/internal/hierarchy"
	"github.com/mia-platform/lumber/internal/logger"
)

var (
	setupsLock sync.Mutex
	// setups keeps the open Setup of each hierarchy, so that running Init again
	// never chains a second live observer on the same declarations.
	setups = make(map[*hierarchy.Hierarchy]*Setup)
)

// Setup groups what Init builds for an application.
type Setup struct {
	Lumber  *Lumber
	Backend *logger.Backend
	// Default is the application wide logger, named after config.DefaultLogger.
	Default logger.Logger

	types *hierarchy.Hierarchy
}

// Close detaches the Lumber from its hierarchy and releases the backend output.
// A following Init on the same hierarchy builds a new Setup.
func (s *Setup) Close() error {
	setupsLock.Lock()
	defer setupsLock.Unlock()

	if setups[s.types] == s {
		delete(setups, s.types)
	}
	s.Lumber.Detach()

	return s.Backend.Close()
}

// Init builds the backend described by cfg, registers its roots and starts
// observing types. Log lines go to cfg.Output, or to fallback when no output
// file is configured. Calling Init again for the same hierarchy, before the
// Setup is closed, only registers the roots of cfg on the existing Setup.
func Init(ctx context.Context, cfg *config.Config, types *hierarchy.Hierarchy, fallback io.Writer) (*Setup, error) {
	setupsLock.Lock()
	defer setupsLock.Unlock()

	log := logger.FromContext(ctx).WithName(loggerName)
	if setup, ok := setups[types]; ok {
		log.Debug("lumber already initialized for hierarchy, registering roots only")
		if err := registerRoots(setup.Lumber, cfg.Roots); err != nil {
			return nil, err
		}
		return setup, nil
	}

	backend, err := newBackend(cfg, fallback)
	if err != nil {
		return nil, err
	}

	defaultLog, err := backend.GetOrCreate(cfg.DefaultLogger)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	lm := New(ctx, backend, types)
	if err := registerRoots(lm, cfg.Roots); err != nil {
		_ = backend.Close()
		return nil, err
	}
	lm.Install()

	if len(cfg.Roots) == 0 {
		log.Warn("no logger roots configured, declared types will have no logger")
	}

	setup := &Setup{
		Lumber:  lm,
		Backend: backend,
		Default: defaultLog,
		types:   types,
	}
	setups[types] = setup
	return setup, nil
}

func registerRoots(lm *Lumber, roots []config.Root) error {
	for _, root := range roots {
		if err := lm.Register(root.Type, Namespace(root.Namespace)); err != nil {
			return err
		}
	}
	return nil
}

func newBackend(cfg *config.Config, fallback io.Writer) (*logger.Backend, error) {
	level, levels := cfg.BackendLevels()
	opts := logger.BackendOptions{
		Output:     fallback,
		JSONFormat: cfg.Format == config.FormatJSON,
		Level:      level,
		Levels:     levels,
		Hostname:   cfg.Hostname,
	}

	if cfg.Output != "" {
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%w: opening %q: %w", logger.ErrBackend, cfg.Output, err)
		}
		opts.Output = file
		opts.Closer = file
	}

	return logger.NewBackend(opts), nil
}
