// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mia-platform/lumber/internal/config"
	"github.com/mia-platform/lumber/internal/hierarchy"
	"github.com/mia-platform/lumber/internal/logger"
	"github.com/mia-platform/lumber/internal/lumber"
	"github.com/mia-platform/lumber/internal/server"
)

const (
	loggerName = "lumber:cmd"

	noLoggerPlaceholder = "-"
)

// options configures a resolve or serve run.
type options struct {
	cfg          *config.Config
	declarations []config.TypeDeclaration
	out          io.Writer
	logOutput    io.Writer
	serverGetter func(context.Context, server.LevelController) (server.Server, error)

	lock sync.Mutex
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	if len(o.declarations) == 0 {
		return errNoDeclarations
	}

	return nil
}

// setup initializes lumber on a new hierarchy and declares every type.
func (o *options) setup(ctx context.Context) (*hierarchy.Hierarchy, *lumber.Setup, error) {
	types := hierarchy.New()
	setup, err := lumber.Init(ctx, o.cfg, types, o.logOutput)
	if err != nil {
		return nil, nil, err
	}

	if err := declareAll(types, o.declarations); err != nil {
		_ = setup.Close()
		return nil, nil, err
	}

	setup.Default.Debug("types declared", "count", len(o.declarations))
	return types, setup, nil
}

// executeResolve prints the logger assigned to each declared type.
func (o *options) executeResolve(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	types, setup, err := o.setup(ctx)
	if err != nil {
		return err
	}
	defer setup.Close()

	for _, id := range types.Types() {
		name := noLoggerPlaceholder
		if log, ok := setup.Lumber.Logger(id); ok {
			name = log.FullName()
		}

		if _, err := fmt.Fprintf(o.out, "%s\t%s\n", id, name); err != nil {
			return err
		}
	}

	return nil
}

// executeServe exposes the backend levels over HTTP until ctx is done.
func (o *options) executeServe(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	log := logger.FromContext(ctx).WithName(loggerName)
	_, setup, err := o.setup(ctx)
	if err != nil {
		return err
	}
	defer setup.Close()

	srv, err := o.serverGetter(ctx, setup.Backend)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		log.Debug("context done, stopping server")
		if err := srv.Stop(); err != nil {
			log.Error("error stopping server", "error", err)
		}
	}()

	log.Info("starting admin server", "loggers", len(setup.Backend.Loggers()))
	return srv.Start()
}
