// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/lumber/internal/info"
	"github.com/mia-platform/lumber/internal/logger"
)

const (
	serviceName = "lumber"
	loggerName  = "lumber:server"
)

// LevelController is the part of the logger backend exposed over HTTP.
type LevelController interface {
	Loggers() []logger.Entry
	SetLevel(name string, level logger.Level)
}

type Server interface {
	Start() error
	Stop() error
}

type impServer struct {
	config

	app *fiber.App
}

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

func NewServer(ctx context.Context, levels LevelController) (Server, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	return &impServer{
		app:    newApp(ctx, cfg, levels),
		config: *cfg,
	}, nil
}

func newApp(ctx context.Context, cfg *config, levels LevelController) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.DisableStartupMessage,
		UnescapePath:          true,
	})
	log := logger.FromContext(ctx).WithName(loggerName)
	app.Use(logger.RequestMiddlewareLogger(log, []string{"/-/"}))

	statusRoutes(app, serviceName, info.Version)
	loggerRoutes(app, levels, log)

	return app
}

func (s *impServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}
