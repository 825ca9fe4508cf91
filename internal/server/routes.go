// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/lumber/internal/logger"
)

type statusResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// loggerResponse is the JSON representation of a logger.
type loggerResponse struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type levelRequest struct {
	Level string `json:"level"`
}

func statusRoutes(app *fiber.App, name, version string) {
	handler := func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{Status: "OK", Name: name, Version: version})
	}

	app.Get("/-/healthz", handler)
	app.Get("/-/ready", handler)
}

func loggerRoutes(app *fiber.App, levels LevelController, log logger.Logger) {
	app.Get("/loggers", func(c *fiber.Ctx) error {
		entries := levels.Loggers()
		response := make([]loggerResponse, 0, len(entries))
		for _, entry := range entries {
			response = append(response, toResponse(entry))
		}
		return c.JSON(response)
	})

	app.Get("/loggers/:name", func(c *fiber.Ctx) error {
		name := c.Params("name")
		for _, entry := range levels.Loggers() {
			if entry.Name == name {
				return c.JSON(toResponse(entry))
			}
		}
		return errorResponse(c, http.StatusNotFound, "logger "+name+" not found")
	})

	app.Put("/loggers/:name/level", func(c *fiber.Ctx) error {
		name := c.Params("name")

		var body levelRequest
		if err := c.BodyParser(&body); err != nil {
			return errorResponse(c, http.StatusBadRequest, "invalid request body")
		}

		level, err := logger.ParseLevel(body.Level)
		if err != nil {
			return errorResponse(c, http.StatusBadRequest, err.Error())
		}

		levels.SetLevel(name, level)
		log.Info("logger level changed", "logger", name, "level", level.String())
		return c.SendStatus(http.StatusNoContent)
	})
}

func toResponse(entry logger.Entry) loggerResponse {
	return loggerResponse{
		Name:  entry.Name,
		Level: strings.ToLower(entry.Level.String()),
	}
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"error":      http.StatusText(status),
		"message":    message,
	})
}
