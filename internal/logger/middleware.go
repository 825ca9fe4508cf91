// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeaderName = "x-request-id"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// requestInfo is the part of the request written on every log line.
type requestInfo struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	UserAgent string `json:"userAgent,omitempty"`
	Host      string `json:"host,omitempty"`
}

// responseInfo is the part of the response written when the request completes.
type responseInfo struct {
	StatusCode int `json:"statusCode"`
	Bytes      int `json:"bytes"`
}

func removePort(host string) string {
	return strings.Split(host, ":")[0]
}

// requestID returns the id sent by the client or a new random one.
func requestID(c *fiber.Ctx) string {
	if id := c.Get(requestIDHeaderName); id != "" {
		return id
	}

	id, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return id.String()
}

func responseFor(c *fiber.Ctx, handlerErr error) responseInfo {
	if fiberErr, ok := handlerErr.(*fiber.Error); ok {
		return responseInfo{StatusCode: fiberErr.Code, Bytes: len(fiberErr.Error())}
	}

	return responseInfo{
		StatusCode: c.Response().StatusCode(),
		Bytes:      len(c.Response().Body()),
	}
}

// RequestMiddlewareLogger is a fiber middleware to log all requests
// It logs the incoming request and when request is completed, adding latency of the request
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		start := time.Now()
		id := requestID(c)
		c.Set(requestIDHeaderName, id)

		log := logger.With("requestId", id)
		c.SetUserContext(WithContext(c.UserContext(), log))

		request := requestInfo{
			Method:    c.Method(),
			Path:      c.Path(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			Host:      removePort(c.Hostname()),
		}
		log.Trace(IncomingRequestMessage, "request", request)

		err := c.Next()
		log.Info(RequestCompletedMessage,
			"request", request,
			"response", responseFor(c, err),
			"responseTime", float64(time.Since(start).Milliseconds()),
		)

		return err
	}
}
