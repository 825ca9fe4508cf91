// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// nullLogger is a logger that discards all log messages.
	nullLogger = &instance{log: hclog.NewNullLogger()}

	// ErrInvalidLevel is returned when a level string does not name a known level.
	ErrInvalidLevel = errors.New("invalid log level")
)

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

func LevelFromString(level string) Level {
	parsed, err := ParseLevel(level)
	if err != nil {
		return INFO
	}

	return parsed
}

// ParseLevel is the strict version of LevelFromString, it returns ErrInvalidLevel
// for unknown values instead of falling back to INFO.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
}

func (l Level) convertedLevel() hclog.Level {
	switch l {
	case TRACE:
		return hclog.Trace
	case DEBUG:
		return hclog.Debug
	case INFO:
		return hclog.Info
	case WARN:
		return hclog.Warn
	case ERROR:
		return hclog.Error
	default:
		return hclog.Info
	}
}

func levelFromHclog(level hclog.Level) Level {
	switch level {
	case hclog.Trace:
		return TRACE
	case hclog.Debug:
		return DEBUG
	case hclog.Warn:
		return WARN
	case hclog.Error:
		return ERROR
	default:
		return INFO
	}
}

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
	TRACE
)

// Logger describes the interface that must be implemented by all loggers
type Logger interface {
	// WithName returns a new Logger instance with the specified name.
	WithName(name string) Logger

	// With returns a new Logger instance that adds the key/value pairs to every message.
	With(args ...interface{}) Logger

	// FullName returns the complete name the logger has been created with.
	FullName() string

	// SetLevel updates the logger level.
	SetLevel(level Level)

	// GetLevel returns the current logger level.
	GetLevel() Level

	// Trace emit a message and key/value pairs at the TRACE level.
	Trace(msg string, args ...interface{})

	// Debug emit a message and key/value pairs at the DEBUG level.
	Debug(msg string, args ...interface{})

	// Info emit a message and key/value pairs at the INFO level.
	Info(msg string, args ...interface{})

	// Warn emit a message and key/value pairs at the WARN level.
	Warn(msg string, args ...interface{})

	// Error emit a message and key/value pairs at the ERROR level.
	Error(msg string, args ...interface{})
}

// Make sure that intLogger is a Logger.
var _ Logger = &instance{}

// instance is a Logger implementation.
type instance struct {
	log  hclog.Logger
	name string
}

// NewLogger creates a new logger instance.
func NewLogger(writer io.Writer) Logger {
	return &instance{
		log: hclog.New(&hclog.LoggerOptions{
			JSONFormat: true,
			Output:     writer,
			TimeFn:     time.Now,
			Level:      INFO.convertedLevel(),
		}),
	}
}

// Null returns a logger that discards every message.
func Null() Logger {
	return nullLogger
}

func (i instance) WithName(name string) Logger {
	return &instance{
		log:  i.log.ResetNamed(name),
		name: name,
	}
}

func (i instance) With(args ...interface{}) Logger {
	return &instance{
		log:  i.log.With(args...),
		name: i.name,
	}
}

func (i instance) FullName() string {
	return i.name
}

func (i instance) SetLevel(level Level) {
	i.log.SetLevel(level.convertedLevel())
}

func (i instance) GetLevel() Level {
	return levelFromHclog(i.log.GetLevel())
}

func (i instance) Trace(msg string, args ...interface{}) {
	i.log.Trace(msg, args...)
}

func (i instance) Debug(msg string, args ...interface{}) {
	i.log.Debug(msg, args...)
}

func (i instance) Info(msg string, args ...interface{}) {
	i.log.Info(msg, args...)
}

func (i instance) Warn(msg string, args ...interface{}) {
	i.log.Warn(msg, args...)
}

func (i instance) Error(msg string, args ...interface{}) {
	i.log.Error(msg, args...)
}
