// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestWithin(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		name     string
		prefix   string
		expected bool
	}{
		"same name":           {name: "app::models", prefix: "app::models", expected: true},
		"child":               {name: "app::models::User", prefix: "app::models", expected: true},
		"deep child":          {name: "app::models::User::Admin", prefix: "app", expected: true},
		"partial segment":     {name: "app::modelsX", prefix: "app::models", expected: false},
		"string prefix":       {name: "application", prefix: "app", expected: false},
		"parent of prefix":    {name: "app", prefix: "app::models", expected: false},
		"empty prefix":        {name: "app", prefix: "", expected: false},
		"single colon suffix": {name: "app:x", prefix: "app", expected: false},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expected, Within(test.name, test.prefix))
		})
	}
}

func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	backend := NewBackend(BackendOptions{Level: INFO})

	first, err := backend.GetOrCreate("app::models::User")
	require.NoError(t, err)
	second, err := backend.GetOrCreate("app::models::User")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "app::models::User", first.FullName())

	found, ok := backend.Lookup("app::models::User")
	require.True(t, ok)
	assert.Same(t, first, found)

	_, ok = backend.Lookup("app::models")
	assert.False(t, ok, "parents are not created implicitly")

	_, err = backend.GetOrCreate("")
	assert.ErrorIs(t, err, ErrBackend)
}

func TestGetOrCreateConcurrently(t *testing.T) {
	t.Parallel()

	backend := NewBackend(BackendOptions{Level: INFO})
	loggers := make([]Logger, 16)

	var wg sync.WaitGroup
	for idx := range loggers {
		wg.Go(func() {
			log, err := backend.GetOrCreate("shared")
			assert.NoError(t, err)
			loggers[idx] = log
		})
	}
	wg.Wait()

	for _, log := range loggers {
		assert.Same(t, loggers[0], log)
	}
	assert.Len(t, backend.Loggers(), 1)
}

func TestLevelInheritance(t *testing.T) {
	t.Parallel()

	backend := NewBackend(BackendOptions{
		Level: WARN,
		Levels: map[string]Level{
			"app":                TRACE,
			"app::models":        DEBUG,
			"app::models::Audit": ERROR,
		},
	})

	testCases := map[string]Level{
		"other":                     WARN,
		"app":                       TRACE,
		"app::jobs::Cleanup":        TRACE,
		"app::models":               DEBUG,
		"app::models::User":         DEBUG,
		"app::models::Audit::Entry": ERROR,
		"app::modelsX":              TRACE,
	}

	for name, expected := range testCases {
		log, err := backend.GetOrCreate(name)
		require.NoError(t, err)
		assert.Equal(t, expected, log.GetLevel(), name)
	}
}

func TestSetLevelOnSubtree(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	backend := NewBackend(BackendOptions{
		Output:     buffer,
		JSONFormat: true,
		Level:      INFO,
		Levels:     map[string]Level{"app::models::Audit": ERROR},
	})

	user, err := backend.GetOrCreate("app::models::User")
	require.NoError(t, err)
	audit, err := backend.GetOrCreate("app::models::Audit")
	require.NoError(t, err)
	jobs, err := backend.GetOrCreate("app::jobs")
	require.NoError(t, err)

	user.Debug("silenced")
	assert.Empty(t, buffer.String())

	backend.SetLevel("app::models", DEBUG)
	assert.Equal(t, DEBUG, user.GetLevel())
	assert.Equal(t, ERROR, audit.GetLevel(), "more specific level wins")
	assert.Equal(t, INFO, jobs.GetLevel())

	user.Debug("now visible")
	assert.Contains(t, buffer.String(), "now visible")

	later, err := backend.GetOrCreate("app::models::Invoice")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, later.GetLevel())

	assert.Equal(t, []Entry{
		{Name: "app::jobs", Level: INFO},
		{Name: "app::models::Audit", Level: ERROR},
		{Name: "app::models::Invoice", Level: DEBUG},
		{Name: "app::models::User", Level: DEBUG},
	}, backend.Loggers())
}

func TestBackendHostname(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	backend := NewBackend(BackendOptions{Output: buffer, Level: INFO, Hostname: "node-1"})

	log, err := backend.GetOrCreate("app")
	require.NoError(t, err)
	log.Info("started")

	line := buffer.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "app: started")
	assert.Contains(t, line, "hostname=node-1")
}

func TestBackendClose(t *testing.T) {
	t.Parallel()

	closer := &closeRecorder{}
	backend := NewBackend(BackendOptions{Closer: closer})

	_, err := backend.GetOrCreate("app")
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	require.NoError(t, backend.Close())
	assert.Equal(t, 1, closer.closed)

	_, err = backend.GetOrCreate("app")
	assert.ErrorIs(t, err, ErrBackend)
}
