// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mia-platform/lumber/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Parallel()

	Version = "test"
	BuildDate = "2024-06-01"

	cmd := rootCmd()
	buffer := new(bytes.Buffer)
	cmd.SetOut(buffer)

	log := logger.NewLogger(cmd.OutOrStderr())
	ctx := logger.WithContext(t.Context(), log)

	cmd.SetArgs([]string{"--log-level", "WARN", "version"})
	err := cmd.ExecuteContext(ctx)
	require.NoError(t, err)

	log.Info("ignored line for set log level")
	lines := strings.Split(buffer.String(), "\n")
	assert.Len(t, lines, 2) // version output + empty line
	assert.Equal(t, versionString(Version, BuildDate, runtime.Version())+"\n", buffer.String())

	buffer.Reset()
	BuildDate = ""
	cmd.SetArgs([]string{"--log-level", "WARN", "version"})
	err = cmd.ExecuteContext(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 2) // version output + empty line
	assert.Equal(t, versionString(Version, "", runtime.Version())+"\n", buffer.String())
}

func TestRootResolveCommand(t *testing.T) {
	t.Parallel()

	cmd := rootCmd()
	buffer := new(bytes.Buffer)
	cmd.SetOut(buffer)
	cmd.SetErr(buffer)

	ctx := logger.WithContext(t.Context(), logger.NewLogger(buffer))
	cmd.SetArgs([]string{
		"--log-level", "ERROR",
		"resolve",
		"--config", filepath.Join("internal", "cmd", "testdata", "lumber.yaml"),
		"--declarations", filepath.Join("internal", "cmd", "testdata", "types", "models.yaml"),
	})

	err := cmd.ExecuteContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "app.models.Admin\tapp::models::User::Admin\n"+
		"app.models.Model\tapp::models\n"+
		"app.models.User\tapp::models::User\n", buffer.String())
}
