// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mia-platform/lumber/internal/config"
	"github.com/mia-platform/lumber/internal/hierarchy"
	"github.com/mia-platform/lumber/internal/server"
)

var (
	errNoDeclarations = errors.New("no type declarations provided")
	errInvalidRoot    = errors.New("invalid root, expected TYPE=NAMESPACE")

	// newServer returns the admin server for the serve command.
	// It can be overridden for testing purposes.
	newServer = server.NewServer
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoDeclarations):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidRoot):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

// unwrappedError returns the unwrapped error if available, otherwise it returns the original error.
func unwrappedError(err error) error {
	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		return unwrapped
	}

	return err
}

func collectPaths(paths []string) ([]string, error) {
	collected := make([]string, 0)
	for _, p := range paths {
		cleanedPath := filepath.Clean(p)
		err := filepath.Walk(cleanedPath, func(walkedPath string, info fs.FileInfo, err error) error {
			if err != nil {
				return fmt.Errorf("declarations file %q: %w", walkedPath, unwrappedError(err))
			}

			switch {
			case !info.IsDir(): // it's a file add to the collection
				collected = append(collected, walkedPath)
			case info.IsDir() && cleanedPath != walkedPath: // skip directories if is not the root path
				return filepath.SkipDir
			}

			return nil
		})

		if err != nil {
			return nil, err
		}
	}

	return collected, nil
}

// loadDeclarations loads the declarations of every path, keeping their order.
func loadDeclarations(paths []string) ([]config.TypeDeclaration, error) {
	declarations := make([]config.TypeDeclaration, 0)
	for _, path := range paths {
		fileDeclarations, err := config.LoadDeclarations(path)
		if err != nil {
			return nil, err
		}

		declarations = append(declarations, fileDeclarations...)
	}

	return declarations, nil
}

// declareAll declares the types in order, stopping at the first failure.
func declareAll(types *hierarchy.Hierarchy, declarations []config.TypeDeclaration) error {
	for _, declaration := range declarations {
		if _, err := types.Declare(declaration.Type, declaration.Parent); err != nil {
			return err
		}
	}

	return nil
}
