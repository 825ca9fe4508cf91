// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/lumber/internal/config"
	"github.com/mia-platform/lumber/internal/hierarchy"
)

const (
	configFlagName  = "config"
	configFlagShort = "c"
	configFlagUsage = "Path to the logging configuration file, defaults to the LUMBER_CONFIG_FILE environment variable"

	declarationsFlagName  = "declarations"
	declarationsFlagShort = "d"
	declarationsFlagUsage = "Path to a file or directory containing type declarations. Can be specified multiple times."

	rootFlagName  = "root"
	rootFlagUsage = "Register a root as TYPE=NAMESPACE, on top of the ones in the configuration. Can be specified multiple times."
)

// flags collects the CLI options shared by the resolve and serve commands.
type flags struct {
	configPath       string
	declarationPaths []string
	roots            []string
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, configFlagName, configFlagShort, "", configFlagUsage)
	cmd.Flags().StringArrayVarP(
		&f.declarationPaths,
		declarationsFlagName,
		declarationsFlagShort,
		nil,
		declarationsFlagUsage)
	cmd.Flags().StringArrayVar(&f.roots, rootFlagName, nil, rootFlagUsage)
}

// toOptions builds an options instance from the parsed flags.
func (f *flags) toOptions(cmd *cobra.Command) (*options, error) {
	configPath := f.configPath
	if configPath == "" {
		var err error
		if configPath, err = config.PathFromEnv(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	roots, err := parseRoots(f.roots)
	if err != nil {
		return nil, err
	}
	cfg.Roots = append(cfg.Roots, roots...)

	paths, err := collectPaths(f.declarationPaths)
	if err != nil {
		return nil, err
	}

	declarations, err := loadDeclarations(paths)
	if err != nil {
		return nil, err
	}

	return &options{
		cfg:          cfg,
		declarations: declarations,
		out:          cmd.OutOrStdout(),
		logOutput:    cmd.ErrOrStderr(),
		serverGetter: newServer,
	}, nil
}

func parseRoots(values []string) ([]config.Root, error) {
	roots := make([]config.Root, 0, len(values))
	for _, value := range values {
		typeID, namespace, found := strings.Cut(value, "=")
		if !found || typeID == "" || namespace == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidRoot, value)
		}

		roots = append(roots, config.Root{Type: hierarchy.TypeID(typeID), Namespace: namespace})
	}

	return roots, nil
}
