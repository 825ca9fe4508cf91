// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	resolveCmdUsage = "resolve"
	resolveCmdShort = "print the logger assigned to every declared type"
	resolveCmdLong  = `Declare the types listed in one or more declaration files, in order,
	and print the logger each of them has been assigned.

	Types declared below a registered root receive a logger named after
	their position in the hierarchy; types without a registered ancestor
	are printed with a dash.`

	resolveCmdExample = `# Resolve the loggers of the types in types.yaml using the roots in lumber.yaml
	lumber resolve --config lumber.yaml --declarations types.yaml

	# Add a root from the command line
	lumber resolve -d types.yaml --root app.models.Model=app::models`

	serveCmdUsage = "serve"
	serveCmdShort = "start the admin server to change logger levels at runtime"
	serveCmdLong  = `Declare the types listed in the declaration files and start an HTTP
	server exposing the created loggers.

	The level of a logger and of every logger below it can be changed
	with a PUT request on /loggers/{name}/level.`

	serveCmdExample = `# Serve the loggers of types.yaml on port 8080
	HTTP_PORT=8080 lumber serve --config lumber.yaml -d types.yaml`
)

// ResolveCmd returns the Cobra command that prints the resolved loggers.
func ResolveCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     resolveCmdUsage,
		Short:   heredoc.Doc(resolveCmdShort),
		Long:    heredoc.Doc(resolveCmdLong),
		Example: heredoc.Doc(resolveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.executeResolve(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// ServeCmd returns the Cobra command that starts the admin server.
func ServeCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.executeServe(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
