// Package cli assembles the root command.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/appctx"
	"github.com/ImpactDevelopment/impact-cli/internal/commands"
	"github.com/ImpactDevelopment/impact-cli/internal/config"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
	"github.com/ImpactDevelopment/impact-cli/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

// newRootCmd builds the root command and an accessor for the app built
// by PersistentPreRunE, so Execute can report errors through the app's
// output writer.
func newRootCmd() (*cobra.Command, func() *appctx.App) {
	var flags appctx.GlobalFlags
	var current *appctx.App

	cmd := &cobra.Command{
		Use:           "impact",
		Short:         "Command-line interface for the Impact account API",
		Long:          "impact is a CLI for managing an Impact account: login, registration, profile, passwords, payments, and Discord/Minecraft identity lookups.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for help and version commands
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(config.FlagOverrides{
				BaseURL: flags.BaseURL,
				Format:  flags.Format,
			})
			if err != nil {
				return err
			}

			app := appctx.NewApp(cfg)
			app.Flags = flags
			app.ApplyFlags()
			current = app

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)

	cmd.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Output as JSON")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Log requests to stderr (repeat for response bodies)")
	cmd.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "Impact API base URL")
	cmd.PersistentFlags().StringVar(&flags.Format, "format", "", "Output format: auto, json, text, quiet")

	cmd.AddCommand(
		commands.NewAuthCmd(),
		commands.NewRegisterCmd(),
		commands.NewMeCmd(),
		commands.NewPasswordCmd(),
		commands.NewPaymentCmd(),
		commands.NewTokenInfoCmd(),
		commands.NewResolveCmd(),
		commands.NewAPICmd(),
		commands.NewVersionCmd(),
	)

	return cmd, func() *appctx.App { return current }
}

// Execute runs the root command and exits with the error's code on failure.
func Execute() {
	cmd, app := newRootCmd()

	if err := cmd.Execute(); err != nil {
		renderError(app(), err, os.Stderr)
		os.Exit(output.AsError(err).ExitCode())
	}
}

// renderError reports a failure through the app's output writer so
// scripted consumers get the error envelope in their chosen format.
// Failures before the app exists (flag parsing, config load) fall back
// to plain text on stderr.
func renderError(a *appctx.App, err error, stderr io.Writer) {
	if a != nil && a.Output != nil {
		if werr := a.Err(err); werr == nil {
			return
		}
	}

	e := output.AsError(err)
	fmt.Fprintf(stderr, "Error: %s\n", e.Message)
	if e.Hint != "" {
		fmt.Fprintf(stderr, "Hint: %s\n", e.Hint)
	}
}
