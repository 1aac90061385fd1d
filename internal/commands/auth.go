package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// NewAuthCmd creates the auth command group.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  "Manage Impact authentication including login, logout, and status.",
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthStatusCmd(),
		newAuthTokenCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email string
	var password string
	var discordToken string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password, or a Discord token",
		Long:  "Authenticate against the Impact API. Use --email with --password, or --discord with a Discord OAuth token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			switch {
			case discordToken != "":
				if email != "" || password != "" {
					return output.ErrUsage("--discord cannot be combined with --email/--password")
				}
				err = a.Account.LoginWithDiscord(cmd.Context(), discordToken)
			case email != "" && password != "":
				err = a.Account.LoginWithPassword(cmd.Context(), email, password)
			default:
				return output.ErrUsageHint(
					"Missing credentials",
					"Use --email and --password, or --discord <token>",
				)
			}
			if err != nil {
				return err
			}

			return a.OK(map[string]string{
				"status": "logged_in",
			}, output.WithSummary("Logged in"))
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&discordToken, "discord", "", "Discord OAuth token")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			if err := a.Account.Logout(); err != nil {
				return err
			}

			return a.OK(map[string]string{
				"status": "logged_out",
			}, output.WithSummary("Logged out"))
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			if !a.Account.IsLoggedIn() {
				return a.OK(map[string]any{
					"logged_in": false,
				}, output.WithSummary("Not logged in"))
			}

			status := map[string]any{
				"logged_in": true,
			}
			summary := "Logged in"

			// Best effort profile fetch; a stale token still counts as
			// logged in for status purposes.
			if user, err := a.Account.Me(cmd.Context()); err == nil {
				status["full_account"] = a.Account.IsFullAccount(user)
				if email := user.Email(); email != "" {
					status["email"] = email
					summary = fmt.Sprintf("Logged in as %s", email)
				}
			}

			return a.OK(status, output.WithSummary(summary))
		},
	}
}

func newAuthTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			token, err := a.Auth.RequireToken()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
