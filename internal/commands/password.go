package commands

import (
	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// NewPasswordCmd creates the password command group. The change
// subcommand needs a live session; reset instead redeems the token from
// a password reset email and works logged out.
func NewPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage your password",
	}

	cmd.AddCommand(
		newPasswordForgotCmd(),
		newPasswordChangeCmd(),
		newPasswordResetCmd(),
	)

	return cmd
}

func newPasswordForgotCmd() *cobra.Command {
	var verification string

	cmd := &cobra.Command{
		Use:   "forgot <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			msg, err := a.Account.RequestPasswordReset(cmd.Context(), args[0], verification)
			if err != nil {
				return err
			}
			return a.OK(msg, output.WithSummary(msg))
		},
	}

	addVerificationFlag(cmd.Flags(), &verification)

	return cmd
}

func newPasswordChangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change <new-password>",
		Short: "Change the logged-in account's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			if !a.Account.IsLoggedIn() {
				return output.ErrAuth("Not logged in")
			}

			msg, err := a.Account.ChangePassword(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.OK(msg, output.WithSummary(msg))
		},
	}
}

func newPasswordResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <token> <new-password>",
		Short: "Set a new password using an emailed reset token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			msg, err := a.Account.ResetPassword(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.OK(msg, output.WithSummary(msg))
		},
	}
}
