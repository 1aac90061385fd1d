package commands

import (
	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// NewRegisterCmd creates the register command.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <field=value> ...",
		Short: "Register an account",
		Long: `Register an account with the given fields (e.g. token=... email=... password=...).

When already logged in, the request carries the stored credential so the
server can upgrade the existing session instead of creating a new account.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			fields, err := parseFields(args)
			if err != nil {
				return err
			}

			if err := a.Account.Register(cmd.Context(), fields); err != nil {
				return err
			}

			return a.OK(map[string]string{
				"status": "registered",
			}, output.WithSummary("Registered"))
		},
	}

	return cmd
}
