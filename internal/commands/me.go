package commands

import (
	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// NewMeCmd creates the me command.
func NewMeCmd() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show or update your profile",
		Long: `Fetch your profile, or update it with --set key=value.

Updates are sent as JSON; boolean and numeric values are recognized so
flags like incognito=true reach the server with the right type.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			if len(set) == 0 {
				user, err := a.Account.Me(cmd.Context())
				if err != nil {
					return err
				}
				return a.OK(user)
			}

			patch, err := parseTypedFields(set)
			if err != nil {
				return err
			}

			user, err := a.Account.UpdateMe(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return a.OK(user, output.WithSummary("Profile updated"))
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Profile field to update (key=value, repeatable)")

	return cmd
}
