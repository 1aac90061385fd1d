package commands

import (
	"github.com/spf13/cobra"
)

// NewTokenInfoCmd creates the token-info command.
func NewTokenInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token-info <token>",
		Short: "Show metadata for a registration token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			info, err := a.Account.TokenInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.OK(info)
		},
	}
}
