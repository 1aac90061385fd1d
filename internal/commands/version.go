package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\nbuilt: %s\n", version.Commit, version.Date)
			return nil
		},
	}
}
