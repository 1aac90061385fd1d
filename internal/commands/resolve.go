package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// NewResolveCmd creates the resolve command group.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Look up third-party identities",
	}

	cmd.AddCommand(
		newResolveMinecraftCmd(),
		newResolveDiscordCmd(),
	)

	return cmd
}

func newResolveMinecraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "minecraft <name|uuid>",
		Short: "Resolve a Minecraft profile",
		Long:  "Resolve a Minecraft username or UUID to a profile. The primary provider is tried first, then the fallback.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			profile, err := a.Minecraft.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.OK(profile, output.WithSummary(fmt.Sprintf("%s is %s", profile.Name, profile.ID)))
		},
	}
}

func newResolveDiscordCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "discord",
		Short: "Resolve the Discord profile behind an OAuth token",
		Long:  "Resolve a Discord profile. The token is the Discord user's own OAuth token, not the Impact credential.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			user, err := a.Discord.CurrentUser(cmd.Context(), token)
			if err != nil {
				return err
			}
			return a.OK(user, output.WithSummary(user.Tag))
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Discord OAuth bearer token (required)")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}
