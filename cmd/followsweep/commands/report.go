package commands

import (
	"fmt"
	"io"

	"github.com/johanforsgren/followsweep/internal/diff"
	"github.com/spf13/cobra"
)

func (c *CLI) newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print candidates without changing anything",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "non-followers",
		Short: "Accounts you follow that do not follow you back, minus excluded users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			overview, err := env.NewCoordinator().Overview(cmd.Context(), env.Store.Snapshot().Users)
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(), diff.Logins(overview.NonFollowers))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "follow-back",
		Short: "Followers you do not follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			logins, err := env.NewCoordinator().NotFollowedBack(cmd.Context())
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(), logins)
			return nil
		},
	})

	starred := &cobra.Command{
		Use:   "starred",
		Short: "Starred repositories that an unstar run would remove",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")

			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			repos, err := env.NewCoordinator().Starred(cmd.Context())
			if err != nil {
				return err
			}

			names := diff.FullNames(repos)
			if !all {
				names = diff.UnstarCandidates(names, env.Store.Snapshot().Repos)
			}
			printLines(cmd.OutOrStdout(), names)
			return nil
		},
	}
	starred.Flags().BoolP("all", "a", false, "Include excluded repositories")
	cmd.AddCommand(starred)

	return cmd
}

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
}
