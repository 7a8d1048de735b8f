package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/johanforsgren/followsweep/internal/bulk"
	"github.com/johanforsgren/followsweep/internal/diff"
	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/provider/common"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newUnfollowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unfollow",
		Short: "Unfollow every non-follower that is not excluded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			coordinator := env.NewCoordinator()
			excluded := env.Store.Snapshot().Users

			if dryRun {
				overview, err := coordinator.Overview(cmd.Context(), excluded)
				if err != nil {
					return err
				}
				printLines(cmd.OutOrStdout(), diff.Logins(overview.NonFollowers))
				return nil
			}

			handle, err := coordinator.StartUnfollow(cmd.Context(), excluded)
			if err != nil {
				return err
			}
			return report(cmd, handle)
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Print the accounts that would be unfollowed")
	return cmd
}

func (c *CLI) newFollowBackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow-back",
		Short: "Follow every follower you do not follow yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			coordinator := env.NewCoordinator()

			if dryRun {
				logins, err := coordinator.NotFollowedBack(cmd.Context())
				if err != nil {
					return err
				}
				printLines(cmd.OutOrStdout(), logins)
				return nil
			}

			handle, err := coordinator.StartFollowBack(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, handle)
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Print the accounts that would be followed")
	return cmd
}

func (c *CLI) newUnstarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unstar",
		Short: "Unstar every starred repository that is not excluded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			keep, _ := cmd.Flags().GetStringSlice("keep")

			for _, fullName := range keep {
				if _, _, err := common.ParseRepositoryFullName(fullName); err != nil {
					return err
				}
			}

			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}

			// Kept repositories become exclusions before the run snapshots them.
			for _, fullName := range keep {
				if err := env.Store.AddRepo(fullName); err != nil {
					return zerr.With(zerr.Wrap(err, "failed to exclude repository"), "repo", fullName)
				}
			}

			coordinator := env.NewCoordinator()
			excluded := env.Store.Snapshot().Repos

			if dryRun {
				repos, err := coordinator.Starred(cmd.Context())
				if err != nil {
					return err
				}
				printLines(cmd.OutOrStdout(), diff.UnstarCandidates(diff.FullNames(repos), excluded))
				return nil
			}

			handle, err := coordinator.StartUnstar(cmd.Context(), nil, excluded)
			if err != nil {
				return err
			}
			return report(cmd, handle)
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Print the repositories that would be unstarred")
	cmd.Flags().StringSliceP("keep", "k", nil, "Exclude these repositories (owner/name) before unstarring")
	return cmd
}

// report waits for the run and prints its outcome. The run context derives
// from the command context, so an interrupt stops it between mutations.
func report(cmd *cobra.Command, handle *bulk.RunHandle) error {
	<-handle.Done()
	result := handle.Result()

	printSummary(cmd.OutOrStdout(), result)
	for _, failure := range result.Failures {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", failure.Target, common.ExtractErrorMessage(failure.Err))
	}

	if result.Failed() {
		return zerr.With(zerr.Wrap(result.Err, "run aborted"), "run", result.RunID)
	}
	return nil
}

func printSummary(w io.Writer, result domain.RunResult) {
	var verb string
	switch result.Kind {
	case domain.RunUnfollow:
		verb = "Unfollowed"
	case domain.RunFollowBack:
		verb = "Followed"
	case domain.RunUnstar:
		verb = "Unstarred"
	}

	_, _ = fmt.Fprintf(w, "%s %d of %d (%d failed) in %s\n",
		verb, result.Succeeded, result.Attempted, len(result.Failures),
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
}
