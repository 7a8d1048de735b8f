package commands

import (
	"fmt"

	"github.com/johanforsgren/followsweep/internal/provider/common"
	"github.com/spf13/cobra"
)

func (c *CLI) newExcludeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exclude",
		Short: "Manage the exclusion list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print excluded users and repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			list := env.Store.Snapshot()
			out := cmd.OutOrStdout()
			for _, login := range list.Users.Sorted() {
				_, _ = fmt.Fprintln(out, "user", login)
			}
			for _, fullName := range list.Repos.Sorted() {
				_, _ = fmt.Fprintln(out, "repo", fullName)
			}
			return nil
		},
	})

	cmd.AddCommand(c.newExcludeEditCmd("add-user", "Exclude users from unfollow runs", common.ValidateLogin,
		func(env *Env, login string) error { return env.Store.AddUser(login) }))
	cmd.AddCommand(c.newExcludeEditCmd("remove-user", "Stop excluding users", common.ValidateLogin,
		func(env *Env, login string) error { return env.Store.RemoveUser(login) }))
	cmd.AddCommand(c.newExcludeEditCmd("add-repo", "Exclude repositories from unstar runs", validateFullName,
		func(env *Env, fullName string) error { return env.Store.AddRepo(fullName) }))
	cmd.AddCommand(c.newExcludeEditCmd("remove-repo", "Stop excluding repositories", validateFullName,
		func(env *Env, fullName string) error { return env.Store.RemoveRepo(fullName) }))

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every exclusion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			return env.Store.Clear()
		},
	})

	return cmd
}

// newExcludeEditCmd builds a subcommand that validates every argument before
// applying any of them.
func (c *CLI) newExcludeEditCmd(use, short string, validate func(string) error, apply func(*Env, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if err := validate(arg); err != nil {
					return err
				}
			}

			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			for _, arg := range args {
				if err := apply(env, arg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func validateFullName(fullName string) error {
	_, _, err := common.ParseRepositoryFullName(fullName)
	return err
}
