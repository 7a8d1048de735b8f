// Package commands implements the followsweep command line.
package commands

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/followsweep/internal/bulk"
	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/logger"
	"github.com/johanforsgren/followsweep/internal/ui"
	"github.com/spf13/cobra"
)

// CLI represents the followsweep command line interface.
type CLI struct {
	factory EnvFactory
	opts    Options
	rootCmd *cobra.Command

	// runTUI is swapped out in tests.
	runTUI func(ctx context.Context, env *Env) error
}

func New(factory EnvFactory) *CLI {
	c := &CLI{
		factory: factory,
		runTUI:  runProgram,
	}

	rootCmd := &cobra.Command{
		Use:           "followsweep",
		Short:         "Find and clean up one-sided follows and stale stars on GitHub",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.env(cmd.Context())
			if err != nil {
				return err
			}
			return c.runTUI(cmd.Context(), env)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.opts.ConfigPath, "config", "", "Config file (default ~/.followsweep/config.yaml)")
	flags.StringVar(&c.opts.ExclusionPath, "exclusions", "", "Exclusion list file (default ~/.followsweep/exclude_list.json)")
	flags.StringVar(&c.opts.LogPath, "log-file", "", "Log file (default ~/.followsweep/followsweep.log)")

	rootCmd.AddCommand(c.newReportCmd())
	rootCmd.AddCommand(c.newUnfollowCmd())
	rootCmd.AddCommand(c.newFollowBackCmd())
	rootCmd.AddCommand(c.newUnstarCmd())
	rootCmd.AddCommand(c.newExcludeCmd())

	c.rootCmd = rootCmd
	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) env(ctx context.Context) (*Env, error) {
	return c.factory(ctx, c.opts)
}

// runProgram starts the TUI. Run results and external edits of the
// exclusion file are forwarded to the program as messages.
func runProgram(ctx context.Context, env *Env) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program
	coordinator := env.NewCoordinator(bulk.WithNotifier(func(result domain.RunResult) {
		program.Send(ui.RunFinishedMsg{Result: result})
	}))

	model := ui.NewModel(ui.Deps{
		Client:      env.Client,
		Coordinator: coordinator,
		Exclusions:  env.Store,
		Context:     ctx,
	})
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		err := env.Store.Watch(ctx, func(list domain.ExclusionList) {
			program.Send(ui.ExclusionsChangedMsg{List: list})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.LogError("WATCH", env.Store.Path(), err)
		}
	}()

	_, err := program.Run()
	return err
}
