// Package main is the entry point for followsweep.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/johanforsgren/followsweep/cmd/followsweep/commands"
	"github.com/johanforsgren/followsweep/internal/logger"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, commands.DefaultEnv))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, factory commands.EnvFactory) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer logger.Close()

	cli := commands.New(factory)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	return 0
}
