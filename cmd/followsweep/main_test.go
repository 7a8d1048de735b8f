package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/johanforsgren/followsweep/cmd/followsweep/commands"
	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	failing := func(context.Context, commands.Options) (*commands.Env, error) {
		return nil, errors.New("no token")
	}

	t.Run("help exits zero", func(t *testing.T) {
		stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
		code := run(context.Background(), []string{"--help"}, stdout, stderr, failing)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), "followsweep")
	})

	t.Run("errors exit one", func(t *testing.T) {
		stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
		code := run(context.Background(), []string{"report", "follow-back"}, stdout, stderr, failing)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "Error: no token")
	})
}
