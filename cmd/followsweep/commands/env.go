package commands

import (
	"context"

	"github.com/johanforsgren/followsweep/internal/bulk"
	"github.com/johanforsgren/followsweep/internal/config"
	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/graph"
	"github.com/johanforsgren/followsweep/internal/logger"
	"github.com/johanforsgren/followsweep/internal/provider/github"
	"github.com/johanforsgren/followsweep/internal/storage"
	"go.trai.ch/zerr"
)

// Options are the global flags.
type Options struct {
	ConfigPath    string
	ExclusionPath string
	LogPath       string
}

// Env holds the collaborators a command works with.
type Env struct {
	Client domain.GraphClient
	Store  *storage.LocalExclusionStore
	Cache  *graph.Cache
}

func (e *Env) NewCoordinator(opts ...bulk.Option) *bulk.Coordinator {
	return bulk.NewCoordinator(e.Client, e.Cache, opts...)
}

// EnvFactory builds the Env for one invocation.
type EnvFactory func(ctx context.Context, opts Options) (*Env, error)

// DefaultEnv reads the config file, opens the log and exclusion list, and
// creates the GitHub client. Flags take precedence over the config file.
func DefaultEnv(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logPath := cfg.LogPath
	if opts.LogPath != "" {
		logPath = opts.LogPath
	}
	if err := logger.Init(logPath); err != nil {
		return nil, zerr.Wrap(err, "failed to initialize logger")
	}

	exclusionPath := cfg.ExclusionPath
	if opts.ExclusionPath != "" {
		exclusionPath = opts.ExclusionPath
	}
	store, err := storage.NewLocalExclusionStore(exclusionPath)
	if err != nil {
		return nil, err
	}

	client, err := github.NewProvider(cfg.Token(), github.ClientOptions{
		BaseURL:  cfg.APIBaseURL,
		PageSize: cfg.PageSize,
		LogHTTP:  cfg.LogHTTP,
	})
	if err != nil {
		return nil, err
	}

	logger.Log("followsweep starting (token from $%s, exclusions at %s)", cfg.TokenEnv, store.Path())
	return &Env{
		Client: client,
		Store:  store,
		Cache:  graph.NewCache(),
	}, nil
}
