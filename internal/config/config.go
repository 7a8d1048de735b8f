// Package config loads the followsweep settings file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/johanforsgren/followsweep/internal/logger"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	DirName         = ".followsweep"
	FileName        = "config.yaml"
	DefaultTokenEnv = "GITHUB_TOKEN"
	logFileName     = "followsweep.log"
)

// Config mirrors ~/.followsweep/config.yaml. Zero values fall back to defaults.
type Config struct {
	TokenEnv      string `yaml:"token_env"`
	ExclusionPath string `yaml:"exclusion_path"`
	LogPath       string `yaml:"log_path"`
	PageSize      int    `yaml:"page_size"`
	APIBaseURL    string `yaml:"api_base_url"`
	LogHTTP       bool   `yaml:"log_http"`
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, DirName, FileName), nil
}

// Load reads the file at path, or the default location when path is empty.
// A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Log("No config at %s, using defaults", path)
	case err != nil:
		return Config{}, zerr.With(zerr.Wrap(err, "failed to read config"), "path", path)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, zerr.With(zerr.Wrap(err, "failed to parse config"), "path", path)
		}
		logger.Log("Config loaded from %s", path)
	}

	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.TokenEnv == "" {
		c.TokenEnv = DefaultTokenEnv
	}
	if c.PageSize < 0 || c.PageSize > 100 {
		return zerr.With(zerr.New("page_size must be between 1 and 100"), "page_size", c.PageSize)
	}

	var err error
	if c.ExclusionPath, err = expandHome(c.ExclusionPath); err != nil {
		return err
	}
	if c.LogPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return zerr.Wrap(err, "failed to get home directory")
		}
		c.LogPath = filepath.Join(home, DirName, logFileName)
	}
	c.LogPath, err = expandHome(c.LogPath)
	return err
}

// Token returns the API token from the configured environment variable.
func (c Config) Token() string {
	return strings.TrimSpace(os.Getenv(c.TokenEnv))
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
