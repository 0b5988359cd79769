// Package config loads the client, session and mock backend settings.
//
// Sources, highest priority first:
//  1. an explicit path passed to Load;
//  2. CONFIG_PATH;
//  3. env vars only (cleanenv defaults fill the gaps).
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config interface {
	EnvConfig
	ClientConfig
	SessionConfig
	BackendConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars `yaml:"app"`
	Client  `yaml:"client"`
	Session `yaml:"session"`
	Backend `yaml:"backend"`
}

var _ Config = (*mainConfig)(nil)

// New reads the configuration from the environment only.
func New() Config {
	cfg, err := Load("")
	if err != nil {
		// cleanenv only fails on env values that cannot be parsed
		panic(err)
	}
	return cfg
}

// Load reads the configuration from a YAML file (when a path is given or
// CONFIG_PATH is set) and overlays env vars.
func Load(path string) (Config, error) {
	var cfg mainConfig

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("[config Load] config file %q stat failed: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("[config Load] failed to read config: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("[config Load] failed to read env: %w", err)
	}
	return &cfg, nil
}
