// Package config loads the sassbin configuration: the compiler version to
// install, an optional explicit executable path override, the release host,
// and the named invocation profiles.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/sassbin/sassbin/internal/model"
)

// DefaultVersion is the dart-sass version installed when the configuration
// does not pin one.
const DefaultVersion = "1.58.0"

// ErrUnknownProfile is returned when a requested profile name is not present
// in the configuration.
var ErrUnknownProfile = errors.New("unknown profile")

// Config holds the application configuration. It is built once at startup and
// read-only thereafter.
type Config struct {
	// Version is the dart-sass version to install and run.
	Version string `mapstructure:"version"`
	// Path overrides the resolved executable paths: one path for a native
	// binary, or an ordered pair of VM binary and snapshot. When set,
	// installation and version checking are skipped entirely.
	Path []string `mapstructure:"path"`
	// ReleaseHost overrides the upstream release-hosting URL prefix, for
	// mirrors.
	ReleaseHost string `mapstructure:"release_host"`
	// Profiles maps profile names to their invocation settings.
	Profiles map[string]ProfileConfig `mapstructure:"profiles"`
}

// ProfileConfig holds the configured settings of one invocation profile.
type ProfileConfig struct {
	// Args are the default compiler arguments.
	Args []string `mapstructure:"args"`
	// CD is the working directory for the invocation.
	CD string `mapstructure:"cd"`
	// Env is the extra environment for the invocation.
	Env map[string]string `mapstructure:"env"`
}

// Load loads the configuration from the given file, or from .sassbin.yaml in
// the working directory or the home directory when no file is given. A missing
// configuration file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", DefaultVersion)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".sassbin")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("SASSBIN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &config, nil
}

// ConfiguredVersion returns the configured compiler version.
func (c *Config) ConfiguredVersion() model.Version {
	return model.NewVersion(c.Version)
}

// Profile looks up a profile by name. It returns ErrUnknownProfile naming the
// profile when absent.
func (c *Config) Profile(name string) (model.Profile, error) {
	pc, ok := c.Profiles[name]
	if !ok {
		return model.Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}

	return model.Profile{
		Name: name,
		Args: pc.Args,
		Dir:  pc.CD,
		Env:  pc.Env,
	}, nil
}
