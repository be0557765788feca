// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package config loads the portal's settings with viper: a YAML file
// (default ~/.pwdportal/config.yaml) overridden by PWDPORTAL_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/taibuivan/pwdregistry/internal/guard"
)

// EnvPrefix namespaces environment overrides, e.g. PWDPORTAL_API_URL.
const EnvPrefix = "PWDPORTAL"

// Config is the complete portal configuration.
type Config struct {
	APIURL      string        `mapstructure:"api_url"`
	SessionFile string        `mapstructure:"session_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Routes      RoutesConfig  `mapstructure:"routes"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// RoutesConfig tunes navigation. Role names are compared case-insensitively.
type RoutesConfig struct {
	SignIn   string `mapstructure:"sign_in"`
	Fallback string `mapstructure:"fallback"`

	// Redirects maps a role to the route a denied user of that role lands on.
	Redirects map[string]string `mapstructure:"redirects"`

	// Roles overrides the roles a route requires, by route path.
	Roles map[string][]string `mapstructure:"roles"`

	// MaxHops bounds redirect chains.
	MaxHops int `mapstructure:"max_hops"`
}

// LoggingConfig selects the log level (debug, info, warn, error).
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultDir is where the portal keeps its files, under the home directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pwdportal"
	}
	return filepath.Join(home, ".pwdportal")
}

// Load reads cfgFile, or config.yaml from the default directory and the
// working directory when cfgFile is empty. A missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("session_file", filepath.Join(DefaultDir(), "session.yaml"))
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("routes.sign_in", guard.RouteSignIn)
	v.SetDefault("routes.fallback", guard.RouteFallback)
	v.SetDefault("routes.redirects", map[string]string{
		guard.RoleAdmin: guard.RouteAdmin,
		guard.RoleUser:  guard.RouteUser,
	})
	v.SetDefault("routes.max_hops", 4)
	v.SetDefault("logging.level", "warn")
}

func validate(cfg *Config) error {
	if cfg.APIURL == "" {
		return errors.New("api_url is required")
	}
	if cfg.SessionFile == "" {
		return errors.New("session_file is required")
	}
	if cfg.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if cfg.Routes.MaxHops < 1 {
		return errors.New("routes.max_hops must be at least 1")
	}
	for role, route := range cfg.Routes.Redirects {
		if !strings.HasPrefix(route, "/") {
			return fmt.Errorf("routes.redirects.%s must be an absolute route", role)
		}
	}
	return nil
}

// Policy builds the access-guard policy from the route settings.
func (cfg *Config) Policy() guard.Policy {
	return guard.Policy{
		SignInRoute: cfg.Routes.SignIn,
		Redirects:   guard.NewRedirectTable(cfg.Routes.Redirects, cfg.Routes.Fallback),
	}
}
