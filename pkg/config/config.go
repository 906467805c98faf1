// Package config loads dashboard settings from .env, a .plantdash config file
// and PLANTDASH_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/plantdash/pkg/climate"
)

// Route styles understood by the backend client.
const (
	RoutesREST   = "rest"
	RoutesLegacy = "legacy"
)

// Config is the resolved dashboard configuration.
type Config struct {
	Server        string        `json:"server"`
	StatePath     string        `json:"state_path"`
	LogPath       string        `json:"log_path"`
	LogLevel      string        `json:"log_level"`
	FastInterval  time.Duration `json:"fast_interval"`
	SlowInterval  time.Duration `json:"slow_interval"`
	RouteStyle    string        `json:"route_style"`
	DefaultPeriod string        `json:"default_period"`
	MetricsAddr   string        `json:"metrics_addr"`
}

// Load resolves the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	// .env only seeds the environment; variables already set win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("server", "http://raspberrypi.local:5000")
	v.SetDefault("state_path", "~/.plantdash")
	v.SetDefault("log_path", "~/.plantdash/plantdash.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("fast_interval", "60s")
	v.SetDefault("slow_interval", "30s")
	v.SetDefault("route_style", RoutesREST)
	v.SetDefault("default_period", "24h")
	v.SetDefault("metrics_addr", "")

	v.SetConfigName(".plantdash") // .yaml is implicit
	v.SetEnvPrefix("PLANTDASH")
	v.AutomaticEnv()

	if override := os.Getenv("PLANTDASH_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server:        strings.TrimRight(v.GetString("server"), "/"),
		LogLevel:      v.GetString("log_level"),
		FastInterval:  v.GetDuration("fast_interval"),
		SlowInterval:  v.GetDuration("slow_interval"),
		RouteStyle:    strings.ToLower(v.GetString("route_style")),
		DefaultPeriod: v.GetString("default_period"),
		MetricsAddr:   v.GetString("metrics_addr"),
	}

	var err error
	if cfg.StatePath, err = homedir.Expand(v.GetString("state_path")); err != nil {
		return nil, fmt.Errorf("config: expand state_path: %w", err)
	}
	if cfg.LogPath, err = homedir.Expand(v.GetString("log_path")); err != nil {
		return nil, fmt.Errorf("config: expand log_path: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the dashboard cannot run with and normalizes
// default_period to a chart period.
func (c *Config) Validate() error {
	if c.Server == "" {
		return errors.New("config: server is required")
	}
	if c.FastInterval <= 0 || c.SlowInterval <= 0 {
		return errors.New("config: refresh intervals must be positive")
	}
	switch c.RouteStyle {
	case RoutesREST, RoutesLegacy:
	default:
		return fmt.Errorf("config: unknown route_style %q", c.RouteStyle)
	}
	if c.DefaultPeriod != "" {
		period, err := climate.ParsePeriod(c.DefaultPeriod)
		if err != nil {
			return fmt.Errorf("config: default_period: %w", err)
		}
		c.DefaultPeriod = period
	}
	return nil
}
