// Package config loads pdmix settings: defaults, then an optional YAML file,
// then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/logging"
)

// #region config
// Config holds every tunable used by the pdmix binary.
type Config struct {
	Rounds      int         `yaml:"rounds"`
	Seed        uint64      `yaml:"seed"`
	CoopMin     float64     `yaml:"coop_min"`
	CoopMax     float64     `yaml:"coop_max"`
	Games       int         `yaml:"games"`
	Workers     int         `yaml:"workers"`
	Payoff      game.Payoff `yaml:"payoff"`
	DBPath      string      `yaml:"db_path"`
	GRPCAddr    string      `yaml:"grpc_addr"`
	MetricsAddr string      `yaml:"metrics_addr"`
	LogLevel    string      `yaml:"log_level"`
	LogFormat   string      `yaml:"log_format"`
}

// Default returns the built-in settings. Seed 0 means "pick one at runtime".
func Default() Config {
	return Config{
		Rounds:      10,
		CoopMin:     0.5,
		CoopMax:     0.9,
		Games:       10,
		Workers:     4,
		Payoff:      game.DefaultPayoff(),
		DBPath:      "pdmix.db",
		GRPCAddr:    "localhost:50061",
		MetricsAddr: "localhost:9108",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// #endregion config

// #region load
// Load builds a Config. path may be empty; a missing file is an error only
// when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.DBPath = envOr("PDMIX_DB", c.DBPath)
	c.GRPCAddr = envOr("PDMIX_GRPC_ADDR", c.GRPCAddr)
	c.MetricsAddr = envOr("PDMIX_METRICS_ADDR", c.MetricsAddr)
	c.LogLevel = envOr("PDMIX_LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("PDMIX_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("PDMIX_SEED: %w", err)
		}
		c.Seed = seed
	}
	return nil
}

// #endregion load

// #region validate
// Validate checks ranges. It reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.Rounds < 2 {
		errs = append(errs, fmt.Errorf("rounds must be >= 2, got %d", c.Rounds))
	}
	if c.CoopMin < 0 || c.CoopMax > 1 || c.CoopMin > c.CoopMax {
		errs = append(errs, fmt.Errorf("coop range [%v, %v] must satisfy 0 <= min <= max <= 1", c.CoopMin, c.CoopMax))
	}
	if c.Games < 1 {
		errs = append(errs, fmt.Errorf("games must be >= 1, got %d", c.Games))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// #endregion validate

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
