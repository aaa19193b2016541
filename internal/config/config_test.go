package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pdmix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
rounds: 20
seed: 7
workers: 2
payoff:
  reward: 4
  temptation: 6
  sucker: 0
  punishment: 1
log_format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Rounds)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 4, cfg.Payoff.Reward)
	assert.Equal(t, "json", cfg.LogFormat)
	// Untouched fields keep their defaults.
	assert.Equal(t, 10, cfg.Games)
	assert.Equal(t, "pdmix.db", cfg.DBPath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "db_path: from-file.db\n")
	t.Setenv("PDMIX_DB", "from-env.db")
	t.Setenv("PDMIX_GRPC_ADDR", "0.0.0.0:6000")
	t.Setenv("PDMIX_SEED", "99")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "0.0.0.0:6000", cfg.GRPCAddr)
	assert.Equal(t, uint64(99), cfg.Seed)
}

func TestLoad_BadSeedEnv(t *testing.T) {
	t.Setenv("PDMIX_SEED", "abc")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "rounds: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"rounds", func(c *Config) { c.Rounds = 1 }, "rounds"},
		{"coop-range", func(c *Config) { c.CoopMin, c.CoopMax = 0.9, 0.1 }, "coop range"},
		{"coop-above-one", func(c *Config) { c.CoopMax = 1.5 }, "coop range"},
		{"games", func(c *Config) { c.Games = 0 }, "games"},
		{"workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"log-level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"log-format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Rounds = 0
	cfg.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rounds")
	assert.Contains(t, err.Error(), "workers")
}
