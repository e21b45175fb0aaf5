package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LineCut/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linecut.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "linecut", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, model.DefaultSettings(), cfg.CutSettings())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9090"
  shutdown_timeout: 3s
  rate_limit: 5
  burst: 2
  cors_origins:
    - http://localhost:5173
log:
  level: debug
  format: console
defaults:
  kerf_width: 2
  trim_left: 10
  units: cm
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.InDelta(t, 5.0, cfg.Server.RateLimit, 1e-9)
	assert.Equal(t, 2, cfg.Server.Burst)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)

	s := cfg.CutSettings()
	assert.InDelta(t, 2.0, s.KerfWidth, 1e-9)
	assert.InDelta(t, 10.0, s.TrimLeft, 1e-9)
	assert.Equal(t, model.UnitCentimeter, s.Units)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":4000\"\n")
	t.Setenv("LINECUT_SERVER_ADDR", ":5000")
	t.Setenv("LINECUT_DEFAULTS_KERF_WIDTH", "1.5")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.InDelta(t, 1.5, cfg.Defaults.KerfWidth, 1e-9)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		v := viper.New()
		SetDefaults(v)
		var cfg Config
		require.NoError(t, v.Unmarshal(&cfg))
		return cfg
	}

	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }},
		{"zero burst", func(c *Config) { c.Server.RateLimit = 1; c.Server.Burst = 0 }},
		{"negative kerf", func(c *Config) { c.Defaults.KerfWidth = -0.1 }},
		{"unknown unit", func(c *Config) { c.Defaults.Units = "furlong" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
