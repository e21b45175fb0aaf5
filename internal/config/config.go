// Package config loads LineCut settings from defaults, a YAML file, LINECUT_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/piwi3910/LineCut/internal/logging"
	"github.com/piwi3910/LineCut/internal/model"
)

// EnvPrefix is prepended to every environment key: server.addr reads
// LINECUT_SERVER_ADDR.
const EnvPrefix = "LINECUT"

// DefaultFileName is the config file looked up in the home directory.
const DefaultFileName = ".linecut.yaml"

// Config is the complete runtime configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Defaults  DefaultsConfig  `mapstructure:"defaults" yaml:"defaults"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	AuthToken       string        `mapstructure:"auth_token" yaml:"auth_token"`     // Empty disables authentication
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"` // Empty disables CORS headers
	RateLimit       float64       `mapstructure:"rate_limit" yaml:"rate_limit"`     // Requests per second, 0 disables
	Burst           int           `mapstructure:"burst" yaml:"burst"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint"` // OTLP/HTTP URL; empty discards spans
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// DefaultsConfig holds the cut settings used when a request or command does
// not supply its own.
type DefaultsConfig struct {
	KerfWidth       float64 `mapstructure:"kerf_width" yaml:"kerf_width"`
	TrimLeft        float64 `mapstructure:"trim_left" yaml:"trim_left"`
	TrimRight       float64 `mapstructure:"trim_right" yaml:"trim_right"`
	Units           string  `mapstructure:"units" yaml:"units"`
	MinOffcutLength float64 `mapstructure:"min_offcut_length" yaml:"min_offcut_length"`
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal even without a config file.
func SetDefaults(v *viper.Viper) {
	d := model.DefaultSettings()

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.auth_token", "")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.rate_limit", 0.0)
	v.SetDefault("server.burst", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatJSON)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "linecut")

	v.SetDefault("defaults.kerf_width", d.KerfWidth)
	v.SetDefault("defaults.trim_left", d.TrimLeft)
	v.SetDefault("defaults.trim_right", d.TrimRight)
	v.SetDefault("defaults.units", string(d.Units))
	v.SetDefault("defaults.min_offcut_length", d.MinOffcutLength)
}

// Prepare wires defaults and the environment into v and points it at the
// config file. An empty file selects ~/.linecut.yaml.
func Prepare(v *viper.Viper, file string) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		return
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, DefaultFileName))
		v.SetConfigType("yaml")
	}
}

// Load reads the config file when one exists and decodes v into a validated
// Config. A missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (Config, error) {
	Prepare(v, file)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case file == "" && errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late at runtime.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		errs = append(errs, errors.New("server.burst must be at least 1 when rate limiting is on"))
	}
	if _, err := c.Defaults.settings(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	return errors.Join(errs...)
}

// CutSettings converts the configured defaults into model settings.
func (c Config) CutSettings() model.CutSettings {
	s, err := c.Defaults.settings()
	if err != nil {
		return model.DefaultSettings()
	}
	return s
}

func (d DefaultsConfig) settings() (model.CutSettings, error) {
	unit, err := model.ParseUnit(d.Units)
	if err != nil {
		return model.CutSettings{}, err
	}
	s := model.CutSettings{
		KerfWidth:       d.KerfWidth,
		TrimLeft:        d.TrimLeft,
		TrimRight:       d.TrimRight,
		Units:           unit,
		MinOffcutLength: d.MinOffcutLength,
	}
	return s, s.Validate()
}
