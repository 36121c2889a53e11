// Package config loads hippocampus configuration from defaults, an optional
// YAML file and HIPPOCAMPUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Decay  DecayConfig  `mapstructure:"decay"`
	Recall RecallConfig `mapstructure:"recall"`
	Log    LogConfig    `mapstructure:"log"`
}

// StoreConfig selects where the memory log lives.
type StoreConfig struct {
	Path    string `mapstructure:"path"`
	Backend string `mapstructure:"backend"` // json or sqlite
}

// DecayConfig holds decay defaults.
type DecayConfig struct {
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// RecallConfig holds recall defaults.
type RecallConfig struct {
	TopK int `mapstructure:"top_k"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// DefaultStorePath is ~/.hippocampus/memory.json.
func DefaultStorePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hippocampus", "memory.json")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:    DefaultStorePath(),
			Backend: "json",
		},
		Decay:  DecayConfig{MaxAgeDays: 30},
		Recall: RecallConfig{TopK: 3},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// New returns a viper instance with defaults and environment binding.
// Callers bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HIPPOCAMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configPath (or searches the default locations) into v and
// unmarshals the result. A missing config file is not an error.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("hippocampus")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".hippocampus"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	switch c.Store.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid store.backend %q (must be json or sqlite)", c.Store.Backend)
	}
	if c.Decay.MaxAgeDays < 0 {
		return fmt.Errorf("decay.max_age_days must not be negative")
	}
	if c.Recall.TopK < 0 {
		return fmt.Errorf("recall.top_k must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("decay.max_age_days", d.Decay.MaxAgeDays)
	v.SetDefault("recall.top_k", d.Recall.TopK)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
