package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/moneybox/internal/domain"
)

// Config holds application configuration.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	UI        UIConfig        `mapstructure:"ui"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Log       LogConfig       `mapstructure:"log"`
	Report    ReportConfig    `mapstructure:"report"`
	Demo      DemoConfig      `mapstructure:"demo"`
}

// StorageConfig selects where the state blobs live.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Dir     string `mapstructure:"dir"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat      string `mapstructure:"date_format"`
	DefaultCurrency string `mapstructure:"default_currency"`
	Timezone        string `mapstructure:"timezone"`
	Theme           string `mapstructure:"theme"`
	DefaultPeriod   string `mapstructure:"default_period"`
}

type AssistantConfig struct {
	TriggerWindow time.Duration `mapstructure:"trigger_window"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type ReportConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// DemoConfig fills an empty store with sample data on launch.
type DemoConfig struct {
	Seed  bool `mapstructure:"seed"`
	Count int  `mapstructure:"count"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "moneybox")
}

func configPath() string {
	if p := os.Getenv("MONEYBOX_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "moneybox", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix MONEYBOX_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", filepath.Join(dataDir(), "moneybox.db"))
	v.SetDefault("storage.dir", filepath.Join(dataDir(), "state"))
	v.SetDefault("ui.date_format", "2 Jan 2006")
	v.SetDefault("ui.default_currency", "₽")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.default_period", "month")
	v.SetDefault("assistant.trigger_window", "500ms")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(dataDir(), "moneybox.log"))
	v.SetDefault("report.cache_ttl", "1m")
	v.SetDefault("demo.seed", false)
	v.SetDefault("demo.count", 60)

	v.SetConfigType("toml")
	v.SetConfigFile(configPath())

	v.SetEnvPrefix("MONEYBOX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath()); statErr == nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values viper cannot type-check on its own.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	switch c.UI.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("ui.theme: want light or dark, got %q", c.UI.Theme)
	}
	if _, err := domain.ParsePeriod(c.UI.DefaultPeriod); err != nil {
		return fmt.Errorf("ui.default_period: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Assistant.TriggerWindow <= 0 {
		return fmt.Errorf("assistant.trigger_window must be positive")
	}
	return nil
}

// Location resolves ui.timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ui.timezone: %w", err)
	}
	return loc, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The TUI settings view uses it for the theme.
func Save(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.dir", cfg.Storage.Dir)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.default_currency", cfg.UI.DefaultCurrency)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.default_period", cfg.UI.DefaultPeriod)
	v.Set("assistant.trigger_window", cfg.Assistant.TriggerWindow.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("report.cache_ttl", cfg.Report.CacheTTL.String())
	v.Set("demo.seed", cfg.Demo.Seed)
	v.Set("demo.count", cfg.Demo.Count)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
