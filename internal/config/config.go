// Package config loads and saves planfact configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all planfact configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Report     ReportConfig     `toml:"report"`
	Billing    BillingConfig    `toml:"billing"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultOwner  string `toml:"default_owner"`
	DefaultPeriod string `toml:"default_period"` // day, week, month
	DBPath        string `toml:"db_path,omitempty"`
}

// ReportConfig holds the working-day policy and cache sizing. The day
// counts are product policy, kept configurable so the projection math
// never hardcodes them.
type ReportConfig struct {
	WorkingDaysPerWeek  int `toml:"working_days_per_week"`
	WorkingDaysPerMonth int `toml:"working_days_per_month"`
	CacheEntries        int `toml:"cache_entries"`
}

// BillingConfig holds payment provider settings.
type BillingConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultOwner:  "me",
			DefaultPeriod: "week",
		},
		Report: ReportConfig{
			WorkingDaysPerWeek:  5,
			WorkingDaysPerMonth: 22,
			CacheEntries:        20,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planfact")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "planfact")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetBillingAPIKey returns the key from env var or config, in that order.
func GetBillingAPIKey(cfg Config) string {
	if key := os.Getenv("PLANFACT_BILLING_KEY"); key != "" {
		return key
	}
	return cfg.Billing.APIKey
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
