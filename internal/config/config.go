// Package config provides configuration management for the dividend screener.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"dividend-screener/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Screener   ScreenerConfig   `mapstructure:"screener"`
	Calendar   CalendarConfig   `mapstructure:"calendar"`
	MarketData MarketDataConfig `mapstructure:"marketdata"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ScreenerConfig holds the filter thresholds and scan window.
type ScreenerConfig struct {
	MinDollarVolume       int64   `mapstructure:"min_dollar_volume"`
	MinYieldPct           float64 `mapstructure:"min_yield_pct"`
	LookbackDays          int     `mapstructure:"lookback_days"`
	LookaheadBusinessDays int     `mapstructure:"lookahead_business_days"`
	Concurrency           int     `mapstructure:"concurrency"`
}

// CalendarConfig holds the dividend-calendar endpoint settings.
// The upstream service rejects requests without a recognizable browser
// signature, so the header values are part of the contract.
type CalendarConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	Origin         string `mapstructure:"origin"`
	Referer        string `mapstructure:"referer"`
}

// MarketDataConfig holds the price-history provider settings.
type MarketDataConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	HistoryDays    int    `mapstructure:"history_days"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/dividend-screener"
	}
	return filepath.Join(home, ".config", "dividend-screener")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Screener: ScreenerConfig{
			MinDollarVolume:       1_000_000,
			MinYieldPct:           3.0,
			LookbackDays:          1,
			LookaheadBusinessDays: 10,
			Concurrency:           1,
		},
		Calendar: CalendarConfig{
			BaseURL:        "https://api.nasdaq.com/api/calendar/dividends",
			TimeoutSeconds: 30,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
				"(KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3",
			Origin:  "https://www.nasdaq.com",
			Referer: "https://www.nasdaq.com",
		},
		MarketData: MarketDataConfig{
			BaseURL:        "https://query1.finance.yahoo.com/v8/finance/chart",
			HistoryDays:    100,
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config file yields the defaults and writes a template for editing.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("writing config template: %w", err)
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("screener.min_dollar_volume", cfg.Screener.MinDollarVolume)
	v.SetDefault("screener.min_yield_pct", cfg.Screener.MinYieldPct)
	v.SetDefault("screener.lookback_days", cfg.Screener.LookbackDays)
	v.SetDefault("screener.lookahead_business_days", cfg.Screener.LookaheadBusinessDays)
	v.SetDefault("screener.concurrency", cfg.Screener.Concurrency)
	v.SetDefault("calendar.base_url", cfg.Calendar.BaseURL)
	v.SetDefault("calendar.timeout_seconds", cfg.Calendar.TimeoutSeconds)
	v.SetDefault("calendar.user_agent", cfg.Calendar.UserAgent)
	v.SetDefault("calendar.origin", cfg.Calendar.Origin)
	v.SetDefault("calendar.referer", cfg.Calendar.Referer)
	v.SetDefault("marketdata.base_url", cfg.MarketData.BaseURL)
	v.SetDefault("marketdata.history_days", cfg.MarketData.HistoryDays)
	v.SetDefault("marketdata.timeout_seconds", cfg.MarketData.TimeoutSeconds)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCREENER_MIN_DOLLAR_VOLUME"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Screener.MinDollarVolume = n
		}
	}
	if v := os.Getenv("SCREENER_MIN_YIELD_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Screener.MinYieldPct = f
		}
	}
	if v := os.Getenv("SCREENER_CALENDAR_URL"); v != "" {
		cfg.Calendar.BaseURL = v
	}
	if v := os.Getenv("SCREENER_MARKETDATA_URL"); v != "" {
		cfg.MarketData.BaseURL = v
	}
	if v := os.Getenv("SCREENER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Screener.MinDollarVolume < 0 {
		return fmt.Errorf("min_dollar_volume must be non-negative")
	}
	if c.Screener.MinYieldPct < 0 {
		return fmt.Errorf("min_yield_pct must be non-negative")
	}
	if c.Screener.LookbackDays < 0 {
		return fmt.Errorf("lookback_days must be non-negative")
	}
	if c.Screener.LookaheadBusinessDays < 0 {
		return fmt.Errorf("lookahead_business_days must be non-negative")
	}
	if c.Screener.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if c.Calendar.BaseURL == "" {
		return fmt.Errorf("calendar base_url must not be empty")
	}
	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("marketdata base_url must not be empty")
	}
	if c.MarketData.HistoryDays < 1 {
		return fmt.Errorf("history_days must be at least 1")
	}
	return nil
}

// LogConfig converts the logging section to a logging.LogConfig.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = c.Logging.Level
	lc.Console = c.Logging.Console
	lc.File = c.Logging.File
	return lc
}
