package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // market time zone must resolve without a system zoneinfo

	"StockCompare/internal/date"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		Name              string  `yaml:"name"` // "tdameritrade", "yahoo" or "mock"
		BaseURL           string  `yaml:"base_url"`
		APIKey            string  `yaml:"api_key"`
		RequestsPerMinute int     `yaml:"requests_per_minute"`
		Cache             bool    `yaml:"cache"`
		CacheDir          string  `yaml:"cache_dir"`
		Timezone          string  `yaml:"timezone"`
		MockPrice         float64 `yaml:"mock_price"`
	} `yaml:"provider"`
	Comparison struct {
		Tickers   []string `yaml:"tickers"`
		StartDate string   `yaml:"start_date"` // mm/dd/yyyy
		EndDate   string   `yaml:"end_date"`   // mm/dd/yyyy, empty means today
		Amount    float64  `yaml:"amount"`
	} `yaml:"comparison"`
	Chart struct {
		Path   string  `yaml:"path"`
		Width  float64 `yaml:"width_in"`
		Height float64 `yaml:"height_in"`
	} `yaml:"chart"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy    string `yaml:"proxy"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TDA_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("TDA_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("PRICE_PROVIDER"); v != "" {
		cfg.Provider.Name = v
	}
	if v := os.Getenv("MARKET_TIMEZONE"); v != "" {
		cfg.Provider.Timezone = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_WATCH"); v != "" {
		cfg.Schedule.WatchCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("COMPARE_TICKERS"); v != "" {
		cfg.Comparison.Tickers = SplitTickers(v)
	}
	if v := os.Getenv("COMPARE_AMOUNT"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Comparison.Amount = amount
		}
	}

	// Defaults
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = "tdameritrade"
	}
	if cfg.Provider.Timezone == "" {
		cfg.Provider.Timezone = "America/New_York"
	}
	if cfg.Provider.RequestsPerMinute == 0 {
		cfg.Provider.RequestsPerMinute = 120
	}
	if cfg.Provider.MockPrice == 0 {
		cfg.Provider.MockPrice = 100
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 10
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 6
	}
	if cfg.Schedule.WatchCron == "" {
		cfg.Schedule.WatchCron = "0 30 17 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockcompare.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that the provider settings are usable.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "tdameritrade":
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider.api_key is required")
		}
	case "yahoo", "mock":
	default:
		return fmt.Errorf("provider.name %q is not supported", c.Provider.Name)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("provider.timezone: %w", err)
	}
	if c.Comparison.Amount < 0 {
		return fmt.Errorf("comparison.amount must be positive")
	}
	for _, s := range []string{c.Comparison.StartDate, c.Comparison.EndDate} {
		if s == "" {
			continue
		}
		if _, err := date.ParseUS(s); err != nil {
			return fmt.Errorf("comparison: %w", err)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Location returns the market time zone used to date candles.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Provider.Timezone)
}

// SplitTickers parses a comma or space separated ticker list.
func SplitTickers(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToUpper(f))
	}
	return out
}
