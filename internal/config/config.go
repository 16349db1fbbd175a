package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"StockView/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		Provider string        `yaml:"provider"` // yahoo, rest or mock
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Defaults struct {
		Ticker   string `yaml:"ticker"`
		Period   string `yaml:"period"`
		Interval string `yaml:"interval"`
	} `yaml:"defaults"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		AlertCron   string `yaml:"alert_cron"`
	} `yaml:"schedule"`
	Alerts struct {
		Watchlist []string `yaml:"watchlist"`
	} `yaml:"alerts"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// envOverrides is read with prefix STOCKVIEW. Each variable also falls
// back to its bare name, so TELEGRAM_BOT_TOKEN works as well as
// STOCKVIEW_TELEGRAM_BOT_TOKEN.
type envOverrides struct {
	Addr        string        `envconfig:"ADDR"`
	Provider    string        `envconfig:"PROVIDER"`
	BaseURL     string        `envconfig:"DATA_BASE_URL"`
	APIKey      string        `envconfig:"DATA_API_KEY"`
	Timeout     time.Duration `envconfig:"FETCH_TIMEOUT"`
	CatalogPath string        `envconfig:"CATALOG_PATH"`
	RefreshCron string        `envconfig:"CRON_REFRESH"`
	AlertCron   string        `envconfig:"CRON_ALERT"`
	Watchlist   []string      `envconfig:"WATCHLIST"`
	BotToken    string        `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID      string        `envconfig:"TELEGRAM_CHAT_ID"`
	SQLitePath  string        `envconfig:"SQLITE_PATH"`
	Proxy       string        `envconfig:"HTTPS_PROXY"`
}

func setIf[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
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

	var env envOverrides
	if err := envconfig.Process("stockview", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	setIf(&cfg.Server.Addr, env.Addr)
	setIf(&cfg.DataSource.Provider, env.Provider)
	setIf(&cfg.DataSource.BaseURL, env.BaseURL)
	setIf(&cfg.DataSource.APIKey, env.APIKey)
	setIf(&cfg.DataSource.Timeout, env.Timeout)
	setIf(&cfg.Catalog.Path, env.CatalogPath)
	setIf(&cfg.Schedule.RefreshCron, env.RefreshCron)
	setIf(&cfg.Schedule.AlertCron, env.AlertCron)
	setIf(&cfg.Telegram.BotToken, env.BotToken)
	setIf(&cfg.Telegram.ChatID, env.ChatID)
	setIf(&cfg.Database.SQLitePath, env.SQLitePath)
	setIf(&cfg.Proxy, env.Proxy)
	if len(env.Watchlist) > 0 {
		cfg.Alerts.Watchlist = env.Watchlist
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8050"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "data/tickers.csv"
	}
	if cfg.Defaults.Ticker == "" {
		cfg.Defaults.Ticker = "^NSEI"
	}
	if cfg.Defaults.Period == "" {
		cfg.Defaults.Period = string(model.Period1y)
	}
	if cfg.Defaults.Interval == "" {
		cfg.Defaults.Interval = string(model.Interval1d)
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "@every 30s"
	}
	if cfg.Schedule.AlertCron == "" {
		cfg.Schedule.AlertCron = "0 0 16 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockview.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, mock", c.DataSource.Provider)
	}
	if c.DataSource.Timeout <= 0 {
		return fmt.Errorf("data_source.timeout must be positive")
	}
	if c.Defaults.Ticker == "" {
		return fmt.Errorf("defaults.ticker is required")
	}
	if _, err := model.ParsePeriod(c.Defaults.Period); err != nil {
		return fmt.Errorf("defaults.period: %w", err)
	}
	if _, err := model.ParseInterval(c.Defaults.Interval); err != nil {
		return fmt.Errorf("defaults.interval: %w", err)
	}
	if c.Schedule.RefreshCron == "" {
		return fmt.Errorf("schedule.refresh_cron is required")
	}
	return nil
}

// AlertsEnabled reports whether the pattern scan has a watchlist and a
// Telegram destination.
func (c *Config) AlertsEnabled() bool {
	return len(c.Alerts.Watchlist) > 0 && c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
