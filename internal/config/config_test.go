package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.Ticker != "^NSEI" || cfg.Defaults.Period != "1y" || cfg.Defaults.Interval != "1d" {
		t.Errorf("unexpected chart defaults: %+v", cfg.Defaults)
	}
	if cfg.Schedule.RefreshCron != "@every 30s" {
		t.Errorf("expected 30s refresh, got %q", cfg.Schedule.RefreshCron)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.DataSource.Timeout != 30*time.Second {
		t.Errorf("unexpected data source defaults: %+v", cfg.DataSource)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.AlertsEnabled() {
		t.Error("alerts must be disabled without a watchlist")
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
data_source:
  provider: rest
  base_url: http://bars.local
  timeout: 5s
defaults:
  ticker: RELIANCE.NS
  period: 6mo
alerts:
  watchlist: [INFY.NS]
telegram:
  bot_token: file-token
  chat_id: "42"
`)
	t.Setenv("STOCKVIEW_TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("SQLITE_PATH", "/tmp/sv.db")
	t.Setenv("STOCKVIEW_WATCHLIST", "TCS.NS,HDFCBANK.NS")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr from file, got %q", cfg.Server.Addr)
	}
	if cfg.DataSource.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.DataSource.Timeout)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("expected environment to override token, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Database.SQLitePath != "/tmp/sv.db" {
		t.Errorf("expected bare variable name to apply, got %q", cfg.Database.SQLitePath)
	}
	if strings.Join(cfg.Alerts.Watchlist, ",") != "TCS.NS,HDFCBANK.NS" {
		t.Errorf("unexpected watchlist %v", cfg.Alerts.Watchlist)
	}
	if cfg.Defaults.Period != "6mo" || cfg.Defaults.Interval != "1d" {
		t.Errorf("unexpected defaults %+v", cfg.Defaults)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if !cfg.AlertsEnabled() {
		t.Error("expected alerts enabled")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest" }, "base_url"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, "provider"},
		{"bad period", func(c *Config) { c.Defaults.Period = "2y" }, "defaults.period"},
		{"bad interval", func(c *Config) { c.Defaults.Interval = "4h" }, "defaults.interval"},
		{"empty ticker", func(c *Config) { c.Defaults.Ticker = "" }, "defaults.ticker"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
