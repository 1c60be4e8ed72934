package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/edge/analytics"
	"github.com/rustyeddy/edge/audit"
	"github.com/rustyeddy/edge/insights"
	"github.com/rustyeddy/edge/risk"
	"github.com/rustyeddy/edge/scoring"
)

// Config is the complete edge configuration
type Config struct {
	Account  AccountConfig   `json:"account" yaml:"account"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
	Risk     risk.Policy     `json:"risk" yaml:"risk"`
	Audit    AuditConfig     `json:"audit" yaml:"audit"`
	Scoring  scoring.Weights `json:"scoring" yaml:"scoring"`
	Insights insights.Config `json:"insights" yaml:"insights"`
	Sim      SimConfig       `json:"sim" yaml:"sim"`
	Server   ServerConfig    `json:"server" yaml:"server"`
	Log      LogConfig       `json:"log" yaml:"log"`
}

// AccountConfig identifies the journal owner
type AccountConfig struct {
	UserID   string `json:"user_id" yaml:"user_id"`
	Currency string `json:"currency" yaml:"currency"`
	// Timezone is used to bucket trades by weekday, e.g. "America/New_York".
	Timezone string `json:"timezone" yaml:"timezone"`
}

// JournalConfig locates the trade journal
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// AuditConfig holds the behavioral rule thresholds. Windows are
// duration strings such as "1h" or "24h".
type AuditConfig struct {
	RevengeWindow      string  `json:"revenge_window" yaml:"revenge_window"`
	OvertradingWindow  string  `json:"overtrading_window" yaml:"overtrading_window"`
	MaxTradesPerWindow int     `json:"max_trades_per_window" yaml:"max_trades_per_window"`
	LossStreak         int     `json:"loss_streak" yaml:"loss_streak"`
	MaxDrawdownPercent float64 `json:"max_drawdown_percent" yaml:"max_drawdown_percent"`
	AlertWeight        float64 `json:"alert_weight" yaml:"alert_weight"`
}

// SimConfig bounds the Monte Carlo work of a single request
type SimConfig struct {
	MaxOps int   `json:"max_ops" yaml:"max_ops"`
	Seed   int64 `json:"seed" yaml:"seed"` // 0 seeds from the clock
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text or json
}

// ToAudit converts the duration strings into an audit.Config
func (a AuditConfig) ToAudit() (audit.Config, error) {
	revenge, err := time.ParseDuration(a.RevengeWindow)
	if err != nil {
		return audit.Config{}, fmt.Errorf("audit.revenge_window: %w", err)
	}
	window, err := time.ParseDuration(a.OvertradingWindow)
	if err != nil {
		return audit.Config{}, fmt.Errorf("audit.overtrading_window: %w", err)
	}
	return audit.Config{
		RevengeWindow:      revenge,
		OvertradingWindow:  window,
		MaxTradesPerWindow: a.MaxTradesPerWindow,
		LossStreak:         a.LossStreak,
		MaxDrawdownPercent: a.MaxDrawdownPercent,
		AlertWeight:        a.AlertWeight,
	}, nil
}

// Location loads the account timezone, UTC when unset
func (c *Config) Location() (*time.Location, error) {
	if c.Account.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Account.Timezone)
	if err != nil {
		return nil, fmt.Errorf("account.timezone: %w", err)
	}
	return loc, nil
}

// Settings builds the analytics settings described by c
func (c *Config) Settings() (analytics.Settings, error) {
	a, err := c.Audit.ToAudit()
	if err != nil {
		return analytics.Settings{}, err
	}
	loc, err := c.Location()
	if err != nil {
		return analytics.Settings{}, err
	}
	s := analytics.DefaultSettings()
	s.Audit = a
	s.Insights = c.Insights
	s.Weights = c.Scoring
	s.Location = loc
	return s, nil
}

// LoadFromFile loads configuration from a file, JSON for .json, YAML
// for .yaml/.yml and either for anything else. Fields missing from the
// file keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML config: %w", err)
		}
	default:
		// Try YAML first, fall back to JSON
		if err := yaml.Unmarshal(data, cfg); err != nil {
			cfg = Default()
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file, YAML for .yaml/.yml and
// JSON otherwise
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Account.UserID) == "" {
		return fmt.Errorf("account.user_id is required")
	}
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}

	if c.Risk.DefaultRiskPercent <= 0 || c.Risk.DefaultRiskPercent > 100 {
		return fmt.Errorf("risk.default_risk_percent must be between 0 and 100")
	}
	if c.Risk.MaxRiskPercent < c.Risk.DefaultRiskPercent || c.Risk.MaxRiskPercent > 100 {
		return fmt.Errorf("risk.max_risk_percent must be between default_risk_percent and 100")
	}
	if c.Risk.MinRR < 0 || c.Risk.MaxLots < 0 {
		return fmt.Errorf("risk.min_rr and risk.max_lots must not be negative")
	}

	a, err := c.Audit.ToAudit()
	if err != nil {
		return err
	}
	if a.RevengeWindow <= 0 || a.OvertradingWindow <= 0 {
		return fmt.Errorf("audit windows must be positive")
	}
	if a.MaxTradesPerWindow <= 0 {
		return fmt.Errorf("audit.max_trades_per_window must be positive")
	}
	if a.LossStreak <= 0 {
		return fmt.Errorf("audit.loss_streak must be positive")
	}
	if a.MaxDrawdownPercent <= 0 || a.MaxDrawdownPercent > 100 {
		return fmt.Errorf("audit.max_drawdown_percent must be between 0 and 100")
	}
	if a.AlertWeight < 0 || a.AlertWeight > 100 {
		return fmt.Errorf("audit.alert_weight must be between 0 and 100")
	}

	if c.Scoring.ProfitFactorCap <= 0 {
		return fmt.Errorf("scoring.profit_factor_cap must be positive")
	}
	if c.Scoring.DrawdownPenalty < 0 {
		return fmt.Errorf("scoring.drawdown_penalty must not be negative")
	}

	if c.Insights.MinWeekdaySamples <= 0 {
		return fmt.Errorf("insights.min_weekday_samples must be positive")
	}
	if c.Insights.WeekdayGap < 0 || c.Insights.WeekdayGap > 100 {
		return fmt.Errorf("insights.weekday_gap must be between 0 and 100")
	}
	if c.Insights.StrongWinRate < 0 || c.Insights.StrongWinRate > 100 {
		return fmt.Errorf("insights.strong_win_rate must be between 0 and 100")
	}

	if c.Sim.MaxOps < 0 {
		return fmt.Errorf("sim.max_ops must not be negative")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			UserID:   "default",
			Currency: "USD",
			Timezone: "UTC",
		},
		Journal: JournalConfig{
			DBPath: "./edge.db",
		},
		Risk: risk.DefaultPolicy(),
		Audit: AuditConfig{
			RevengeWindow:      "1h",
			OvertradingWindow:  "24h",
			MaxTradesPerWindow: 8,
			LossStreak:         4,
			MaxDrawdownPercent: 15,
			AlertWeight:        15,
		},
		Scoring:  scoring.DefaultWeights(),
		Insights: insights.DefaultConfig(),
		Sim: SimConfig{
			MaxOps: 5_000_000,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
