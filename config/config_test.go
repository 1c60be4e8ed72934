package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	a, err := cfg.Audit.ToAudit()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, a.RevengeWindow)
	assert.Equal(t, 24*time.Hour, a.OvertradingWindow)
	assert.Equal(t, 8, a.MaxTradesPerWindow)
	assert.Equal(t, 5_000_000, cfg.Sim.MaxOps)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"user", func(c *Config) { c.Account.UserID = " " }, "account.user_id is required"},
		{"currency", func(c *Config) { c.Account.Currency = "" }, "account.currency is required"},
		{"timezone", func(c *Config) { c.Account.Timezone = "Mars/Olympus" }, "account.timezone"},
		{"db", func(c *Config) { c.Journal.DBPath = "" }, "journal.db_path is required"},
		{"default risk", func(c *Config) { c.Risk.DefaultRiskPercent = 0 }, "risk.default_risk_percent"},
		{"max risk", func(c *Config) { c.Risk.MaxRiskPercent = 0.5 }, "risk.max_risk_percent"},
		{"revenge window", func(c *Config) { c.Audit.RevengeWindow = "soon" }, "audit.revenge_window"},
		{"zero window", func(c *Config) { c.Audit.OvertradingWindow = "0s" }, "audit windows must be positive"},
		{"streak", func(c *Config) { c.Audit.LossStreak = 0 }, "audit.loss_streak must be positive"},
		{"drawdown", func(c *Config) { c.Audit.MaxDrawdownPercent = 120 }, "audit.max_drawdown_percent"},
		{"pf cap", func(c *Config) { c.Scoring.ProfitFactorCap = 0 }, "scoring.profit_factor_cap"},
		{"samples", func(c *Config) { c.Insights.MinWeekdaySamples = 0 }, "insights.min_weekday_samples"},
		{"max ops", func(c *Config) { c.Sim.MaxOps = -1 }, "sim.max_ops"},
		{"addr", func(c *Config) { c.Server.Addr = "" }, "server.addr is required"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"edge.yaml", "edge.yml", "edge.json"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Account.UserID = "trader-1"
			cfg.Audit.LossStreak = 5
			cfg.Scoring.ExpectancyBonus = 12
			cfg.Insights.StrongWinRate = 65
			cfg.Sim.Seed = 42
			require.NoError(t, cfg.SaveToFile(path))

			got, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "edge.yaml")
	body := "account:\n  user_id: alice\naudit:\n  loss_streak: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Account.UserID)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 3, cfg.Audit.LossStreak)
	assert.Equal(t, 8, cfg.Audit.MaxTradesPerWindow)
	assert.Equal(t, Default().Scoring, cfg.Scoring)
}

func TestLoadJSONFallback(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "edge.conf")
	require.NoError(t, os.WriteFile(path, []byte(`{"account":{"user_id":"bob"},"server":{"addr":":9000"}}`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Account.UserID)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadJSONScoringAndInsights(t *testing.T) {
	t.Parallel()

	body := `{"scoring":{"expectancy_bonus":12,"win_rate_weight":0.5},"insights":{"strong_win_rate":65}}`
	for _, name := range []string{"edge.json", "edge.conf"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			cfg, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, 12.0, cfg.Scoring.ExpectancyBonus)
			assert.Equal(t, 0.5, cfg.Scoring.WinRateWeight)
			assert.Equal(t, Default().Scoring.Base, cfg.Scoring.Base)
			assert.Equal(t, 65.0, cfg.Insights.StrongWinRate)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config: log.level")

	path = filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse JSON config")
}

func TestSettings(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Account.Timezone = ""
	cfg.Insights.StrongWinRate = 70

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, s.Location)
	assert.Equal(t, 70.0, s.Insights.StrongWinRate)
	assert.Equal(t, 4, s.Audit.LossStreak)
}
