package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/edge/analytics"
	"github.com/rustyeddy/edge/config"
	"github.com/rustyeddy/edge/journal"
)

var rootCmd = &cobra.Command{
	Use:   "edge",
	Short: "Trading journal, performance analytics and risk engine",
	Long: `Edge is a personal trading performance terminal.

It provides tools for:
  - Logging discretionary trades against strategies with checklists
  - Account snapshots: equity curve, drawdown, win rate, profit factor
  - Behavioral audits (revenge trading, overtrading, loss streaks)
  - Strategy survivability scores and weekday/asset insights
  - Position sizing, Kelly, breakeven and drawdown recovery math
  - Monte Carlo growth and risk of ruin projections
  - A JSON HTTP API over all of the above`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile  string
	dbPath   string
	userID   string
	logLevel string

	cfg *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "journal owner (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		c, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
	} else {
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}
	if userID != "" {
		cfg.Account.UserID = userID
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return setupLogging(cfg.Log)
}

func setupLogging(lc config.LogConfig) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(lc.Format) {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func newService(store journal.Store) (*analytics.Service, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	return analytics.NewService(store, settings, slog.Default()), nil
}
