package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/edge/audit"
	"github.com/rustyeddy/edge/insights"
	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/scoring"
)

// Settings are the tunables a Service applies to every request.
type Settings struct {
	Audit       audit.Config
	Insights    insights.Config
	Weights     scoring.Weights
	Location    *time.Location
	RecentLimit int
}

func DefaultSettings() Settings {
	return Settings{
		Audit:       audit.DefaultConfig(),
		Insights:    insights.DefaultConfig(),
		Weights:     scoring.DefaultWeights(),
		Location:    time.UTC,
		RecentLimit: DefaultRecentLimit,
	}
}

// Service loads a user's journal from a Store and runs the analytics
// over it.
type Service struct {
	store    journal.Store
	settings Settings
	log      *slog.Logger
	now      func() time.Time
}

func NewService(store journal.Store, settings Settings, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, settings: settings, log: log, now: time.Now}
}

type userData struct {
	trades     []journal.Trade
	strategies []journal.Strategy
	balance    float64
}

// load reads the three store views in parallel.
func (s *Service) load(ctx context.Context, userID string, withStrategies, withBalance bool) (userData, error) {
	var d userData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		trades, err := s.store.ListTrades(ctx, userID)
		if err != nil {
			return fmt.Errorf("list trades for %s: %w", userID, err)
		}
		d.trades = trades
		return nil
	})
	if withStrategies {
		g.Go(func() error {
			strategies, err := s.store.ListStrategies(ctx)
			if err != nil {
				return fmt.Errorf("list strategies: %w", err)
			}
			d.strategies = strategies
			return nil
		})
	}
	if withBalance {
		g.Go(func() error {
			bal, err := s.store.AccountBalance(ctx, userID)
			if err != nil {
				return fmt.Errorf("account balance for %s: %w", userID, err)
			}
			d.balance = bal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("load journal", "user", userID, "err", err)
		return userData{}, err
	}
	return d, nil
}

func (s *Service) Snapshot(ctx context.Context, userID string) (PerformanceSnapshot, error) {
	d, err := s.load(ctx, userID, true, true)
	if err != nil {
		return PerformanceSnapshot{}, err
	}
	snap := ComputeSnapshot(d.trades, d.balance, Options{
		Now:         s.now(),
		Audit:       s.settings.Audit,
		RecentLimit: s.settings.RecentLimit,
		Strategies:  d.strategies,
	})
	s.log.Debug("snapshot", "user", userID, "trades", snap.TotalTrades, "alerts", len(snap.Alerts))
	return snap, nil
}

func (s *Service) Insights(ctx context.Context, userID string) ([]insights.Insight, error) {
	d, err := s.load(ctx, userID, false, false)
	if err != nil {
		return nil, err
	}
	return ComputeInsights(d.trades, s.settings.Insights, s.settings.Location), nil
}

func (s *Service) StrategyPerformance(ctx context.Context, userID string) ([]scoring.StrategyPerformance, error) {
	d, err := s.load(ctx, userID, true, true)
	if err != nil {
		return nil, err
	}
	return ComputeStrategyPerformance(d.trades, d.strategies, d.balance, s.settings.Weights), nil
}
