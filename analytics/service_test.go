package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rustyeddy/edge/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	trades     map[string][]journal.Trade
	strategies []journal.Strategy
	balances   map[string]float64
	err        error
}

func (f *fakeStore) ListTrades(_ context.Context, userID string) ([]journal.Trade, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trades[userID], nil
}

func (f *fakeStore) ListStrategies(context.Context) ([]journal.Strategy, error) {
	return f.strategies, nil
}

func (f *fakeStore) AccountBalance(_ context.Context, userID string) (float64, error) {
	if b, ok := f.balances[userID]; ok {
		return b, nil
	}
	return journal.DefaultBalance, nil
}

func newTestService(store journal.Store) *Service {
	s := NewService(store, DefaultSettings(), nil)
	s.now = func() time.Time { return now }
	return s
}

func TestServiceSnapshot(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		trades:     map[string][]journal.Trade{"u1": sampleTrades()},
		strategies: []journal.Strategy{{ID: "s1", Name: "Trend", Checklist: []string{"a", "b"}}},
		balances:   map[string]float64{"u1": 5000},
	}
	svc := newTestService(store)

	snap, err := svc.Snapshot(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, snap.StartingBalance)
	assert.InDelta(t, 5425.0, snap.Equity, 1e-9)
	// s2 is not a known strategy
	assert.Len(t, snap.DataQuality, 4)

	other, err := svc.Snapshot(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, journal.DefaultBalance, other.Equity)
	assert.Zero(t, other.TotalTrades)
}

func TestServiceStrategyPerformance(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		trades:     map[string][]journal.Trade{"u1": sampleTrades()},
		strategies: []journal.Strategy{{ID: "s1", Name: "Trend"}},
	}
	perf, err := newTestService(store).StrategyPerformance(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, "Trend", perf[0].Name)
}

func TestServiceInsights(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	got, err := newTestService(store).Insights(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Insufficient Data", got[0].Title)
}

func TestServiceStoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk gone")
	svc := newTestService(&fakeStore{err: boom})

	_, err := svc.Snapshot(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list trades for u1")

	_, err = svc.Insights(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)

	_, err = svc.StrategyPerformance(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
}
