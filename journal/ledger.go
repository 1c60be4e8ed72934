package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

const LedgerFormat = 1

// Ledger is a whole-account export: baseline balance, trades and
// strategies. It is the JSON backup format of the terminal.
type Ledger struct {
	Format     int        `json:"format"`
	ExportedAt int64      `json:"exportedAt"`
	UserID     string     `json:"userId"`
	Balance    float64    `json:"balance"`
	Trades     []Trade    `json:"trades"`
	Strategies []Strategy `json:"strategies"`
}

// ExportLedger reads everything userID owns from s.
func ExportLedger(ctx context.Context, s Store, userID string, at time.Time) (Ledger, error) {
	trades, err := s.ListTrades(ctx, userID)
	if err != nil {
		return Ledger{}, fmt.Errorf("list trades: %w", err)
	}
	strategies, err := s.ListStrategies(ctx)
	if err != nil {
		return Ledger{}, fmt.Errorf("list strategies: %w", err)
	}
	bal, err := s.AccountBalance(ctx, userID)
	if err != nil {
		return Ledger{}, fmt.Errorf("account balance: %w", err)
	}
	return Ledger{
		Format:     LedgerFormat,
		ExportedAt: at.UnixMilli(),
		UserID:     userID,
		Balance:    bal,
		Trades:     trades,
		Strategies: strategies,
	}, nil
}

func WriteLedger(w io.Writer, l Ledger) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// ReadLedger decodes and validates a ledger.
func ReadLedger(r io.Reader) (Ledger, error) {
	var l Ledger
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Ledger{}, fmt.Errorf("decode ledger: %w", err)
	}
	if l.Format != LedgerFormat {
		return Ledger{}, fmt.Errorf("unsupported ledger format %d", l.Format)
	}
	seen := make(map[string]bool, len(l.Trades))
	for i, t := range l.Trades {
		if t.ID == "" {
			return Ledger{}, fmt.Errorf("trade %d has no id", i)
		}
		if seen[t.ID] {
			return Ledger{}, fmt.Errorf("duplicate trade id %s", t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return Ledger{}, fmt.Errorf("trade %s: %w", t.ID, err)
		}
	}
	for _, s := range l.Strategies {
		if s.ID == "" {
			return Ledger{}, fmt.Errorf("strategy %q has no id", s.Name)
		}
		if err := s.Validate(); err != nil {
			return Ledger{}, fmt.Errorf("strategy %s: %w", s.ID, err)
		}
	}
	return l, nil
}

// ImportLedger writes l for userID in one transaction. Existing rows with
// the same IDs are replaced when userID owns them; a trade ID held by
// another user fails the whole import with ErrConflict. It returns the
// number of trades written.
func (j *SQLite) ImportLedger(ctx context.Context, userID string, l Ledger) (int, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range l.Strategies {
		if err := upsertStrategy(ctx, tx, s); err != nil {
			return 0, fmt.Errorf("strategy %s: %w", s.ID, err)
		}
	}
	for _, t := range l.Trades {
		if t.Version == 0 {
			t.Version = 1
		}
		if err := upsertTrade(ctx, tx, userID, t); err != nil {
			return 0, fmt.Errorf("trade %s: %w", t.ID, err)
		}
	}
	if l.Balance > 0 {
		if err := setBalance(ctx, tx, userID, l.Balance); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(l.Trades), nil
}
