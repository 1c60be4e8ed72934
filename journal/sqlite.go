package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/edge/pkg/id"
)

// SQLite is the durable Store. Every trade write bumps the row version
// and updates are rejected with ErrConflict when the caller holds a
// stale one.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const tradeColumns = `trade_id, symbol, direction, status, entry_price, exit_price, lots, risk_percent,
	stop_loss, take_profit, pnl, strategy_id, checklist, tags, notes, entry_time, exit_time, version`

// AddTrade stores a new trade for userID. A missing ID or entry time is
// filled in. An ID that is already taken, by any user, is ErrConflict.
func (j *SQLite) AddTrade(ctx context.Context, userID string, t Trade) (Trade, error) {
	if t.ID == "" {
		t.ID = id.New()
	}
	if t.EntryTime == 0 {
		t.EntryTime = j.now().UnixMilli()
	}
	if t.Status == "" {
		t.Status = Open
	}
	t.Version = 1
	if err := t.Validate(); err != nil {
		return Trade{}, fmt.Errorf("%w trade: %w", ErrInvalid, err)
	}
	if err := insertTrade(ctx, j.db, userID, t); err != nil {
		if isConstraint(err) {
			return Trade{}, fmt.Errorf("trade %s already exists: %w", t.ID, ErrConflict)
		}
		return Trade{}, fmt.Errorf("insert trade %s: %w", t.ID, err)
	}
	return t, nil
}

func isConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}

func insertTrade(ctx context.Context, ex execer, userID string, t Trade) error {
	checklist, tags, err := encodeLists(t)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `INSERT INTO trades (`+insertColumns+`) VALUES `+insertValues,
		tradeArgs(userID, t, checklist, tags)...)
	return err
}

// upsertTrade inserts t or replaces the stored row with the same ID, but
// only when that row already belongs to userID.
func upsertTrade(ctx context.Context, ex execer, userID string, t Trade) error {
	checklist, tags, err := encodeLists(t)
	if err != nil {
		return err
	}
	res, err := ex.ExecContext(ctx, `INSERT INTO trades (`+insertColumns+`) VALUES `+insertValues+`
		ON CONFLICT(trade_id) DO UPDATE SET
			symbol = excluded.symbol, direction = excluded.direction, status = excluded.status,
			entry_price = excluded.entry_price, exit_price = excluded.exit_price, lots = excluded.lots,
			risk_percent = excluded.risk_percent, stop_loss = excluded.stop_loss,
			take_profit = excluded.take_profit, pnl = excluded.pnl, strategy_id = excluded.strategy_id,
			checklist = excluded.checklist, tags = excluded.tags, notes = excluded.notes,
			entry_time = excluded.entry_time, exit_time = excluded.exit_time, version = excluded.version
		WHERE trades.user_id = excluded.user_id`,
		tradeArgs(userID, t, checklist, tags)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %s belongs to another user: %w", t.ID, ErrConflict)
	}
	return nil
}

const insertColumns = `trade_id, user_id, symbol, direction, status, entry_price, exit_price, lots, risk_percent,
	stop_loss, take_profit, pnl, strategy_id, checklist, tags, notes, entry_time, exit_time, version`

const insertValues = `(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func tradeArgs(userID string, t Trade, checklist, tags string) []any {
	return []any{
		t.ID, userID, t.Symbol, string(t.Direction), string(t.Status), t.EntryPrice, t.ExitPrice,
		t.Lots, t.RiskPercent, t.StopLoss, t.TakeProfit, t.PnL, t.StrategyID, checklist, tags,
		t.Notes, t.EntryTime, t.ExitTime, t.Version,
	}
}

// UpdateTrade replaces a stored trade. t.Version must match the stored
// version; the returned trade carries the new one.
func (j *SQLite) UpdateTrade(ctx context.Context, userID string, t Trade) (Trade, error) {
	if err := t.Validate(); err != nil {
		return Trade{}, fmt.Errorf("%w trade: %w", ErrInvalid, err)
	}
	checklist, tags, err := encodeLists(t)
	if err != nil {
		return Trade{}, err
	}

	res, err := j.db.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?, direction = ?, status = ?, entry_price = ?, exit_price = ?, lots = ?,
			risk_percent = ?, stop_loss = ?, take_profit = ?, pnl = ?, strategy_id = ?,
			checklist = ?, tags = ?, notes = ?, entry_time = ?, exit_time = ?, version = version + 1
		WHERE trade_id = ? AND user_id = ? AND version = ?`,
		t.Symbol, string(t.Direction), string(t.Status), t.EntryPrice, t.ExitPrice, t.Lots,
		t.RiskPercent, t.StopLoss, t.TakeProfit, t.PnL, t.StrategyID,
		checklist, tags, t.Notes, t.EntryTime, t.ExitTime,
		t.ID, userID, t.Version,
	)
	if err != nil {
		return Trade{}, fmt.Errorf("update trade %s: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Trade{}, err
	}
	if n == 0 {
		if _, err := j.GetTrade(ctx, userID, t.ID); err != nil {
			return Trade{}, err
		}
		return Trade{}, fmt.Errorf("trade %s at version %d: %w", t.ID, t.Version, ErrConflict)
	}
	t.Version++
	return t, nil
}

// CloseTrade marks an open trade as closed.
func (j *SQLite) CloseTrade(ctx context.Context, userID, tradeID string, exitPrice, pnl float64, exitTime int64) (Trade, error) {
	t, err := j.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return Trade{}, err
	}
	if t.Status != Open {
		return Trade{}, fmt.Errorf("trade %s is %s, not OPEN: %w", tradeID, t.Status, ErrConflict)
	}
	if exitTime == 0 {
		exitTime = j.now().UnixMilli()
	}
	return j.UpdateTrade(ctx, userID, t.Close(exitPrice, pnl, exitTime))
}

// DeleteTrade removes a trade and reports whether it existed.
func (j *SQLite) DeleteTrade(ctx context.Context, userID, tradeID string) (bool, error) {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ? AND user_id = ?`, tradeID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(ctx context.Context, userID, tradeID string) (Trade, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+`
		FROM trades WHERE trade_id = ? AND user_id = ?`, tradeID, userID)
	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return Trade{}, err
	}
	return t, nil
}

// ListTrades returns every trade of userID ordered by entry time.
func (j *SQLite) ListTrades(ctx context.Context, userID string) ([]Trade, error) {
	return j.queryTrades(ctx, `SELECT `+tradeColumns+`
		FROM trades WHERE user_id = ?
		ORDER BY entry_time ASC, trade_id ASC`, userID)
}

func (j *SQLite) queryTrades(ctx context.Context, query string, args ...any) ([]Trade, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (Trade, error) {
	var (
		t                   Trade
		direction, status   string
		exitPrice, stopLoss sql.NullFloat64
		takeProfit, pnl     sql.NullFloat64
		exitTime            sql.NullInt64
		checklist, tags     string
	)
	err := s.Scan(
		&t.ID, &t.Symbol, &direction, &status, &t.EntryPrice, &exitPrice, &t.Lots, &t.RiskPercent,
		&stopLoss, &takeProfit, &pnl, &t.StrategyID, &checklist, &tags, &t.Notes,
		&t.EntryTime, &exitTime, &t.Version,
	)
	if err != nil {
		return Trade{}, err
	}
	t.Direction = Direction(direction)
	t.Status = Status(status)
	t.ExitPrice = nullFloat(exitPrice)
	t.StopLoss = nullFloat(stopLoss)
	t.TakeProfit = nullFloat(takeProfit)
	t.PnL = nullFloat(pnl)
	if exitTime.Valid {
		t.ExitTime = Int64(exitTime.Int64)
	}
	if err := json.Unmarshal([]byte(checklist), &t.ChecklistComplete); err != nil {
		return Trade{}, fmt.Errorf("decode checklist of %s: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return Trade{}, fmt.Errorf("decode tags of %s: %w", t.ID, err)
	}
	if len(t.ChecklistComplete) == 0 {
		t.ChecklistComplete = nil
	}
	if len(t.Tags) == 0 {
		t.Tags = nil
	}
	return t, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return Float(v.Float64)
}

func encodeLists(t Trade) (string, string, error) {
	checklist, err := json.Marshal(nonNilBools(t.ChecklistComplete))
	if err != nil {
		return "", "", err
	}
	tags, err := json.Marshal(nonNilStrings(t.Tags))
	if err != nil {
		return "", "", err
	}
	return string(checklist), string(tags), nil
}

func nonNilBools(b []bool) []bool {
	if b == nil {
		return []bool{}
	}
	return b
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// AddStrategy stores a new strategy.
func (j *SQLite) AddStrategy(ctx context.Context, s Strategy) (Strategy, error) {
	if err := s.Validate(); err != nil {
		return Strategy{}, fmt.Errorf("%w strategy: %w", ErrInvalid, err)
	}
	if s.ID == "" {
		s.ID = id.New()
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = j.now().UnixMilli()
	}
	if s.Checklist == nil {
		s.Checklist = []string{}
	}
	if err := upsertStrategy(ctx, j.db, s); err != nil {
		return Strategy{}, fmt.Errorf("insert strategy %s: %w", s.ID, err)
	}
	return s, nil
}

// UpdateStrategy rewrites name, description and checklist. Existing
// trades keep the checklist answers they were logged with.
func (j *SQLite) UpdateStrategy(ctx context.Context, s Strategy) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w strategy: %w", ErrInvalid, err)
	}
	checklist, err := json.Marshal(nonNilStrings(s.Checklist))
	if err != nil {
		return err
	}
	res, err := j.db.ExecContext(ctx, `
		UPDATE strategies SET name = ?, description = ?, checklist = ?
		WHERE strategy_id = ?`, s.Name, s.Description, string(checklist), s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("strategy %q: %w", s.ID, ErrNotFound)
	}
	return nil
}

func upsertStrategy(ctx context.Context, ex execer, s Strategy) error {
	checklist, err := json.Marshal(nonNilStrings(s.Checklist))
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO strategies (strategy_id, name, description, checklist, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, string(checklist), s.CreatedAt,
	)
	return err
}

// ListStrategies returns all strategies, oldest first.
func (j *SQLite) ListStrategies(ctx context.Context) ([]Strategy, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT strategy_id, name, description, checklist, created_at
		FROM strategies
		ORDER BY created_at ASC, strategy_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Strategy{}
	for rows.Next() {
		var (
			s         Strategy
			checklist string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &checklist, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(checklist), &s.Checklist); err != nil {
			return nil, fmt.Errorf("decode checklist of strategy %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AccountBalance returns the baseline (non-PnL) balance of userID.
func (j *SQLite) AccountBalance(ctx context.Context, userID string) (float64, error) {
	var bal float64
	err := j.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = ?`, userID).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultBalance, nil
	}
	if err != nil {
		return 0, err
	}
	return bal, nil
}

// SetBalance sets the baseline balance of userID.
func (j *SQLite) SetBalance(ctx context.Context, userID string, balance float64) error {
	return setBalance(ctx, j.db, userID, balance)
}

func setBalance(ctx context.Context, ex execer, userID string, balance float64) error {
	if balance <= 0 {
		return fmt.Errorf("balance must be positive")
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO accounts (user_id, balance) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET balance = excluded.balance`, userID, balance)
	return err
}
