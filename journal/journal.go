// journal/journal.go
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

type Status string

const (
	Open      Status = "OPEN"
	Closed    Status = "CLOSED"
	Cancelled Status = "CANCELLED"
)

// DefaultBalance is the baseline account balance of a user that has
// never set one.
const DefaultBalance = 10000.0

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("version conflict")
	ErrInvalid  = errors.New("invalid")
)

// Trade is one logged discretionary trade. ExitPrice, PnL and ExitTime
// are set together and only once the trade is CLOSED. Times are epoch
// milliseconds.
type Trade struct {
	ID                string    `json:"id"`
	Symbol            string    `json:"symbol"`
	Direction         Direction `json:"type"`
	Status            Status    `json:"status"`
	EntryPrice        float64   `json:"entryPrice"`
	ExitPrice         *float64  `json:"exitPrice,omitempty"`
	Lots              float64   `json:"lots"`
	RiskPercent       float64   `json:"riskPercent"`
	StopLoss          *float64  `json:"stopLoss,omitempty"`
	TakeProfit        *float64  `json:"takeProfit,omitempty"`
	PnL               *float64  `json:"pnl,omitempty"`
	StrategyID        string    `json:"strategyId,omitempty"`
	ChecklistComplete []bool    `json:"checklistComplete,omitempty"`
	Tags              []string  `json:"tags,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	EntryTime         int64     `json:"entryTime"`
	ExitTime          *int64    `json:"exitTime,omitempty"`

	// Version is owned by the store and bumped on every write.
	Version int64 `json:"version,omitempty"`
}

// Strategy is a named trading protocol with an ordered entry checklist.
type Strategy struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Checklist   []string `json:"checklist"`
	CreatedAt   int64    `json:"createdAt"`
}

// Store is the read side the analytics need.
type Store interface {
	ListTrades(ctx context.Context, userID string) ([]Trade, error)
	ListStrategies(ctx context.Context) ([]Strategy, error)
	AccountBalance(ctx context.Context, userID string) (float64, error)
}

func Float(v float64) *float64 { return &v }
func Int64(v int64) *int64 { return &v }

// Validate checks the invariants a store enforces on write.
func (t Trade) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	switch t.Direction {
	case Long, Short:
	default:
		return fmt.Errorf("direction must be LONG or SHORT, got %q", t.Direction)
	}
	if t.Lots <= 0 {
		return fmt.Errorf("lots must be positive")
	}
	if t.RiskPercent < 0 || t.RiskPercent > 100 {
		return fmt.Errorf("riskPercent must be between 0 and 100")
	}
	if t.EntryTime <= 0 {
		return fmt.Errorf("entryTime is required")
	}

	closedFields := t.ExitPrice != nil || t.PnL != nil || t.ExitTime != nil
	switch t.Status {
	case Closed:
		if t.ExitPrice == nil || t.PnL == nil || t.ExitTime == nil {
			return fmt.Errorf("closed trade needs exitPrice, pnl and exitTime")
		}
		if *t.ExitTime < t.EntryTime {
			return fmt.Errorf("exitTime before entryTime")
		}
	case Open, Cancelled:
		if closedFields {
			return fmt.Errorf("%s trade must not carry exit fields", t.Status)
		}
	default:
		return fmt.Errorf("unknown status %q", t.Status)
	}
	return nil
}

// Close returns a copy of t marked CLOSED at exitTime.
func (t Trade) Close(exitPrice, pnl float64, exitTime int64) Trade {
	out := t
	out.Status = Closed
	out.ExitPrice = Float(exitPrice)
	out.PnL = Float(pnl)
	out.ExitTime = Int64(exitTime)
	return out
}

// Validate checks a strategy before it is stored.
func (s Strategy) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for i, item := range s.Checklist {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("checklist item %d is empty", i)
		}
	}
	return nil
}
