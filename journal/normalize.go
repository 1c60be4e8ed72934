package journal

import (
	"math"
	"strings"
)

// Record is a fully populated view of a Trade. All missing optional
// fields have been resolved, so analytics never look at pointers.
type Record struct {
	ID         string
	Symbol     string
	Direction  Direction
	Status     Status
	Closed     bool
	StrategyID string

	EntryPrice  float64
	ExitPrice   float64
	Lots        float64
	RiskPercent float64
	PnL         float64

	Checklist     []bool
	ChecklistTrue int

	EntryTime int64
	ExitTime  int64
}

// ChecklistDone reports whether the record carries a checklist and
// every item on it was ticked.
func (r Record) ChecklistDone() bool {
	return len(r.Checklist) > 0 && r.ChecklistTrue == len(r.Checklist)
}

func (r Record) Win() bool { return r.Closed && r.PnL > 0 }
func (r Record) Loss() bool { return r.Closed && r.PnL < 0 }

// Normalize resolves trades into records. The input is not modified.
func Normalize(trades []Trade) []Record {
	out := make([]Record, 0, len(trades))
	for _, t := range trades {
		out = append(out, NormalizeTrade(t))
	}
	return out
}

// NormalizeTrade applies the default policy for missing or malformed
// fields: numbers default to 0, percentages are clamped to [0,100], a
// closed trade without an exit time is treated as closed at entry.
func NormalizeTrade(t Trade) Record {
	r := Record{
		ID:          t.ID,
		Symbol:      strings.ToUpper(strings.TrimSpace(t.Symbol)),
		Direction:   t.Direction,
		Status:      t.Status,
		Closed:      t.Status == Closed,
		StrategyID:  t.StrategyID,
		EntryPrice:  num(t.EntryPrice),
		Lots:        num(t.Lots),
		RiskPercent: clampPct(num(t.RiskPercent)),
		EntryTime:   t.EntryTime,
	}
	if r.Direction != Short {
		r.Direction = Long
	}
	if t.ExitPrice != nil {
		r.ExitPrice = num(*t.ExitPrice)
	}
	if t.PnL != nil {
		r.PnL = num(*t.PnL)
	}
	r.ExitTime = t.EntryTime
	if t.ExitTime != nil {
		r.ExitTime = *t.ExitTime
	}
	if len(t.ChecklistComplete) > 0 {
		r.Checklist = make([]bool, len(t.ChecklistComplete))
		copy(r.Checklist, t.ChecklistComplete)
		for _, ok := range r.Checklist {
			if ok {
				r.ChecklistTrue++
			}
		}
	}
	return r
}

func num(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func clampPct(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
