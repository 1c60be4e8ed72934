// Package audit scans a trade history for behavioral rule violations
// and turns them into a psychology score.
package audit

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/metrics"
)

const (
	CodeChecklistDrift = "CHECKLIST_DRIFT"
	CodeRevengeTrade   = "REVENGE_TRADE"
	CodeOvertrading    = "OVERTRADING"
	CodeLossStreak     = "LOSS_STREAK"
	CodeDrawdownBreach = "DRAWDOWN_BREACH"
)

// Config holds the thresholds of every rule.
type Config struct {
	RevengeWindow      time.Duration
	OvertradingWindow  time.Duration
	MaxTradesPerWindow int
	LossStreak         int
	MaxDrawdownPercent float64
	AlertWeight        float64
}

func DefaultConfig() Config {
	return Config{
		RevengeWindow:      time.Hour,
		OvertradingWindow:  24 * time.Hour,
		MaxTradesPerWindow: 8,
		LossStreak:         4,
		MaxDrawdownPercent: 15,
		AlertWeight:        15,
	}
}

type Alert struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report is the outcome of one audit. DataQuality lists conditions
// worth fixing in the journal; they do not affect the score.
type Report struct {
	Alerts          []Alert  `json:"alerts"`
	PsychologyScore float64  `json:"psychologyScore"`
	DataQuality     []string `json:"dataQuality,omitempty"`
}

// Messages returns the alert messages in rule order.
func (r Report) Messages() []string {
	out := make([]string, 0, len(r.Alerts))
	for _, a := range r.Alerts {
		out = append(out, a.Message)
	}
	return out
}

// Audit evaluates every rule against records. The records may be in
// any order and of any status. strategies is optional and only feeds
// the data quality checks.
func Audit(records []journal.Record, startingBalance, currentEquity float64, now time.Time, cfg Config, strategies []journal.Strategy) Report {
	byEntry := sortedByEntry(records)

	var alerts []Alert
	add := func(code, msg string) {
		for _, a := range alerts {
			if a.Message == msg {
				return
			}
		}
		alerts = append(alerts, Alert{Code: code, Message: msg})
	}

	if checklistDrift(byEntry) {
		add(CodeChecklistDrift, "Discipline Warning")
	}
	if revengeTrade(byEntry, cfg.RevengeWindow) {
		add(CodeRevengeTrade, "Potential Revenge Trade")
	}
	if overtrading(records, now, cfg) {
		add(CodeOvertrading, "High Frequency Alert")
	}
	if lossStreak(records, cfg.LossStreak) {
		add(CodeLossStreak, "Loss Streak Alert")
	}
	if dd := accountDrawdown(startingBalance, currentEquity); dd > cfg.MaxDrawdownPercent {
		add(CodeDrawdownBreach, fmt.Sprintf("Critical Account Drawdown: %.1f%% exceeded", dd))
	}

	if alerts == nil {
		alerts = []Alert{}
	}
	return Report{
		Alerts:          alerts,
		PsychologyScore: math.Max(0, 100-float64(len(alerts))*cfg.AlertWeight),
		DataQuality:     dataQuality(byEntry, strategies),
	}
}

func sortedByEntry(records []journal.Record) []journal.Record {
	out := make([]journal.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EntryTime != out[j].EntryTime {
			return out[i].EntryTime < out[j].EntryTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func checklistDrift(byEntry []journal.Record) bool {
	if len(byEntry) == 0 {
		return false
	}
	last := byEntry[len(byEntry)-1]
	return last.StrategyID != "" && len(last.Checklist) > 0 && last.ChecklistTrue < len(last.Checklist)
}

// revengeTrade walks entries newest first looking for one placed
// shortly after a losing trade closed.
func revengeTrade(byEntry []journal.Record, window time.Duration) bool {
	win := window.Milliseconds()
	if win <= 0 {
		return false
	}
	for i := len(byEntry) - 1; i >= 0; i-- {
		entry := byEntry[i].EntryTime
		for j := range byEntry {
			prev := byEntry[j]
			if j == i || !prev.Loss() {
				continue
			}
			gap := entry - prev.ExitTime
			if gap > 0 && gap <= win {
				return true
			}
		}
	}
	return false
}

func overtrading(records []journal.Record, now time.Time, cfg Config) bool {
	end := now.UnixMilli()
	start := now.Add(-cfg.OvertradingWindow).UnixMilli()
	n := 0
	for _, r := range records {
		if r.EntryTime >= start && r.EntryTime <= end {
			n++
		}
	}
	return n > cfg.MaxTradesPerWindow
}

func lossStreak(records []journal.Record, streak int) bool {
	if streak <= 0 {
		return false
	}
	closed := metrics.Closed(records)
	if len(closed) < streak {
		return false
	}
	for _, r := range closed[len(closed)-streak:] {
		if !r.Loss() {
			return false
		}
	}
	return true
}

func accountDrawdown(start, equity float64) float64 {
	dd := (start - equity) / math.Max(1, start) * 100
	if math.IsNaN(dd) || math.IsInf(dd, 0) {
		return 0
	}
	return dd
}

func dataQuality(byEntry []journal.Record, strategies []journal.Strategy) []string {
	if len(strategies) == 0 {
		return nil
	}
	byID := make(map[string]journal.Strategy, len(strategies))
	for _, s := range strategies {
		byID[s.ID] = s
	}

	var out []string
	for _, r := range byEntry {
		if r.StrategyID == "" {
			continue
		}
		s, ok := byID[r.StrategyID]
		if !ok {
			out = append(out, fmt.Sprintf("trade %s: unknown strategy %s", r.ID, r.StrategyID))
			continue
		}
		if len(r.Checklist) > 0 && len(r.Checklist) != len(s.Checklist) {
			out = append(out, fmt.Sprintf("trade %s: checklist has %d items, strategy %q has %d",
				r.ID, len(r.Checklist), s.Name, len(s.Checklist)))
		}
	}
	return out
}
