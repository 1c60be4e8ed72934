// Package insights turns a closed-trade history into short, readable
// observations about where the account wins and where it leaks.
package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/metrics"
)

type Type string

const (
	Positive Type = "POSITIVE"
	Negative Type = "NEGATIVE"
	Neutral  Type = "NEUTRAL"
)

type Insight struct {
	Type    Type    `json:"type"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Score   float64 `json:"score"`
}

type Config struct {
	// MinWeekdaySamples is the fewest trades a weekday needs before it
	// is compared against the overall win rate.
	MinWeekdaySamples int     `json:"min_weekday_samples" yaml:"min_weekday_samples"`
	WeekdayGap        float64 `json:"weekday_gap" yaml:"weekday_gap"`
	StrongWinRate     float64 `json:"strong_win_rate" yaml:"strong_win_rate"`
}

func DefaultConfig() Config {
	return Config{
		MinWeekdaySamples: 3,
		WeekdayGap:        20,
		StrongWinRate:     60,
	}
}

type bucket struct {
	trades int
	wins   int
	net    float64
}

func (b bucket) winRate() float64 { return metrics.WinRate(b.wins, b.trades) }

func (b *bucket) add(r journal.Record) {
	b.trades++
	b.net += r.PnL
	if r.Win() {
		b.wins++
	}
}

// weekdays in reporting order
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Compute inspects the closed records. Weekdays are taken from the
// exit time in loc, UTC when loc is nil. The result lists negative
// insights first, then positive, then neutral.
func Compute(records []journal.Record, cfg Config, loc *time.Location) []Insight {
	if loc == nil {
		loc = time.UTC
	}
	closed := metrics.Closed(records)
	if len(closed) == 0 {
		return []Insight{{
			Type:    Neutral,
			Title:   "Insufficient Data",
			Message: "Close a few trades to unlock performance insights.",
		}}
	}

	var overall bucket
	bySymbol := map[string]*bucket{}
	byDay := map[time.Weekday]*bucket{}
	for _, r := range closed {
		overall.add(r)
		if bySymbol[r.Symbol] == nil {
			bySymbol[r.Symbol] = &bucket{}
		}
		bySymbol[r.Symbol].add(r)

		day := time.UnixMilli(r.ExitTime).In(loc).Weekday()
		if byDay[day] == nil {
			byDay[day] = &bucket{}
		}
		byDay[day].add(r)
	}

	symbols := make([]string, 0, len(bySymbol))
	for s := range bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var neg, pos, neu []Insight
	for _, s := range symbols {
		b := bySymbol[s]
		if b.net < 0 {
			neg = append(neg, Insight{
				Type:    Negative,
				Title:   "Asset Friction: " + s,
				Message: fmt.Sprintf("%s is net %.2f over %d trades. Review your edge on this instrument or reduce size.", s, b.net, b.trades),
				Score:   b.winRate(),
			})
		}
	}

	wr := overall.winRate()
	for _, d := range weekdays {
		b := byDay[d]
		if b == nil || b.trades < cfg.MinWeekdaySamples {
			continue
		}
		if b.winRate() <= wr-cfg.WeekdayGap {
			neg = append(neg, Insight{
				Type:    Negative,
				Title:   d.String() + " Fatigue",
				Message: fmt.Sprintf("Win rate on %s is %.1f%% against %.1f%% overall.", d, b.winRate(), wr),
				Score:   b.winRate(),
			})
		}
	}

	best := ""
	for _, s := range symbols {
		if best == "" || bySymbol[s].net > bySymbol[best].net {
			best = s
		}
	}
	if b := bySymbol[best]; b.net > 0 && b.winRate() >= cfg.StrongWinRate {
		pos = append(pos, Insight{
			Type:    Positive,
			Title:   "Edge Detected: " + best,
			Message: fmt.Sprintf("%s wins %.1f%% of the time for a net %.2f. This is your strongest instrument.", best, b.winRate(), b.net),
			Score:   b.winRate(),
		})
	}

	if len(neg) == 0 {
		neu = append(neu, Insight{
			Type:    Neutral,
			Title:   "Stable Execution",
			Message: "No recurring leaks found in your closed trades.",
			Score:   round1(wr),
		})
	}

	out := make([]Insight, 0, len(neg)+len(pos)+len(neu))
	out = append(out, neg...)
	out = append(out, pos...)
	return append(out, neu...)
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
