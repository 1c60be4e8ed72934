// Package report renders analytics results for a terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rustyeddy/edge/analytics"
	"github.com/rustyeddy/edge/insights"
	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/risk"
	"github.com/rustyeddy/edge/scoring"
	"github.com/rustyeddy/edge/sim"
)

const rule = "--------------------------------------------------"

func header(w io.Writer, title string) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, "==================================================")
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

func PrintSnapshot(w io.Writer, s analytics.PerformanceSnapshot, currency string) {
	header(w, "Account Snapshot")

	fmt.Fprintf(w, "Start Balance: %s\n", FormatCurrency(s.StartingBalance, currency))
	fmt.Fprintf(w, "Equity:        %s\n", FormatCurrency(s.Equity, currency))
	fmt.Fprintf(w, "Net P/L:       %s\n", FormatCurrency(s.Equity-s.StartingBalance, currency))

	section(w, "Trade Statistics")
	fmt.Fprintf(w, "Trades:        %d (%d closed)\n", s.TotalTrades, s.ClosedTrades)
	fmt.Fprintf(w, "Win Rate:      %s\n", Percent(s.WinRate))
	fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	fmt.Fprintf(w, "Expectancy:    %s\n", FormatCurrency(s.Expectancy, currency))
	fmt.Fprintf(w, "Max Drawdown:  %s\n", Percent(s.MaxDrawdownPercent))

	section(w, "Psychology")
	fmt.Fprintf(w, "Score:         %.0f/100\n", s.PsychologyScore)
	if len(s.Alerts) == 0 {
		fmt.Fprintln(w, "No alerts")
	}
	for _, a := range s.Alerts {
		fmt.Fprintf(w, "! %s\n", a)
	}
	for _, q := range s.DataQuality {
		fmt.Fprintf(w, "? %s\n", q)
	}

	if len(s.RecentTrades) > 0 {
		section(w, "Recent Trades")
		PrintTrades(w, s.RecentTrades, currency)
	}
}

// PrintTrades writes one row per trade.
func PrintTrades(w io.Writer, trades []journal.Trade, currency string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSYMBOL\tDIR\tSTATUS\tLOTS\tENTRY\tPNL\tOPENED")
	for _, t := range trades {
		pnl := "-"
		if t.PnL != nil {
			pnl = FormatCurrency(*t.PnL, currency)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%g\t%s\t%s\n",
			t.ID, t.Symbol, t.Direction, t.Status, t.Lots, t.EntryPrice, pnl,
			time.UnixMilli(t.EntryTime).UTC().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func PrintStrategies(w io.Writer, perf []scoring.StrategyPerformance) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tTRADES\tWIN%\tPF\tEXPECT\tMAXDD%\tDISCIPLINE\tSCORE\tGRADE")
	for _, p := range perf {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.2f\t%.2f\t%.1f\t%.0f\t%.0f\t%s\n",
			p.Name, p.TotalTrades, p.WinRate, p.ProfitFactor, p.Expectancy,
			p.MaxDrawdownPercent, p.DisciplineScore, p.SurvivabilityScore, p.Grade)
	}
	tw.Flush()
}

func PrintStrategyList(w io.Writer, strategies []journal.Strategy) {
	for _, s := range strategies {
		fmt.Fprintf(w, "%s  %s\n", s.ID, s.Name)
		if s.Description != "" {
			fmt.Fprintf(w, "    %s\n", s.Description)
		}
		for i, item := range s.Checklist {
			fmt.Fprintf(w, "    %d. %s\n", i+1, item)
		}
	}
}

func PrintInsights(w io.Writer, in []insights.Insight) {
	for _, i := range in {
		mark := "·"
		switch i.Type {
		case insights.Positive:
			mark = "+"
		case insights.Negative:
			mark = "-"
		}
		fmt.Fprintf(w, "%s %s (%.1f)\n  %s\n", mark, i.Title, i.Score, i.Message)
	}
}

// PrintMonteCarlo summarizes the final bands and every tenth step.
func PrintMonteCarlo(w io.Writer, r sim.Result, currency string) {
	header(w, "Monte Carlo Projection")
	p := r.Params
	fmt.Fprintf(w, "Start Balance: %s\n", FormatCurrency(p.StartBalance, currency))
	fmt.Fprintf(w, "Win Rate:      %s\n", Percent(p.WinRatePercent))
	fmt.Fprintf(w, "Risk/Reward:   %.2f\n", p.RiskReward)
	fmt.Fprintf(w, "Risk per Trade: %s\n", Percent(p.RiskPerTradePercent))
	fmt.Fprintf(w, "Trades:        %d x %d paths\n", p.TradeCount, p.Iterations)

	last := len(r.Median) - 1
	if last < 0 {
		return
	}
	section(w, "Outcome")
	fmt.Fprintf(w, "Worst (5%%):    %s\n", FormatCurrency(r.Worst[last], currency))
	fmt.Fprintf(w, "Median:        %s\n", FormatCurrency(r.Median[last], currency))
	fmt.Fprintf(w, "Best (95%%):    %s\n", FormatCurrency(r.Best[last], currency))
	fmt.Fprintf(w, "Risk of Ruin:  %s\n", Percent(r.RiskOfRuinPercent))

	section(w, "Bands")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TRADE\tWORST\tMEDIAN\tBEST\t")
	step := max(1, last/10)
	for i := 0; i <= last; i += step {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t\n", i, r.Worst[i], r.Median[i], r.Best[i])
	}
	if last%step != 0 {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t\n", last, r.Worst[last], r.Median[last], r.Best[last])
	}
	tw.Flush()
}

func PrintGrowth(w io.Writer, model sim.Model, pts []sim.GrowthPoint, currency string) {
	header(w, "Growth Projection: "+string(model))
	for _, p := range pts {
		if p.Trade%5 == 0 || p.Trade == len(pts)-1 {
			fmt.Fprintf(w, "%4d  %s\n", p.Trade, FormatCurrency(p.Balance, currency))
		}
	}
}

// PrintDecision renders a sized trade plan and its policy violations.
func PrintDecision(w io.Writer, plan risk.TradePlan, d risk.Decision, currency string) {
	header(w, "Trade Plan: "+strings.ToUpper(plan.Symbol))
	fmt.Fprintf(w, "Stop:          %.1f pips\n", d.StopPips)
	fmt.Fprintf(w, "Risk:          %s (%s)\n", FormatCurrency(d.RiskAmount, currency), Percent(plan.RiskPercent))
	fmt.Fprintf(w, "Size:          %.2f lots\n", d.Lots)
	if d.RR > 0 {
		fmt.Fprintf(w, "Risk/Reward:   %.2f\n", d.RR)
	}
	fmt.Fprintf(w, "Breakeven WR:  %s\n", Percent(d.BreakevenWinRate))

	fmt.Fprintln(w)
	if d.Allowed {
		fmt.Fprintln(w, "ALLOWED")
		return
	}
	fmt.Fprintln(w, "BLOCKED")
	for _, v := range d.Violations {
		fmt.Fprintf(w, "- %s: %s\n", v.Code, v.Msg)
	}
}
