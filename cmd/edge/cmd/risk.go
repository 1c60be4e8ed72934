package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/edge/market"
	"github.com/rustyeddy/edge/report"
	"github.com/rustyeddy/edge/risk"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Position sizing and trade math",
	Long: `Risk calculators. None of these touch the journal except when a
balance is needed and --balance is not given, in which case the
journal's baseline balance is used.

Examples:
  edge risk size --symbol EURUSD --risk 1 --sl-pips 20 --balance 10000
  edge risk kelly --winrate 55 --avg-win 2 --avg-loss 1
  edge risk breakeven --rr 2
  edge risk rr --entry 1.1000 --sl 1.0980 --tp 1.1040
  edge risk recover --drawdown 25 --trades 20
  edge risk plan --symbol USDJPY --entry 150.00 --sl 149.80 --tp 150.50`,
}

var riskSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Lot size for a stop distance and risk percent",
	Args:  cobra.NoArgs,
	RunE:  runRiskSize,
}

var riskKellyCmd = &cobra.Command{
	Use:   "kelly",
	Short: "Kelly optimal fraction of capital",
	Args:  cobra.NoArgs,
	RunE:  runRiskKelly,
}

var riskBreakevenCmd = &cobra.Command{
	Use:   "breakeven",
	Short: "Win rate needed to break even at a reward:risk ratio",
	Args:  cobra.NoArgs,
	RunE:  runRiskBreakeven,
}

var riskRRCmd = &cobra.Command{
	Use:   "rr",
	Short: "Reward:risk ratio of entry, stop and target",
	Args:  cobra.NoArgs,
	RunE:  runRiskRR,
}

var riskRecoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Gain and win rate needed to recover a drawdown",
	Args:  cobra.NoArgs,
	RunE:  runRiskRecover,
}

var riskPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Size a trade and check it against the risk policy",
	Args:  cobra.NoArgs,
	RunE:  runRiskPlan,
}

var (
	riskSymbol  string
	riskBalance float64
	riskPct     float64
	riskSLPips  float64

	kellyWinRate float64
	kellyAvgWin  float64
	kellyAvgLoss float64

	rrRatio float64
	rrEntry float64
	rrSL    float64
	rrTP    float64

	recoverDD     float64
	recoverTrades int
)

func init() {
	rootCmd.AddCommand(riskCmd)
	riskCmd.AddCommand(riskSizeCmd)
	riskCmd.AddCommand(riskKellyCmd)
	riskCmd.AddCommand(riskBreakevenCmd)
	riskCmd.AddCommand(riskRRCmd)
	riskCmd.AddCommand(riskRecoverCmd)
	riskCmd.AddCommand(riskPlanCmd)

	for _, c := range []*cobra.Command{riskSizeCmd, riskPlanCmd} {
		c.Flags().StringVar(&riskSymbol, "symbol", "EURUSD", "instrument")
		c.Flags().Float64Var(&riskBalance, "balance", 0, "account balance (default: journal balance)")
		c.Flags().Float64Var(&riskPct, "risk", 0, "percent of balance to risk (default: policy default)")
	}
	riskSizeCmd.Flags().Float64Var(&riskSLPips, "sl-pips", 0, "stop distance in pips (required)")
	riskSizeCmd.MarkFlagRequired("sl-pips")

	riskKellyCmd.Flags().Float64Var(&kellyWinRate, "winrate", 0, "win rate percent (required)")
	riskKellyCmd.Flags().Float64Var(&kellyAvgWin, "avg-win", 0, "average win (or reward multiple)")
	riskKellyCmd.Flags().Float64Var(&kellyAvgLoss, "avg-loss", 1, "average loss")
	riskKellyCmd.MarkFlagRequired("winrate")

	riskBreakevenCmd.Flags().Float64Var(&rrRatio, "rr", 0, "reward:risk ratio (required)")
	riskBreakevenCmd.MarkFlagRequired("rr")

	for _, c := range []*cobra.Command{riskRRCmd, riskPlanCmd} {
		c.Flags().Float64Var(&rrEntry, "entry", 0, "entry price")
		c.Flags().Float64Var(&rrSL, "sl", 0, "stop loss price")
		c.Flags().Float64Var(&rrTP, "tp", 0, "take profit price")
		c.MarkFlagRequired("entry")
		c.MarkFlagRequired("sl")
	}

	riskRecoverCmd.Flags().Float64Var(&recoverDD, "drawdown", 0, "current drawdown percent (required)")
	riskRecoverCmd.Flags().IntVar(&recoverTrades, "trades", 20, "trades to recover over")
	riskRecoverCmd.MarkFlagRequired("drawdown")
}

// balanceOrJournal returns --balance, falling back to the journal's
// baseline balance.
func balanceOrJournal(ctx context.Context) (float64, error) {
	if riskBalance > 0 {
		return riskBalance, nil
	}
	j, err := openJournal()
	if err != nil {
		return 0, err
	}
	defer j.Close()
	bal, err := j.AccountBalance(ctx, cfg.Account.UserID)
	if err != nil {
		return 0, fmt.Errorf("account balance: %w", err)
	}
	return bal, nil
}

func riskPercentOrDefault() float64 {
	if riskPct > 0 {
		return riskPct
	}
	return cfg.Risk.DefaultRiskPercent
}

func runRiskSize(cmd *cobra.Command, args []string) error {
	bal, err := balanceOrJournal(cmd.Context())
	if err != nil {
		return err
	}
	pct := riskPercentOrDefault()
	lots := risk.PositionSize(bal, pct, riskSLPips, riskSymbol)

	out := cmd.OutOrStdout()
	cur := cfg.Account.Currency
	fmt.Fprintf(out, "Symbol:   %s (pip %g)\n", strings.ToUpper(riskSymbol), market.PipSize(riskSymbol))
	fmt.Fprintf(out, "Balance:  %s\n", report.FormatCurrency(bal, cur))
	fmt.Fprintf(out, "Risk:     %s (%s)\n", report.FormatCurrency(risk.RiskAmount(bal, pct), cur), report.Percent(pct))
	fmt.Fprintf(out, "Stop:     %.1f pips\n", riskSLPips)
	fmt.Fprintf(out, "Size:     %.2f lots\n", lots)
	return nil
}

func runRiskKelly(cmd *cobra.Command, args []string) error {
	f := risk.KellyFraction(kellyWinRate, kellyAvgWin, kellyAvgLoss)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Kelly:       %s of capital\n", report.Percent(f*100))
	fmt.Fprintf(out, "Half Kelly:  %s of capital\n", report.Percent(f*50))
	return nil
}

func runRiskBreakeven(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Breakeven win rate at 1:%g: %s\n", rrRatio, report.Percent(risk.BreakevenWinRate(rrRatio)))
	return nil
}

func runRiskRR(cmd *cobra.Command, args []string) error {
	rr := risk.RiskRewardRatio(rrEntry, rrSL, rrTP)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Risk/Reward:   1:%.2f\n", rr)
	fmt.Fprintf(out, "Breakeven WR:  %s\n", report.Percent(risk.BreakevenWinRate(rr)))
	return nil
}

func runRiskRecover(cmd *cobra.Command, args []string) error {
	r := risk.RecoveryStats(recoverDD, recoverTrades)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Gain needed:        %s\n", report.Percent(r.TargetGainPercent))
	fmt.Fprintf(out, "Win rate over %d at 1:%g: %s\n", recoverTrades, risk.RecoveryRR, report.Percent(r.RequiredWinRate))
	return nil
}

func runRiskPlan(cmd *cobra.Command, args []string) error {
	bal, err := balanceOrJournal(cmd.Context())
	if err != nil {
		return err
	}
	plan := risk.TradePlan{
		Symbol:      riskSymbol,
		Balance:     bal,
		RiskPercent: riskPercentOrDefault(),
		Entry:       rrEntry,
		StopLoss:    rrSL,
		TakeProfit:  rrTP,
	}
	d := risk.Evaluate(cfg.Risk, plan)
	report.PrintDecision(cmd.OutOrStdout(), plan, d, cfg.Account.Currency)
	if !d.Allowed {
		return fmt.Errorf("plan violates %d risk rule(s)", len(d.Violations))
	}
	return nil
}
