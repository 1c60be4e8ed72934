package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/edge/report"
	"github.com/rustyeddy/edge/risk"
	"github.com/rustyeddy/edge/sim"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Monte Carlo and growth projections",
	Long: `Project account growth from a win rate and reward:risk ratio.

montecarlo runs many random paths and reports worst case (5th
percentile), median and best case (95th percentile) balances per trade
step together with the risk of ruin. growth walks one path under a
FIXED, KELLY or LOT risk model.

Examples:
  edge sim montecarlo --winrate 45 --rr 2 --risk 1 --trades 100 --iterations 1000
  edge sim growth --model KELLY --winrate 55 --rr 1.5 --seed 42`,
}

var simMonteCarloCmd = &cobra.Command{
	Use:     "montecarlo",
	Aliases: []string{"mc"},
	Short:   "Run a Monte Carlo equity simulation",
	Args:    cobra.NoArgs,
	RunE:    runSimMonteCarlo,
}

var simGrowthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Project one growth path under a risk model",
	Args:  cobra.NoArgs,
	RunE:  runSimGrowth,
}

var (
	simParams = sim.DefaultParams()
	simGrowth = sim.DefaultGrowthParams()
)

var (
	simStart    float64
	simModel    string
	simSeedFlag int64
)

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.AddCommand(simMonteCarloCmd)
	simCmd.AddCommand(simGrowthCmd)
	simCmd.PersistentFlags().Int64Var(&simSeedFlag, "seed", 0, "random seed (default: config sim.seed, 0 uses the clock)")

	f := simMonteCarloCmd.Flags()
	f.Float64Var(&simParams.StartBalance, "balance", simParams.StartBalance, "starting balance")
	f.Float64Var(&simParams.WinRatePercent, "winrate", simParams.WinRatePercent, "win rate percent")
	f.Float64Var(&simParams.RiskReward, "rr", simParams.RiskReward, "reward:risk ratio")
	f.Float64Var(&simParams.RiskPerTradePercent, "risk", simParams.RiskPerTradePercent, "percent of balance risked per trade")
	f.IntVar(&simParams.TradeCount, "trades", simParams.TradeCount, "trades per path")
	f.IntVar(&simParams.Iterations, "iterations", simParams.Iterations, "number of paths")

	g := simGrowthCmd.Flags()
	g.Float64Var(&simStart, "balance", sim.DefaultStartBalance, "starting balance")
	g.StringVar(&simModel, "model", string(sim.Fixed), "FIXED, KELLY or LOT")
	g.Float64Var(&simGrowth.WinRatePercent, "winrate", simGrowth.WinRatePercent, "win rate percent")
	g.Float64Var(&simGrowth.RiskReward, "rr", simGrowth.RiskReward, "reward:risk ratio")
	g.Float64Var(&simGrowth.RiskPercent, "risk", simGrowth.RiskPercent, "percent risked per trade (FIXED)")
	g.Float64Var(&simGrowth.KellyPercent, "kelly", 0, "Kelly percent (KELLY, default: derived from winrate and rr)")
	g.Float64Var(&simGrowth.FixedLot, "lot", simGrowth.FixedLot, "lot size (LOT)")
}

func simSource() sim.Source {
	seed := cfg.Sim.Seed
	if simSeedFlag != 0 {
		seed = simSeedFlag
	}
	return sim.NewSource(seed)
}

func runSimMonteCarlo(cmd *cobra.Command, args []string) error {
	p := simParams.Bound(cfg.Sim.MaxOps)
	slog.Debug("monte carlo", "trades", p.TradeCount, "iterations", p.Iterations)
	report.PrintMonteCarlo(cmd.OutOrStdout(), sim.Run(p, simSource()), cfg.Account.Currency)
	return nil
}

func runSimGrowth(cmd *cobra.Command, args []string) error {
	model, err := sim.ParseModel(simModel)
	if err != nil {
		return err
	}
	gp := simGrowth
	if model == sim.Kelly && gp.KellyPercent == 0 {
		gp.KellyPercent = risk.KellyPercent(gp.WinRatePercent, gp.RiskReward)
	}
	report.PrintGrowth(cmd.OutOrStdout(), model, sim.Project(simStart, model, gp, simSource()), cfg.Account.Currency)
	return nil
}
