package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/report"
)

var strategyCmd = &cobra.Command{
	Use:     "strategy",
	Aliases: []string{"strat"},
	Short:   "Manage trading strategies and their checklists",
	Long: `Strategies are named protocols with an ordered entry checklist.
Trades reference a strategy and record which checklist items were met.

Examples:
  edge strategy add --name "London Breakout" --item "Asia range marked" --item "HTF trend aligned"
  edge strategy list
  edge strategy perf`,
}

var strategyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a strategy",
	Args:  cobra.NoArgs,
	RunE:  runStrategyAdd,
}

var strategyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List strategies",
	Args:  cobra.NoArgs,
	RunE:  runStrategyList,
}

var strategyPerfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Score every strategy for discipline and survivability",
	Args:  cobra.NoArgs,
	RunE:  runStrategyPerf,
}

var (
	stratName  string
	stratDesc  string
	stratItems []string
)

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyAddCmd)
	strategyCmd.AddCommand(strategyListCmd)
	strategyCmd.AddCommand(strategyPerfCmd)

	strategyAddCmd.Flags().StringVar(&stratName, "name", "", "strategy name (required)")
	strategyAddCmd.Flags().StringVar(&stratDesc, "desc", "", "description")
	strategyAddCmd.Flags().StringArrayVar(&stratItems, "item", nil, "checklist item (repeatable, in order)")
	strategyAddCmd.MarkFlagRequired("name")
}

func runStrategyAdd(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	s, err := j.AddStrategy(cmd.Context(), journal.Strategy{
		Name:        stratName,
		Description: stratDesc,
		Checklist:   stratItems,
	})
	if err != nil {
		return fmt.Errorf("add strategy: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created strategy %q with %d checklist items: %s\n", s.Name, len(s.Checklist), s.ID)
	return nil
}

func runStrategyList(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	strategies, err := j.ListStrategies(cmd.Context())
	if err != nil {
		return fmt.Errorf("list strategies: %w", err)
	}
	report.PrintStrategyList(cmd.OutOrStdout(), strategies)
	return nil
}

func runStrategyPerf(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	svc, err := newService(j)
	if err != nil {
		return err
	}
	perf, err := svc.StrategyPerformance(cmd.Context(), cfg.Account.UserID)
	if err != nil {
		return err
	}
	report.PrintStrategies(cmd.OutOrStdout(), perf)
	return nil
}
