package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/edge/report"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show weekday, asset and edge insights",
	Long: `Derive plain-language observations from closed trades: losing
assets, weekday fatigue relative to the overall win rate, a detected
edge and checklist-driven stability.

Weekdays are taken in the configured account timezone.`,
	Args: cobra.NoArgs,
	RunE: runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	svc, err := newService(j)
	if err != nil {
		return err
	}
	in, err := svc.Insights(cmd.Context(), cfg.Account.UserID)
	if err != nil {
		return err
	}
	report.PrintInsights(cmd.OutOrStdout(), in)
	return nil
}
