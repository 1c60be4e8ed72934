package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/edge/analytics"
	"github.com/rustyeddy/edge/report"
	"github.com/rustyeddy/edge/scoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the account performance snapshot",
	Long: `Show equity, drawdown, win rate, profit factor, expectancy, the
psychology score and any behavioral alerts for the journal owner.

With --org the snapshot and per-strategy scores are written as an
org-mode review instead.

Examples:
  edge stats
  edge stats --org review.org --title "October review"`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsOrg   string
	statsTitle string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsOrg, "org", "", "write an org-mode review to this file (- for stdout)")
	statsCmd.Flags().StringVar(&statsTitle, "title", "", "title of the org review")
}

func runStats(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	svc, err := newService(j)
	if err != nil {
		return err
	}
	ctx, user := cmd.Context(), cfg.Account.UserID

	if statsOrg == "" {
		snap, err := svc.Snapshot(ctx, user)
		if err != nil {
			return err
		}
		report.PrintSnapshot(cmd.OutOrStdout(), snap, cfg.Account.Currency)
		return nil
	}

	var (
		snap analytics.PerformanceSnapshot
		perf []scoring.StrategyPerformance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap, err = svc.Snapshot(gctx, user)
		return err
	})
	g.Go(func() (err error) {
		perf, err = svc.StrategyPerformance(gctx, user)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	r := report.OrgReport{
		Title:      statsTitle,
		UserID:     user,
		Currency:   cfg.Account.Currency,
		Created:    time.Now(),
		Snapshot:   snap,
		Strategies: perf,
	}
	if statsOrg == "-" {
		return report.WriteOrg(cmd.OutOrStdout(), r)
	}
	f, err := os.Create(statsOrg)
	if err != nil {
		return fmt.Errorf("create %s: %w", statsOrg, err)
	}
	defer f.Close()
	if err := report.WriteOrg(f, r); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote review to %s\n", statsOrg)
	return f.Close()
}
