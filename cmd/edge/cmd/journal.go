package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/report"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Log and query trades",
	Long: `Manage the trade journal stored in SQLite.

Subcommands:
  add      - Log a new trade
  close    - Close an open trade
  list     - List every trade
  show     - Show a trade as an org-mode entry
  day      - List trades closed on a specific day
  delete   - Remove a trade
  balance  - Show or set the baseline account balance
  export   - Write the whole ledger to JSON (.xz/.gz compressed) or trades to CSV
  import   - Load a ledger or trade CSV

Examples:
  edge journal add --symbol EURUSD --dir LONG --entry 1.0850 --lots 0.5 --risk 1 --sl 1.0830
  edge journal close 01HV... --exit 1.0890 --pnl 200
  edge journal day 2024-01-15
  edge journal export -o backup.json.xz`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalAdd,
}

var journalCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Close an open trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalClose,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show a trade as an org-mode entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD|today>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Remove a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDelete,
}

var journalBalanceCmd = &cobra.Command{
	Use:   "balance [amount]",
	Short: "Show or set the baseline account balance",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalBalance,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var journalImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a ledger (.json, .json.xz, .json.gz) or trades (.csv)",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalImport,
}

var (
	addSymbol    string
	addDir       string
	addEntry     float64
	addLots      float64
	addRisk      float64
	addSL        float64
	addTP        float64
	addStrategy  string
	addChecklist string
	addTags      []string
	addNotes     string

	closeExit float64
	closePnL  float64

	exportOutput string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalCloseCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalDeleteCmd)
	journalCmd.AddCommand(journalBalanceCmd)
	journalCmd.AddCommand(journalExportCmd)
	journalCmd.AddCommand(journalImportCmd)

	f := journalAddCmd.Flags()
	f.StringVar(&addSymbol, "symbol", "", "instrument, e.g. EURUSD (required)")
	f.StringVar(&addDir, "dir", "LONG", "LONG or SHORT")
	f.Float64Var(&addEntry, "entry", 0, "entry price")
	f.Float64Var(&addLots, "lots", 0, "position size in lots (required)")
	f.Float64Var(&addRisk, "risk", 1, "percent of the account at risk")
	f.Float64Var(&addSL, "sl", 0, "stop loss price")
	f.Float64Var(&addTP, "tp", 0, "take profit price")
	f.StringVar(&addStrategy, "strategy", "", "strategy ID")
	f.StringVar(&addChecklist, "checklist", "", "checklist answers in strategy order, e.g. 1,1,0")
	f.StringSliceVar(&addTags, "tag", nil, "tag (repeatable)")
	f.StringVar(&addNotes, "notes", "", "free-form notes")
	journalAddCmd.MarkFlagRequired("symbol")
	journalAddCmd.MarkFlagRequired("lots")

	journalCloseCmd.Flags().Float64Var(&closeExit, "exit", 0, "exit price (required)")
	journalCloseCmd.Flags().Float64Var(&closePnL, "pnl", 0, "realized profit or loss (required)")
	journalCloseCmd.MarkFlagRequired("exit")
	journalCloseCmd.MarkFlagRequired("pnl")

	journalExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "ledger.json", "output file; .csv writes trades only")
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	checklist, err := parseChecklist(addChecklist)
	if err != nil {
		return err
	}
	t := journal.Trade{
		Symbol:            strings.ToUpper(addSymbol),
		Direction:         journal.Direction(strings.ToUpper(addDir)),
		EntryPrice:        addEntry,
		Lots:              addLots,
		RiskPercent:       addRisk,
		StrategyID:        addStrategy,
		ChecklistComplete: checklist,
		Tags:              addTags,
		Notes:             addNotes,
	}
	if addSL != 0 {
		t.StopLoss = journal.Float(addSL)
	}
	if addTP != 0 {
		t.TakeProfit = journal.Float(addTP)
	}

	saved, err := j.AddTrade(cmd.Context(), cfg.Account.UserID, t)
	if err != nil {
		return fmt.Errorf("add trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged %s %s %.2f lots: %s\n", saved.Symbol, saved.Direction, saved.Lots, saved.ID)
	return nil
}

func parseChecklist(s string) ([]bool, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []bool
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseBool(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("checklist item %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func runJournalClose(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	t, err := j.CloseTrade(cmd.Context(), cfg.Account.UserID, args[0], closeExit, closePnL, 0)
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Closed %s %s at %g: %s\n", t.Symbol, t.ID,
		*t.ExitPrice, report.FormatCurrency(*t.PnL, cfg.Account.Currency))
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTrades(cmd.Context(), cfg.Account.UserID)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}
	report.PrintTrades(cmd.OutOrStdout(), trades, cfg.Account.Currency)
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	t, err := j.GetTrade(cmd.Context(), cfg.Account.UserID, args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t))
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	day := args[0]
	if day == "today" {
		day = time.Now().In(loc).Format("2006-01-02")
	}
	start, end, err := journal.DayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	trades, err := j.ListTradesClosedBetween(cmd.Context(), cfg.Account.UserID, start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(trades))
	return nil
}

func runJournalDelete(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	found, err := j.DeleteTrade(cmd.Context(), cfg.Account.UserID, args[0])
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if !found {
		return fmt.Errorf("trade %q: %w", args[0], journal.ErrNotFound)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
	return nil
}

func runJournalBalance(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ctx, user := cmd.Context(), cfg.Account.UserID
	if len(args) == 1 {
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("balance: %w", err)
		}
		if err := j.SetBalance(ctx, user, amount); err != nil {
			return fmt.Errorf("set balance: %w", err)
		}
	}
	bal, err := j.AccountBalance(ctx, user)
	if err != nil {
		return fmt.Errorf("account balance: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s\n", report.FormatCurrency(bal, cfg.Account.Currency))
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ctx, user := cmd.Context(), cfg.Account.UserID
	if strings.EqualFold(filepath.Ext(exportOutput), ".csv") {
		trades, err := j.ListTrades(ctx, user)
		if err != nil {
			return fmt.Errorf("list trades: %w", err)
		}
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		defer f.Close()
		if err := journal.WriteTradesCSV(f, trades); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(trades), exportOutput)
		return f.Close()
	}

	l, err := journal.ExportLedger(ctx, j, user, time.Now())
	if err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}
	if err := journal.SaveLedgerFile(exportOutput, l); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades and %d strategies to %s\n", len(l.Trades), len(l.Strategies), exportOutput)
	return nil
}

func runJournalImport(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	path := args[0]
	var l journal.Ledger
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		trades, err := journal.ReadTradesCSV(f)
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		l = journal.Ledger{Format: journal.LedgerFormat, Trades: trades}
	} else {
		l, err = journal.LoadLedgerFile(path)
		if err != nil {
			return err
		}
	}

	n, err := j.ImportLedger(cmd.Context(), cfg.Account.UserID, l)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades and %d strategies from %s\n", n, len(l.Strategies), path)
	return nil
}
