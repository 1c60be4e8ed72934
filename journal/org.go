package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a Trade as an Org-mode block suitable for pasting into a journal.
// Structured facts go into the PROPERTIES drawer; Thesis/Execution/Review are left
// as narrative placeholders.
func FormatTradeOrg(t Trade) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Symbol, t.Direction, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", t.Status))
	b.WriteString(fmt.Sprintf(":LOTS: %.2f\n", t.Lots))
	b.WriteString(fmt.Sprintf(":RISK_PCT: %.2f\n", t.RiskPercent))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.5f\n", t.EntryPrice))
	if t.ExitPrice != nil {
		b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.5f\n", *t.ExitPrice))
	}
	b.WriteString(fmt.Sprintf(":OPEN_TIME: %s\n", orgTime(t.EntryTime)))
	if t.ExitTime != nil {
		b.WriteString(fmt.Sprintf(":CLOSE_TIME: %s\n", orgTime(*t.ExitTime)))
	}
	if t.PnL != nil {
		b.WriteString(fmt.Sprintf(":REALIZED_PL: %.2f\n", *t.PnL))
	}
	if t.StrategyID != "" {
		b.WriteString(fmt.Sprintf(":STRATEGY: %s\n", t.StrategyID))
	}
	if len(t.Tags) > 0 {
		b.WriteString(fmt.Sprintf(":TAGS: %s\n", strings.Join(t.Tags, " ")))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	if len(t.ChecklistComplete) > 0 {
		b.WriteString("*** Checklist\n")
		for i, ok := range t.ChecklistComplete {
			mark := " "
			if ok {
				mark = "X"
			}
			b.WriteString(fmt.Sprintf("- [%s] item %d\n", mark, i+1))
		}
		b.WriteString("\n")
	}
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- ")
	if t.Notes != "" {
		b.WriteString(t.Notes)
	}
	b.WriteString("\n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func orgTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
