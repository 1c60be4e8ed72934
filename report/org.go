package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/edge/analytics"
	"github.com/rustyeddy/edge/scoring"
)

// OrgReport is the data behind an org-mode account review.
type OrgReport struct {
	Title      string
	UserID     string
	Currency   string
	Created    time.Time
	Snapshot   analytics.PerformanceSnapshot
	Strategies []scoring.StrategyPerformance
}

var orgFuncs = template.FuncMap{
	"money": FormatCurrency,
	"pct":   Percent,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"netPL": func(s analytics.PerformanceSnapshot) float64 { return s.Equity - s.StartingBalance },
}

var orgTemplate = template.Must(template.New("review").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders r as an org-mode review.
func WriteOrg(w io.Writer, r OrgReport) error {
	if err := orgTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("render org review: %w", err)
	}
	return nil
}

const OrgTemplate = `* REVIEW: {{if .Title}}{{.Title}}{{else}}Account Review{{end}}
:PROPERTIES:
:USER:        {{.UserID}}
:START_BAL:   {{printf "%.2f" .Snapshot.StartingBalance}}
:EQUITY:      {{printf "%.2f" .Snapshot.Equity}}
:NET_PL:      {{printf "%.2f" (netPL .Snapshot)}}
:MAX_DD_PCT:  {{printf "%.2f" .Snapshot.MaxDrawdownPercent}}
:TRADES:      {{.Snapshot.TotalTrades}}
:CLOSED:      {{.Snapshot.ClosedTrades}}
:WIN_RATE:    {{printf "%.2f" .Snapshot.WinRate}}
:PROFIT_FAC:  {{printf "%.2f" .Snapshot.ProfitFactor}}
:PSYCHOLOGY:  {{printf "%.0f" .Snapshot.PsychologyScore}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{money (netPL .Snapshot) .Currency}}*
- Expectancy:       *{{money .Snapshot.Expectancy .Currency}}*
- Max Drawdown:     *{{pct .Snapshot.MaxDrawdownPercent}}*
- Win Rate:         *{{pct .Snapshot.WinRate}}*
- Profit Factor:    *{{printf "%.2f" .Snapshot.ProfitFactor}}*

** Alerts
{{- if .Snapshot.Alerts }}
{{- range .Snapshot.Alerts }}
- [ ] {{.}}
{{- end }}
{{- else }}
- none
{{- end }}
{{- if .Strategies }}

** Strategies
| Strategy | Trades | Win % | PF | Discipline | Score | Grade |
|----------+--------+-------+----+------------+-------+-------|
{{- range .Strategies }}
| {{.Name}} | {{.TotalTrades}} | {{printf "%.1f" .WinRate}} | {{printf "%.2f" .ProfitFactor}} | {{printf "%.0f" .DisciplineScore}} | {{printf "%.0f" .SurvivabilityScore}} | {{.Grade}} |
{{- end }}
{{- end }}
`
