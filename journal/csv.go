package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/edge/pkg/id"
)

var csvHeader = []string{
	"id", "symbol", "type", "status", "entry_price", "exit_price", "lots", "risk_percent",
	"stop_loss", "take_profit", "pnl", "strategy_id", "checklist", "tags", "notes",
	"entry_time", "exit_time",
}

const csvTime = "2006-01-02T15:04:05.000Z07:00"

// WriteTradesCSV writes trades with a header row. Times are RFC3339 UTC,
// checklists are written as a string of 1 and 0.
func WriteTradesCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.ID,
			t.Symbol,
			string(t.Direction),
			string(t.Status),
			f(t.EntryPrice),
			optF(t.ExitPrice),
			f(t.Lots),
			f(t.RiskPercent),
			optF(t.StopLoss),
			optF(t.TakeProfit),
			optF(t.PnL),
			t.StrategyID,
			encodeChecklist(t.ChecklistComplete),
			strings.Join(t.Tags, ";"),
			t.Notes,
			msTime(t.EntryTime),
			"",
		}
		if t.ExitTime != nil {
			row[16] = msTime(*t.ExitTime)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTradesCSV parses the format written by WriteTradesCSV. A row with
// an empty id gets a fresh one stamped with its entry time.
func ReadTradesCSV(r io.Reader) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range csvHeader {
		if header[i] != h {
			return nil, fmt.Errorf("column %d: want %q, got %q", i, h, header[i])
		}
	}

	var out []Trade
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func parseRow(row []string) (Trade, error) {
	var (
		t   Trade
		err error
	)
	t.ID = row[0]
	t.Symbol = row[1]
	t.Direction = Direction(row[2])
	t.Status = Status(row[3])
	if t.EntryPrice, err = parseF(row[4]); err != nil {
		return Trade{}, fmt.Errorf("entry_price: %w", err)
	}
	if t.ExitPrice, err = parseOptF(row[5]); err != nil {
		return Trade{}, fmt.Errorf("exit_price: %w", err)
	}
	if t.Lots, err = parseF(row[6]); err != nil {
		return Trade{}, fmt.Errorf("lots: %w", err)
	}
	if t.RiskPercent, err = parseF(row[7]); err != nil {
		return Trade{}, fmt.Errorf("risk_percent: %w", err)
	}
	if t.StopLoss, err = parseOptF(row[8]); err != nil {
		return Trade{}, fmt.Errorf("stop_loss: %w", err)
	}
	if t.TakeProfit, err = parseOptF(row[9]); err != nil {
		return Trade{}, fmt.Errorf("take_profit: %w", err)
	}
	if t.PnL, err = parseOptF(row[10]); err != nil {
		return Trade{}, fmt.Errorf("pnl: %w", err)
	}
	t.StrategyID = row[11]
	if t.ChecklistComplete, err = decodeChecklist(row[12]); err != nil {
		return Trade{}, err
	}
	if row[13] != "" {
		t.Tags = strings.Split(row[13], ";")
	}
	t.Notes = row[14]
	if t.EntryTime, err = parseMs(row[15]); err != nil {
		return Trade{}, fmt.Errorf("entry_time: %w", err)
	}
	if row[16] != "" {
		ms, err := parseMs(row[16])
		if err != nil {
			return Trade{}, fmt.Errorf("exit_time: %w", err)
		}
		t.ExitTime = Int64(ms)
	}
	if t.ID == "" {
		t.ID = id.NewAt(time.UnixMilli(t.EntryTime))
	}
	return t, nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func optF(x *float64) string {
	if x == nil {
		return ""
	}
	return f(*x)
}

func parseF(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptF(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func msTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(csvTime)
}

func parseMs(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func encodeChecklist(items []bool) string {
	var b strings.Builder
	for _, ok := range items {
		if ok {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func decodeChecklist(s string) ([]bool, error) {
	if s == "" {
		return nil, nil
	}
	out := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			out[i] = true
		case '0':
		default:
			return nil, fmt.Errorf("checklist: unexpected %q", s[i])
		}
	}
	return out, nil
}
