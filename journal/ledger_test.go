package journal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerExportImport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src, _ := newTestSQLite(t)

	s, err := src.AddStrategy(ctx, Strategy{Name: "Breakout", Checklist: []string{"range defined"}, CreatedAt: 5})
	require.NoError(t, err)
	require.NoError(t, src.SetBalance(ctx, "u1", 15000))

	tr := openTrade("EURUSD")
	tr.StrategyID = s.ID
	tr.ChecklistComplete = []bool{true}
	saved, err := src.AddTrade(ctx, "u1", tr)
	require.NoError(t, err)
	_, err = src.CloseTrade(ctx, "u1", saved.ID, 1.0870, 100, t0.Add(time.Hour).UnixMilli())
	require.NoError(t, err)

	l, err := ExportLedger(ctx, src, "u1", t0)
	require.NoError(t, err)
	assert.Equal(t, LedgerFormat, l.Format)
	assert.Equal(t, 15000.0, l.Balance)
	require.Len(t, l.Trades, 1)
	require.Len(t, l.Strategies, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, l))

	read, err := ReadLedger(&buf)
	require.NoError(t, err)
	assert.Equal(t, l, read)

	dst, _ := newTestSQLite(t)
	n, err := dst.ImportLedger(ctx, "u2", read)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	trades, err := dst.ListTrades(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, l.Trades, trades)

	bal, err := dst.AccountBalance(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 15000.0, bal)

	strategies, err := dst.ListStrategies(ctx)
	require.NoError(t, err)
	assert.Equal(t, l.Strategies, strategies)
}

func TestImportLedgerKeepsOtherUsersTrades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	a, err := j.AddTrade(ctx, "alice", openTrade("EURUSD"))
	require.NoError(t, err)

	stolen := openTrade("GBPUSD")
	stolen.ID = a.ID
	_, err = j.ImportLedger(ctx, "mallory", Ledger{Format: LedgerFormat, Balance: 1, Trades: []Trade{stolen}})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := j.GetTrade(ctx, "alice", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", got.Symbol)

	mine, err := j.ListTrades(ctx, "mallory")
	require.NoError(t, err)
	assert.Empty(t, mine)
	bal, err := j.AccountBalance(ctx, "mallory")
	require.NoError(t, err)
	assert.Equal(t, DefaultBalance, bal)

	// re-importing one's own trade replaces it
	own := a
	own.Notes = "restored"
	n, err := j.ImportLedger(ctx, "alice", Ledger{Format: LedgerFormat, Trades: []Trade{own}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err = j.GetTrade(ctx, "alice", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "restored", got.Notes)
}

func TestReadLedgerRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"garbage", `{`, "decode ledger"},
		{"format", `{"format": 7}`, "unsupported ledger format"},
		{"missing id", `{"format":1,"trades":[{"symbol":"EURUSD"}]}`, "has no id"},
		{"invalid trade", `{"format":1,"trades":[{"id":"a","symbol":"EURUSD","type":"LONG","status":"OPEN","lots":0,"entryTime":1}]}`, "lots must be positive"},
		{"duplicate", `{"format":1,"trades":[
			{"id":"a","symbol":"EURUSD","type":"LONG","status":"OPEN","lots":1,"entryTime":1},
			{"id":"a","symbol":"EURUSD","type":"LONG","status":"OPEN","lots":1,"entryTime":2}]}`, "duplicate trade id"},
		{"strategy", `{"format":1,"strategies":[{"id":"s","name":""}]}`, "name is required"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadLedger(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
