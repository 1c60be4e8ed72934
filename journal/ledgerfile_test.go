package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerFileCodecs(t *testing.T) {
	t.Parallel()

	l := Ledger{
		Format:     LedgerFormat,
		ExportedAt: t0.UnixMilli(),
		UserID:     "u1",
		Balance:    12500,
		Trades: []Trade{
			openTrade("USDJPY"),
			openTrade("XAUUSD").Close(2031.5, -45, t0.Add(90*time.Minute).UnixMilli()),
		},
		Strategies: []Strategy{{ID: "s1", Name: "Pullback", Checklist: []string{"trend", "level"}}},
	}
	l.Trades[0].ID = "a"
	l.Trades[1].ID = "b"

	for _, name := range []string{"ledger.json", "ledger.json.xz", "ledger.json.gz"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveLedgerFile(path, l))

			got, err := LoadLedgerFile(path)
			require.NoError(t, err)
			assert.Equal(t, l, got)
		})
	}
}

func TestLedgerFileCompresses(t *testing.T) {
	t.Parallel()

	l := Ledger{Format: LedgerFormat, UserID: "u1", Balance: 10000}
	for i := 0; i < 200; i++ {
		tr := openTrade("EURUSD")
		tr.ID = string(rune('A'+i%26)) + string(rune('a'+i/26))
		tr.Notes = "waited for the retest of the London high before entering"
		l.Trades = append(l.Trades, tr)
	}

	dir := t.TempDir()
	plain := filepath.Join(dir, "l.json")
	packed := filepath.Join(dir, "l.json.xz")
	require.NoError(t, SaveLedgerFile(plain, l))
	require.NoError(t, SaveLedgerFile(packed, l))

	a, err := os.Stat(plain)
	require.NoError(t, err)
	b, err := os.Stat(packed)
	require.NoError(t, err)
	assert.Less(t, b.Size(), a.Size()/4)
}

func TestLoadLedgerFileErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadLedgerFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "open ledger")

	bad := filepath.Join(t.TempDir(), "bad.json.xz")
	require.NoError(t, os.WriteFile(bad, []byte("not xz"), 0644))
	_, err = LoadLedgerFile(bad)
	assert.ErrorContains(t, err, "xz reader")
}
