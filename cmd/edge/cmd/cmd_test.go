package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a fresh journal path. Flag
// globals survive between runs, so every call passes what it needs.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", db, "--user", "tester", "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func lastField(s string) string {
	f := strings.Fields(strings.TrimSpace(s))
	return f[len(f)-1]
}

func TestVersion(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "edge.db"), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "edge version "+version)
}

func TestJournalLifecycle(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "edge.db")

	out, err := run(t, db, "journal", "balance", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "$20,000.00")

	stratItems = nil
	out, err = run(t, db, "strategy", "add", "--name", "Breakout", "--item", "range marked", "--item", "trend aligned")
	require.NoError(t, err)
	stratID := lastField(out)

	out, err = run(t, db, "journal", "add", "--symbol", "eurusd", "--dir", "long", "--entry", "1.085",
		"--lots", "0.5", "--sl", "1.083", "--strategy", stratID, "--checklist", "true,false")
	require.NoError(t, err)
	assert.Contains(t, out, "EURUSD LONG 0.50 lots")
	tradeID := lastField(out)

	out, err = run(t, db, "journal", "close", tradeID, "--exit", "1.089", "--pnl", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "$200.00")

	_, err = run(t, db, "journal", "close", tradeID, "--exit", "1.089", "--pnl", "200")
	require.Error(t, err)

	out, err = run(t, db, "journal", "show", tradeID)
	require.NoError(t, err)
	assert.Contains(t, out, ":TRADE_ID: "+tradeID)
	assert.Contains(t, out, "- [X] item 1")

	out, err = run(t, db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Account Snapshot")
	assert.Contains(t, out, "$20,200.00")

	out, err = run(t, db, "strategy", "perf")
	require.NoError(t, err)
	assert.Contains(t, out, "Breakout")

	out, err = run(t, db, "journal", "day", "today")
	require.NoError(t, err)
	assert.Contains(t, out, tradeID)

	ledger := filepath.Join(dir, "backup.json.xz")
	_, err = run(t, db, "journal", "export", "-o", ledger)
	require.NoError(t, err)
	_, err = os.Stat(ledger)
	require.NoError(t, err)

	out, err = run(t, db, "journal", "delete", tradeID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	_, err = run(t, db, "journal", "delete", tradeID)
	require.Error(t, err)

	out, err = run(t, db, "journal", "import", ledger)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 trades")

	out, err = run(t, db, "journal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, tradeID)
}

func TestJournalCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "edge.db")
	csvPath := filepath.Join(dir, "trades.csv")

	_, err := run(t, db, "journal", "add", "--symbol", "USDJPY", "--dir", "SHORT", "--entry", "150",
		"--lots", "1", "--sl", "150.2", "--strategy", "", "--checklist", "")
	require.NoError(t, err)

	out, err := run(t, db, "journal", "export", "-o", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 trades")

	other := filepath.Join(dir, "other.db")
	out, err = run(t, other, "journal", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 trades")
}

func TestRiskCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "edge.db")

	out, err := run(t, db, "risk", "size", "--symbol", "EURUSD", "--balance", "10000", "--risk", "1", "--sl-pips", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Size:     0.50 lots")

	out, err = run(t, db, "risk", "breakeven", "--rr", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "33.33%")

	out, err = run(t, db, "risk", "kelly", "--winrate", "50", "--avg-win", "2", "--avg-loss", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "25.00%")

	out, err = run(t, db, "risk", "recover", "--drawdown", "50", "--trades", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "100.00%")

	out, err = run(t, db, "risk", "plan", "--symbol", "EURUSD", "--balance", "10000", "--risk", "5",
		"--entry", "1.1", "--sl", "1.098", "--tp", "1.104")
	require.Error(t, err)
	assert.Contains(t, out, "BLOCKED")
}

func TestSimCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "edge.db")

	out, err := run(t, db, "sim", "montecarlo", "--seed", "7", "--trades", "20", "--iterations", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "Monte Carlo Projection")
	assert.Contains(t, out, "Risk of Ruin")

	out, err = run(t, db, "sim", "growth", "--seed", "7", "--model", "kelly")
	require.NoError(t, err)
	assert.Contains(t, out, "Growth Projection: KELLY")

	_, err = run(t, db, "sim", "growth", "--seed", "7", "--model", "martingale")
	require.Error(t, err)
}
