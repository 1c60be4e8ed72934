// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	user_id TEXT PRIMARY KEY,
	balance REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS strategies (
	strategy_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	checklist TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	status TEXT NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL,
	lots REAL NOT NULL,
	risk_percent REAL NOT NULL DEFAULT 0,
	stop_loss REAL,
	take_profit REAL,
	pnl REAL,
	strategy_id TEXT NOT NULL DEFAULT '',
	checklist TEXT NOT NULL DEFAULT '[]',
	tags TEXT NOT NULL DEFAULT '[]',
	notes TEXT NOT NULL DEFAULT '',
	entry_time INTEGER NOT NULL,
	exit_time INTEGER,
	version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_trades_user_entry ON trades(user_id, entry_time);
CREATE INDEX IF NOT EXISTS idx_trades_exit ON trades(exit_time);
`
