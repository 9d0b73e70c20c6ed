package store

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS matched_trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id TEXT NOT NULL REFERENCES accounts(id),
	symbol TEXT NOT NULL,
	buy_date DATETIME NOT NULL,
	sell_date DATETIME NOT NULL,
	buy_time TEXT NOT NULL DEFAULT '',
	sell_time TEXT NOT NULL DEFAULT '',
	quantity TEXT NOT NULL,
	buy_price TEXT NOT NULL,
	sell_price TEXT NOT NULL,
	profit TEXT NOT NULL,
	commission TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_matched_trades_account_sell
	ON matched_trades(account_id, sell_date);
`
