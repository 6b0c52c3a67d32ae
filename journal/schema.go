package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	tickers TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	params TEXT NOT NULL,
	total_return REAL NOT NULL,
	cagr REAL NOT NULL,
	vol_ann REAL NOT NULL,
	sharpe REAL NOT NULL,
	sortino REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	hit_rate REAL NOT NULL,
	unlevered_return REAL NOT NULL,
	margin_breaches INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS daily (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	equity REAL NOT NULL,
	nmv REAL NOT NULL,
	loan REAL NOT NULL,
	margin_ratio REAL NOT NULL,
	core_value REAL NOT NULL,
	satellite_value REAL NOT NULL,
	dividend REAL NOT NULL,
	dividend_mtd REAL NOT NULL,
	dividend_ytd REAL NOT NULL,
	interest REAL NOT NULL,
	interest_mtd REAL NOT NULL,
	interest_ytd REAL NOT NULL,
	deposit REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS margin_events (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	kind TEXT NOT NULL,
	ratio REAL NOT NULL,
	cash_needed REAL NOT NULL,
	sell_needed REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS picks (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	ticker TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_daily_run ON daily(run_id, date);
CREATE INDEX IF NOT EXISTS idx_margin_events_run ON margin_events(run_id, date);
CREATE INDEX IF NOT EXISTS idx_picks_run ON picks(run_id, date);
`
