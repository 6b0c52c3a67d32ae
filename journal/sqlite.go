package journal

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, tickers, start_date, end_date, params,
		 total_return, cagr, vol_ann, sharpe, sortino, max_drawdown, hit_rate,
		 unlevered_return, margin_breaches)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, strings.Join(r.Tickers, ","), r.Start, r.End, string(r.Params),
		r.TotalReturn, r.CAGR, r.VolAnn, r.Sharpe, r.Sortino, r.MaxDrawdown, r.HitRate,
		r.UnleveredReturn, r.MarginBreaches,
	)
	return err
}

func (j *SQLite) RecordDaily(d DailyRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO daily
		(run_id, date, equity, nmv, loan, margin_ratio, core_value, satellite_value,
		 dividend, dividend_mtd, dividend_ytd, interest, interest_mtd, interest_ytd, deposit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.RunID, d.Date, d.Equity, d.NMV, d.Loan, d.MarginRatio,
		d.CoreValue, d.SatelliteValue,
		d.Dividend, d.DividendMTD, d.DividendYTD,
		d.Interest, d.InterestMTD, d.InterestYTD, d.Deposit,
	)
	return err
}

func (j *SQLite) RecordMarginEvent(e MarginEventRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO margin_events
		(run_id, date, kind, ratio, cash_needed, sell_needed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Date, e.Kind, e.Ratio, e.CashNeeded, e.SellNeeded,
	)
	return err
}

func (j *SQLite) RecordPick(p PickRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO picks (run_id, date, ticker) VALUES (?, ?, ?)`,
		p.RunID, p.Date, p.Ticker,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
