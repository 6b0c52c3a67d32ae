package journal

import (
	"database/sql"
	"fmt"
	"strings"
)

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord
	var tickers, params string

	row := j.db.QueryRow(`
		SELECT run_id, created, tickers, start_date, end_date, params,
		       total_return, cagr, vol_ann, sharpe, sortino, max_drawdown, hit_rate,
		       unlevered_return, margin_breaches
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Created,
		&tickers,
		&rec.Start,
		&rec.End,
		&params,
		&rec.TotalReturn,
		&rec.CAGR,
		&rec.VolAnn,
		&rec.Sharpe,
		&rec.Sortino,
		&rec.MaxDrawdown,
		&rec.HitRate,
		&rec.UnleveredReturn,
		&rec.MarginBreaches,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	if tickers != "" {
		rec.Tickers = strings.Split(tickers, ",")
	}
	rec.Params = []byte(params)
	return rec, nil
}

// ListDailyByRun returns the full daily ledger of one run in date order.
func (j *SQLite) ListDailyByRun(runID string) ([]DailyRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, equity, nmv, loan, margin_ratio, core_value, satellite_value,
		       dividend, dividend_mtd, dividend_ytd, interest, interest_mtd, interest_ytd, deposit
		FROM daily
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyRecord
	for rows.Next() {
		var d DailyRecord
		if err := rows.Scan(
			&d.RunID,
			&d.Date,
			&d.Equity,
			&d.NMV,
			&d.Loan,
			&d.MarginRatio,
			&d.CoreValue,
			&d.SatelliteValue,
			&d.Dividend,
			&d.DividendMTD,
			&d.DividendYTD,
			&d.Interest,
			&d.InterestMTD,
			&d.InterestYTD,
			&d.Deposit,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMarginEventsByRun returns one run's margin log in date order.
func (j *SQLite) ListMarginEventsByRun(runID string) ([]MarginEventRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, kind, ratio, cash_needed, sell_needed
		FROM margin_events
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MarginEventRecord
	for rows.Next() {
		var e MarginEventRecord
		if err := rows.Scan(&e.RunID, &e.Date, &e.Kind, &e.Ratio, &e.CashNeeded, &e.SellNeeded); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPicksByRun returns one run's rebalance selections in date order.
func (j *SQLite) ListPicksByRun(runID string) ([]PickRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, ticker
		FROM picks
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PickRecord
	for rows.Next() {
		var p PickRecord
		if err := rows.Scan(&p.RunID, &p.Date, &p.Ticker); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
