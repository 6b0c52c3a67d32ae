package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CSV writes one file per record kind under a single directory:
// runs.csv, daily.csv, margin_events.csv, picks.csv. Each write is
// flushed immediately so a crashed run still leaves usable files.
type CSV struct {
	runs, daily, events, picks *csv.Writer
	files                      []*os.File
}

func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	j := &CSV{}
	headers := []struct {
		name   string
		fields []string
		dst    **csv.Writer
	}{
		{"runs.csv", []string{"run_id", "created", "tickers", "start_date", "end_date", "params", "total_return", "cagr", "vol_ann", "sharpe", "sortino", "max_drawdown", "hit_rate", "unlevered_return", "margin_breaches"}, &j.runs},
		{"daily.csv", []string{"run_id", "date", "equity", "nmv", "loan", "margin_ratio", "core_value", "satellite_value", "dividend", "dividend_mtd", "dividend_ytd", "interest", "interest_mtd", "interest_ytd", "deposit"}, &j.daily},
		{"margin_events.csv", []string{"run_id", "date", "kind", "ratio", "cash_needed", "sell_needed"}, &j.events},
		{"picks.csv", []string{"run_id", "date", "ticker"}, &j.picks},
	}

	for _, h := range headers {
		file, err := os.Create(filepath.Join(dir, h.name))
		if err != nil {
			j.Close()
			return nil, err
		}
		j.files = append(j.files, file)

		w := csv.NewWriter(file)
		if err := w.Write(h.fields); err != nil {
			j.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			j.Close()
			return nil, err
		}
		*h.dst = w
	}

	return j, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		strings.Join(r.Tickers, ","),
		r.Start.Format(time.RFC3339),
		r.End.Format(time.RFC3339),
		string(r.Params),
		f(r.TotalReturn),
		f(r.CAGR),
		f(r.VolAnn),
		f(r.Sharpe),
		f(r.Sortino),
		f(r.MaxDrawdown),
		f(r.HitRate),
		f(r.UnleveredReturn),
		strconv.Itoa(r.MarginBreaches),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSV) RecordDaily(d DailyRecord) error {
	err := j.daily.Write([]string{
		d.RunID,
		d.Date.Format(time.RFC3339),
		f(d.Equity),
		f(d.NMV),
		f(d.Loan),
		f(d.MarginRatio),
		f(d.CoreValue),
		f(d.SatelliteValue),
		f(d.Dividend),
		f(d.DividendMTD),
		f(d.DividendYTD),
		f(d.Interest),
		f(d.InterestMTD),
		f(d.InterestYTD),
		f(d.Deposit),
	})
	if err != nil {
		return err
	}
	j.daily.Flush()
	return j.daily.Error()
}

func (j *CSV) RecordMarginEvent(e MarginEventRecord) error {
	err := j.events.Write([]string{
		e.RunID,
		e.Date.Format(time.RFC3339),
		e.Kind,
		f(e.Ratio),
		f(e.CashNeeded),
		f(e.SellNeeded),
	})
	if err != nil {
		return err
	}
	j.events.Flush()
	return j.events.Error()
}

func (j *CSV) RecordPick(p PickRecord) error {
	err := j.picks.Write([]string{
		p.RunID,
		p.Date.Format(time.RFC3339),
		p.Ticker,
	})
	if err != nil {
		return err
	}
	j.picks.Flush()
	return j.picks.Error()
}

func (j *CSV) Close() error {
	var firstErr error
	for _, w := range []*csv.Writer{j.runs, j.daily, j.events, j.picks} {
		if w == nil {
			continue
		}
		w.Flush()
		if err := w.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, file := range j.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
