// Package journal persists simulation output so runs can be compared
// after the fact. Two backends share one interface: CSV files for quick
// spreadsheet work and SQLite for queries across many runs.
package journal

import "time"

// RunRecord summarizes one completed simulation: identity, inputs and
// headline results. Params holds the JSON snapshot of the strategy
// parameters so a run can be reproduced exactly.
type RunRecord struct {
	RunID   string
	Created time.Time
	Tickers []string
	Start   time.Time
	End     time.Time
	Params  []byte

	TotalReturn float64
	CAGR        float64
	VolAnn      float64
	Sharpe      float64
	Sortino     float64
	MaxDrawdown float64
	HitRate     float64

	UnleveredReturn float64
	MarginBreaches  int
}

// DailyRecord is one day of the levered ledger, accumulators included.
type DailyRecord struct {
	RunID          string
	Date           time.Time
	Equity         float64
	NMV            float64
	Loan           float64
	MarginRatio    float64
	CoreValue      float64
	SatelliteValue float64
	Dividend       float64
	DividendMTD    float64
	DividendYTD    float64
	Interest       float64
	InterestMTD    float64
	InterestYTD    float64
	Deposit        float64
}

// MarginEventRecord is one margin log entry.
type MarginEventRecord struct {
	RunID      string
	Date       time.Time
	Kind       string
	Ratio      float64
	CashNeeded float64
	SellNeeded float64
}

// PickRecord is one rebalance-boundary selection.
type PickRecord struct {
	RunID  string
	Date   time.Time
	Ticker string
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordDaily(DailyRecord) error
	RecordMarginEvent(MarginEventRecord) error
	RecordPick(PickRecord) error
	Close() error
}
