package market

import "time"

// Ticker identifies a security by its request symbol (e.g. "SCHD").
// Tickers are always iterated in the order they were requested so that
// rank tie-breaks stay reproducible.
type Ticker = string

// PriceBar is one ticker's daily closing price. Immutable once fetched.
type PriceBar struct {
	Date  time.Time
	Close float64
}

// DividendEvent is one ex-dividend cash event, amount per share.
type DividendEvent struct {
	Date   time.Time
	Amount float64
}

// TimePoint is the uniform output unit for every emitted series
// (equity, loan, NMV, margin ratio, dividends, ...).
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SeriesMap holds per-ticker price history.
type SeriesMap map[Ticker][]PriceBar

// DividendMap holds per-ticker dividend events.
type DividendMap map[Ticker][]DividendEvent

// Day normalizes t to UTC midnight. All grid dates use this form.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
