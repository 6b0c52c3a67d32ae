package market

import (
	"sort"
	"time"
)

// Grid is the aligned view of every requested ticker on one common date
// axis. Dates are strictly increasing and identical across tickers
// (built by intersection); every ticker has a price for every date, and
// a dividend amount of 0 on dates with no ex-dividend event.
type Grid struct {
	Tickers   []Ticker
	Dates     []time.Time
	Prices    [][]float64 // [day][ticker]
	Dividends [][]float64 // [day][ticker]
}

// Len returns the number of aligned trading days. A zero-length grid
// means the tickers share no common dates; callers must treat that as
// insufficient data, not divide by it.
func (g Grid) Len() int { return len(g.Dates) }

// Align intersects per-ticker price histories onto one ordered date
// axis and fills parallel price and dividend matrices. Tickers keep
// their requested order. Histories that differ in coverage simply
// shrink the intersection; an empty intersection yields a zero-row
// grid.
func Align(prices SeriesMap, divs DividendMap, tickers []Ticker) Grid {
	g := Grid{Tickers: tickers}
	if len(tickers) == 0 {
		return g
	}

	type closeByDay map[int64]float64

	priceIdx := make([]closeByDay, len(tickers))
	for i, tk := range tickers {
		idx := make(closeByDay, len(prices[tk]))
		for _, bar := range prices[tk] {
			idx[Day(bar.Date).Unix()] = bar.Close
		}
		priceIdx[i] = idx
	}

	var common []int64
	for day := range priceIdx[0] {
		shared := true
		for i := 1; i < len(priceIdx); i++ {
			if _, ok := priceIdx[i][day]; !ok {
				shared = false
				break
			}
		}
		if shared {
			common = append(common, day)
		}
	}
	sort.Slice(common, func(a, b int) bool { return common[a] < common[b] })

	divIdx := make([]closeByDay, len(tickers))
	for i, tk := range tickers {
		idx := make(closeByDay, len(divs[tk]))
		for _, ev := range divs[tk] {
			// Two events on one ex-date collapse into one cash amount.
			idx[Day(ev.Date).Unix()] += ev.Amount
		}
		divIdx[i] = idx
	}

	g.Dates = make([]time.Time, len(common))
	g.Prices = make([][]float64, len(common))
	g.Dividends = make([][]float64, len(common))
	for t, day := range common {
		g.Dates[t] = time.Unix(day, 0).UTC()
		pRow := make([]float64, len(tickers))
		dRow := make([]float64, len(tickers))
		for i := range tickers {
			pRow[i] = priceIdx[i][day]
			dRow[i] = divIdx[i][day]
		}
		g.Prices[t] = pRow
		g.Dividends[t] = dRow
	}
	return g
}
