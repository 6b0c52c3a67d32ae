package strategies

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/marginsim/market"
)

// ScreenerRow summarizes one ticker over the screening window.
type ScreenerRow struct {
	Ticker           market.Ticker
	PriceReturn      float64 // lookback price return
	TotalReturn      float64 // lookback price + dividend return
	RankSum          int     // combined rank, lower is better
	TrailingDivYield float64 // 12-month dividend sum / last close
	VolAnn           float64
	Sharpe           float64
}

// Screen ranks every ticker in the grid over the lookback window ending
// at the last aligned day. Returns one row per ticker in requested
// order; an empty grid yields no rows.
func Screen(g market.Grid, lookbackDays int) []ScreenerRow {
	if g.Len() == 0 {
		return nil
	}
	n := len(g.Tickers)
	last := g.Len() - 1

	days := make([]int64, g.Len())
	for i, d := range g.Dates {
		days[i] = d.Unix()
	}
	start := windowStart(days, last, lookbackDays)
	yearStart := windowStart(days, last, 365)

	px0 := g.Prices[start]
	pxt := g.Prices[last]

	rows := make([]ScreenerRow, n)
	priceRet := make([]float64, n)
	totalRet := make([]float64, n)
	for j := 0; j < n; j++ {
		var divWindow, divYear float64
		for i := start; i <= last; i++ {
			divWindow += g.Dividends[i][j]
		}
		for i := yearStart; i <= last; i++ {
			divYear += g.Dividends[i][j]
		}
		if px0[j] > 0 {
			priceRet[j] = pxt[j]/px0[j] - 1
			totalRet[j] = (pxt[j]+divWindow)/px0[j] - 1
		}

		returns := dailyReturns(g, j)
		var vol, sharpe float64
		if len(returns) >= 2 {
			mean := stat.Mean(returns, nil)
			std := stat.StdDev(returns, nil)
			vol = std * math.Sqrt(252)
			if vol > 0 {
				sharpe = mean * 252 / vol
			}
		}

		rows[j] = ScreenerRow{
			Ticker:      g.Tickers[j],
			PriceReturn: priceRet[j],
			TotalReturn: totalRet[j],
			VolAnn:      vol,
			Sharpe:      sharpe,
		}
		if pxt[j] > 0 {
			rows[j].TrailingDivYield = divYear / pxt[j]
		}
	}

	score := make([]int, n)
	addRanks(score, priceRet)
	addRanks(score, totalRet)
	for j := range rows {
		rows[j].RankSum = score[j]
	}
	return rows
}

// dailyReturns extracts ticker j's simple daily price returns, guarding
// zero prices to a zero return.
func dailyReturns(g market.Grid, j int) []float64 {
	if g.Len() < 2 {
		return nil
	}
	out := make([]float64, 0, g.Len()-1)
	for t := 1; t < g.Len(); t++ {
		prev := g.Prices[t-1][j]
		if prev > 0 {
			out = append(out, g.Prices[t][j]/prev-1)
		} else {
			out = append(out, 0)
		}
	}
	return out
}
