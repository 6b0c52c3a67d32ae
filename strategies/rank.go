// Package strategies holds the pure decision functions the simulator
// calls at rebalance boundaries: momentum ranking, the two-bucket
// target allocation, and the standalone screener built on the same
// window math.
package strategies

import "github.com/rustyeddy/marginsim/market"

// Picks is the outcome of one ranking pass: indices into the grid's
// ticker order.
type Picks struct {
	Best  int
	Worst int
}

// windowStart returns the first day index at least lookbackDays
// calendar days before day t, or 0 if history is shorter.
func windowStart(dates []int64, t, lookbackDays int) int {
	end := dates[t]
	for i := t; i >= 0; i-- {
		if (end-dates[i])/86400 >= int64(lookbackDays) {
			return i
		}
	}
	return 0
}

// RankBestWorst scores every ticker over the lookback window ending at
// day t and returns the best and worst picks.
//
// Each ticker is ranked independently by price return and by total
// return (price plus window dividends), rank 1 = highest; the two ranks
// sum to a combined score where lower is better. Ties keep the earliest
// requested ticker.
func RankBestWorst(g market.Grid, t, lookbackDays int) Picks {
	n := len(g.Tickers)
	days := make([]int64, t+1)
	for i := 0; i <= t; i++ {
		days[i] = g.Dates[i].Unix()
	}
	start := windowStart(days, t, lookbackDays)

	px0 := g.Prices[start]
	pxt := g.Prices[t]

	divSum := make([]float64, n)
	for i := start; i <= t; i++ {
		for j := 0; j < n; j++ {
			divSum[j] += g.Dividends[i][j]
		}
	}

	priceRet := make([]float64, n)
	totalRet := make([]float64, n)
	for j := 0; j < n; j++ {
		if px0[j] > 0 {
			priceRet[j] = pxt[j]/px0[j] - 1
			totalRet[j] = (pxt[j]+divSum[j])/px0[j] - 1
		}
	}

	score := make([]int, n)
	addRanks(score, priceRet)
	addRanks(score, totalRet)

	best, worst := 0, 0
	for j := 1; j < n; j++ {
		if score[j] < score[best] {
			best = j
		}
		if score[j] > score[worst] {
			worst = j
		}
	}
	return Picks{Best: best, Worst: worst}
}

// addRanks adds each ticker's descending rank (1 = highest value) to
// score. Equal values rank by original ticker order.
func addRanks(score []int, values []float64) {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Insertion sort keeps the tie-break stable without pulling in
	// sort.SliceStable for a handful of tickers.
	for i := 1; i < n; i++ {
		for k := i; k > 0 && values[order[k]] > values[order[k-1]]; k-- {
			order[k], order[k-1] = order[k-1], order[k]
		}
	}
	for rank, j := range order {
		score[j] += rank + 1
	}
}
