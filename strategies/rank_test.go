package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/marginsim/market"
)

// gridFrom builds an aligned grid directly from matrices, one row per
// consecutive calendar day starting 2025-01-01.
func gridFrom(tickers []market.Ticker, prices, divs [][]float64) market.Grid {
	g := market.Grid{Tickers: tickers, Prices: prices, Dividends: divs}
	if divs == nil {
		g.Dividends = make([][]float64, len(prices))
		for i := range prices {
			g.Dividends[i] = make([]float64, len(tickers))
		}
	}
	g.Dates = make([]time.Time, len(prices))
	for i := range prices {
		g.Dates[i] = time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC)
	}
	return g
}

func TestRankBestWorst_PriceMomentum(t *testing.T) {
	t.Parallel()

	// Over 3 days: AAA +20%, BBB flat, CCC -10%.
	g := gridFrom([]market.Ticker{"AAA", "BBB", "CCC"}, [][]float64{
		{100, 100, 100},
		{110, 100, 95},
		{120, 100, 90},
	}, nil)

	p := RankBestWorst(g, 2, 30)
	assert.Equal(t, 0, p.Best)
	assert.Equal(t, 2, p.Worst)
}

func TestRankBestWorst_DividendsSwingTotalReturn(t *testing.T) {
	t.Parallel()

	// On price alone AAA leads (+10% vs +5% vs 0%). BBB's 20-point
	// payout lifts its total return to +25%, and CCC's 15 points push
	// AAA's total-return rank to last, so BBB wins the combined score
	// (3 vs 4) and CCC falls to worst (5).
	g := gridFrom([]market.Ticker{"AAA", "BBB", "CCC"}, [][]float64{
		{100, 100, 100},
		{110, 105, 100},
	}, [][]float64{
		{0, 0, 0},
		{0, 20, 15},
	})

	p := RankBestWorst(g, 1, 30)
	assert.Equal(t, 1, p.Best)
	assert.Equal(t, 2, p.Worst)
}

func TestRankBestWorst_TiesRankByRequestOrder(t *testing.T) {
	t.Parallel()

	// All returns tie, so the stable rank assignment follows request
	// order: the first ticker takes best and the last falls to worst.
	g := gridFrom([]market.Ticker{"AAA", "BBB"}, [][]float64{
		{100, 100},
		{100, 100},
	}, nil)

	p := RankBestWorst(g, 1, 30)
	assert.Equal(t, 0, p.Best)
	assert.Equal(t, 1, p.Worst)
}

func TestRankBestWorst_ZeroStartPriceScoresZero(t *testing.T) {
	t.Parallel()

	g := gridFrom([]market.Ticker{"AAA", "BBB"}, [][]float64{
		{0, 100},
		{50, 90},
	}, nil)

	// AAA's window start price is zero: both its returns are guarded to
	// 0, beating BBB's -10%.
	p := RankBestWorst(g, 1, 30)
	assert.Equal(t, 0, p.Best)
	assert.Equal(t, 1, p.Worst)
}

func TestRankBestWorst_LookbackWindowBounds(t *testing.T) {
	t.Parallel()

	// 40 daily rows; with a 30-day lookback the window start must land
	// 30 calendar days back, not at the start of history.
	prices := make([][]float64, 40)
	for i := range prices {
		// AAA falls early then recovers, BBB rises early then falls.
		prices[i] = []float64{100 + float64(i), 200 - float64(i)}
	}
	g := gridFrom([]market.Ticker{"AAA", "BBB"}, prices, nil)

	p := RankBestWorst(g, 39, 30)
	assert.Equal(t, 0, p.Best)
	assert.Equal(t, 1, p.Worst)
}
