package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestAlign_IntersectsDates(t *testing.T) {
	t.Parallel()

	prices := SeriesMap{
		"AAA": {{d(1), 10}, {d(2), 11}, {d(3), 12}},
		"BBB": {{d(2), 20}, {d(3), 21}, {d(4), 22}},
	}
	g := Align(prices, DividendMap{}, []Ticker{"AAA", "BBB"})

	require.Equal(t, 2, g.Len())
	assert.Equal(t, []time.Time{d(2), d(3)}, g.Dates)
	assert.Equal(t, []float64{11, 20}, g.Prices[0])
	assert.Equal(t, []float64{12, 21}, g.Prices[1])
	// No dividend events -> zero-filled rows.
	assert.Equal(t, []float64{0, 0}, g.Dividends[0])
}

func TestAlign_DividendFillAndMerge(t *testing.T) {
	t.Parallel()

	prices := SeriesMap{
		"AAA": {{d(1), 10}, {d(2), 11}},
	}
	divs := DividendMap{
		"AAA": {
			{d(2), 0.25},
			{d(2), 0.10}, // same ex-date, amounts merge
			{d(9), 9.99}, // outside the axis, ignored
		},
	}
	g := Align(prices, divs, []Ticker{"AAA"})

	require.Equal(t, 2, g.Len())
	assert.InDelta(t, 0.0, g.Dividends[0][0], 1e-12)
	assert.InDelta(t, 0.35, g.Dividends[1][0], 1e-12)
}

func TestAlign_EmptyIntersection(t *testing.T) {
	t.Parallel()

	prices := SeriesMap{
		"AAA": {{d(1), 10}},
		"BBB": {{d(2), 20}},
	}
	g := Align(prices, DividendMap{}, []Ticker{"AAA", "BBB"})
	assert.Equal(t, 0, g.Len())
}

func TestAlign_NoTickers(t *testing.T) {
	t.Parallel()
	g := Align(SeriesMap{}, DividendMap{}, nil)
	assert.Equal(t, 0, g.Len())
}

func TestDay_NormalizesToUTCMidnight(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("EST", -5*3600)
	in := time.Date(2025, 3, 14, 23, 30, 0, 0, loc) // 2025-03-15 04:30 UTC
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), Day(in))
}
