package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/marginsim/market"
)

func curve(values ...float64) []market.TimePoint {
	out := make([]market.TimePoint, len(values))
	for i, v := range values {
		out[i] = market.TimePoint{
			Date:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Value: v,
		}
	}
	return out
}

func TestFromEquity_FewerThanTwoPoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Metrics{}, FromEquity(nil))
	assert.Equal(t, Metrics{}, FromEquity(curve(1000)))
}

func TestFromEquity_TotalReturnAndCAGR(t *testing.T) {
	t.Parallel()

	// 10% over 10 calendar days.
	c := curve(1000, 1010, 1020, 1030, 1040, 1050, 1060, 1070, 1080, 1090, 1100)
	m := FromEquity(c)

	assert.InDelta(t, 0.10, m.TotalReturn, 1e-9)
	wantCAGR := math.Pow(1.10, 365.25/10) - 1
	assert.InDelta(t, wantCAGR, m.CAGR, 1e-9)
}

func TestFromEquity_ZeroPriorValueIsZeroReturn(t *testing.T) {
	t.Parallel()

	rets := Returns(curve(1000, 0, 500))
	require.Len(t, rets, 2)
	assert.InDelta(t, -1.0, rets[0], 1e-12)
	assert.InDelta(t, 0.0, rets[1], 1e-12) // guarded, not +Inf
}

func TestFromEquity_MaxDrawdown(t *testing.T) {
	t.Parallel()

	// Peak 1200, trough 900 -> 25% drawdown, reported positive.
	m := FromEquity(curve(1000, 1200, 900, 1100))
	assert.InDelta(t, 0.25, m.MaxDrawdown, 1e-9)
}

func TestFromEquity_HitRate(t *testing.T) {
	t.Parallel()

	// Returns: +, -, 0, + -> 2 of 4 strictly positive.
	m := FromEquity(curve(100, 110, 100, 100, 105))
	assert.InDelta(t, 0.5, m.HitRate, 1e-9)
}

func TestFromEquity_FlatCurveZeroVolAndSharpe(t *testing.T) {
	t.Parallel()

	m := FromEquity(curve(1000, 1000, 1000, 1000))
	assert.InDelta(t, 0.0, m.VolAnn, 1e-12)
	assert.InDelta(t, 0.0, m.Sharpe, 1e-12)
	assert.InDelta(t, 0.0, m.Sortino, 1e-12)
	assert.False(t, math.IsNaN(m.CAGR))
}

func TestFromEquity_SortinoNeedsNegativeReturns(t *testing.T) {
	t.Parallel()

	up := FromEquity(curve(100, 101, 103, 106))
	assert.InDelta(t, 0.0, up.Sortino, 1e-12)

	mixed := FromEquity(curve(100, 90, 95, 85, 100))
	assert.NotZero(t, mixed.Sortino)
	assert.False(t, math.IsNaN(mixed.Sortino))
}

func TestWeeklyFromDaily_BucketsOnFriday(t *testing.T) {
	t.Parallel()

	// 2025-01-06 is a Monday; Friday of that week is 2025-01-10.
	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	series := []market.TimePoint{
		{Date: mon, Value: 1},
		{Date: mon.AddDate(0, 0, 2), Value: 2},  // Wednesday
		{Date: mon.AddDate(0, 0, 4), Value: 3},  // Friday itself
		{Date: mon.AddDate(0, 0, 7), Value: 10}, // next Monday
	}

	weekly := WeeklyFromDaily(series)
	require.Len(t, weekly, 2)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), weekly[0].Date)
	assert.InDelta(t, 6.0, weekly[0].Value, 1e-12)
	assert.Equal(t, time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), weekly[1].Date)
	assert.InDelta(t, 10.0, weekly[1].Value, 1e-12)
}

func TestWeeklyFromDaily_Empty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, WeeklyFromDaily(nil))
}
