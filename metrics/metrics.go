// Package metrics turns a completed equity curve into standard
// performance statistics. It is a value computation with no lifecycle:
// fewer than two data points yield an all-zero Metrics, never an error.
package metrics

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/marginsim/market"
)

const tradingDays = 252

// Metrics are the summary statistics for one strategy variant.
type Metrics struct {
	TotalReturn float64 `json:"totalReturn"`
	CAGR        float64 `json:"cagr"`
	VolAnn      float64 `json:"volAnn"`
	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	MaxDrawdown float64 `json:"maxDD"` // positive magnitude
	HitRate     float64 `json:"hitRate"`
}

// FromEquity computes metrics from an equity curve. Days with a zero
// prior value contribute a zero return rather than NaN.
func FromEquity(curve []market.TimePoint) Metrics {
	var m Metrics
	if len(curve) < 2 {
		return m
	}

	returns := Returns(curve)
	first, last := curve[0].Value, curve[len(curve)-1].Value

	if first != 0 {
		m.TotalReturn = last/first - 1
	}

	daysElapsed := curve[len(curve)-1].Date.Sub(curve[0].Date).Hours() / 24
	if daysElapsed > 0 && first > 0 && last > 0 {
		m.CAGR = math.Pow(last/first, 365.25/daysElapsed) - 1
	}

	if len(returns) >= 2 {
		mean := stat.Mean(returns, nil)
		m.VolAnn = stat.StdDev(returns, nil) * math.Sqrt(tradingDays)
		if m.VolAnn > 0 {
			m.Sharpe = mean * tradingDays / m.VolAnn
		}

		var downside []float64
		for _, r := range returns {
			if r < 0 {
				downside = append(downside, r)
			}
		}
		if len(downside) >= 2 {
			if dd := stat.StdDev(downside, nil) * math.Sqrt(tradingDays); dd > 0 {
				m.Sortino = mean * tradingDays / dd
			}
		}
	}

	m.MaxDrawdown = maxDrawdown(curve)

	var wins int
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	if len(returns) > 0 {
		m.HitRate = float64(wins) / float64(len(returns))
	}
	return m
}

// Returns converts an equity curve to simple daily returns.
func Returns(curve []market.TimePoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	out := make([]float64, 0, len(curve)-1)
	for t := 1; t < len(curve); t++ {
		prev := curve[t-1].Value
		if prev != 0 {
			out = append(out, curve[t].Value/prev-1)
		} else {
			out = append(out, 0)
		}
	}
	return out
}

// maxDrawdown is the deepest peak-to-trough fall, reported positive.
func maxDrawdown(curve []market.TimePoint) float64 {
	peak := curve[0].Value
	var maxDD float64
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			if dd := p.Value/peak - 1; dd < maxDD {
				maxDD = dd
			}
		}
	}
	return math.Abs(maxDD)
}

// WeeklyFromDaily buckets a daily series onto the following Friday,
// summing values that land in the same week. Useful for dividend
// series that are too spiky to chart daily.
func WeeklyFromDaily(series []market.TimePoint) []market.TimePoint {
	if len(series) == 0 {
		return nil
	}
	sums := make(map[int64]float64)
	for _, p := range series {
		day := market.Day(p.Date)
		diff := 5 - int(day.Weekday()) // days until Friday; Saturday maps back one
		friday := day.AddDate(0, 0, diff)
		sums[friday.Unix()] += p.Value
	}
	keys := make([]int64, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sortInt64(keys)
	out := make([]market.TimePoint, len(keys))
	for i, k := range keys {
		out[i] = market.TimePoint{Date: time.Unix(k, 0).UTC(), Value: sums[k]}
	}
	return out
}

func sortInt64(a []int64) {
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
}
