// Package sim is the day-by-day leveraged portfolio state machine. One
// simulation run owns its state exclusively, walks the aligned date
// axis strictly in order, and appends every output series as it goes;
// nothing persists across runs and nothing inside the loop blocks.
//
// Margin remediation policy: deleverage in place. On a maintenance
// breach both buckets scale down uniformly until equity/NMV is back at
// target, with equity unchanged and the loan reduced by the forced
// sale.
package sim

import (
	"errors"
	"time"

	"github.com/rustyeddy/marginsim/market"
	"github.com/rustyeddy/marginsim/metrics"
	"github.com/rustyeddy/marginsim/strategies"
)

// ErrInsufficientData reports an empty aligned grid: nothing to
// simulate.
var ErrInsufficientData = errors.New("sim: no aligned trading days")

// Series is one strategy variant's full output.
type Series struct {
	Equity         []market.TimePoint
	NMV            []market.TimePoint
	Loan           []market.TimePoint
	MarginRatio    []market.TimePoint
	CoreValue      []market.TimePoint
	SatelliteValue []market.TimePoint
	DailyDividend  []market.TimePoint

	MarginEvents []MarginEvent
	Drivers      []MarginDriver
	Metrics      metrics.Metrics
}

// Backtest is the complete result of one simulation request: the
// levered and unlevered variants over the same grid, the rotation log,
// and the levered run's daily audit.
type Backtest struct {
	Levered         Series
	Unlevered       Series
	Picks           []PickEvent
	WeeklyDividends []market.TimePoint
	Audit           []AuditRow
}

// Run simulates both variants over the aligned grid. The grid must be
// fully materialized; Run never touches I/O. A zero-row grid returns
// ErrInsufficientData.
func Run(g market.Grid, params Params, policy Policy) (*Backtest, error) {
	if g.Len() == 0 || len(g.Tickers) == 0 {
		return nil, ErrInsufficientData
	}

	lev := newRun(g, params, policy, true)
	lev.simulate()
	unlev := newRun(g, params, policy, false)
	unlev.simulate()

	return &Backtest{
		Levered:         lev.out,
		Unlevered:       unlev.out,
		Picks:           lev.picks,
		WeeklyDividends: metrics.WeeklyFromDaily(lev.out.DailyDividend),
		Audit:           lev.audit,
	}, nil
}

// run is the portfolio state for a single pass. Owned exclusively by
// one simulate call.
type run struct {
	g       market.Grid
	params  Params
	policy  Policy
	levered bool
	target  float64

	sharesCore []float64
	sharesSat  []float64
	loan       float64

	divMTD, divYTD           float64
	interestMTD, interestYTD float64

	// Prior-day close state for breach attribution.
	prevShares []float64
	prevPrices []float64

	inBreach bool

	out   Series
	picks []PickEvent
	audit []AuditRow
}

func newRun(g market.Grid, params Params, policy Policy, levered bool) *run {
	target := 1.0
	if levered {
		target = params.Target()
	}
	return &run{g: g, params: params, policy: policy, levered: levered, target: target}
}

func (r *run) allocParams() strategies.AllocateParams {
	return strategies.AllocateParams{
		CoreFraction: r.params.CoreFraction,
		Target:       r.target,
		Rotation:     r.params.RotationEnabled,
	}
}

// rebalance ranks the lookback window ending at day t, sets both
// buckets to their targets for the given equity, and resets the loan to
// the financed remainder. The loan is sized against the value the
// buckets actually hold, not the allocation target: a zero-priced
// ticker leaves its dollars undeployed, and borrowing for shares that
// were never bought would break equity == NMV - loan.
func (r *run) rebalance(t int, equity float64) {
	pk := strategies.RankBestWorst(r.g, t, r.params.LookbackDays)
	alloc := strategies.Allocate(r.g.Prices[t], equity, pk.Best, pk.Worst, r.allocParams())
	r.sharesCore = alloc.Core
	r.sharesSat = alloc.Satellite
	nmv := dot(r.sharesCore, r.g.Prices[t]) + dot(r.sharesSat, r.g.Prices[t])
	r.loan = nmv - equity
	if r.loan < 0 {
		r.loan = 0
	}
	r.picks = append(r.picks, PickEvent{Date: r.g.Dates[t], Selected: r.g.Tickers[pk.Best]})
}

func (r *run) simulate() {
	n := len(r.g.Tickers)

	equity := r.params.InitialCapital
	r.rebalance(0, equity)

	currentMonth := monthOf(r.g.Dates[0])
	currentYear := r.g.Dates[0].Year()

	for t := 0; t < r.g.Len(); t++ {
		date := r.g.Dates[t]
		p := r.g.Prices[t]

		if date.Year() != currentYear {
			currentYear = date.Year()
			r.divYTD = 0
			r.interestYTD = 0
		}
		monthChanged := monthOf(date) != currentMonth
		if monthChanged {
			currentMonth = monthOf(date)
			r.divMTD = 0
		}

		// Revalue both buckets at today's closes.
		coreVal := dot(r.sharesCore, p)
		satVal := dot(r.sharesSat, p)
		nmv := coreVal + satVal

		// Dividends, reinvested at today's close. The bought shares
		// price in from tomorrow, so today's emitted equity is
		// unchanged by the payout.
		var dailyDiv float64
		for i := 0; i < n; i++ {
			d := r.g.Dividends[t][i]
			if d == 0 {
				continue
			}
			cashCore := r.sharesCore[i] * d
			cashSat := r.sharesSat[i] * d
			dailyDiv += cashCore + cashSat
			if p[i] > 0 {
				r.sharesCore[i] += cashCore / p[i]
				r.sharesSat[i] += cashSat / p[i]
			}
		}
		r.divMTD += dailyDiv
		r.divYTD += dailyDiv

		// Margin check against today's valuation.
		if !r.levered {
			r.loan = 0
		}
		equity = nmv - r.loan
		if r.levered {
			nmvBefore := nmv
			nmv = r.checkMargin(t, equity, nmv)
			if nmv != nmvBefore && nmvBefore > 0 {
				// Forced sale hit both buckets uniformly.
				f := nmv / nmvBefore
				coreVal *= f
				satVal *= f
			}
		}

		// Month boundary: capitalize accrued interest into equity,
		// apply the deposit, re-rank and reset both buckets to target.
		var deposit float64
		if monthChanged {
			deposit = r.params.MonthlyDeposit
			equity += deposit - r.interestMTD
			r.interestMTD = 0
			r.rebalance(t, equity)
			coreVal = dot(r.sharesCore, p)
			satVal = dot(r.sharesSat, p)
			nmv = coreVal + satVal
			if r.loan == 0 {
				// Clamped repayment; keep equity == NMV - loan exact.
				equity = nmv
			}
		}

		// Accrue interest on whatever loan closes the day.
		var interestDaily float64
		if r.levered && r.loan > 0 {
			if rate := r.policy.dailyRate(); rate > 0 {
				interestDaily = r.loan * rate
				r.interestMTD += interestDaily
				r.interestYTD += interestDaily
			}
		}

		mr := ratioOf(equity, nmv)
		r.out.Equity = append(r.out.Equity, market.TimePoint{Date: date, Value: equity})
		r.out.NMV = append(r.out.NMV, market.TimePoint{Date: date, Value: nmv})
		r.out.Loan = append(r.out.Loan, market.TimePoint{Date: date, Value: r.loan})
		r.out.MarginRatio = append(r.out.MarginRatio, market.TimePoint{Date: date, Value: mr})
		r.out.CoreValue = append(r.out.CoreValue, market.TimePoint{Date: date, Value: coreVal})
		r.out.SatelliteValue = append(r.out.SatelliteValue, market.TimePoint{Date: date, Value: satVal})
		r.out.DailyDividend = append(r.out.DailyDividend, market.TimePoint{Date: date, Value: dailyDiv})

		r.audit = append(r.audit, AuditRow{
			Date:           date,
			Equity:         equity,
			NMV:            nmv,
			Loan:           r.loan,
			MarginRatio:    mr,
			CoreValue:      coreVal,
			SatelliteValue: satVal,
			Dividend:       dailyDiv,
			DividendMTD:    r.divMTD,
			DividendYTD:    r.divYTD,
			Interest:       interestDaily,
			InterestMTD:    r.interestMTD,
			InterestYTD:    r.interestYTD,
			Deposit:        deposit,
		})

		r.prevPrices = p
		r.prevShares = totalShares(r.sharesCore, r.sharesSat)
	}

	r.out.Metrics = metrics.FromEquity(r.out.Equity)
}

// checkMargin applies the maintenance check for day t and returns the
// possibly deleveraged NMV. Equity never changes here: forced sales
// only move value from securities to loan repayment.
func (r *run) checkMargin(t int, equity, nmv float64) float64 {
	date := r.g.Dates[t]
	mr := ratioOf(equity, nmv)

	// Rounding guard: a freshly rebalanced ratio can sit one ulp under
	// target and must not log a breach.
	const eps = 1e-9

	switch {
	case mr < r.params.MaintenanceReq-eps && nmv > 0:
		cashNeeded := r.params.MaintenanceReq*nmv - equity
		scale := (equity / r.target) / nmv
		if scale < 0 {
			scale = 0 // underwater: full liquidation, loan survives
		}
		if scale < 1 {
			for i := range r.sharesCore {
				r.sharesCore[i] *= scale
				r.sharesSat[i] *= scale
			}
			nmv *= scale
			r.loan = nmv - equity
			if r.loan < 0 {
				r.loan = 0
			}
		}
		r.out.MarginEvents = append(r.out.MarginEvents, MarginEvent{
			Date:       date,
			Ratio:      mr,
			Kind:       MaintenanceBreach,
			CashNeeded: cashNeeded,
			SellNeeded: cashNeeded / r.params.MaintenanceReq,
		})
		r.recordDrivers(t)
		r.inBreach = true

	case mr < r.target-eps:
		r.out.MarginEvents = append(r.out.MarginEvents, MarginEvent{Date: date, Ratio: mr, Kind: BufferBreach})
		r.recordDrivers(t)
		r.inBreach = true

	case r.inBreach:
		r.out.MarginEvents = append(r.out.MarginEvents, MarginEvent{Date: date, Ratio: mr, Kind: Restore})
		r.inBreach = false
	}
	return nmv
}

// recordDrivers attributes the breach day's price P&L per ticker from
// the prior close's share counts.
func (r *run) recordDrivers(t int) {
	if r.prevShares == nil {
		return
	}
	p := r.g.Prices[t]
	pnl := make([]float64, len(r.prevShares))
	var total float64
	for i := range r.prevShares {
		pnl[i] = r.prevShares[i] * (p[i] - r.prevPrices[i])
		total += pnl[i]
	}
	for i, v := range pnl {
		var w float64
		if total != 0 {
			w = v / total
		}
		r.out.Drivers = append(r.out.Drivers, MarginDriver{
			Date:   r.g.Dates[t],
			Ticker: r.g.Tickers[i],
			PnL:    v,
			Weight: w,
		})
	}
}

func dot(shares, prices []float64) float64 {
	var v float64
	for i, s := range shares {
		v += s * prices[i]
	}
	return v
}

func totalShares(core, sat []float64) []float64 {
	out := make([]float64, len(core))
	for i := range core {
		out[i] = core[i] + sat[i]
	}
	return out
}

// ratioOf guards the zero-NMV day: ratio 0, never NaN.
func ratioOf(equity, nmv float64) float64 {
	if nmv > 0 {
		return equity / nmv
	}
	return 0
}

func monthOf(t time.Time) int { return t.Year()*12 + int(t.Month()) }
