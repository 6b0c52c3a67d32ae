package strategies

// Allocation is a target share count per ticker for the two buckets,
// plus the NMV the allocation was sized against. Share counts are
// fractional; a zero-priced ticker gets zero shares (its dollars are
// simply not deployable that day).
type Allocation struct {
	Core      []float64
	Satellite []float64
	TargetNMV float64
}

// AllocateParams are the knobs the allocator needs. Target is the
// desired equity/NMV ratio: 1 for unlevered, maintenance requirement
// plus buffer for levered.
type AllocateParams struct {
	CoreFraction float64
	Target       float64
	Rotation     bool
}

// Donor-rotation bounds: the best ticker's satellite tilt is capped at
// 25% of target NMV and the even remainder per ticker is floored at 5%
// of the satellite bucket.
const (
	rotationBestCap   = 0.25
	rotationRestFloor = 0.05
)

// Allocate computes target share counts for the two-bucket allocation
// given current prices and equity.
//
// The core bucket takes CoreFraction of target NMV split equally in
// dollar terms across all tickers. The satellite bucket takes the
// remainder: half its dollars go to best as a tilt, the other half
// splits evenly across every ticker except worst. Pure function; the
// caller owns the resulting share slices.
func Allocate(prices []float64, equity float64, best, worst int, p AllocateParams) Allocation {
	n := len(prices)
	nmvTarget := equity
	if p.Target > 0 {
		nmvTarget = equity / p.Target
	}

	core := make([]float64, n)
	sat := make([]float64, n)

	coreDollars := p.CoreFraction * nmvTarget
	for i, px := range prices {
		if px > 0 {
			core[i] = coreDollars / float64(n) / px
		}
	}

	satDollars := nmvTarget - coreDollars
	if satDollars > 0 {
		var rest []int
		for i := 0; i < n; i++ {
			if i != worst {
				rest = append(rest, i)
			}
		}

		bestDollars := 0.5 * satDollars
		restDollars := satDollars - bestDollars
		if p.Rotation {
			bestDollars, restDollars = rotate(bestDollars, restDollars, nmvTarget, satDollars, len(rest))
		}

		if prices[best] > 0 {
			sat[best] = bestDollars / prices[best]
		}
		if len(rest) > 0 {
			per := restDollars / float64(len(rest))
			for _, i := range rest {
				if prices[i] > 0 {
					sat[i] += per / prices[i]
				}
			}
		}
	}

	return Allocation{Core: core, Satellite: sat, TargetNMV: nmvTarget}
}

// rotate applies the donor-rotation cap and floor to the satellite
// split, moving dollars between the best tilt and the even remainder.
func rotate(bestDollars, restDollars, nmvTarget, satDollars float64, nRest int) (float64, float64) {
	if limit := rotationBestCap * nmvTarget; bestDollars > limit {
		restDollars += bestDollars - limit
		bestDollars = limit
	}
	if nRest > 0 {
		floor := rotationRestFloor * satDollars
		if per := restDollars / float64(nRest); per < floor {
			need := floor*float64(nRest) - restDollars
			if need > bestDollars {
				need = bestDollars
			}
			bestDollars -= need
			restDollars += need
		}
	}
	return bestDollars, restDollars
}
