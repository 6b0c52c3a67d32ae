package sim

// Params are the strategy knobs for one simulation run. The request
// layer validates ranges before the simulator runs; the engine assumes
// they are sane.
type Params struct {
	InitialCapital  float64 // > 0
	MonthlyDeposit  float64 // >= 0, added at each month boundary
	LookbackDays    int     // > 0, ranking window in calendar days
	CoreFraction    float64 // [0,1] share of target NMV in the core bucket
	MaintenanceReq  float64 // (0,1) minimum margin ratio before forced deleveraging
	BufferPoints    float64 // [0,0.15] extra ratio above maintenance
	RotationEnabled bool    // donor-rotation cap/floor on the satellite tilt
}

// Target is the equity/NMV ratio a levered run aims for after every
// rebalance and margin remediation.
func (p Params) Target() float64 { return p.MaintenanceReq + p.BufferPoints }

// Policy selects the optional ledger behaviors that vary between
// historical strategy iterations. The zero value is the plain model:
// no interest, dividends reinvested immediately.
type Policy struct {
	// InterestAPR > 0 accrues daily interest on the loan balance at
	// APR/InterestDayCount. The share-bucket model holds no idle cash,
	// so accrued interest is capitalized into the loan at each month
	// boundary rather than settled from a cash account.
	InterestAPR      float64
	InterestDayCount int // defaults to 365
}

func (p Policy) dailyRate() float64 {
	if p.InterestAPR <= 0 {
		return 0
	}
	days := p.InterestDayCount
	if days <= 0 {
		days = 365
	}
	return p.InterestAPR / float64(days)
}
