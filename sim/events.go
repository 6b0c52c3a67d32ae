package sim

import (
	"time"

	"github.com/rustyeddy/marginsim/market"
)

// MarginEventKind classifies a margin log entry.
type MarginEventKind string

const (
	// BufferBreach: margin ratio fell below the target (maintenance +
	// buffer) but stayed above maintenance. Informational only.
	BufferBreach MarginEventKind = "buffer_breach"
	// MaintenanceBreach: ratio fell below the maintenance requirement;
	// the engine force-deleveraged back to target on the same day.
	MaintenanceBreach MarginEventKind = "maintenance_breach"
	// Restore: ratio recovered to at least target after a breach.
	Restore MarginEventKind = "restore"
)

// MarginEvent is one append-only margin log entry. Ratio is the value
// observed before any remediation. CashNeeded and SellNeeded size the
// equivalent margin call on maintenance breaches: the deposit that
// would have restored the requirement, and the security sale that
// would have done the same (CashNeeded / maintenance requirement).
type MarginEvent struct {
	Date       time.Time
	Ratio      float64
	Kind       MarginEventKind
	CashNeeded float64
	SellNeeded float64
}

// MarginDriver attributes one ticker's price P&L on a breach day.
type MarginDriver struct {
	Date   time.Time
	Ticker market.Ticker
	PnL    float64 // prior shares x price change
	Weight float64 // share of the day's total P&L
}

// PickEvent records the best-ranked ticker chosen at a rebalance
// boundary: one entry on the first simulated day and one per
// calendar-month transition.
type PickEvent struct {
	Date     time.Time
	Selected market.Ticker
}

// AuditRow is the flat daily record of every levered-run field,
// suitable for CSV export.
type AuditRow struct {
	Date           time.Time
	Equity         float64
	NMV            float64
	Loan           float64
	MarginRatio    float64
	CoreValue      float64
	SatelliteValue float64
	Dividend       float64
	DividendMTD    float64
	DividendYTD    float64
	Interest       float64
	InterestMTD    float64
	InterestYTD    float64
	Deposit        float64
}
