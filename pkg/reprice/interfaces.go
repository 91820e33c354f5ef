package reprice

import "context"

// PriceSource validates and re-prices one leg's booking reference. Two
// instances are wired per manager: one for the flight leg, one for the
// hotel leg.
type PriceSource interface {
	Validate(ctx context.Context, ref string) (bool, error)
	RefreshPrice(ctx context.Context, ref string) (PriceSnapshot, error)
}

// Criteria is a priority-ranked rule over a price change. Lower priority
// values win when several criteria match.
type Criteria interface {
	Evaluate(ctx context.Context, oldInfo, newInfo PriceInfo) (bool, error)
	Priority() int
}

// CriteriaProvider returns the candidate criteria for an order. An empty
// slice means no rule engine is configured for this order.
type CriteriaProvider interface {
	CriteriaFor(ctx context.Context, order *Order) ([]Criteria, error)
}

// Decision is a side-effecting action bound to a matched criterion.
type Decision interface {
	Execute(ctx context.Context, order *Order) error
}

// DecisionProvider returns the decisions to execute for the criterion
// that matched.
type DecisionProvider interface {
	DecisionsFor(ctx context.Context, criteria Criteria) ([]Decision, error)
}

// BaselineProvider supplies the pre-change price pair handed to criteria
// as the "old" side. Optional; without one the manager uses a zero pair.
type BaselineProvider interface {
	Baseline(ctx context.Context, order *Order) (PriceInfo, error)
}

// RunStore persists run history rows.
type RunStore interface {
	SaveRun(ctx context.Context, rec *RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}
