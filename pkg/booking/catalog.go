package booking

import (
	"context"

	"reprice-tool/pkg/reprice"
)

// Catalog pairs criteria with the decisions to run when they match. It
// implements both provider interfaces of the core.
type Catalog struct {
	rules []rule
}

type rule struct {
	criteria  reprice.Criteria
	decisions []reprice.Decision
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

func (c *Catalog) Add(criteria reprice.Criteria, decisions ...reprice.Decision) *Catalog {
	c.rules = append(c.rules, rule{criteria: criteria, decisions: decisions})
	return c
}

func (c *Catalog) CriteriaFor(ctx context.Context, order *reprice.Order) ([]reprice.Criteria, error) {
	criteria := make([]reprice.Criteria, 0, len(c.rules))
	for _, r := range c.rules {
		criteria = append(criteria, r.criteria)
	}
	return criteria, nil
}

func (c *Catalog) DecisionsFor(ctx context.Context, criteria reprice.Criteria) ([]reprice.Decision, error) {
	for _, r := range c.rules {
		if r.criteria == criteria {
			return r.decisions, nil
		}
	}
	return nil, nil
}

// DefaultCatalog is the stock rule set the repricer host ships with: a
// large swing triggers a re-quote, any other change is just logged.
func DefaultCatalog(logger reprice.Logger) *Catalog {
	return NewCatalog().
		Add(NewSwingCriteria(0, 0.25), NewLogDecision(logger), NewRequoteDecision(logger)).
		Add(NewAnyChangeCriteria(10), NewLogDecision(logger))
}

// SwingCriteria matches when the total moved by more than Fraction of
// the old total. Without a baseline (zero old pair) it never matches.
type SwingCriteria struct {
	priority int
	Fraction float64
}

func NewSwingCriteria(priority int, fraction float64) *SwingCriteria {
	return &SwingCriteria{priority: priority, Fraction: fraction}
}

func (c *SwingCriteria) Priority() int { return c.priority }

func (c *SwingCriteria) Evaluate(ctx context.Context, oldInfo, newInfo reprice.PriceInfo) (bool, error) {
	oldTotal := total(oldInfo)
	if oldTotal <= 0 {
		return false, nil
	}
	newTotal := total(newInfo)
	swing := (newTotal - oldTotal) / oldTotal
	if swing < 0 {
		swing = -swing
	}
	return swing >= c.Fraction, nil
}

// AnyChangeCriteria is the catch-all rule. The manager only evaluates
// criteria once a material change exists, so it always matches.
type AnyChangeCriteria struct {
	priority int
}

func NewAnyChangeCriteria(priority int) *AnyChangeCriteria {
	return &AnyChangeCriteria{priority: priority}
}

func (c *AnyChangeCriteria) Priority() int { return c.priority }

func (c *AnyChangeCriteria) Evaluate(ctx context.Context, oldInfo, newInfo reprice.PriceInfo) (bool, error) {
	return true, nil
}

func total(info reprice.PriceInfo) float64 {
	t := info.Flight.Amount
	if info.Hotel.Valid {
		t += info.Hotel.Amount
	}
	return t
}

// LogDecision records the price change in the host log.
type LogDecision struct {
	logger reprice.Logger
}

func NewLogDecision(logger reprice.Logger) *LogDecision {
	return &LogDecision{logger: logger}
}

func (d *LogDecision) Execute(ctx context.Context, order *reprice.Order) error {
	d.logger.Info("price changed for order %s/%s (agreed %.2f)", order.FlightRef, order.HotelRef, order.Price)
	return nil
}

// RequoteDecision asks for a fresh quote on the order.
type RequoteDecision struct {
	logger reprice.Logger
}

func NewRequoteDecision(logger reprice.Logger) *RequoteDecision {
	return &RequoteDecision{logger: logger}
}

func (d *RequoteDecision) Execute(ctx context.Context, order *reprice.Order) error {
	d.logger.Info("re-quote requested for order %s/%s", order.FlightRef, order.HotelRef)
	return nil
}
