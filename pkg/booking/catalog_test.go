package booking

import (
	"context"
	"testing"

	"reprice-tool/pkg/reprice"
)

func pair(flight, hotel float64) reprice.PriceInfo {
	return reprice.PriceInfo{
		Flight: reprice.PriceSnapshot{Amount: flight, Valid: true},
		Hotel:  reprice.PriceSnapshot{Amount: hotel, Valid: true},
	}
}

func TestSwingCriteria(t *testing.T) {
	tests := []struct {
		name    string
		oldInfo reprice.PriceInfo
		newInfo reprice.PriceInfo
		want    bool
	}{
		{"no baseline never matches", reprice.PriceInfo{}, pair(100, 600), false},
		{"below threshold", pair(400, 600), pair(380, 600), false},
		{"at threshold", pair(400, 600), pair(150, 600), true},
		{"upward swing", pair(400, 600), pair(700, 600), true},
		{"committed hotel ignored in totals", reprice.PriceInfo{Flight: reprice.PriceSnapshot{Amount: 400, Valid: true}}, reprice.PriceInfo{Flight: reprice.PriceSnapshot{Amount: 100, Valid: true}}, true},
	}
	c := NewSwingCriteria(0, 0.25)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Evaluate(context.Background(), tt.oldInfo, tt.newInfo)
			if err != nil {
				t.Fatalf("Evaluate() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnyChangeCriteriaAlwaysMatches(t *testing.T) {
	c := NewAnyChangeCriteria(10)
	got, err := c.Evaluate(context.Background(), reprice.PriceInfo{}, reprice.PriceInfo{})
	if err != nil || !got {
		t.Errorf("Evaluate() = %v, %v, want true, nil", got, err)
	}
	if c.Priority() != 10 {
		t.Errorf("Priority() = %d, want 10", c.Priority())
	}
}

func TestCatalogMapsCriteriaToDecisions(t *testing.T) {
	logger := reprice.NewStdLogger()
	swing := NewSwingCriteria(0, 0.25)
	catchAll := NewAnyChangeCriteria(10)
	requote := NewRequoteDecision(logger)
	logOnly := NewLogDecision(logger)

	catalog := NewCatalog().
		Add(swing, requote).
		Add(catchAll, logOnly)

	criteria, err := catalog.CriteriaFor(context.Background(), &reprice.Order{})
	if err != nil {
		t.Fatalf("CriteriaFor() failed: %v", err)
	}
	if len(criteria) != 2 {
		t.Fatalf("CriteriaFor() returned %d criteria, want 2", len(criteria))
	}

	decisions, err := catalog.DecisionsFor(context.Background(), swing)
	if err != nil {
		t.Fatalf("DecisionsFor() failed: %v", err)
	}
	if len(decisions) != 1 || decisions[0] != reprice.Decision(requote) {
		t.Errorf("DecisionsFor(swing) = %v, want the requote decision", decisions)
	}

	decisions, err = catalog.DecisionsFor(context.Background(), NewAnyChangeCriteria(10))
	if err != nil {
		t.Fatalf("DecisionsFor() failed: %v", err)
	}
	if len(decisions) != 0 {
		t.Error("an unknown criterion instance should map to no decisions")
	}
}

func TestDefaultCatalogAgainstManager(t *testing.T) {
	logger := reprice.NewStdLogger()
	catalog := DefaultCatalog(logger)

	flight := NewStaticSource(reprice.LegFlight, map[string]float64{"F1": 100})
	hotel := NewStaticSource(reprice.LegHotel, map[string]float64{"H1": 600})

	m, err := reprice.NewManagerBuilder().
		WithFlightSource(flight).
		WithHotelSource(hotel).
		WithCriteriaProvider(catalog).
		WithDecisionProvider(catalog).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// Without a baseline the swing rule stays silent and the catch-all
	// reports the change.
	order := &reprice.Order{FlightRef: "F1", HotelRef: "H1", Price: 1000}
	res, err := m.Reprice(context.Background(), order)
	if err != nil {
		t.Fatalf("Reprice() failed: %v", err)
	}
	if res.Status != reprice.StatusChanged {
		t.Errorf("Status = %s, want %s", res.Status, reprice.StatusChanged)
	}
}
