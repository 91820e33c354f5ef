package reprice

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// selectCriteria evaluates every candidate concurrently and picks the
// first one, in ascending priority order, that evaluated true without
// failing. The priority order governs selection only: all evaluations
// are started before any result is read, and all are joined before
// selection. When nothing matches the faulted evaluations are aggregated
// into an EvaluationError; false results contribute nothing.
func (m *Manager) selectCriteria(ctx context.Context, candidates []Criteria, oldInfo, newInfo PriceInfo) (Criteria, error) {
	defer m.observeStage("evaluate", time.Now())

	ranked := make([]Criteria, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority() < ranked[j].Priority()
	})

	type evaluation struct {
		ok  bool
		err error
	}
	results := make([]evaluation, len(ranked))

	var wg sync.WaitGroup
	for i, c := range ranked {
		wg.Add(1)
		go func(i int, c Criteria) {
			defer wg.Done()
			ok, err := c.Evaluate(ctx, oldInfo, newInfo)
			results[i] = evaluation{ok, err}
		}(i, c)
	}
	wg.Wait()

	var causes []error
	for i, res := range results {
		if res.err != nil {
			if m.metrics != nil {
				m.metrics.IncCriteriaFailure()
			}
			causes = append(causes, res.err)
			continue
		}
		if res.ok {
			return ranked[i], nil
		}
	}
	return nil, &EvaluationError{Causes: causes}
}

// executeDecisions runs every decision of the matched criterion
// concurrently and joins them. Any failure fails the run.
func (m *Manager) executeDecisions(ctx context.Context, order *Order, decisions []Decision) error {
	defer m.observeStage("decide", time.Now())

	errs := make([]error, len(decisions))
	var wg sync.WaitGroup
	for i, d := range decisions {
		wg.Add(1)
		go func(i int, d Decision) {
			defer wg.Done()
			errs[i] = d.Execute(ctx, order)
		}(i, d)
	}
	wg.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			if m.metrics != nil {
				m.metrics.IncDecisionFailure()
			}
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return &RepriceError{Op: "ExecuteDecisions", Ref: order.FlightRef, Err: errors.Join(failed...)}
	}
	return nil
}
