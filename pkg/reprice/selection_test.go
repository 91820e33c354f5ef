package reprice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newSelectionManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManagerBuilder().
		WithFlightSource(&stubSource{valid: true}).
		WithHotelSource(&stubSource{valid: true}).
		WithCriteriaProvider(&stubCriteriaProvider{}).
		WithDecisionProvider(&stubDecisionProvider{}).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return m
}

func TestSelectCriteriaPriorityOrderBeatsInputOrder(t *testing.T) {
	m := newSelectionManager(t)

	// Handed out of order; the priority-3 candidate must still win over
	// the priority-7 one even though it appears last.
	c7 := &stubCriteria{priority: 7, match: true}
	c3 := &stubCriteria{priority: 3, match: true}
	got, err := m.selectCriteria(context.Background(), []Criteria{c7, c3}, PriceInfo{}, PriceInfo{})
	if err != nil {
		t.Fatalf("selectCriteria() failed: %v", err)
	}
	if got != c3 {
		t.Errorf("selected priority %d, want 3", got.Priority())
	}
}

func TestSelectCriteriaEvaluatesEveryCandidate(t *testing.T) {
	m := newSelectionManager(t)

	// A winning low-priority candidate must not short-circuit the rest:
	// all candidates are dispatched before any result is read.
	candidates := []Criteria{
		&stubCriteria{priority: 0, match: true},
		&stubCriteria{priority: 1, match: false},
		&stubCriteria{priority: 2, err: errors.New("broken rule")},
	}
	if _, err := m.selectCriteria(context.Background(), candidates, PriceInfo{}, PriceInfo{}); err != nil {
		t.Fatalf("selectCriteria() failed: %v", err)
	}
	for i, c := range candidates {
		if c.(*stubCriteria).calls != 1 {
			t.Errorf("candidate %d evaluated %d times, want 1", i, c.(*stubCriteria).calls)
		}
	}
}

func TestSelectCriteriaFaultedWinnerIsSkipped(t *testing.T) {
	m := newSelectionManager(t)

	faulted := &stubCriteria{priority: 0, match: true, err: errors.New("timeout")}
	fallback := &stubCriteria{priority: 5, match: true}
	got, err := m.selectCriteria(context.Background(), []Criteria{faulted, fallback}, PriceInfo{}, PriceInfo{})
	if err != nil {
		t.Fatalf("selectCriteria() failed: %v", err)
	}
	if got != fallback {
		t.Error("a faulted evaluation must not be selected even if it returned true")
	}
}

func TestSelectCriteriaDoesNotMutateInput(t *testing.T) {
	m := newSelectionManager(t)

	a := &stubCriteria{priority: 9}
	b := &stubCriteria{priority: 1, match: true}
	candidates := []Criteria{a, b}
	if _, err := m.selectCriteria(context.Background(), candidates, PriceInfo{}, PriceInfo{}); err != nil {
		t.Fatalf("selectCriteria() failed: %v", err)
	}
	if candidates[0] != a || candidates[1] != b {
		t.Error("caller's candidate slice must not be reordered")
	}
}

// blockingCriteria parks in Evaluate until released, to prove candidates
// run concurrently rather than one after another.
type blockingCriteria struct {
	priority int
	started  chan struct{}
	release  chan struct{}
	once     sync.Once
}

func (c *blockingCriteria) Evaluate(ctx context.Context, oldInfo, newInfo PriceInfo) (bool, error) {
	c.once.Do(func() { close(c.started) })
	select {
	case <-c.release:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (c *blockingCriteria) Priority() int { return c.priority }

func TestSelectCriteriaRunsCandidatesConcurrently(t *testing.T) {
	m := newSelectionManager(t)

	release := make(chan struct{})
	first := &blockingCriteria{priority: 0, started: make(chan struct{}), release: release}
	second := &blockingCriteria{priority: 1, started: make(chan struct{}), release: release}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.selectCriteria(context.Background(), []Criteria{first, second}, PriceInfo{}, PriceInfo{})
	}()

	// Both must start while both are still blocked; sequential
	// evaluation would never start the second one here.
	for i, started := range []chan struct{}{first.started, second.started} {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatalf("candidate %d never started while sibling was blocked", i)
		}
	}
	close(release)
	<-done
}

func TestExecuteDecisionsRunsAll(t *testing.T) {
	m := newSelectionManager(t)

	decisions := []Decision{&stubDecision{}, &stubDecision{}, &stubDecision{}}
	if err := m.executeDecisions(context.Background(), testOrder(), decisions); err != nil {
		t.Fatalf("executeDecisions() failed: %v", err)
	}
	for i, d := range decisions {
		if d.(*stubDecision).calls != 1 {
			t.Errorf("decision %d executed %d times, want 1", i, d.(*stubDecision).calls)
		}
	}
}

func TestExecuteDecisionsAggregatesFailures(t *testing.T) {
	m := newSelectionManager(t)

	errA := errors.New("notify failed")
	errB := errors.New("cancel failed")
	err := m.executeDecisions(context.Background(), testOrder(), []Decision{
		&stubDecision{err: errA},
		&stubDecision{},
		&stubDecision{err: errB},
	})
	if err == nil {
		t.Fatal("expected aggregated decision failure")
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("error %v should wrap both decision failures", err)
	}
}

func TestExecuteDecisionsEmpty(t *testing.T) {
	m := newSelectionManager(t)
	if err := m.executeDecisions(context.Background(), testOrder(), nil); err != nil {
		t.Errorf("executeDecisions(nil) = %v, want nil", err)
	}
}
