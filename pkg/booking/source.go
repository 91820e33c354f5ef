// Package booking holds host-side collaborators for the repricing core:
// deterministic price sources and a default criteria/decision catalog.
// The core never imports this package; hosts wire it in.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reprice-tool/pkg/reprice"
)

// StaticSource is a PriceSource over a seeded table of booking
// references. Prices can be changed between runs to simulate supplier
// updates.
type StaticSource struct {
	leg     reprice.Leg
	latency time.Duration

	mu      sync.RWMutex
	prices  map[string]float64
	invalid map[string]bool
}

func NewStaticSource(leg reprice.Leg, prices map[string]float64) *StaticSource {
	cp := make(map[string]float64, len(prices))
	for ref, price := range prices {
		cp[ref] = price
	}
	return &StaticSource{
		leg:     leg,
		prices:  cp,
		invalid: make(map[string]bool),
	}
}

// WithLatency makes every call sleep before answering, to exercise the
// manager's deadline handling.
func (s *StaticSource) WithLatency(d time.Duration) *StaticSource {
	s.latency = d
	return s
}

func (s *StaticSource) SetPrice(ref string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[ref] = price
	delete(s.invalid, ref)
}

// Invalidate marks a reference as no longer bookable.
func (s *StaticSource) Invalidate(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalid[ref] = true
}

func (s *StaticSource) Validate(ctx context.Context, ref string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.invalid[ref] {
		return false, nil
	}
	_, ok := s.prices[ref]
	return ok, nil
}

func (s *StaticSource) RefreshPrice(ctx context.Context, ref string) (reprice.PriceSnapshot, error) {
	if err := s.wait(ctx); err != nil {
		return reprice.PriceSnapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[ref]
	if !ok {
		return reprice.PriceSnapshot{}, fmt.Errorf("booking: no %s price for %q", s.leg, ref)
	}
	return reprice.PriceSnapshot{Amount: price, Valid: true}, nil
}

func (s *StaticSource) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
