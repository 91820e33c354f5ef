package reprice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"reprice-tool/pkg/obs"
)

// priceEpsilon is the threshold below which a delta counts as "no change".
const priceEpsilon = 1e-9

const (
	msgUnchanged = "price has not changed"
	msgChanged   = "price has changed"
)

// Manager drives one repricing run: validate both legs, refresh prices,
// compute the delta, and on a material change select a criterion and fan
// out its decisions.
type Manager struct {
	flight    PriceSource
	hotel     PriceSource
	criteria  CriteriaProvider
	decisions DecisionProvider
	baseline  BaselineProvider
	history   RunStore
	metrics   *obs.Metrics
	logger    Logger
	timeout   time.Duration
}

// Reprice re-validates and re-prices the order. It returns a complete
// Result or a typed failure; never both. The order is read-only for the
// duration of the call.
func (m *Manager) Reprice(ctx context.Context, order *Order) (*Result, error) {
	if order == nil {
		return nil, &RepriceError{Op: "Reprice", Err: errors.New("order is required")}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	rec := &RunRecord{
		RunID:          uuid.NewString(),
		FlightRef:      order.FlightRef,
		HotelRef:       order.HotelRef,
		HotelCommitted: order.HotelCommitted,
		OldPrice:       order.Price,
	}
	m.logger.Debug("run %s: repricing order %s/%s", rec.RunID, order.FlightRef, order.HotelRef)

	res, err := m.run(ctx, order, rec)
	if err != nil {
		rec.Status = "FAILED"
		rec.Error = err.Error()
		m.logger.Error("run %s: %v", rec.RunID, err)
	} else {
		rec.Status = string(res.Status)
		rec.Message = res.Message
		m.logger.Info("run %s: %s (%s)", rec.RunID, res.Status, res.Message)
	}
	if m.metrics != nil {
		m.metrics.IncRun(rec.Status)
	}
	m.record(rec)
	return res, err
}

func (m *Manager) run(ctx context.Context, order *Order, rec *RunRecord) (*Result, error) {
	if err := m.validateTickets(ctx, order); err != nil {
		return nil, err
	}

	newInfo, err := m.refreshPrices(ctx, order)
	if err != nil {
		return nil, err
	}
	fp := newInfo.Flight.Amount
	rec.NewFlightPrice = &fp
	if newInfo.Hotel.Valid {
		hp := newInfo.Hotel.Amount
		rec.NewHotelPrice = &hp
	}

	d := delta(order, newInfo)
	rec.Delta = &d
	if abs(d) < priceEpsilon {
		return &Result{Status: StatusConfirmed, Message: msgUnchanged}, nil
	}

	return m.processPriceChange(ctx, order, newInfo, rec)
}

// validateTickets asks both price sources concurrently whether the refs
// are still valid. Both answers are always awaited, so an order with two
// dead legs reports both.
func (m *Manager) validateTickets(ctx context.Context, order *Order) error {
	defer m.observeStage("validate", time.Now())

	type validation struct {
		leg Leg
		ok  bool
		err error
	}
	ch := make(chan validation, 2)

	go func() {
		ok, err := m.flight.Validate(ctx, order.FlightRef)
		ch <- validation{LegFlight, ok, err}
	}()
	go func() {
		ok, err := m.hotel.Validate(ctx, order.HotelRef)
		ch <- validation{LegHotel, ok, err}
	}()

	valid := map[Leg]bool{}
	var errs []error
	for i := 0; i < 2; i++ {
		v := <-ch
		if v.err != nil {
			errs = append(errs, v.err)
			continue
		}
		valid[v.leg] = v.ok
	}
	if len(errs) > 0 {
		return &RepriceError{Op: "ValidateTickets", Ref: order.FlightRef, Err: errors.Join(errs...)}
	}

	var invalid []Leg
	for _, leg := range []Leg{LegFlight, LegHotel} {
		if !valid[leg] {
			invalid = append(invalid, leg)
		}
	}
	if len(invalid) > 0 {
		return &TicketError{Legs: invalid}
	}
	return nil
}

// refreshPrices requests a fresh flight price always, and a fresh hotel
// price only while the hotel leg is still open. Hotel.Valid on the
// returned pair holds exactly when the hotel leg was re-priced.
func (m *Manager) refreshPrices(ctx context.Context, order *Order) (PriceInfo, error) {
	defer m.observeStage("refresh", time.Now())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type refresh struct {
		snap PriceSnapshot
		err  error
	}
	fCh := make(chan refresh, 1)
	go func() {
		snap, err := m.flight.RefreshPrice(ctx, order.FlightRef)
		fCh <- refresh{snap, err}
	}()

	var hCh chan refresh
	if !order.HotelCommitted {
		hCh = make(chan refresh, 1)
		go func() {
			snap, err := m.hotel.RefreshPrice(ctx, order.HotelRef)
			hCh <- refresh{snap, err}
		}()
	}

	var info PriceInfo
	f := <-fCh
	if f.err != nil {
		return PriceInfo{}, &RepriceError{Op: "RefreshPrices", Ref: order.FlightRef, Err: f.err}
	}
	info.Flight = f.snap
	info.Flight.Valid = true

	if hCh != nil {
		h := <-hCh
		if h.err != nil {
			return PriceInfo{}, &RepriceError{Op: "RefreshPrices", Ref: order.HotelRef, Err: h.err}
		}
		info.Hotel = h.snap
		info.Hotel.Valid = true
	}
	return info, nil
}

// delta is the old total minus the recomputed total. A committed hotel
// leg is excluded: its price is fixed and contributes nothing.
func delta(order *Order, newInfo PriceInfo) float64 {
	if order.HotelCommitted {
		return order.Price - newInfo.Flight.Amount
	}
	return order.Price - newInfo.Flight.Amount - newInfo.Hotel.Amount
}

func (m *Manager) processPriceChange(ctx context.Context, order *Order, newInfo PriceInfo, rec *RunRecord) (*Result, error) {
	candidates, err := m.criteria.CriteriaFor(ctx, order)
	if err != nil {
		return nil, &RepriceError{Op: "CriteriaFor", Ref: order.FlightRef, Err: err}
	}
	if len(candidates) == 0 {
		// No rule engine configured; still report the change.
		m.logger.Debug("run %s: no criteria configured", rec.RunID)
		return &Result{Status: StatusChanged, Message: msgChanged}, nil
	}

	oldInfo := PriceInfo{}
	if m.baseline != nil {
		oldInfo, err = m.baseline.Baseline(ctx, order)
		if err != nil {
			return nil, &RepriceError{Op: "Baseline", Ref: order.FlightRef, Err: err}
		}
	}

	matched, err := m.selectCriteria(ctx, candidates, oldInfo, newInfo)
	if err != nil {
		return nil, err
	}
	prio := matched.Priority()
	rec.MatchedPriority = &prio
	m.logger.Debug("run %s: criteria with priority %d matched", rec.RunID, prio)

	decisions, err := m.decisions.DecisionsFor(ctx, matched)
	if err != nil {
		return nil, &RepriceError{Op: "DecisionsFor", Ref: order.FlightRef, Err: err}
	}
	if err := m.executeDecisions(ctx, order, decisions); err != nil {
		return nil, err
	}

	return &Result{Status: StatusChanged, Message: msgChanged}, nil
}

func (m *Manager) observeStage(stage string, start time.Time) {
	if m.metrics != nil {
		m.metrics.ObserveStageDuration(stage, time.Since(start).Seconds())
	}
}

// record writes the run to the history, best effort. Failures are logged
// and never surfaced to the caller.
func (m *Manager) record(rec *RunRecord) {
	if m.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.history.SaveRun(ctx, rec); err != nil {
		m.logger.Error("run %s: failed to record run: %v", rec.RunID, err)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
