package reprice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTicketInvalid = errors.New("reprice: ticket not valid")
	ErrNoRuleMatched = errors.New("reprice: no criteria matched")
)

// RepriceError wraps a stage failure with the operation that produced it.
type RepriceError struct {
	Op  string
	Ref string
	Err error
}

func (e *RepriceError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("reprice.%s [%s]: %v", e.Op, e.Ref, e.Err)
	}
	return fmt.Sprintf("reprice.%s: %v", e.Op, e.Err)
}

func (e *RepriceError) Unwrap() error {
	return e.Err
}

// TicketError reports every leg whose validation failed.
type TicketError struct {
	Legs []Leg
}

func (e *TicketError) Error() string {
	msgs := make([]string, 0, len(e.Legs))
	for _, leg := range e.Legs {
		switch leg {
		case LegFlight:
			msgs = append(msgs, "flight tickets are no longer available")
		case LegHotel:
			msgs = append(msgs, "hotel room is no longer available")
		default:
			msgs = append(msgs, string(leg)+" leg is no longer available")
		}
	}
	return "reprice: " + strings.Join(msgs, "; ")
}

func (e *TicketError) Is(target error) bool {
	return target == ErrTicketInvalid
}

// HasLeg reports whether the given leg failed validation.
func (e *TicketError) HasLeg(leg Leg) bool {
	for _, l := range e.Legs {
		if l == leg {
			return true
		}
	}
	return false
}

// EvaluationError aggregates the faulted criteria of a run that found no
// match. Causes may be empty: every criterion evaluated false without
// failing. That case additionally matches ErrNoRuleMatched, so callers
// that treat "no rule applied" as benign can branch on it.
type EvaluationError struct {
	Causes []error
}

func (e *EvaluationError) Error() string {
	if len(e.Causes) == 0 {
		return ErrNoRuleMatched.Error()
	}
	msgs := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		msgs[i] = c.Error()
	}
	return fmt.Sprintf("reprice: no criteria matched, %d failed: %s", len(e.Causes), strings.Join(msgs, "; "))
}

func (e *EvaluationError) Unwrap() []error {
	return e.Causes
}

func (e *EvaluationError) Is(target error) bool {
	return target == ErrNoRuleMatched && len(e.Causes) == 0
}

func IsTicketInvalid(err error) bool {
	return errors.Is(err, ErrTicketInvalid)
}

func IsNoRuleMatched(err error) bool {
	return errors.Is(err, ErrNoRuleMatched)
}
