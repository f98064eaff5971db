package dates

import (
	"fmt"
	"time"
)

// PolicyReason identifies why a parsed date fails the business window.
type PolicyReason string

const (
	FutureDateRequired PolicyReason = "FUTURE_DATE_REQUIRED"
	DateTooFarOut      PolicyReason = "DATE_TOO_FAR_OUT"
)

// PolicyError reports a well-formed date outside the business window.
type PolicyError struct {
	Date   Date
	Reason PolicyReason
}

func (e *PolicyError) Error() string {
	switch e.Reason {
	case FutureDateRequired:
		return fmt.Sprintf("date %s must be in the future", e.Date)
	case DateTooFarOut:
		return fmt.Sprintf("date %s is too far in the future", e.Date)
	}
	return fmt.Sprintf("date %s rejected by policy", e.Date)
}

// Policy bounds business-acceptable dates relative to a reference time.
type Policy struct {
	RequireFuture bool
	MaxAheadDays  int
}

// DefaultPolicy requires a strictly future date no more than two years out.
func DefaultPolicy() Policy {
	return Policy{RequireFuture: true, MaxAheadDays: 730}
}

// Validate checks d against the window anchored at now.
func (p Policy) Validate(d Date, now time.Time) error {
	today := FromTime(now)
	if p.RequireFuture && !d.After(today) {
		return &PolicyError{Date: d, Reason: FutureDateRequired}
	}
	if p.MaxAheadDays > 0 && d.After(today.AddDays(p.MaxAheadDays)) {
		return &PolicyError{Date: d, Reason: DateTooFarOut}
	}
	return nil
}
