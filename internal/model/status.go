package model

// HireStatus is the closed set of lifecycle states for a hire record.
// Statuses are persisted as lowercase strings but business logic must
// only ever go through the constants and CanTransition below so that a
// typo can never produce an unreachable record.
type HireStatus string

const (
	StatusPending   HireStatus = "pending"   // awaiting manual approval; no days held
	StatusApproved  HireStatus = "approved"  // approved by an administrator; days held
	StatusConfirmed HireStatus = "confirmed" // direct booking; days held from creation
	StatusRejected  HireStatus = "rejected"  // terminal; declined while pending or after approval
	StatusCancelled HireStatus = "cancelled" // terminal; withdrawn after days were held
	StatusCompleted HireStatus = "completed" // terminal; the hire took place
)

// hireTransitions enumerates every legal status transition.  Anything
// absent from this table is rejected with ErrInvalidTransition by the
// service layer.  pending holds no inventory, so pending -> rejected
// needs no compensation; leaving approved or confirmed for rejected or
// cancelled must return still-future days to the calendar.
var hireTransitions = map[HireStatus][]HireStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusRejected, StatusCancelled, StatusCompleted},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is one of the known hire statuses.
func (s HireStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed,
		StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s HireStatus) Terminal() bool {
	return len(hireTransitions[s]) == 0 && s.Valid()
}

// CanTransition reports whether moving from s to next is permitted.
func (s HireStatus) CanTransition(next HireStatus) bool {
	for _, t := range hireTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// HoldsDays reports whether a record in this status owns days removed
// from the guide's calendar.  Used to decide whether a rejection or
// cancellation must compensate.
func (s HireStatus) HoldsDays() bool {
	return s == StatusApproved || s == StatusConfirmed
}

// PaymentStatus tracks the payment side of a hire independently of its
// lifecycle status.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether p is one of the known payment statuses.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// CanTransition permits only unpaid -> paid -> refunded.
func (p PaymentStatus) CanTransition(next PaymentStatus) bool {
	switch p {
	case PaymentUnpaid:
		return next == PaymentPaid
	case PaymentPaid:
		return next == PaymentRefunded
	}
	return false
}
