package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHireStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to HireStatus
		allowed  bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusConfirmed, false},
		{StatusPending, StatusCancelled, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusRejected, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusRejected, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCompleted, StatusCancelled, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestHireStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, HireStatus("garbage").Terminal())
}

func TestHireStatusHoldsDays(t *testing.T) {
	assert.False(t, StatusPending.HoldsDays())
	assert.True(t, StatusApproved.HoldsDays())
	assert.True(t, StatusConfirmed.HoldsDays())
	assert.False(t, StatusRejected.HoldsDays())
	assert.False(t, StatusCancelled.HoldsDays())
	assert.False(t, StatusCompleted.HoldsDays())
}

func TestHireStatusValid(t *testing.T) {
	for _, s := range []HireStatus{StatusPending, StatusApproved, StatusConfirmed,
		StatusRejected, StatusCancelled, StatusCompleted} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, HireStatus("").Valid())
	assert.False(t, HireStatus("PENDING").Valid())
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentUnpaid.CanTransition(PaymentPaid))
	assert.True(t, PaymentPaid.CanTransition(PaymentRefunded))
	assert.False(t, PaymentUnpaid.CanTransition(PaymentRefunded))
	assert.False(t, PaymentPaid.CanTransition(PaymentUnpaid))
	assert.False(t, PaymentRefunded.CanTransition(PaymentPaid))
}
