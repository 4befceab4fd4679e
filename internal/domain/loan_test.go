package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to LoanStatus
		want     bool
	}{
		{StatusPending, StatusValidating, true},
		{StatusValidating, StatusApproved, true},
		{StatusApproved, StatusTenureSelection, true},
		{StatusTenureSelection, StatusSanctionLetterViewed, true},
		{StatusSanctionLetterViewed, StatusSignaturePending, true},
		{StatusSignaturePending, StatusPaymentPending, true},
		{StatusPaymentPending, StatusPaymentValidation, true},
		{StatusPaymentValidation, StatusProcessing, true},
		{StatusPaymentValidation, StatusPaymentFailed, true},
		{StatusPaymentFailed, StatusPaymentPending, true},
		{StatusProcessing, StatusCompleted, true},

		// no skipping ahead
		{StatusPending, StatusApproved, false},
		{StatusApproved, StatusPaymentPending, false},
		{StatusPaymentPending, StatusProcessing, false},
		// no going backwards
		{StatusApproved, StatusValidating, false},
		{StatusPaymentValidation, StatusPaymentPending, false},
		// terminal states are dead ends
		{StatusCompleted, StatusPending, false},
		{StatusRejected, StatusValidating, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestLoanStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPaymentFailed.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
}

func TestLoanStatusCanReject(t *testing.T) {
	assert.True(t, StatusPending.CanReject())
	assert.True(t, StatusPaymentValidation.CanReject())
	assert.False(t, StatusProcessing.CanReject())
	assert.False(t, StatusCompleted.CanReject())
	assert.False(t, StatusRejected.CanReject())
}

func TestLoanActive(t *testing.T) {
	// payment_failed still blocks a new application; the user must retry
	// or cancel first.
	l := &Loan{Status: StatusPaymentFailed}
	assert.True(t, l.Active())

	l.Status = StatusCancelled
	assert.False(t, l.Active())
}

func TestLoanStatusValid(t *testing.T) {
	assert.True(t, StatusSanctionLetterViewed.Valid())
	assert.False(t, LoanStatus("garbage").Valid())
	assert.False(t, LoanStatus("").Valid())
}
