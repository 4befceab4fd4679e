package domain

import "time"

// LoanStatus is the lifecycle state of a loan. Transitions are forward-only
// along the table below; the single exception is the payment retry edge
// payment_failed -> payment_pending.
type LoanStatus string

const (
	StatusPending              LoanStatus = "pending"
	StatusValidating           LoanStatus = "validating"
	StatusApproved             LoanStatus = "approved"
	StatusTenureSelection      LoanStatus = "tenure_selection"
	StatusSanctionLetterViewed LoanStatus = "sanction_letter_viewed"
	StatusSignaturePending     LoanStatus = "signature_pending"
	StatusPaymentPending       LoanStatus = "payment_pending"
	StatusPaymentValidation    LoanStatus = "payment_validation"
	StatusProcessing           LoanStatus = "processing"
	StatusPaymentFailed        LoanStatus = "payment_failed"
	StatusCompleted            LoanStatus = "completed"
	StatusRejected             LoanStatus = "rejected"
	StatusCancelled            LoanStatus = "cancelled"
)

// transitions maps each state to the set of states it may move to.
// Rejection/cancellation edges are handled by CanReject, not listed here.
var transitions = map[LoanStatus][]LoanStatus{
	StatusPending:              {StatusValidating},
	StatusValidating:           {StatusApproved},
	StatusApproved:             {StatusTenureSelection},
	StatusTenureSelection:      {StatusSanctionLetterViewed},
	StatusSanctionLetterViewed: {StatusSignaturePending},
	StatusSignaturePending:     {StatusPaymentPending},
	StatusPaymentPending:       {StatusPaymentValidation},
	StatusPaymentValidation:    {StatusProcessing, StatusPaymentFailed},
	StatusPaymentFailed:        {StatusPaymentPending}, // user resubmits payment
	StatusProcessing:           {StatusCompleted},
}

// CanTransition reports whether moving from one status to another is
// permitted. Both states must come from the stored record, never from
// client input.
func (s LoanStatus) CanTransition(to LoanStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s LoanStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// CanReject reports whether an admin may still reject or cancel the loan.
// Once money is moving (processing) or the loan is terminal, it may not.
func (s LoanStatus) CanReject() bool {
	return !s.IsTerminal() && s != StatusProcessing
}

// Valid reports whether s is a known lifecycle state.
func (s LoanStatus) Valid() bool {
	switch s {
	case StatusPending, StatusValidating, StatusApproved, StatusTenureSelection,
		StatusSanctionLetterViewed, StatusSignaturePending, StatusPaymentPending,
		StatusPaymentValidation, StatusProcessing, StatusPaymentFailed,
		StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Loan is a single loan application owned by exactly one user. All amounts
// are whole currency units. Version is bumped on every write via a
// conditional update, so concurrent admin actions surface as conflicts
// instead of silently overwriting each other.
type Loan struct {
	LoanID          string     `json:"id" dynamodbav:"loan_id"`
	UserID          string     `json:"user_id" dynamodbav:"user_id"`
	RequestedAmount int64      `json:"requested_amount" dynamodbav:"requested_amount"`
	ApprovedAmount  int64      `json:"approved_amount,omitempty" dynamodbav:"approved_amount"`
	InterestRate    float64    `json:"interest_rate" dynamodbav:"interest_rate"` // annual, percent
	TenureMonths    int        `json:"tenure_months,omitempty" dynamodbav:"tenure_months"`
	EMIAmount       int64      `json:"emi_amount,omitempty" dynamodbav:"emi_amount"`
	TotalInterest   int64      `json:"total_interest,omitempty" dynamodbav:"total_interest"`
	TotalAmount     int64      `json:"total_amount,omitempty" dynamodbav:"total_amount"`
	Status          LoanStatus `json:"status" dynamodbav:"status"`

	// Deposit collection, snapshotted from AdminConfig at tenure selection.
	DepositAmount      int64  `json:"deposit_amount,omitempty" dynamodbav:"deposit_amount"`
	FileCharge         int64  `json:"file_charge,omitempty" dynamodbav:"file_charge"`
	PlatformFee        int64  `json:"platform_fee,omitempty" dynamodbav:"platform_fee"`
	Tax                int64  `json:"tax,omitempty" dynamodbav:"tax"`
	TotalPaymentAmount int64  `json:"total_payment_amount,omitempty" dynamodbav:"total_payment_amount"`
	DepositPaid        bool   `json:"deposit_paid" dynamodbav:"deposit_paid"`
	PaymentMethod      string `json:"payment_method,omitempty" dynamodbav:"payment_method"`
	PaymentID          string `json:"payment_id,omitempty" dynamodbav:"payment_id"`
	PaymentStatus      string `json:"payment_status,omitempty" dynamodbav:"payment_status"`
	TransactionRef     string `json:"transaction_ref,omitempty" dynamodbav:"transaction_ref"`

	DigitalSignature     string `json:"digital_signature,omitempty" dynamodbav:"digital_signature"` // base64 image
	SanctionLetterViewed bool   `json:"sanction_letter_viewed" dynamodbav:"sanction_letter_viewed"`
	RejectionReason      string `json:"rejection_reason,omitempty" dynamodbav:"rejection_reason"`

	AppliedAt   time.Time  `json:"applied_at" dynamodbav:"applied_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty" dynamodbav:"approved_at"`
	PaymentAt   *time.Time `json:"payment_at,omitempty" dynamodbav:"payment_at"`
	DisbursedAt *time.Time `json:"disbursed_at,omitempty" dynamodbav:"disbursed_at"`

	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Active reports whether the loan still occupies the user's single
// in-flight loan slot. payment_failed counts as active: the user is
// expected to retry, not to open a second loan.
func (l *Loan) Active() bool {
	return !l.Status.IsTerminal()
}

type ApplyLoanRequest struct {
	RequestedAmount int64 `json:"requested_amount" validate:"required,gt=0"`
}

type SelectTenureRequest struct {
	TenureMonths int `json:"tenure_months" validate:"required,gte=1"`
}

type SignLoanRequest struct {
	Signature string `json:"signature" validate:"required"` // base64-encoded image
}

type SubmitPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=upi"`
	PaymentID     string `json:"payment_id" validate:"required"` // UPI transaction reference
}

type ApproveLoanRequest struct {
	ApprovedAmount int64 `json:"approved_amount" validate:"required,gt=0"`
}

type RejectLoanRequest struct {
	Reason string `json:"reason"`
}
