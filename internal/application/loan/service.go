package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/growloan-api/internal/domain"
	rediscache "github.com/growloan-api/internal/infrastructure/redis"
	"github.com/growloan-api/internal/pkg/emi"
	"github.com/growloan-api/internal/pkg/id"
	"github.com/growloan-api/internal/pkg/upi"
)

type Service interface {
	Apply(ctx context.Context, userID string, req domain.ApplyLoanRequest) (*domain.Loan, error)
	Get(ctx context.Context, userID, loanID string) (*domain.Loan, error)
	ListMine(ctx context.Context, userID string) ([]domain.Loan, error)
	SubmitForValidation(ctx context.Context, userID, loanID string) (*domain.Loan, error)
	TenureOptions(ctx context.Context, userID, loanID string) ([]emi.Option, error)
	SelectTenure(ctx context.Context, userID, loanID string, req domain.SelectTenureRequest) (*domain.Loan, error)
	SanctionLetter(ctx context.Context, userID, loanID string) (*SanctionLetter, error)
	Sign(ctx context.Context, userID, loanID string, req domain.SignLoanRequest) (*domain.Loan, error)
	PaymentDetails(ctx context.Context, userID, loanID string) (*PaymentDetails, error)
	SubmitPayment(ctx context.Context, userID, loanID string, req domain.SubmitPaymentRequest) (*domain.Loan, error)
	Cancel(ctx context.Context, userID, loanID string) (*domain.Loan, error)
}

// SanctionLetter is the approved-terms summary shown to the borrower before
// signing.
type SanctionLetter struct {
	LoanID         string    `json:"loan_id"`
	BorrowerName   string    `json:"borrower_name"`
	ApprovedAmount int64     `json:"approved_amount"`
	InterestRate   float64   `json:"interest_rate"`
	TenureMonths   int       `json:"tenure_months"`
	EMIAmount      int64     `json:"emi_amount"`
	TotalInterest  int64     `json:"total_interest"`
	TotalAmount    int64     `json:"total_amount"`
	ProcessingDays int       `json:"processing_days"`
	IssuedAt       time.Time `json:"issued_at"`
}

// PaymentDetails is everything the client needs to render the UPI payment
// screen for the upfront deposit.
type PaymentDetails struct {
	LoanID             string `json:"loan_id"`
	UPIID              string `json:"upi_id"`
	UPIName            string `json:"upi_name"`
	DepositAmount      int64  `json:"deposit_amount"`
	FileCharge         int64  `json:"file_charge"`
	PlatformFee        int64  `json:"platform_fee"`
	Tax                int64  `json:"tax"`
	TotalPaymentAmount int64  `json:"total_payment_amount"`
	UPIString          string `json:"upi_string"`
}

type loanStore interface {
	Put(ctx context.Context, l *domain.Loan) error
	Get(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Loan, error)
	UpdateVersioned(ctx context.Context, loanID string, expectedVersion int64, updates map[string]interface{}) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type configStore interface {
	Get(ctx context.Context) (*domain.AdminConfig, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	loans      loanStore
	users      userStore
	configs    configStore
	cache      *rediscache.Cache
	mail       mailer
	adminEmail string
}

type ServiceDeps struct {
	Loans      loanStore
	Users      userStore
	Configs    configStore
	Cache      *rediscache.Cache
	Mailer     mailer
	AdminEmail string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		loans:      deps.Loans,
		users:      deps.Users,
		configs:    deps.Configs,
		cache:      deps.Cache,
		mail:       deps.Mailer,
		adminEmail: deps.AdminEmail,
	}
}

// Apply opens a new loan application. A user may hold at most one active
// loan, and the KYC profile (all text fields plus the three documents) must
// be complete before applying.
func (s *service) Apply(ctx context.Context, userID string, req domain.ApplyLoanRequest) (*domain.Loan, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	c := domain.EvaluateProfile(u)
	if !c.Complete {
		return nil, fmt.Errorf("profile incomplete, missing %v: %w", c.MissingFields, domain.ErrBadRequest)
	}
	if !c.DocumentsComplete {
		return nil, fmt.Errorf("KYC documents incomplete, missing %v: %w", c.MissingDocuments, domain.ErrBadRequest)
	}

	existing, err := s.loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Active() {
			return nil, fmt.Errorf("an active loan already exists: %w", domain.ErrConflict)
		}
	}

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &domain.Loan{
		LoanID:          id.New(),
		UserID:          userID,
		RequestedAmount: req.RequestedAmount,
		InterestRate:    cfg.InterestRate,
		Status:          domain.StatusPending,
		AppliedAt:       now,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.loans.Put(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get loads a loan, enforcing ownership. Reads go through the cache since
// clients poll this endpoint while waiting on admin actions.
func (s *service) Get(ctx context.Context, userID, loanID string) (*domain.Loan, error) {
	var cached domain.Loan
	if s.cache.GetJSON(ctx, rediscache.LoanKey(loanID), &cached) {
		if cached.UserID != userID {
			return nil, fmt.Errorf("loan belongs to another user: %w", domain.ErrForbidden)
		}
		return &cached, nil
	}

	l, err := s.owned(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, rediscache.LoanKey(loanID), l)
	return l, nil
}

func (s *service) ListMine(ctx context.Context, userID string) ([]domain.Loan, error) {
	return s.loans.ListByUser(ctx, userID)
}

// SubmitForValidation hands the application to the review queue.
func (s *service) SubmitForValidation(ctx context.Context, userID, loanID string) (*domain.Loan, error) {
	return s.transition(ctx, userID, loanID, domain.StatusValidating, nil)
}

// TenureOptions lists the EMI plans available for the approved amount.
func (s *service) TenureOptions(ctx context.Context, userID, loanID string) ([]emi.Option, error) {
	l, err := s.owned(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.StatusApproved && l.Status != domain.StatusTenureSelection {
		return nil, fmt.Errorf("loan is not awaiting tenure selection: %w", domain.ErrConflict)
	}
	return emi.Options(l.ApprovedAmount, l.InterestRate)
}

// SelectTenure fixes the repayment plan and snapshots the deposit pricing
// from the current admin config, so later config edits never reprice an
// in-flight loan.
func (s *service) SelectTenure(ctx context.Context, userID, loanID string, req domain.SelectTenureRequest) (*domain.Loan, error) {
	l, err := s.owned(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	// Re-selection is allowed until the sanction letter has been viewed.
	if !l.Status.CanTransition(domain.StatusTenureSelection) && l.Status != domain.StatusTenureSelection {
		return nil, fmt.Errorf("cannot select tenure in status %s: %w", l.Status, domain.ErrConflict)
	}
	if !emi.ValidTenure(l.ApprovedAmount, req.TenureMonths) {
		return nil, fmt.Errorf("tenure %d months is outside the allowed range for this amount: %w", req.TenureMonths, domain.ErrBadRequest)
	}
	sched, err := emi.Calculate(l.ApprovedAmount, l.InterestRate, req.TenureMonths)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, l, map[string]interface{}{
		"status":               string(domain.StatusTenureSelection),
		"tenure_months":        req.TenureMonths,
		"emi_amount":           sched.EMI,
		"total_interest":       sched.TotalInterest,
		"total_amount":         sched.TotalAmount,
		"deposit_amount":       cfg.DepositAmount,
		"file_charge":          cfg.FileCharge,
		"platform_fee":         cfg.PlatformFee,
		"tax":                  cfg.Tax,
		"total_payment_amount": cfg.TotalPaymentAmount(),
	})
}

// SanctionLetter renders the approved terms. First view records the fact
// and moves the loan on to the signature step; later views just re-render.
func (s *service) SanctionLetter(ctx context.Context, userID, loanID string) (*SanctionLetter, error) {
	l, err := s.owned(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	switch l.Status {
	case domain.StatusTenureSelection:
		l, err = s.apply(ctx, l, map[string]interface{}{
			"status":                 string(domain.StatusSanctionLetterViewed),
			"sanction_letter_viewed": true,
		})
		if err != nil {
			return nil, err
		}
	case domain.StatusSanctionLetterViewed, domain.StatusSignaturePending,
		domain.StatusPaymentPending, domain.StatusPaymentValidation,
		domain.StatusProcessing, domain.StatusPaymentFailed, domain.StatusCompleted:
		// re-render only
	default:
		return nil, fmt.Errorf("sanction letter not available in status %s: %w", l.Status, domain.ErrConflict)
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &SanctionLetter{
		LoanID:         l.LoanID,
		BorrowerName:   u.Name,
		ApprovedAmount: l.ApprovedAmount,
		InterestRate:   l.InterestRate,
		TenureMonths:   l.TenureMonths,
		EMIAmount:      l.EMIAmount,
		TotalInterest:  l.TotalInterest,
		TotalAmount:    l.TotalAmount,
		ProcessingDays: cfg.ProcessingDays,
		IssuedAt:       l.UpdatedAt,
	}, nil
}

// Sign stores the borrower's digital signature and opens the payment step.
// The loan passes through signature_pending so the audit trail records both
// hops, but the caller only ever sees the final payment_pending state.
func (s *service) Sign(ctx context.Context, userID, loanID string, req domain.SignLoanRequest) (*domain.Loan, error) {
	l, err := s.owned(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.StatusSanctionLetterViewed {
		l, err = s.apply(ctx, l, map[string]interface{}{
			"status":            string(domain.StatusSignaturePending),
			"digital_signature": req.Signature,
		})
		if err != nil {
			return nil, err
		}
	}
	if !l.Status.CanTransition(domain.StatusPaymentPending) {
		return nil, fmt.Errorf("cannot sign loan in status %s: %w", l.Status, domain.ErrConflict)
	}
	return s.apply(ctx, l, map[string]interface{}{
		"status":            string(domain.StatusPaymentPending),
		"digital_signature": req.Signature,
	})
}

// PaymentDetails builds the UPI payment screen from the loan's snapshotted
// pricing. A failed payment re-opens the payment step here.
func (s *service) PaymentDetails(ctx context.Context, userID, loanID string) (*PaymentDetails, error) {
	l, err := s.owned(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.StatusPaymentFailed {
		l, err = s.apply(ctx, l, map[string]interface{}{
			"status": string(domain.StatusPaymentPending),
		})
		if err != nil {
			return nil, err
		}
	}
	if l.Status != domain.StatusPaymentPending {
		return nil, fmt.Errorf("loan is not awaiting payment: %w", domain.ErrConflict)
	}

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	note := "GrowLoan deposit " + l.LoanID
	return &PaymentDetails{
		LoanID:             l.LoanID,
		UPIID:              cfg.UPIID,
		UPIName:            cfg.UPIName,
		DepositAmount:      l.DepositAmount,
		FileCharge:         l.FileCharge,
		PlatformFee:        l.PlatformFee,
		Tax:                l.Tax,
		TotalPaymentAmount: l.TotalPaymentAmount,
		UPIString:          upi.PaymentString(cfg.UPIID, cfg.UPIName, l.TotalPaymentAmount, note),
	}, nil
}

// SubmitPayment records the user's claimed UPI payment and queues it for
// admin validation. Ops get an email so validation does not sit unnoticed.
func (s *service) SubmitPayment(ctx context.Context, userID, loanID string, req domain.SubmitPaymentRequest) (*domain.Loan, error) {
	now := time.Now().UTC()
	l, err := s.transition(ctx, userID, loanID, domain.StatusPaymentValidation, map[string]interface{}{
		"payment_method": req.PaymentMethod,
		"payment_id":     req.PaymentID,
		"payment_status": "submitted",
		"payment_at":     now,
	})
	if err != nil {
		return nil, err
	}

	if s.mail != nil && s.adminEmail != "" {
		body := fmt.Sprintf("Loan %s reported a UPI payment of %d (ref %s). Please verify and approve or reject it.",
			l.LoanID, l.TotalPaymentAmount, req.PaymentID)
		if err := s.mail.SendEmail(s.adminEmail, "Payment awaiting validation", body); err != nil {
			slog.Warn("payment notification email failed", "loan_id", l.LoanID, "err", err)
		}
	}
	return l, nil
}

// Cancel lets the borrower withdraw the application while it is still in
// review. Once approved, only an admin can reject it.
func (s *service) Cancel(ctx context.Context, userID, loanID string) (*domain.Loan, error) {
	l, err := s.owned(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.StatusPending && l.Status != domain.StatusValidating {
		return nil, fmt.Errorf("loan can no longer be cancelled: %w", domain.ErrConflict)
	}
	return s.apply(ctx, l, map[string]interface{}{
		"status": string(domain.StatusCancelled),
	})
}

// owned loads a loan straight from the store and verifies ownership.
func (s *service) owned(ctx context.Context, userID, loanID string) (*domain.Loan, error) {
	l, err := s.loans.Get(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("loan not found: %w", domain.ErrNotFound)
	}
	if l.UserID != userID {
		return nil, fmt.Errorf("loan belongs to another user: %w", domain.ErrForbidden)
	}
	return l, nil
}

// transition performs a guarded single-step status change with extra field
// updates, on behalf of the owner.
func (s *service) transition(ctx context.Context, userID, loanID string, to domain.LoanStatus, extra map[string]interface{}) (*domain.Loan, error) {
	l, err := s.owned(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if !l.Status.CanTransition(to) {
		return nil, fmt.Errorf("cannot move loan from %s to %s: %w", l.Status, to, domain.ErrConflict)
	}
	updates := map[string]interface{}{"status": string(to)}
	for k, v := range extra {
		updates[k] = v
	}
	return s.apply(ctx, l, updates)
}

// apply writes updates under the loan's current version, invalidates the
// cache and returns the fresh record.
func (s *service) apply(ctx context.Context, l *domain.Loan, updates map[string]interface{}) (*domain.Loan, error) {
	if err := s.loans.UpdateVersioned(ctx, l.LoanID, l.Version, updates); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, rediscache.LoanKey(l.LoanID))
	fresh, err := s.loans.Get(ctx, l.LoanID)
	if err != nil {
		return nil, err
	}
	return fresh, nil
}
