package admin

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/growloan-api/internal/domain"
	rediscache "github.com/growloan-api/internal/infrastructure/redis"
	"github.com/xuri/excelize/v2"
)

type Service interface {
	Config(ctx context.Context) (*domain.AdminConfig, error)
	UpdateConfig(ctx context.Context, req domain.UpdateAdminConfigRequest) (*domain.AdminConfig, error)
	ListLoans(ctx context.Context, status string, limit int, cursor string) ([]domain.Loan, string, error)
	GetLoan(ctx context.Context, loanID string) (*domain.Loan, error)
	ApproveLoan(ctx context.Context, loanID string, req domain.ApproveLoanRequest) (*domain.Loan, error)
	RejectLoan(ctx context.Context, loanID string, reason string) (*domain.Loan, error)
	ApprovePayment(ctx context.Context, loanID string) (*domain.Loan, error)
	RejectPayment(ctx context.Context, loanID string, reason string) (*domain.Loan, error)
	Stats(ctx context.Context) (*Stats, error)
	ExportLoans(ctx context.Context) ([]byte, error)
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers       int   `json:"total_users"`
	CompleteProfiles int   `json:"complete_profiles"`
	TotalLoans       int   `json:"total_loans"`
	PendingReview    int   `json:"pending_review"`
	AwaitingPayment  int   `json:"awaiting_payment"`
	PaymentsToVerify int   `json:"payments_to_verify"`
	ActiveLoans      int   `json:"active_loans"`
	CompletedLoans   int   `json:"completed_loans"`
	RejectedLoans    int   `json:"rejected_loans"`
	DisbursedAmount  int64 `json:"disbursed_amount"`
	CollectedDeposit int64 `json:"collected_deposit"`
}

type loanStore interface {
	Get(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Loan, error)
	ScanPage(ctx context.Context, limit int, cursor string) ([]domain.Loan, string, error)
	UpdateVersioned(ctx context.Context, loanID string, expectedVersion int64, updates map[string]interface{}) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	ScanPage(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
}

type configStore interface {
	Get(ctx context.Context) (*domain.AdminConfig, error)
	Put(ctx context.Context, c *domain.AdminConfig) error
}

type service struct {
	loans   loanStore
	users   userStore
	configs configStore
	cache   *rediscache.Cache
}

func NewService(loans loanStore, users userStore, configs configStore, cache *rediscache.Cache) Service {
	return &service{loans: loans, users: users, configs: configs, cache: cache}
}

func (s *service) Config(ctx context.Context) (*domain.AdminConfig, error) {
	var cached domain.AdminConfig
	if s.cache.GetJSON(ctx, rediscache.ConfigKey, &cached) {
		return &cached, nil
	}
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, rediscache.ConfigKey, cfg)
	return cfg, nil
}

// UpdateConfig applies partial edits to the singleton pricing record.
// In-flight loans are unaffected: pricing was snapshotted onto them at
// tenure selection.
func (s *service) UpdateConfig(ctx context.Context, req domain.UpdateAdminConfigRequest) (*domain.AdminConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.UPIID != nil {
		cfg.UPIID = *req.UPIID
	}
	if req.UPIName != nil {
		cfg.UPIName = *req.UPIName
	}
	if req.DepositAmount != nil {
		cfg.DepositAmount = *req.DepositAmount
	}
	if req.FileCharge != nil {
		cfg.FileCharge = *req.FileCharge
	}
	if req.PlatformFee != nil {
		cfg.PlatformFee = *req.PlatformFee
	}
	if req.Tax != nil {
		cfg.Tax = *req.Tax
	}
	if req.ProcessingDays != nil {
		cfg.ProcessingDays = *req.ProcessingDays
	}
	if req.InterestRate != nil {
		cfg.InterestRate = *req.InterestRate
	}
	cfg.UpdatedAt = time.Now().UTC()

	if err := s.configs.Put(ctx, cfg); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, rediscache.ConfigKey)
	return cfg, nil
}

func (s *service) ListLoans(ctx context.Context, status string, limit int, cursor string) ([]domain.Loan, string, error) {
	if status != "" {
		if !domain.LoanStatus(status).Valid() {
			return nil, "", fmt.Errorf("unknown loan status %q: %w", status, domain.ErrBadRequest)
		}
		loans, err := s.loans.ListByStatus(ctx, status)
		return loans, "", err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.loans.ScanPage(ctx, limit, cursor)
}

func (s *service) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	l, err := s.loans.Get(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("loan not found: %w", domain.ErrNotFound)
	}
	return l, nil
}

// ApproveLoan moves a loan under review to approved with the sanctioned
// amount. Replays on an already-approved loan report ErrAlreadyProcessed so
// a double-clicking admin sees success, not a scary conflict.
func (s *service) ApproveLoan(ctx context.Context, loanID string, req domain.ApproveLoanRequest) (*domain.Loan, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.StatusApproved {
		return l, domain.ErrAlreadyProcessed
	}
	if !l.Status.CanTransition(domain.StatusApproved) {
		return nil, fmt.Errorf("cannot approve loan in status %s: %w", l.Status, domain.ErrConflict)
	}
	now := time.Now().UTC()
	return s.apply(ctx, l, map[string]interface{}{
		"status":          string(domain.StatusApproved),
		"approved_amount": req.ApprovedAmount,
		"approved_at":     now,
	})
}

func (s *service) RejectLoan(ctx context.Context, loanID string, reason string) (*domain.Loan, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.StatusRejected {
		return l, domain.ErrAlreadyProcessed
	}
	if !l.Status.CanReject() {
		return nil, fmt.Errorf("cannot reject loan in status %s: %w", l.Status, domain.ErrConflict)
	}
	return s.apply(ctx, l, map[string]interface{}{
		"status":           string(domain.StatusRejected),
		"rejection_reason": reason,
	})
}

// ApprovePayment confirms the user's claimed deposit arrived and starts
// disbursement processing. The transaction reference is generated here, on
// the trusted side, never taken from client input.
func (s *service) ApprovePayment(ctx context.Context, loanID string) (*domain.Loan, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.DepositPaid && (l.Status == domain.StatusProcessing || l.Status == domain.StatusCompleted) {
		return l, domain.ErrAlreadyProcessed
	}
	if !l.Status.CanTransition(domain.StatusProcessing) {
		return nil, fmt.Errorf("no payment awaiting validation on this loan: %w", domain.ErrConflict)
	}
	return s.apply(ctx, l, map[string]interface{}{
		"status":          string(domain.StatusProcessing),
		"deposit_paid":    true,
		"payment_status":  "verified",
		"transaction_ref": uuid.NewString(),
	})
}

func (s *service) RejectPayment(ctx context.Context, loanID string, reason string) (*domain.Loan, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.StatusPaymentFailed {
		return l, domain.ErrAlreadyProcessed
	}
	if !l.Status.CanTransition(domain.StatusPaymentFailed) {
		return nil, fmt.Errorf("no payment awaiting validation on this loan: %w", domain.ErrConflict)
	}
	return s.apply(ctx, l, map[string]interface{}{
		"status":           string(domain.StatusPaymentFailed),
		"payment_status":   "failed",
		"rejection_reason": reason,
	})
}

// Stats walks all users and loans. Fine at this product's scale; revisit
// with a counting table if either scan grows past a few pages.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	cursor := ""
	for {
		users, next, err := s.users.ScanPage(ctx, 100, cursor)
		if err != nil {
			return nil, err
		}
		for i := range users {
			st.TotalUsers++
			if domain.EvaluateProfile(&users[i]).Complete {
				st.CompleteProfiles++
			}
		}
		if next == "" {
			break
		}
		cursor = next
	}

	cursor = ""
	for {
		loans, next, err := s.loans.ScanPage(ctx, 100, cursor)
		if err != nil {
			return nil, err
		}
		for i := range loans {
			l := &loans[i]
			st.TotalLoans++
			switch l.Status {
			case domain.StatusPending, domain.StatusValidating:
				st.PendingReview++
			case domain.StatusPaymentPending, domain.StatusPaymentFailed:
				st.AwaitingPayment++
			case domain.StatusPaymentValidation:
				st.PaymentsToVerify++
			case domain.StatusCompleted:
				st.CompletedLoans++
				st.DisbursedAmount += l.ApprovedAmount
			case domain.StatusRejected:
				st.RejectedLoans++
			}
			if l.Active() {
				st.ActiveLoans++
			}
			if l.DepositPaid {
				st.CollectedDeposit += l.TotalPaymentAmount
			}
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return st, nil
}

var exportHeader = []string{
	"Loan ID", "User ID", "Borrower", "Phone", "Status",
	"Requested", "Approved", "Tenure (months)", "EMI", "Total Payable",
	"Deposit Paid", "Transaction Ref", "Applied At", "Disbursed At",
}

// ExportLoans produces an XLSX workbook of every loan for offline reporting.
func (s *service) ExportLoans(ctx context.Context) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Loans"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	cursor := ""
	for {
		loans, next, err := s.loans.ScanPage(ctx, 100, cursor)
		if err != nil {
			return nil, err
		}
		for i := range loans {
			l := &loans[i]
			name, phone := "", ""
			if u, err := s.users.Get(ctx, l.UserID); err == nil {
				name, phone = u.Name, u.Phone
			}
			disbursed := ""
			if l.DisbursedAt != nil {
				disbursed = l.DisbursedAt.Format(time.RFC3339)
			}
			values := []interface{}{
				l.LoanID, l.UserID, name, phone, string(l.Status),
				l.RequestedAmount, l.ApprovedAmount, l.TenureMonths, l.EMIAmount, l.TotalAmount,
				l.DepositPaid, l.TransactionRef, l.AppliedAt.Format(time.RFC3339), disbursed,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
		if next == "" {
			break
		}
		cursor = next
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *service) apply(ctx context.Context, l *domain.Loan, updates map[string]interface{}) (*domain.Loan, error) {
	if err := s.loans.UpdateVersioned(ctx, l.LoanID, l.Version, updates); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, rediscache.LoanKey(l.LoanID))
	return s.loans.Get(ctx, l.LoanID)
}
