package admin

import (
	"context"
	"testing"

	"github.com/growloan-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLoanStore struct{ mock.Mock }

func (m *mockLoanStore) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *mockLoanStore) ListByStatus(ctx context.Context, status string) ([]domain.Loan, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *mockLoanStore) ScanPage(ctx context.Context, limit int, cursor string) ([]domain.Loan, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.Loan), args.String(1), args.Error(2)
}
func (m *mockLoanStore) UpdateVersioned(ctx context.Context, loanID string, expectedVersion int64, updates map[string]interface{}) error {
	return m.Called(ctx, loanID, expectedVersion, updates).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.User), args.String(1), args.Error(2)
}

type mockConfigStore struct{ mock.Mock }

func (m *mockConfigStore) Get(ctx context.Context) (*domain.AdminConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminConfig), args.Error(1)
}
func (m *mockConfigStore) Put(ctx context.Context, c *domain.AdminConfig) error {
	return m.Called(ctx, c).Error(0)
}

func TestApproveLoan(t *testing.T) {
	t.Run("validating to approved", func(t *testing.T) {
		loans := &mockLoanStore{}
		svc := NewService(loans, &mockUserStore{}, &mockConfigStore{}, nil)

		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", Status: domain.StatusValidating, Version: 2,
		}, nil).Once()
		loans.On("UpdateVersioned", mock.Anything, "l1", int64(2), mock.MatchedBy(func(u map[string]interface{}) bool {
			return u["status"] == string(domain.StatusApproved) && u["approved_amount"] == int64(80000)
		})).Return(nil)
		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", Status: domain.StatusApproved, ApprovedAmount: 80000, Version: 3,
		}, nil)

		l, err := svc.ApproveLoan(context.Background(), "l1", domain.ApproveLoanRequest{ApprovedAmount: 80000})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, l.Status)
	})

	t.Run("replay is idempotent", func(t *testing.T) {
		loans := &mockLoanStore{}
		svc := NewService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", Status: domain.StatusApproved, ApprovedAmount: 80000,
		}, nil)

		l, err := svc.ApproveLoan(context.Background(), "l1", domain.ApproveLoanRequest{ApprovedAmount: 80000})
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
		assert.NotNil(t, l)
	})

	t.Run("wrong state", func(t *testing.T) {
		loans := &mockLoanStore{}
		svc := NewService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", Status: domain.StatusPending,
		}, nil)

		_, err := svc.ApproveLoan(context.Background(), "l1", domain.ApproveLoanRequest{ApprovedAmount: 80000})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestRejectLoan_BlockedDuringProcessing(t *testing.T) {
	loans := &mockLoanStore{}
	svc := NewService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", Status: domain.StatusProcessing,
	}, nil)

	_, err := svc.RejectLoan(context.Background(), "l1", "suspicious documents")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApprovePayment(t *testing.T) {
	t.Run("generates transaction ref", func(t *testing.T) {
		loans := &mockLoanStore{}
		svc := NewService(loans, &mockUserStore{}, &mockConfigStore{}, nil)

		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", Status: domain.StatusPaymentValidation, Version: 8,
		}, nil).Once()
		loans.On("UpdateVersioned", mock.Anything, "l1", int64(8), mock.MatchedBy(func(u map[string]interface{}) bool {
			ref, _ := u["transaction_ref"].(string)
			return u["status"] == string(domain.StatusProcessing) &&
				u["deposit_paid"] == true && len(ref) == 36
		})).Return(nil)
		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", Status: domain.StatusProcessing, DepositPaid: true, Version: 9,
		}, nil)

		l, err := svc.ApprovePayment(context.Background(), "l1")
		require.NoError(t, err)
		assert.True(t, l.DepositPaid)
	})

	t.Run("replay is idempotent", func(t *testing.T) {
		loans := &mockLoanStore{}
		svc := NewService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", Status: domain.StatusProcessing, DepositPaid: true,
		}, nil)

		_, err := svc.ApprovePayment(context.Background(), "l1")
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	})
}

func TestRejectPayment(t *testing.T) {
	loans := &mockLoanStore{}
	svc := NewService(loans, &mockUserStore{}, &mockConfigStore{}, nil)

	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", Status: domain.StatusPaymentValidation, Version: 8,
	}, nil).Once()
	loans.On("UpdateVersioned", mock.Anything, "l1", int64(8), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == string(domain.StatusPaymentFailed) && u["payment_status"] == "failed"
	})).Return(nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", Status: domain.StatusPaymentFailed, Version: 9,
	}, nil)

	l, err := svc.RejectPayment(context.Background(), "l1", "amount mismatch")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentFailed, l.Status)
}

func TestUpdateConfig_PartialEdit(t *testing.T) {
	configs := &mockConfigStore{}
	svc := NewService(&mockLoanStore{}, &mockUserStore{}, configs, nil)

	configs.On("Get", mock.Anything).Return(domain.DefaultAdminConfig(), nil)
	deposit := int64(2500)
	configs.On("Put", mock.Anything, mock.MatchedBy(func(c *domain.AdminConfig) bool {
		return c.DepositAmount == 2500 && c.UPIID == "growloan@upi" // untouched fields keep their values
	})).Return(nil)

	cfg, err := svc.UpdateConfig(context.Background(), domain.UpdateAdminConfigRequest{DepositAmount: &deposit})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), cfg.DepositAmount)
	assert.Equal(t, int64(3500), cfg.TotalPaymentAmount())
}

func TestListLoans_UnknownStatus(t *testing.T) {
	svc := NewService(&mockLoanStore{}, &mockUserStore{}, &mockConfigStore{}, nil)
	_, _, err := svc.ListLoans(context.Background(), "garbage", 20, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestStats(t *testing.T) {
	loans := &mockLoanStore{}
	users := &mockUserStore{}
	svc := NewService(loans, users, &mockConfigStore{}, nil)

	users.On("ScanPage", mock.Anything, 100, "").Return([]domain.User{
		{UserID: "u1"}, {UserID: "u2"},
	}, "", nil)
	loans.On("ScanPage", mock.Anything, 100, "").Return([]domain.Loan{
		{Status: domain.StatusValidating},
		{Status: domain.StatusPaymentValidation, DepositPaid: false},
		{Status: domain.StatusCompleted, ApprovedAmount: 80000, DepositPaid: true, TotalPaymentAmount: 3000},
		{Status: domain.StatusRejected},
	}, "", nil)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalUsers)
	assert.Equal(t, 0, st.CompleteProfiles)
	assert.Equal(t, 4, st.TotalLoans)
	assert.Equal(t, 1, st.PendingReview)
	assert.Equal(t, 1, st.PaymentsToVerify)
	assert.Equal(t, 2, st.ActiveLoans)
	assert.Equal(t, int64(80000), st.DisbursedAmount)
	assert.Equal(t, int64(3000), st.CollectedDeposit)
}

func TestExportLoans_ProducesWorkbook(t *testing.T) {
	loans := &mockLoanStore{}
	users := &mockUserStore{}
	svc := NewService(loans, users, &mockConfigStore{}, nil)

	loans.On("ScanPage", mock.Anything, 100, "").Return([]domain.Loan{
		{LoanID: "l1", UserID: "u1", Status: domain.StatusCompleted, ApprovedAmount: 80000},
	}, "", nil)
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Name: "Asha", Phone: "+919876543210"}, nil)

	data, err := svc.ExportLoans(context.Background())
	require.NoError(t, err)
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
