package loan

import (
	"context"
	"testing"
	"time"

	"github.com/growloan-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLoanStore struct{ mock.Mock }

func (m *mockLoanStore) Put(ctx context.Context, l *domain.Loan) error {
	return m.Called(ctx, l).Error(0)
}
func (m *mockLoanStore) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *mockLoanStore) ListByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Loan), args.Error(1)
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

type mockConfigStore struct{ mock.Mock }

func (m *mockConfigStore) Get(ctx context.Context) (*domain.AdminConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminConfig), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func completeUser() *domain.User {
	return &domain.User{
		UserID: "u1", Phone: "+919876543210", Name: "Asha", Email: "a@b.c",
		DateOfBirth: "1994-01-15", Address: "12 MG Road", City: "Pune", State: "MH",
		Pincode: "411001", EmploymentType: domain.EmploymentSalaried,
		AadharNumber: "123412341234", PanNumber: "ABCDE1234F",
		AadharCardURL: "s3://b/a", PanCardURL: "s3://b/p", SelfieURL: "s3://b/s",
	}
}

func newTestService(loans *mockLoanStore, users *mockUserStore, configs *mockConfigStore, mail *mockMailer) Service {
	deps := ServiceDeps{Loans: loans, Users: users, Configs: configs, AdminEmail: "ops@growloan.in"}
	if mail != nil {
		deps.Mailer = mail
	}
	return NewService(deps)
}

func TestApply(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		loans := &mockLoanStore{}
		users := &mockUserStore{}
		configs := &mockConfigStore{}
		svc := newTestService(loans, users, configs, nil)

		users.On("Get", mock.Anything, "u1").Return(completeUser(), nil)
		loans.On("ListByUser", mock.Anything, "u1").Return([]domain.Loan{
			{LoanID: "old", Status: domain.StatusRejected},
		}, nil)
		configs.On("Get", mock.Anything).Return(domain.DefaultAdminConfig(), nil)
		loans.On("Put", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
			return l.UserID == "u1" && l.RequestedAmount == 50000 &&
				l.Status == domain.StatusPending && l.InterestRate == 12 && l.Version == 1
		})).Return(nil)

		l, err := svc.Apply(context.Background(), "u1", domain.ApplyLoanRequest{RequestedAmount: 50000})
		require.NoError(t, err)
		assert.NotEmpty(t, l.LoanID)
	})

	t.Run("incomplete profile", func(t *testing.T) {
		users := &mockUserStore{}
		svc := newTestService(&mockLoanStore{}, users, &mockConfigStore{}, nil)
		u := completeUser()
		u.Pincode = ""
		users.On("Get", mock.Anything, "u1").Return(u, nil)

		_, err := svc.Apply(context.Background(), "u1", domain.ApplyLoanRequest{RequestedAmount: 50000})
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	})

	t.Run("missing documents", func(t *testing.T) {
		users := &mockUserStore{}
		svc := newTestService(&mockLoanStore{}, users, &mockConfigStore{}, nil)
		u := completeUser()
		u.SelfieURL = ""
		users.On("Get", mock.Anything, "u1").Return(u, nil)

		_, err := svc.Apply(context.Background(), "u1", domain.ApplyLoanRequest{RequestedAmount: 50000})
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	})

	t.Run("active loan exists", func(t *testing.T) {
		loans := &mockLoanStore{}
		users := &mockUserStore{}
		svc := newTestService(loans, users, &mockConfigStore{}, nil)
		users.On("Get", mock.Anything, "u1").Return(completeUser(), nil)
		loans.On("ListByUser", mock.Anything, "u1").Return([]domain.Loan{
			{LoanID: "l1", Status: domain.StatusPaymentFailed},
		}, nil)

		_, err := svc.Apply(context.Background(), "u1", domain.ApplyLoanRequest{RequestedAmount: 50000})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestGet_OwnershipEnforced(t *testing.T) {
	loans := &mockLoanStore{}
	svc := newTestService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{LoanID: "l1", UserID: "someone-else"}, nil)

	_, err := svc.Get(context.Background(), "u1", "l1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSelectTenure(t *testing.T) {
	loans := &mockLoanStore{}
	configs := &mockConfigStore{}
	svc := newTestService(loans, &mockUserStore{}, configs, nil)

	approved := &domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusApproved,
		ApprovedAmount: 100000, InterestRate: 12, Version: 3,
	}
	loans.On("Get", mock.Anything, "l1").Return(approved, nil).Once()
	configs.On("Get", mock.Anything).Return(domain.DefaultAdminConfig(), nil)
	loans.On("UpdateVersioned", mock.Anything, "l1", int64(3), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == string(domain.StatusTenureSelection) &&
			u["tenure_months"] == 12 && u["emi_amount"] == int64(8885) &&
			u["total_amount"] == int64(106620) &&
			u["total_payment_amount"] == int64(3000)
	})).Return(nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusTenureSelection, Version: 4,
	}, nil)

	l, err := svc.SelectTenure(context.Background(), "u1", "l1", domain.SelectTenureRequest{TenureMonths: 12})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTenureSelection, l.Status)
	loans.AssertExpectations(t)
}

func TestSelectTenure_TenureOutOfRange(t *testing.T) {
	loans := &mockLoanStore{}
	svc := newTestService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusApproved,
		ApprovedAmount: 40000, InterestRate: 12,
	}, nil)

	// 40k caps out at 12 months.
	_, err := svc.SelectTenure(context.Background(), "u1", "l1", domain.SelectTenureRequest{TenureMonths: 18})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestSign_FromSanctionLetterViewed(t *testing.T) {
	loans := &mockLoanStore{}
	svc := newTestService(loans, &mockUserStore{}, &mockConfigStore{}, nil)

	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusSanctionLetterViewed, Version: 5,
	}, nil).Once()
	loans.On("UpdateVersioned", mock.Anything, "l1", int64(5), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == string(domain.StatusSignaturePending) && u["digital_signature"] == "c2ln"
	})).Return(nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusSignaturePending, Version: 6,
	}, nil).Once()
	loans.On("UpdateVersioned", mock.Anything, "l1", int64(6), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == string(domain.StatusPaymentPending)
	})).Return(nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusPaymentPending, Version: 7,
	}, nil)

	l, err := svc.Sign(context.Background(), "u1", "l1", domain.SignLoanRequest{Signature: "c2ln"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentPending, l.Status)
}

func TestSubmitPayment_NotifiesAdmin(t *testing.T) {
	loans := &mockLoanStore{}
	mail := &mockMailer{}
	svc := newTestService(loans, &mockUserStore{}, &mockConfigStore{}, mail)

	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusPaymentPending,
		TotalPaymentAmount: 3000, Version: 7,
	}, nil).Once()
	loans.On("UpdateVersioned", mock.Anything, "l1", int64(7), mock.MatchedBy(func(u map[string]interface{}) bool {
		_, hasAt := u["payment_at"].(time.Time)
		return u["status"] == string(domain.StatusPaymentValidation) &&
			u["payment_id"] == "UPI12345" && u["payment_status"] == "submitted" && hasAt
	})).Return(nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusPaymentValidation,
		TotalPaymentAmount: 3000, Version: 8,
	}, nil)
	mail.On("SendEmail", "ops@growloan.in", "Payment awaiting validation", mock.Anything).Return(nil)

	_, err := svc.SubmitPayment(context.Background(), "u1", "l1", domain.SubmitPaymentRequest{
		PaymentMethod: "upi", PaymentID: "UPI12345",
	})
	require.NoError(t, err)
	mail.AssertExpectations(t)
}

func TestSubmitPayment_WrongState(t *testing.T) {
	loans := &mockLoanStore{}
	svc := newTestService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusApproved,
	}, nil)

	_, err := svc.SubmitPayment(context.Background(), "u1", "l1", domain.SubmitPaymentRequest{
		PaymentMethod: "upi", PaymentID: "UPI12345",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPaymentDetails_RetryAfterFailure(t *testing.T) {
	loans := &mockLoanStore{}
	configs := &mockConfigStore{}
	svc := newTestService(loans, &mockUserStore{}, configs, nil)

	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusPaymentFailed,
		TotalPaymentAmount: 3000, Version: 9,
	}, nil).Once()
	loans.On("UpdateVersioned", mock.Anything, "l1", int64(9), map[string]interface{}{
		"status": string(domain.StatusPaymentPending),
	}).Return(nil)
	loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
		LoanID: "l1", UserID: "u1", Status: domain.StatusPaymentPending,
		DepositAmount: 2000, FileCharge: 500, PlatformFee: 300, Tax: 200,
		TotalPaymentAmount: 3000, Version: 10,
	}, nil)
	configs.On("Get", mock.Anything).Return(domain.DefaultAdminConfig(), nil)

	pd, err := svc.PaymentDetails(context.Background(), "u1", "l1")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), pd.TotalPaymentAmount)
	assert.Contains(t, pd.UPIString, "upi://pay?")
}

func TestCancel(t *testing.T) {
	t.Run("allowed during review", func(t *testing.T) {
		loans := &mockLoanStore{}
		svc := newTestService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", UserID: "u1", Status: domain.StatusValidating, Version: 4,
		}, nil).Once()
		loans.On("UpdateVersioned", mock.Anything, "l1", int64(4), map[string]interface{}{
			"status": string(domain.StatusCancelled),
		}).Return(nil)
		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", UserID: "u1", Status: domain.StatusCancelled, Version: 5,
		}, nil)

		l, err := svc.Cancel(context.Background(), "u1", "l1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, l.Status)
	})

	t.Run("blocked after approval", func(t *testing.T) {
		loans := &mockLoanStore{}
		svc := newTestService(loans, &mockUserStore{}, &mockConfigStore{}, nil)
		loans.On("Get", mock.Anything, "l1").Return(&domain.Loan{
			LoanID: "l1", UserID: "u1", Status: domain.StatusApproved,
		}, nil)

		_, err := svc.Cancel(context.Background(), "u1", "l1")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
