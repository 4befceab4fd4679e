package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/growloan-api/internal/domain"
	"github.com/growloan-api/internal/infrastructure/sns"
	"github.com/growloan-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Service implements phone-OTP login for borrowers and password login for
// admins. Users are created at their first successful OTP verification;
// the phone number is the identity and never changes afterwards.
type Service interface {
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (bearer string, user *domain.User, err error)
	AdminLogin(ctx context.Context, email, password string) (bearer string, user *domain.User, err error)
}

type otpStore interface {
	Put(ctx context.Context, otp *domain.OTP) error
	Get(ctx context.Context, phone string) (*domain.OTP, error)
	MarkUsed(ctx context.Context, phone string) error
	IncrementAttempts(ctx context.Context, phone string, attempts int) error
}

type userStore interface {
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type jwtSigner interface {
	Sign(userID, phone, role string) (string, error)
}

type service struct {
	otpRepo   otpStore
	userRepo  userStore
	smsSender sns.SMSSender
	jwt       jwtSigner
	otpExpiry time.Duration
}

type ServiceDeps struct {
	OTPRepo   otpStore
	UserRepo  userStore
	SMSSender sns.SMSSender
	JWT       jwtSigner
	OTPExpiry time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otpRepo:   deps.OTPRepo,
		userRepo:  deps.UserRepo,
		smsSender: deps.SMSSender,
		jwt:       deps.JWT,
		otpExpiry: deps.OTPExpiry,
	}
}

func (s *service) SendOTP(ctx context.Context, phone string) error {
	n, err := rand.Int(rand.Reader, big.NewInt(999999))
	if err != nil {
		return err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	// A resend overwrites any outstanding code for the phone.
	otp := &domain.OTP{
		Phone:     phone,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpExpiry).Unix(),
	}
	if err := s.otpRepo.Put(ctx, otp); err != nil {
		return err
	}
	if s.smsSender == nil {
		return fmt.Errorf("SMS delivery unavailable: %w", domain.ErrBadRequest)
	}
	return s.smsSender.SendSMS(ctx, phone, "Your GrowLoan login code is "+code+". It expires in 5 minutes.")
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (string, *domain.User, error) {
	otp, err := s.otpRepo.Get(ctx, req.Phone)
	if err != nil {
		return "", nil, fmt.Errorf("OTP not found: %w", domain.ErrNotFound)
	}
	if otp.IsUsed {
		return "", nil, fmt.Errorf("OTP already used: %w", domain.ErrUnauthorized)
	}
	if otp.ExpiresAt < time.Now().Unix() {
		return "", nil, fmt.Errorf("OTP expired: %w", domain.ErrUnauthorized)
	}
	if otp.Attempts >= domain.MaxOTPAttempts {
		return "", nil, fmt.Errorf("too many attempts, request a new OTP: %w", domain.ErrUnauthorized)
	}
	if otp.Code != req.OTP {
		if err := s.otpRepo.IncrementAttempts(ctx, req.Phone, otp.Attempts+1); err != nil {
			slog.Warn("failed to record OTP attempt", "phone", req.Phone, "err", err)
		}
		return "", nil, fmt.Errorf("invalid OTP: %w", domain.ErrUnauthorized)
	}
	if err := s.otpRepo.MarkUsed(ctx, req.Phone); err != nil {
		slog.Warn("failed to mark OTP used", "phone", req.Phone, "err", err)
	}

	u, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		// First login: create the borrower record.
		now := time.Now().UTC()
		u = &domain.User{
			UserID:    id.New(),
			Phone:     req.Phone,
			Name:      req.Name,
			Role:      domain.RoleUser,
			Enable:    1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.userRepo.Put(ctx, u); err != nil {
			return "", nil, err
		}
	}
	if u.Enable != 1 {
		return "", nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	if s.jwt == nil {
		return "", nil, fmt.Errorf("token signing unavailable: %w", domain.ErrUnauthorized)
	}

	bearer, err := s.jwt.Sign(u.UserID, u.Phone, u.Role)
	if err != nil {
		return "", nil, err
	}
	return bearer, u, nil
}

func (s *service) AdminLogin(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if u.Role != domain.RoleAdmin {
		return "", nil, fmt.Errorf("not an admin account: %w", domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if s.jwt == nil {
		return "", nil, fmt.Errorf("token signing unavailable: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.jwt.Sign(u.UserID, u.Phone, u.Role)
	if err != nil {
		return "", nil, err
	}
	return bearer, u, nil
}
