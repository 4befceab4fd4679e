package user

import (
	"context"
	"fmt"

	"github.com/growloan-api/internal/domain"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	Completeness(ctx context.Context, userID string) (domain.Completeness, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
	ScanPage(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return u, nil
}

// UpdateProfile applies only the fields present in the request. The phone
// number is the login identity and is not updatable here.
func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	set := func(field string, v *string) {
		if v != nil {
			updates[field] = *v
		}
	}
	set("name", req.Name)
	set("email", req.Email)
	set("date_of_birth", req.DateOfBirth)
	set("address", req.Address)
	set("city", req.City)
	set("state", req.State)
	set("pincode", req.Pincode)
	set("employment_type", req.EmploymentType)
	set("company_name", req.CompanyName)
	set("aadhar_number", req.AadharNumber)
	set("pan_number", req.PanNumber)
	set("bank_account_number", req.BankAccountNo)
	set("bank_ifsc", req.BankIFSC)
	set("bank_name", req.BankName)
	if req.MonthlyIncome != nil {
		updates["monthly_income"] = *req.MonthlyIncome
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}

	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Completeness(ctx context.Context, userID string) (domain.Completeness, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return domain.Completeness{}, err
	}
	return domain.EvaluateProfile(u), nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ScanPage(ctx, limit, cursor)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, userID)
}
