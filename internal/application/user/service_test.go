package user

import (
	"context"
	"errors"
	"testing"

	"github.com/growloan-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.User), args.String(1), args.Error(2)
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile_PartialFieldsOnly(t *testing.T) {
	repo := &mockUserStore{}
	svc := NewService(repo)

	repo.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	repo.On("Update", mock.Anything, "u1", map[string]interface{}{
		"city":    "Pune",
		"pincode": "411001",
	}).Return(nil)

	_, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{
		City:    strPtr("Pune"),
		Pincode: strPtr("411001"),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateProfile_EmptyRequest(t *testing.T) {
	repo := &mockUserStore{}
	svc := NewService(repo)
	repo.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	_, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpdateProfile_UserMissing(t *testing.T) {
	repo := &mockUserStore{}
	svc := NewService(repo)
	repo.On("Get", mock.Anything, "nope").Return(nil, errors.New("item not found"))

	_, err := svc.UpdateProfile(context.Background(), "nope", domain.UpdateProfileRequest{City: strPtr("Pune")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteness(t *testing.T) {
	repo := &mockUserStore{}
	svc := NewService(repo)
	repo.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID: "u1", Name: "Asha", Phone: "+919876543210", Email: "a@b.c",
	}, nil)

	c, err := svc.Completeness(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, c.Complete)
	assert.Contains(t, c.MissingFields, "address")
}

func TestList_ClampsLimit(t *testing.T) {
	repo := &mockUserStore{}
	svc := NewService(repo)
	repo.On("ScanPage", mock.Anything, 20, "").Return([]domain.User{}, "", nil)

	_, _, err := svc.List(context.Background(), 500, "")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
