package emi

import (
	"errors"
	"testing"

	"github.com/growloan-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_ReferenceValues(t *testing.T) {
	// Standard amortization: P=100000, 12% annual, 12 months.
	s, err := Calculate(100_000, 12, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(8_885), s.EMI)
	assert.Equal(t, int64(106_620), s.TotalAmount)
	assert.Equal(t, int64(6_620), s.TotalInterest)
}

func TestCalculate_SingleInstallment(t *testing.T) {
	// N=1 degenerates to P*(1+r).
	s, err := Calculate(100_000, 12, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(101_000), s.EMI)
	assert.Equal(t, int64(1_000), s.TotalInterest)
}

func TestCalculate_ZeroRate(t *testing.T) {
	s, err := Calculate(12_000, 0, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), s.EMI)
	assert.Equal(t, int64(12_000), s.TotalAmount)
	assert.Equal(t, int64(0), s.TotalInterest)
}

func TestCalculate_ZeroRate_RoundsInstallment(t *testing.T) {
	// 1000/3 = 333.33 -> 333; total reconstructs from the rounded EMI.
	s, err := Calculate(1_000, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(333), s.EMI)
	assert.Equal(t, int64(999), s.TotalAmount)
	assert.Equal(t, int64(-1), s.TotalInterest)
}

func TestCalculate_InvalidInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal int64
		rate      float64
		tenure    int
	}{
		{"zero principal", 0, 12, 12},
		{"negative principal", -100, 12, 12},
		{"zero tenure", 100_000, 12, 0},
		{"negative tenure", 100_000, 12, -3},
		{"negative rate", 100_000, -1, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(tc.principal, tc.rate, tc.tenure)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrBadRequest))
		})
	}
}

func TestCalculate_TotalIsExactlyEMITimesTenure(t *testing.T) {
	for _, n := range []int{3, 7, 12, 18, 24, 36} {
		s, err := Calculate(250_000, 12, n)
		require.NoError(t, err)
		assert.Equal(t, s.EMI*int64(n), s.TotalAmount, "tenure %d", n)
		assert.Equal(t, s.TotalAmount-250_000, s.TotalInterest, "tenure %d", n)
	}
}

func TestMaxTenure_TierBoundaries(t *testing.T) {
	cases := []struct {
		amount int64
		want   int
	}{
		{1, 12},
		{49_999, 12},
		{50_000, 18},
		{99_999, 18},
		{100_000, 24},
		{199_999, 24},
		{200_000, 30},
		{299_999, 30},
		{300_000, 36},
		{1_000_000, 36},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MaxTenure(tc.amount), "amount %d", tc.amount)
	}
}

func TestValidTenure(t *testing.T) {
	assert.False(t, ValidTenure(60_000, 2), "below minimum")
	assert.True(t, ValidTenure(60_000, 3))
	assert.True(t, ValidTenure(60_000, 18))
	assert.False(t, ValidTenure(60_000, 19), "above tier maximum")
}

func TestOptions(t *testing.T) {
	opts, err := Options(40_000, 12)
	require.NoError(t, err)
	// 3..12 inclusive for the <50k tier.
	require.Len(t, opts, 10)
	assert.Equal(t, 3, opts[0].TenureMonths)
	assert.Equal(t, 12, opts[len(opts)-1].TenureMonths)
	for _, o := range opts {
		assert.Equal(t, o.EMI*int64(o.TenureMonths), o.TotalAmount)
	}
}
