// Package emi implements the equated-monthly-installment amortization
// calculator and the principal-based tenure tier table. All functions are
// pure; amounts are whole currency units.
package emi

import (
	"fmt"

	"github.com/growloan-api/internal/domain"
	"github.com/shopspring/decimal"
)

// MinTenureMonths applies to every principal tier.
const MinTenureMonths = 3

// Schedule is the result of an amortization calculation. TotalAmount is
// exactly EMI * tenure by construction (EMI rounds first), so reconstructing
// it from the parts never drifts.
type Schedule struct {
	EMI           int64 `json:"emi"`
	TotalAmount   int64 `json:"total_amount"`
	TotalInterest int64 `json:"total_interest"`
}

// Calculate computes the EMI for principal p at annual rate ratePercent over
// tenureMonths. EMI = P·r·(1+r)^N / ((1+r)^N − 1) with r the monthly rate,
// rounded half away from zero to a whole unit. A zero rate degenerates to
// P/N; that case is guarded explicitly since the formula divides by zero.
func Calculate(principal int64, ratePercent float64, tenureMonths int) (Schedule, error) {
	if principal <= 0 {
		return Schedule{}, fmt.Errorf("principal must be positive: %w", domain.ErrBadRequest)
	}
	if tenureMonths < 1 {
		return Schedule{}, fmt.Errorf("tenure must be at least 1 month: %w", domain.ErrBadRequest)
	}
	if ratePercent < 0 {
		return Schedule{}, fmt.Errorf("interest rate must not be negative: %w", domain.ErrBadRequest)
	}

	p := decimal.NewFromInt(principal)
	n := int64(tenureMonths)

	var installment decimal.Decimal
	if ratePercent == 0 {
		installment = p.Div(decimal.NewFromInt(n))
	} else {
		// r = R / 12 / 100
		r := decimal.NewFromFloat(ratePercent).
			Div(decimal.NewFromInt(12)).
			Div(decimal.NewFromInt(100))
		growth := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(n)) // (1+r)^N
		installment = p.Mul(r).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
	}

	roundedEMI := installment.Round(0).IntPart()
	total := roundedEMI * n
	return Schedule{
		EMI:           roundedEMI,
		TotalAmount:   total,
		TotalInterest: total - principal,
	}, nil
}

// tenure tiers: inclusive lower bound of approved amount -> max tenure.
// Ordered descending so the first match wins.
var tiers = []struct {
	minAmount int64
	maxTenure int
}{
	{300_000, 36},
	{200_000, 30},
	{100_000, 24},
	{50_000, 18},
	{0, 12},
}

// MaxTenure returns the longest tenure (months) allowed for the approved
// amount, per the tier table. The lower bound of each tier is inclusive.
func MaxTenure(approvedAmount int64) int {
	for _, t := range tiers {
		if approvedAmount >= t.minAmount {
			return t.maxTenure
		}
	}
	return tiers[len(tiers)-1].maxTenure
}

// Option is one selectable tenure with its EMI preview.
type Option struct {
	TenureMonths  int   `json:"tenure_months"`
	EMI           int64 `json:"emi"`
	TotalAmount   int64 `json:"total_amount"`
	TotalInterest int64 `json:"total_interest"`
}

// Options returns every selectable tenure (MinTenureMonths..MaxTenure) for
// the approved amount, each with its schedule preview.
func Options(approvedAmount int64, ratePercent float64) ([]Option, error) {
	max := MaxTenure(approvedAmount)
	opts := make([]Option, 0, max-MinTenureMonths+1)
	for n := MinTenureMonths; n <= max; n++ {
		s, err := Calculate(approvedAmount, ratePercent, n)
		if err != nil {
			return nil, err
		}
		opts = append(opts, Option{
			TenureMonths:  n,
			EMI:           s.EMI,
			TotalAmount:   s.TotalAmount,
			TotalInterest: s.TotalInterest,
		})
	}
	return opts, nil
}

// ValidTenure reports whether tenureMonths may be selected for the approved
// amount.
func ValidTenure(approvedAmount int64, tenureMonths int) bool {
	return tenureMonths >= MinTenureMonths && tenureMonths <= MaxTenure(approvedAmount)
}
