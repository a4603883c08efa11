// Package tax provides GST money math for tax-inclusive retail pricing.
//
// All functions are pure. Amounts use decimal arithmetic with a single
// rounding rule: round half away from zero to 2 decimal places, applied once
// per derived figure. Components are computed from the exact (unrounded)
// intermediate values, never from already-rounded ones, so accumulation error
// stays within one rounding unit of the aggregate.
package tax

import (
	"github.com/shopspring/decimal"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/types"
)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)

// Split is the result of reverse-splitting a tax-inclusive amount.
// Base + GST equals the inclusive amount exactly; CGST and SGST are the two
// equal halves of GST, each rounded independently from the exact half.
type Split struct {
	Base types.Money
	GST  types.Money
	CGST types.Money
	SGST types.Money
}

// ReverseSplit derives the tax-exclusive base and GST components from a
// tax-inclusive amount at the given percent rate.
//
//	base = inclusive / (1 + rate/100)
//	gst  = inclusive - base
//	cgst = sgst = gst/2
//
// A negative rate is a programming error, not a user-facing failure.
func ReverseSplit(inclusive, ratePercent types.Money) (Split, error) {
	if ratePercent.IsNegative() {
		return Split{}, apperror.NewValidation("gst rate cannot be negative").
			WithDetail("rate", ratePercent.String())
	}

	divisor := one.Add(ratePercent.Div(types.Hundred))
	exactBase := inclusive.Div(divisor)

	base := types.Round2(exactBase)
	gst := inclusive.Sub(base)
	half := types.Round2(inclusive.Sub(exactBase).Div(two))

	return Split{Base: base, GST: gst, CGST: half, SGST: half}, nil
}

// AllocateDiscount computes one line's proportional share of a bill-level
// discount: lineAmount / lineTotal * billDiscount, rounded to 2 decimals.
// lineTotal must be non-zero (checked by the caller before pricing starts).
func AllocateDiscount(lineAmount, lineTotal, billDiscount types.Money) (types.Money, error) {
	if lineTotal.IsZero() {
		return types.Zero(), apperror.NewValidation("line total cannot be zero when allocating a discount")
	}
	return types.Round2(lineAmount.Mul(billDiscount).Div(lineTotal)), nil
}

// AllocateDiscounts distributes a bill-level discount across all lines
// proportionally to their amounts. Each share is rounded to 2 decimals and
// the final line absorbs the rounding remainder, so the shares always sum to
// exactly billDiscount.
func AllocateDiscounts(lineAmounts []types.Money, billDiscount types.Money) ([]types.Money, error) {
	if len(lineAmounts) == 0 {
		return nil, nil
	}

	lineTotal := types.Zero()
	for _, amount := range lineAmounts {
		lineTotal = lineTotal.Add(amount)
	}
	if lineTotal.IsZero() {
		return nil, apperror.NewValidation("line total cannot be zero when allocating a discount")
	}

	shares := make([]types.Money, len(lineAmounts))
	allocated := types.Zero()
	for i, amount := range lineAmounts {
		if i == len(lineAmounts)-1 {
			shares[i] = billDiscount.Sub(allocated)
			break
		}
		share := types.Round2(amount.Mul(billDiscount).Div(lineTotal))
		shares[i] = share
		allocated = allocated.Add(share)
	}

	return shares, nil
}
