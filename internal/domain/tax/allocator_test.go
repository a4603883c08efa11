package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmentpos/internal/core/types"
)

func TestReverseSplit_TwelvePercent(t *testing.T) {
	// MRP 1000 x 2, GST 12%: the canonical tax-inclusive basket.
	split, err := ReverseSplit(types.MustMoney("2000"), types.MustMoney("12"))
	require.NoError(t, err)

	assert.True(t, split.Base.Equal(types.MustMoney("1785.71")), "base = %s", split.Base)
	assert.True(t, split.GST.Equal(types.MustMoney("214.29")), "gst = %s", split.GST)
	assert.True(t, split.CGST.Equal(types.MustMoney("107.14")), "cgst = %s", split.CGST)
	assert.True(t, split.SGST.Equal(types.MustMoney("107.14")), "sgst = %s", split.SGST)
}

func TestReverseSplit_BasePlusGSTEqualsInclusive(t *testing.T) {
	tests := []struct {
		inclusive string
		rate      string
	}{
		{"2000", "12"},
		{"1800", "12"},
		{"999.99", "5"},
		{"1", "18"},
		{"0.01", "28"},
		{"123456.78", "12"},
	}

	for _, tt := range tests {
		split, err := ReverseSplit(types.MustMoney(tt.inclusive), types.MustMoney(tt.rate))
		require.NoError(t, err)

		sum := split.Base.Add(split.GST)
		assert.True(t, sum.Equal(types.MustMoney(tt.inclusive)),
			"base+gst should equal inclusive for %s @ %s%%, got %s", tt.inclusive, tt.rate, sum)
		assert.True(t, split.CGST.Equal(split.SGST), "cgst and sgst must be equal halves")

		// Halves may differ from GST by at most one rounding unit.
		drift := split.GST.Sub(split.CGST.Add(split.SGST)).Abs()
		assert.True(t, drift.LessThanOrEqual(types.MustMoney("0.01")),
			"cgst+sgst drift %s exceeds one rounding unit", drift)
	}
}

func TestReverseSplit_ZeroRate(t *testing.T) {
	split, err := ReverseSplit(types.MustMoney("500"), types.Zero())
	require.NoError(t, err)

	assert.True(t, split.Base.Equal(types.MustMoney("500")))
	assert.True(t, split.GST.IsZero())
	assert.True(t, split.CGST.IsZero())
	assert.True(t, split.SGST.IsZero())
}

func TestReverseSplit_NegativeRate(t *testing.T) {
	_, err := ReverseSplit(types.MustMoney("100"), types.MustMoney("-5"))
	assert.Error(t, err)
}

func TestAllocateDiscount_Proportional(t *testing.T) {
	// Line of 600 out of a 2000 bill with a 200 discount gets 60.
	share, err := AllocateDiscount(types.MustMoney("600"), types.MustMoney("2000"), types.MustMoney("200"))
	require.NoError(t, err)
	assert.True(t, share.Equal(types.MustMoney("60")), "share = %s", share)
}

func TestAllocateDiscount_ZeroLineTotal(t *testing.T) {
	_, err := AllocateDiscount(types.MustMoney("100"), types.Zero(), types.MustMoney("10"))
	assert.Error(t, err)
}

func TestAllocateDiscounts_SumsExactly(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		discount string
	}{
		{"even split", []string{"1000", "1000"}, "200"},
		{"uneven thirds", []string{"100", "100", "100"}, "100"},
		{"rounding heavy", []string{"333.33", "333.33", "333.34"}, "99.99"},
		{"single line", []string{"750"}, "75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := make([]types.Money, len(tt.lines))
			for i, s := range tt.lines {
				amounts[i] = types.MustMoney(s)
			}

			shares, err := AllocateDiscounts(amounts, types.MustMoney(tt.discount))
			require.NoError(t, err)
			require.Len(t, shares, len(amounts))

			sum := types.Zero()
			for _, s := range shares {
				sum = sum.Add(s)
			}
			assert.True(t, sum.Equal(types.MustMoney(tt.discount)),
				"shares sum %s != discount %s", sum, tt.discount)
		})
	}
}

func TestAllocateDiscounts_Empty(t *testing.T) {
	shares, err := AllocateDiscounts(nil, types.MustMoney("10"))
	require.NoError(t, err)
	assert.Nil(t, shares)
}
