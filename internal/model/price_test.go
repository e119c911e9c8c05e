package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func TestFinalAmountNoDiscount(t *testing.T) {
	price := Price{Amount: 500}
	assert.EqualValues(t, 500, price.FinalAmount(nil))
}

func TestFinalAmountPercentOff(t *testing.T) {
	price := Price{Amount: 500}
	discount := DiscountCode{DiscountType: DiscountPercentOff, Percentage: int64Ptr(10)}
	assert.EqualValues(t, 450, price.FinalAmount(&discount))
}

func TestFinalAmountFullPercentOff(t *testing.T) {
	price := Price{Amount: 999}
	discount := DiscountCode{DiscountType: DiscountPercentOff, Percentage: int64Ptr(100)}
	assert.EqualValues(t, 0, price.FinalAmount(&discount))
}

func TestFinalAmountAmountOff(t *testing.T) {
	price := Price{Amount: 2000}
	discount := DiscountCode{DiscountType: DiscountAmountOff, Amount: int64Ptr(500)}
	assert.EqualValues(t, 1500, price.FinalAmount(&discount))
}

// Amount-off is subtracted as-is; a discount larger than the price goes
// negative rather than clamping at zero.
func TestFinalAmountCanGoNegative(t *testing.T) {
	price := Price{Amount: 500}
	discount := DiscountCode{DiscountType: DiscountAmountOff, Amount: int64Ptr(1000)}
	assert.EqualValues(t, -500, price.FinalAmount(&discount))
}

func TestFinalAmountMissingValueFallsThrough(t *testing.T) {
	price := Price{Amount: 750}
	discount := DiscountCode{DiscountType: DiscountPercentOff}
	assert.EqualValues(t, 750, price.FinalAmount(&discount))
}

func TestDisplayAmount(t *testing.T) {
	price := Price{Amount: 1999}
	assert.Equal(t, "$19.99", price.DisplayAmount())
}
