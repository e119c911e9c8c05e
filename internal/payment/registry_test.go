package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephbrockw/base-build/internal/model"
)

func newDiscountCode() *model.DiscountCode {
	percentage := int64(25)
	months := int64(3)
	return &model.DiscountCode{
		Code:             "spring25",
		DiscountType:     model.DiscountPercentOff,
		Percentage:       &percentage,
		Duration:         model.DurationRepeating,
		DurationInMonths: &months,
		IsActive:         true,
	}
}

func TestRegistryCreateSyncsCouponFirst(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	registry := NewDiscountRegistry(db, gateway)

	code := newDiscountCode()
	require.NoError(t, registry.Create(code))

	require.NotNil(t, code.StripeCouponID)
	assert.Equal(t, "coupon_1", *code.StripeCouponID)

	require.Len(t, gateway.couponsCreated, 1)
	params := gateway.couponsCreated[0]
	assert.Equal(t, "SPRING25", params.Name)
	assert.Equal(t, model.DurationRepeating, params.Duration)
	require.NotNil(t, params.DurationInMonths)
	assert.EqualValues(t, 3, *params.DurationInMonths)
	require.NotNil(t, params.PercentOff)
	assert.EqualValues(t, 25, *params.PercentOff)
	assert.Equal(t, "usd", params.Currency)
	assert.Nil(t, params.AmountOff)

	var stored model.DiscountCode
	require.NoError(t, db.First(&stored, code.ID).Error)
	assert.Equal(t, "SPRING25", stored.Code)
	require.NotNil(t, stored.StripeCouponID)
}

func TestRegistryCreateGatewayFailureWritesNothing(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	gateway.failCreateCoupon = true
	registry := NewDiscountRegistry(db, gateway)

	err := registry.Create(newDiscountCode())
	require.ErrorIs(t, err, ErrCouponSyncFailed)

	var count int64
	require.NoError(t, db.Model(&model.DiscountCode{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRegistryUpdatePushesRemoteFirst(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	registry := NewDiscountRegistry(db, gateway)

	code := newDiscountCode()
	require.NoError(t, registry.Create(code))

	newPct := int64(50)
	code.Percentage = &newPct
	require.NoError(t, registry.Update(code))

	params, ok := gateway.couponsUpdated["coupon_1"]
	require.True(t, ok)
	require.NotNil(t, params.PercentOff)
	assert.EqualValues(t, 50, *params.PercentOff)
	// Modify calls never send the currency.
	assert.Empty(t, params.Currency)

	var stored model.DiscountCode
	require.NoError(t, db.First(&stored, code.ID).Error)
	require.NotNil(t, stored.Percentage)
	assert.EqualValues(t, 50, *stored.Percentage)
}

func TestRegistryUpdateGatewayFailureKeepsLocalState(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	registry := NewDiscountRegistry(db, gateway)

	code := newDiscountCode()
	require.NoError(t, registry.Create(code))

	gateway.failUpdateCoupon = true
	newPct := int64(50)
	code.Percentage = &newPct
	require.ErrorIs(t, registry.Update(code), ErrCouponSyncFailed)

	var stored model.DiscountCode
	require.NoError(t, db.First(&stored, code.ID).Error)
	require.NotNil(t, stored.Percentage)
	assert.EqualValues(t, 25, *stored.Percentage)
}

func TestRegistryDeleteRemovesCouponThenRow(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	registry := NewDiscountRegistry(db, gateway)

	code := newDiscountCode()
	require.NoError(t, registry.Create(code))

	require.NoError(t, registry.Delete(code))

	assert.Nil(t, code.StripeCouponID)
	assert.Equal(t, []string{"coupon_1"}, gateway.couponsDeleted)

	var count int64
	require.NoError(t, db.Model(&model.DiscountCode{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRegistryDeleteGatewayFailureKeepsRow(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	registry := NewDiscountRegistry(db, gateway)

	code := newDiscountCode()
	require.NoError(t, registry.Create(code))

	gateway.failDeleteCoupon = true
	require.ErrorIs(t, registry.Delete(code), ErrCouponSyncFailed)

	// Local state is untouched when the remote delete fails.
	require.NotNil(t, code.StripeCouponID)
	var stored model.DiscountCode
	require.NoError(t, db.First(&stored, code.ID).Error)
	require.NotNil(t, stored.StripeCouponID)
	assert.Equal(t, "coupon_1", *stored.StripeCouponID)
}

func TestRegistryCouponParamsAmountOff(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	registry := NewDiscountRegistry(db, gateway)

	amount := int64(1000)
	trial := int64(14)
	code := &model.DiscountCode{
		Code:         "TENOFF",
		DiscountType: model.DiscountAmountOff,
		Amount:       &amount,
		Duration:     model.DurationOnce,
		TrialDays:    &trial,
		IsActive:     true,
	}
	require.NoError(t, registry.Create(code))

	require.Len(t, gateway.couponsCreated, 1)
	params := gateway.couponsCreated[0]
	assert.Nil(t, params.PercentOff)
	require.NotNil(t, params.AmountOff)
	assert.EqualValues(t, 1000, *params.AmountOff)
	require.NotNil(t, params.TrialDays)
	assert.EqualValues(t, 14, *params.TrialDays)
}
