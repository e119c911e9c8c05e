package payment

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/josephbrockw/base-build/internal/model"
)

// DiscountRegistry keeps DiscountCode rows and their gateway coupons in
// lockstep. The remote call always happens first: a gateway failure aborts
// before any local state changes, so the two systems never diverge.
type DiscountRegistry struct {
	db      *gorm.DB
	gateway Gateway
}

func NewDiscountRegistry(db *gorm.DB, gateway Gateway) *DiscountRegistry {
	return &DiscountRegistry{db: db, gateway: gateway}
}

// Create makes the gateway coupon, stores its id on the code and only then
// persists the local row.
func (r *DiscountRegistry) Create(code *model.DiscountCode) error {
	if code.StripeCouponID == nil {
		couponID, err := r.gateway.CreateCoupon(couponParamsFor(code, true))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCouponSyncFailed, err)
		}
		code.StripeCouponID = &couponID
	}
	return r.db.Create(code).Error
}

// Update pushes the current parameters to the existing gateway coupon before
// saving local changes. A code that was never synced is just saved.
func (r *DiscountRegistry) Update(code *model.DiscountCode) error {
	if code.StripeCouponID != nil {
		if err := r.gateway.UpdateCoupon(*code.StripeCouponID, couponParamsFor(code, false)); err != nil {
			return fmt.Errorf("%w: %v", ErrCouponSyncFailed, err)
		}
	}
	return r.db.Save(code).Error
}

// Delete removes the gateway coupon first; the local row survives when that
// call fails, keeping local and remote state consistent.
func (r *DiscountRegistry) Delete(code *model.DiscountCode) error {
	if code.StripeCouponID != nil {
		if err := r.gateway.DeleteCoupon(*code.StripeCouponID); err != nil {
			return fmt.Errorf("%w: %v", ErrCouponSyncFailed, err)
		}
		code.StripeCouponID = nil
	}
	return r.db.Delete(code).Error
}

// couponParamsFor builds the gateway parameter set for a code. The currency
// is only sent on create; coupon modifies do not accept it.
func couponParamsFor(code *model.DiscountCode, withCurrency bool) CouponParams {
	params := CouponParams{
		Name:             strings.ToUpper(code.Code),
		Duration:         code.Duration,
		DurationInMonths: code.DurationInMonths,
		TrialDays:        code.TrialDays,
	}
	if withCurrency {
		params.Currency = "usd"
	}
	switch code.DiscountType {
	case model.DiscountPercentOff:
		params.PercentOff = code.Percentage
	case model.DiscountAmountOff:
		params.AmountOff = code.Amount
	}
	return params
}
