package model

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	DiscountPercentOff = "percent_off"
	DiscountAmountOff  = "amount_off"
)

const (
	DurationForever   = "forever"
	DurationOnce      = "once"
	DurationRepeating = "repeating"
)

// DiscountCode mirrors a Stripe coupon 1:1. StripeCouponID is set after the
// coupon has been created remotely and cleared after it has been deleted; the
// registry in internal/payment owns that synchronization.
type DiscountCode struct {
	gorm.Model
	Code             string  `json:"code" gorm:"uniqueIndex;not null"`
	DiscountType     string  `json:"discount_type" gorm:"default:percent_off"`
	Percentage       *int64  `json:"percentage"`
	Amount           *int64  `json:"amount"`
	Duration         string  `json:"duration" gorm:"default:once"`
	DurationInMonths *int64  `json:"duration_in_months"`
	TrialDays        *int64  `json:"trial_days"`
	ProductID        *uint   `json:"product_id"`
	IsActive         bool    `json:"is_active" gorm:"default:true"`
	StripeCouponID   *string `json:"stripe_coupon_id"`

	Product *Product `json:"-"`
}

// BeforeSave normalizes codes to upper case so the unique index doubles as a
// case-insensitive uniqueness constraint. Lookups upper-case their input to
// match.
func (d *DiscountCode) BeforeSave(tx *gorm.DB) error {
	d.Code = strings.ToUpper(d.Code)
	return nil
}

// Description summarizes the discount for display. A trial-days-only code
// whose trial length equals the product's own default is a no-op and yields
// an empty string.
func (d *DiscountCode) Description() string {
	var description string
	switch d.DiscountType {
	case DiscountPercentOff:
		if d.Percentage != nil {
			description = fmt.Sprintf("%d%% off", *d.Percentage)
		}
	case DiscountAmountOff:
		if d.Amount != nil {
			description = fmt.Sprintf("$%d off", *d.Amount)
		}
	default:
		if d.TrialDays == nil {
			return ""
		}
		if d.Product != nil && d.Product.DefaultTrialDays == *d.TrialDays {
			return ""
		}
		description = fmt.Sprintf("%d day trial", *d.TrialDays)
	}

	switch d.Duration {
	case DurationForever:
		description += " forever"
	case DurationOnce:
		description += " for the first billing cycle"
	case DurationRepeating:
		if d.DurationInMonths != nil {
			description += fmt.Sprintf(" for %d months", *d.DurationInMonths)
		}
	}

	return description + "."
}
