package model

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Billing cycles a Price can be sold under. Unique per tier.
const (
	BillingMonthly  = "monthly"
	BillingYearly   = "yearly"
	BillingLifetime = "lifetime"
)

type Product struct {
	gorm.Model
	Name             string `json:"name" gorm:"uniqueIndex;not null"`
	Description      string `json:"description"`
	IsActive         bool   `json:"is_active" gorm:"default:true"`
	DefaultTrialDays int64  `json:"default_trial_days" gorm:"default:7"`

	Tiers []Tier `json:"tiers"`
}

type Tier struct {
	gorm.Model
	Name            string            `json:"name" gorm:"uniqueIndex:idx_product_tier_name;not null"`
	ProductID       uint              `json:"product_id" gorm:"uniqueIndex:idx_product_tier_name;not null"`
	Features        datatypes.JSONMap `json:"features"`
	StripeProductID string            `json:"stripe_product_id" gorm:"index"`
	Order           int               `json:"order" gorm:"default:0"`

	Product Product `json:"-"`
	Prices  []Price `json:"prices"`
}

type Price struct {
	gorm.Model
	TierID        uint   `json:"tier_id" gorm:"uniqueIndex:idx_tier_billing_cycle;not null"`
	BillingCycle  string `json:"billing_cycle" gorm:"uniqueIndex:idx_tier_billing_cycle;default:monthly"`
	Amount        int64  `json:"amount" gorm:"not null"`
	StripePriceID string `json:"stripe_price_id" gorm:"index"`

	Tier Tier `json:"-"`
}

// DisplayAmount formats the minor-unit amount as a dollar string.
func (p *Price) DisplayAmount() string {
	return fmt.Sprintf("$%.2f", float64(p.Amount)/100)
}

// FinalAmount applies a discount code to the price. Amount-off discounts are
// subtracted as-is and can drive the result negative; there is deliberately no
// floor at zero.
func (p *Price) FinalAmount(discount *DiscountCode) int64 {
	if discount == nil {
		return p.Amount
	}
	switch discount.DiscountType {
	case DiscountPercentOff:
		if discount.Percentage != nil {
			return p.Amount - p.Amount**discount.Percentage/100
		}
	case DiscountAmountOff:
		if discount.Amount != nil {
			return p.Amount - *discount.Amount
		}
	}
	return p.Amount
}
