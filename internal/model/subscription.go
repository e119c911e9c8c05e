package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription statuses, matching the gateway's vocabulary.
const (
	SubscriptionActive     = "active"
	SubscriptionCanceled   = "canceled"
	SubscriptionPastDue    = "past_due"
	SubscriptionIncomplete = "incomplete"
)

// Subscription is the durable record of a provisioned plan. The composite
// unique index keeps a user from holding two subscriptions to the same tier;
// a concurrent duplicate attempt fails the final persist step and rolls back
// its gateway resources.
type Subscription struct {
	gorm.Model
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_user_tier;not null"`
	TierID uint      `json:"tier_id" gorm:"uniqueIndex:idx_user_tier;not null"`

	PriceID              *uint      `json:"price_id"`
	Status               string     `json:"status" gorm:"default:active"`
	StripeCustomerID     string     `json:"stripe_customer_id" gorm:"not null"`
	StripeSubscriptionID string     `json:"stripe_subscription_id" gorm:"not null;index"`
	TrialEnd             *time.Time `json:"trial_end"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	CancelAtPeriodEnd    bool       `json:"cancel_at_period_end" gorm:"default:false"`

	User  User   `json:"-"`
	Tier  Tier   `json:"-"`
	Price *Price `json:"-"`
}
