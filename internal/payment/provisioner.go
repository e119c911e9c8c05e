package payment

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/josephbrockw/base-build/internal/model"
)

// DiscountRef identifies the discount code a caller wants applied.
type DiscountRef struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
}

// PlanSelection is the caller-facing input to Provision.
type PlanSelection struct {
	PaymentMethodID string       `json:"payment_method_id"`
	PriceID         uint         `json:"price_id"`
	TierID          uint         `json:"tier_id"`
	Discount        *DiscountRef `json:"discount"`
	TrialDays       *int64       `json:"trial_days"`
}

// Provisioner runs the account-activation saga: resolve discount, create the
// gateway customer, resolve the price, create the gateway subscription, then
// persist the local record. The gateway and store do not share a transaction
// boundary, so any failed step deletes the remote resources created before it,
// newest first.
type Provisioner struct {
	db      *gorm.DB
	gateway Gateway
}

func NewProvisioner(db *gorm.DB, gateway Gateway) *Provisioner {
	return &Provisioner{db: db, gateway: gateway}
}

// Provision creates a paid subscription for user. On any failure the user is
// deactivated after compensation has run: an account without a working payment
// setup must not stay active.
func (p *Provisioner) Provision(user *model.User, selection PlanSelection) (*model.Subscription, error) {
	subscription, err := p.provision(user, selection)
	if err != nil {
		p.deactivateUser(user)
		return nil, err
	}
	return subscription, nil
}

func (p *Provisioner) provision(user *model.User, selection PlanSelection) (*model.Subscription, error) {
	var discount *model.DiscountCode
	if selection.Discount != nil {
		discount = &model.DiscountCode{}
		if err := p.db.First(discount, selection.Discount.ID).Error; err != nil {
			return nil, fmt.Errorf("%w: id %d", ErrInvalidDiscount, selection.Discount.ID)
		}
		// A discount that defines a trial length dictates it, whether or not
		// the caller asked for one.
		if discount.TrialDays != nil {
			selection.TrialDays = discount.TrialDays
		}
	}

	customerID, err := p.gateway.CreateCustomer(user.Email, selection.PaymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentSetupFailed, err)
	}

	var price model.Price
	if err := p.db.First(&price, selection.PriceID).Error; err != nil {
		p.deleteCustomer(customerID)
		return nil, fmt.Errorf("%w: id %d", ErrInvalidPrice, selection.PriceID)
	}

	params := SubscriptionParams{
		CustomerID: customerID,
		PriceID:    price.StripePriceID,
		TrialDays:  selection.TrialDays,
	}
	if discount != nil {
		params.CouponID = discount.StripeCouponID
	}

	result, err := p.gateway.CreateSubscription(params)
	if err != nil {
		p.deleteCustomer(customerID)
		return nil, fmt.Errorf("%w: %v", ErrSubscriptionSetupFailed, err)
	}

	subscription := &model.Subscription{
		UserID:               user.ID,
		TierID:               selection.TierID,
		PriceID:              &price.ID,
		Status:               result.Status,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: result.ID,
		TrialEnd:             epochToDate(result.TrialEnd),
		CurrentPeriodEnd:     epochToDate(result.CurrentPeriodEnd),
		CancelAtPeriodEnd:    result.CancelAtPeriodEnd,
	}

	if err := p.db.Create(subscription).Error; err != nil {
		p.deleteSubscription(result.ID)
		p.deleteCustomer(customerID)
		return nil, fmt.Errorf("%w: %v", ErrSubscriptionPersistFailed, err)
	}

	return subscription, nil
}

// Compensations are best-effort: a failed delete is logged and the original
// error still surfaces. The saga never retries them.

func (p *Provisioner) deleteCustomer(customerID string) {
	if err := p.gateway.DeleteCustomer(customerID); err != nil {
		log.Printf("Could not clean up customer %s: %v", customerID, err)
	}
}

func (p *Provisioner) deleteSubscription(subscriptionID string) {
	if err := p.gateway.DeleteSubscription(subscriptionID); err != nil {
		log.Printf("Could not clean up subscription %s: %v", subscriptionID, err)
	}
}

func (p *Provisioner) deactivateUser(user *model.User) {
	user.IsActive = false
	if err := p.db.Model(user).Update("is_active", false).Error; err != nil {
		log.Printf("Could not deactivate user %s: %v", user.ID, err)
	}
}

// epochToDate converts a gateway epoch timestamp to a calendar date. Zero
// means the gateway sent no value.
func epochToDate(epoch int64) *time.Time {
	if epoch == 0 {
		return nil
	}
	t := time.Unix(epoch, 0).UTC()
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}
