package payment

import "errors"

// Provisioning and coupon-sync failures, one sentinel per failure class.
// Callers branch with errors.Is; the wrapped message carries the cause.
var (
	ErrInvalidDiscount           = errors.New("invalid discount code provided")
	ErrInvalidPrice              = errors.New("invalid price ID provided")
	ErrPaymentSetupFailed        = errors.New("error setting up payment method")
	ErrSubscriptionSetupFailed   = errors.New("error creating subscription")
	ErrSubscriptionPersistFailed = errors.New("error saving subscription")
	ErrCouponSyncFailed          = errors.New("error syncing discount code")
)
