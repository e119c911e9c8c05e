package payment

// Gateway abstracts the payment provider calls the billing core makes. Each
// call is an independent remote effect; there is no transaction spanning
// them, which is why the provisioner compensates explicitly.
type Gateway interface {
	CreateCustomer(email, paymentMethodID string) (string, error)
	DeleteCustomer(customerID string) error
	CreateSubscription(params SubscriptionParams) (*SubscriptionResult, error)
	DeleteSubscription(subscriptionID string) error
	CreateCoupon(params CouponParams) (string, error)
	UpdateCoupon(couponID string, params CouponParams) error
	DeleteCoupon(couponID string) error
	ListProducts(activeOnly bool) ([]ProductData, error)
	ListPrices(activeOnly bool) ([]PriceData, error)
}

type SubscriptionParams struct {
	CustomerID string
	PriceID    string
	TrialDays  *int64
	CouponID   *string
}

type SubscriptionResult struct {
	ID                string
	Status            string
	TrialEnd          int64
	CurrentPeriodEnd  int64
	CancelAtPeriodEnd bool
}

type CouponParams struct {
	Name             string
	Duration         string
	DurationInMonths *int64
	Currency         string
	PercentOff       *int64
	AmountOff        *int64
	TrialDays        *int64
}

type ProductData struct {
	ID       string
	Name     string
	Metadata map[string]string
}

// PriceData carries a gateway price. Interval is the recurring interval
// ("month" or "year") and is empty for one-time prices.
type PriceData struct {
	ID         string
	ProductID  string
	UnitAmount int64
	Interval   string
}
