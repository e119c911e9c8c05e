package payment

import (
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// StripeGateway implements Gateway against the Stripe API. The client is an
// injected instance; the package-global stripe.Key is never touched.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateCustomer(email, paymentMethodID string) (string, error) {
	params := &stripe.CustomerParams{
		Email:         stripe.String(email),
		PaymentMethod: stripe.String(paymentMethodID),
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (g *StripeGateway) DeleteCustomer(customerID string) error {
	_, err := g.api.Customers.Del(customerID, nil)
	return err
}

func (g *StripeGateway) CreateSubscription(p SubscriptionParams) (*SubscriptionResult, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(p.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(p.PriceID)},
		},
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
	}
	if p.TrialDays != nil {
		params.TrialPeriodDays = stripe.Int64(*p.TrialDays)
	}
	if p.CouponID != nil {
		params.Coupon = stripe.String(*p.CouponID)
	}

	sub, err := g.api.Subscriptions.New(params)
	if err != nil {
		return nil, err
	}

	return &SubscriptionResult{
		ID:                sub.ID,
		Status:            string(sub.Status),
		TrialEnd:          sub.TrialEnd,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}, nil
}

func (g *StripeGateway) DeleteSubscription(subscriptionID string) error {
	_, err := g.api.Subscriptions.Cancel(subscriptionID, nil)
	return err
}

func (g *StripeGateway) CreateCoupon(p CouponParams) (string, error) {
	coupon, err := g.api.Coupons.New(couponParams(p))
	if err != nil {
		return "", err
	}
	return coupon.ID, nil
}

func (g *StripeGateway) UpdateCoupon(couponID string, p CouponParams) error {
	_, err := g.api.Coupons.Update(couponID, couponParams(p))
	return err
}

func (g *StripeGateway) DeleteCoupon(couponID string) error {
	_, err := g.api.Coupons.Del(couponID, nil)
	return err
}

func couponParams(p CouponParams) *stripe.CouponParams {
	params := &stripe.CouponParams{
		Duration: stripe.String(p.Duration),
		Name:     stripe.String(p.Name),
	}
	if p.Currency != "" {
		params.Currency = stripe.String(p.Currency)
	}
	if p.DurationInMonths != nil {
		params.DurationInMonths = stripe.Int64(*p.DurationInMonths)
	}
	if p.PercentOff != nil {
		params.PercentOff = stripe.Float64(float64(*p.PercentOff))
	}
	if p.AmountOff != nil {
		params.AmountOff = stripe.Int64(*p.AmountOff)
	}
	// CouponParams has no trial field; send it the way the dashboard-created
	// coupons carry it.
	if p.TrialDays != nil {
		params.AddExtra("trial_period_days", strconv.FormatInt(*p.TrialDays, 10))
	}
	return params
}

func (g *StripeGateway) ListProducts(activeOnly bool) ([]ProductData, error) {
	params := &stripe.ProductListParams{}
	if activeOnly {
		params.Active = stripe.Bool(true)
	}

	var products []ProductData
	iter := g.api.Products.List(params)
	for iter.Next() {
		p := iter.Product()
		products = append(products, ProductData{
			ID:       p.ID,
			Name:     p.Name,
			Metadata: p.Metadata,
		})
	}
	return products, iter.Err()
}

func (g *StripeGateway) ListPrices(activeOnly bool) ([]PriceData, error) {
	params := &stripe.PriceListParams{}
	if activeOnly {
		params.Active = stripe.Bool(true)
	}

	var prices []PriceData
	iter := g.api.Prices.List(params)
	for iter.Next() {
		p := iter.Price()
		data := PriceData{
			ID:         p.ID,
			UnitAmount: p.UnitAmount,
		}
		if p.Product != nil {
			data.ProductID = p.Product.ID
		}
		if p.Recurring != nil {
			data.Interval = string(p.Recurring.Interval)
		}
		prices = append(prices, data)
	}
	return prices, iter.Err()
}
