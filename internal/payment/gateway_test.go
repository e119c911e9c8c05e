package payment

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/josephbrockw/base-build/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.OneTimePassword{},
		&model.Product{},
		&model.Tier{},
		&model.Price{},
		&model.DiscountCode{},
		&model.Subscription{},
	))

	return db
}

var errGateway = errors.New("gateway unavailable")

// fakeGateway records every call so tests can assert on compensation order
// and exact parameters. fail* flags make the corresponding call error.
type fakeGateway struct {
	failCreateCustomer     bool
	failCreateSubscription bool
	failDeleteCustomer     bool
	failDeleteSubscription bool
	failCreateCoupon       bool
	failUpdateCoupon       bool
	failDeleteCoupon       bool

	calls []string

	customerSeq int
	subSeq      int
	couponSeq   int

	subscriptionParams []SubscriptionParams
	couponsCreated     []CouponParams
	couponsUpdated     map[string]CouponParams
	couponsDeleted     []string

	products []ProductData
	prices   []PriceData
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{couponsUpdated: map[string]CouponParams{}}
}

func (g *fakeGateway) CreateCustomer(email, paymentMethodID string) (string, error) {
	if g.failCreateCustomer {
		return "", errGateway
	}
	g.customerSeq++
	id := fmt.Sprintf("cus_%d", g.customerSeq)
	g.calls = append(g.calls, "create_customer:"+id)
	return id, nil
}

func (g *fakeGateway) DeleteCustomer(customerID string) error {
	g.calls = append(g.calls, "delete_customer:"+customerID)
	if g.failDeleteCustomer {
		return errGateway
	}
	return nil
}

func (g *fakeGateway) CreateSubscription(params SubscriptionParams) (*SubscriptionResult, error) {
	if g.failCreateSubscription {
		return nil, errGateway
	}
	g.subSeq++
	id := fmt.Sprintf("sub_%d", g.subSeq)
	g.calls = append(g.calls, "create_subscription:"+id)
	g.subscriptionParams = append(g.subscriptionParams, params)

	result := &SubscriptionResult{
		ID:               id,
		Status:           model.SubscriptionActive,
		CurrentPeriodEnd: time.Now().AddDate(0, 1, 0).Unix(),
	}
	if params.TrialDays != nil {
		result.TrialEnd = time.Now().AddDate(0, 0, int(*params.TrialDays)).Unix()
	}
	return result, nil
}

func (g *fakeGateway) DeleteSubscription(subscriptionID string) error {
	g.calls = append(g.calls, "delete_subscription:"+subscriptionID)
	if g.failDeleteSubscription {
		return errGateway
	}
	return nil
}

func (g *fakeGateway) CreateCoupon(params CouponParams) (string, error) {
	if g.failCreateCoupon {
		return "", errGateway
	}
	g.couponSeq++
	id := fmt.Sprintf("coupon_%d", g.couponSeq)
	g.calls = append(g.calls, "create_coupon:"+id)
	g.couponsCreated = append(g.couponsCreated, params)
	return id, nil
}

func (g *fakeGateway) UpdateCoupon(couponID string, params CouponParams) error {
	if g.failUpdateCoupon {
		return errGateway
	}
	g.calls = append(g.calls, "update_coupon:"+couponID)
	g.couponsUpdated[couponID] = params
	return nil
}

func (g *fakeGateway) DeleteCoupon(couponID string) error {
	if g.failDeleteCoupon {
		return errGateway
	}
	g.calls = append(g.calls, "delete_coupon:"+couponID)
	g.couponsDeleted = append(g.couponsDeleted, couponID)
	return nil
}

func (g *fakeGateway) ListProducts(activeOnly bool) ([]ProductData, error) {
	return g.products, nil
}

func (g *fakeGateway) ListPrices(activeOnly bool) ([]PriceData, error) {
	return g.prices, nil
}

func (g *fakeGateway) callsNamed(name string) []string {
	var matched []string
	for _, call := range g.calls {
		if len(call) > len(name) && call[:len(name)] == name {
			matched = append(matched, call)
		}
	}
	return matched
}
