package payment

import (
	"errors"
	"log"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/josephbrockw/base-build/internal/model"
)

// MasterFeatureList maps product names to the canonical feature set their
// tiers must carry.
type MasterFeatureList map[string]map[string]interface{}

// CatalogSync upserts local Product/Tier/Price rows from the gateway catalog
// and reconciles tier features against the master list. Re-running over
// identical gateway data changes nothing.
type CatalogSync struct {
	db             *gorm.DB
	gateway        Gateway
	appName        string
	masterFeatures MasterFeatureList
}

func NewCatalogSync(db *gorm.DB, gateway Gateway, appName string, masterFeatures MasterFeatureList) *CatalogSync {
	return &CatalogSync{
		db:             db,
		gateway:        gateway,
		appName:        appName,
		masterFeatures: masterFeatures,
	}
}

func (s *CatalogSync) Run() error {
	if err := s.syncProducts(); err != nil {
		return err
	}
	if err := s.syncPrices(); err != nil {
		return err
	}
	_, err := s.ReconcileTierFeatures()
	return err
}

// syncProducts upserts products and tiers from the gateway. Gateway products
// are named "Product|Tier"; ones tagged for another app are skipped.
func (s *CatalogSync) syncProducts() error {
	gatewayProducts, err := s.gateway.ListProducts(true)
	if err != nil {
		return err
	}

	for _, gp := range gatewayProducts {
		if s.appName != "" && gp.Metadata["app"] != s.appName {
			continue
		}

		productName, tierName, ok := splitCatalogName(gp.Name)
		if !ok {
			log.Printf("Skipping gateway product %s: unexpected name %q", gp.ID, gp.Name)
			continue
		}

		var product model.Product
		if err := s.db.Where(model.Product{Name: productName}).FirstOrCreate(&product).Error; err != nil {
			return err
		}

		var tier model.Tier
		err := s.db.Where(model.Tier{
			ProductID:       product.ID,
			Name:            tierName,
			StripeProductID: gp.ID,
		}).FirstOrCreate(&tier).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// syncPrices upserts prices for known tiers, keyed by the gateway price id.
// Prices for products we have never synced are ignored.
func (s *CatalogSync) syncPrices() error {
	gatewayPrices, err := s.gateway.ListPrices(true)
	if err != nil {
		return err
	}

	for _, gp := range gatewayPrices {
		var tier model.Tier
		if err := s.db.Where("stripe_product_id = ?", gp.ProductID).First(&tier).Error; err != nil {
			continue
		}

		var price model.Price
		err := s.db.Where("stripe_price_id = ?", gp.ID).First(&price).Error
		switch {
		case err == nil:
			if price.Amount != gp.UnitAmount {
				price.Amount = gp.UnitAmount
				if err := s.db.Save(&price).Error; err != nil {
					return err
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			price = model.Price{
				TierID:        tier.ID,
				BillingCycle:  billingCycleFor(gp.Interval),
				Amount:        gp.UnitAmount,
				StripePriceID: gp.ID,
			}
			if err := s.db.Create(&price).Error; err != nil {
				return err
			}
		default:
			return err
		}
	}

	return nil
}

// ReconcileTierFeatures adds master-list keys missing from each tier's
// feature map and drops keys the master list no longer carries. Returns the
// number of tiers written.
func (s *CatalogSync) ReconcileTierFeatures() (int, error) {
	updated := 0

	for productName, productFeatures := range s.masterFeatures {
		var product model.Product
		if err := s.db.Where("name = ?", productName).First(&product).Error; err != nil {
			log.Printf("Product %s does not exist. Skipping...", productName)
			continue
		}

		var tiers []model.Tier
		if err := s.db.Where("product_id = ?", product.ID).Find(&tiers).Error; err != nil {
			return updated, err
		}

		for i := range tiers {
			tier := &tiers[i]
			if tier.Features == nil {
				tier.Features = datatypes.JSONMap{}
			}

			for key, value := range productFeatures {
				if _, ok := tier.Features[key]; !ok {
					tier.Features[key] = value
				}
			}
			for key := range tier.Features {
				if _, ok := productFeatures[key]; !ok {
					delete(tier.Features, key)
				}
			}

			if err := s.db.Save(tier).Error; err != nil {
				return updated, err
			}
			updated++
		}
	}

	return updated, nil
}

func splitCatalogName(name string) (productName, tierName string, ok bool) {
	parts := strings.SplitN(name, "|", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

func billingCycleFor(interval string) string {
	switch interval {
	case "month":
		return model.BillingMonthly
	case "year":
		return model.BillingYearly
	default:
		return model.BillingLifetime
	}
}
