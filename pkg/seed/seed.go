package seed

import (
	"log"

	"gorm.io/gorm"

	"github.com/josephbrockw/base-build/internal/model"
	"github.com/josephbrockw/base-build/internal/payment"
)

// MasterFeatureList is the canonical feature set per product. The catalog
// sync reconciles every tier's feature map against it: missing keys are
// added, keys absent here are removed.
func MasterFeatureList() payment.MasterFeatureList {
	return payment.MasterFeatureList{
		"BaseBuild": {
			"projects": map[string]interface{}{
				"name":        "Projects",
				"description": "Number of active projects",
				"included":    true,
			},
			"api_access": map[string]interface{}{
				"name":        "API access",
				"description": "Programmatic access to your workspace",
				"included":    false,
			},
			"priority_support": map[string]interface{}{
				"name":        "Priority support",
				"description": "Support responses within one business day",
				"included":    false,
			},
		},
	}
}

// SeedProducts creates a local catalog for development environments that do
// not run the gateway sync.
func SeedProducts(db *gorm.DB) {
	products := []model.Product{
		{
			Name:             "BaseBuild",
			Description:      "The BaseBuild platform",
			IsActive:         true,
			DefaultTrialDays: 7,
			Tiers: []model.Tier{
				{
					Name:  "Starter",
					Order: 1,
					Prices: []model.Price{
						{BillingCycle: model.BillingMonthly, Amount: 900, StripePriceID: "price_test_starter_monthly"},
						{BillingCycle: model.BillingYearly, Amount: 9000, StripePriceID: "price_test_starter_yearly"},
					},
				},
				{
					Name:  "Pro",
					Order: 2,
					Prices: []model.Price{
						{BillingCycle: model.BillingMonthly, Amount: 2900, StripePriceID: "price_test_pro_monthly"},
						{BillingCycle: model.BillingYearly, Amount: 29000, StripePriceID: "price_test_pro_yearly"},
					},
				},
			},
		},
	}

	for _, product := range products {
		result := db.FirstOrCreate(&product, model.Product{Name: product.Name})
		if result.Error != nil {
			log.Printf("Error creating product %s: %v", product.Name, result.Error)
		}
	}

	log.Println("Catalog seeded successfully!")
}
