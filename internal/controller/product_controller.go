package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/josephbrockw/base-build/internal/model"
	"github.com/josephbrockw/base-build/pkg/database"
)

func ListProducts(c *fiber.Ctx) error {
	var products []model.Product
	if err := database.GetDB().
		Where("is_active = ?", true).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order(`tiers."order"`)
		}).
		Preload("Tiers.Prices").
		Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch products",
		})
	}

	return c.JSON(fiber.Map{
		"data":    products,
		"message": "Products retrieved successfully.",
	})
}

type CheckDiscountInput struct {
	Code      string `json:"code" validate:"required"`
	ProductID string `json:"product_id"`
}

// CheckDiscount validates a code for display before checkout. Codes compare
// case-insensitively; rows store them upper-cased.
func CheckDiscount(c *fiber.Ctx) error {
	input := new(CheckDiscountInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))

	var discount model.DiscountCode
	if err := database.GetDB().Preload("Product").
		Where("code = ?", code).First(&discount).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Discount code not found",
		})
	}

	// A product-scoped code only applies to that product.
	if discount.ProductID != nil &&
		strconv.FormatUint(uint64(*discount.ProductID), 10) != input.ProductID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Discount code is not valid for this product.",
		})
	}

	if !discount.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid discount code.",
		})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":          discount.ID,
			"code":        discount.Code,
			"description": discount.Description(),
			"trial_days":  discount.TrialDays,
		},
		"message": "Discount code applied successfully.",
	})
}
