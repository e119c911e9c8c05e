package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/josephbrockw/base-build/internal/model"
	"github.com/josephbrockw/base-build/internal/payment"
	"github.com/josephbrockw/base-build/pkg/database"
)

var discountRegistry *payment.DiscountRegistry

func InitDiscountController(registry *payment.DiscountRegistry) {
	discountRegistry = registry
}

type DiscountCodeInput struct {
	Code             string `json:"code"`
	DiscountType     string `json:"discount_type"`
	Percentage       *int64 `json:"percentage"`
	Amount           *int64 `json:"amount"`
	Duration         string `json:"duration"`
	DurationInMonths *int64 `json:"duration_in_months"`
	TrialDays        *int64 `json:"trial_days"`
	ProductID        *uint  `json:"product_id"`
	IsActive         *bool  `json:"is_active"`
}

func CreateDiscountCode(c *fiber.Ctx) error {
	input := new(DiscountCodeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	code := model.DiscountCode{
		Code:             input.Code,
		DiscountType:     input.DiscountType,
		Percentage:       input.Percentage,
		Amount:           input.Amount,
		Duration:         input.Duration,
		DurationInMonths: input.DurationInMonths,
		TrialDays:        input.TrialDays,
		ProductID:        input.ProductID,
		IsActive:         true,
	}
	if input.IsActive != nil {
		code.IsActive = *input.IsActive
	}

	if err := discountRegistry.Create(&code); err != nil {
		return c.Status(couponErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(code)
}

func UpdateDiscountCode(c *fiber.Ctx) error {
	var code model.DiscountCode
	if err := database.GetDB().First(&code, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Discount code not found",
		})
	}

	input := new(DiscountCodeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Code != "" {
		code.Code = input.Code
	}
	if input.DiscountType != "" {
		code.DiscountType = input.DiscountType
	}
	if input.Duration != "" {
		code.Duration = input.Duration
	}
	if input.Percentage != nil {
		code.Percentage = input.Percentage
	}
	if input.Amount != nil {
		code.Amount = input.Amount
	}
	if input.DurationInMonths != nil {
		code.DurationInMonths = input.DurationInMonths
	}
	if input.TrialDays != nil {
		code.TrialDays = input.TrialDays
	}
	if input.ProductID != nil {
		code.ProductID = input.ProductID
	}
	if input.IsActive != nil {
		code.IsActive = *input.IsActive
	}

	if err := discountRegistry.Update(&code); err != nil {
		return c.Status(couponErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(code)
}

func DeleteDiscountCode(c *fiber.Ctx) error {
	var code model.DiscountCode
	if err := database.GetDB().First(&code, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Discount code not found",
		})
	}

	if err := discountRegistry.Delete(&code); err != nil {
		return c.Status(couponErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Discount code deleted successfully",
	})
}

func couponErrorStatus(err error) int {
	if errors.Is(err, payment.ErrCouponSyncFailed) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
