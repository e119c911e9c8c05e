package controller

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/josephbrockw/base-build/internal/model"
	"github.com/josephbrockw/base-build/internal/payment"
	"github.com/josephbrockw/base-build/pkg/database"
	"github.com/josephbrockw/base-build/pkg/email"
	"github.com/josephbrockw/base-build/pkg/utils/jwt"
)

var (
	provisioner   *payment.Provisioner
	gateway       payment.Gateway
	webhookSecret string
)

func InitSubscriptionController(p *payment.Provisioner, g payment.Gateway, secret string) {
	provisioner = p
	gateway = g
	webhookSecret = secret
}

// Subscribe provisions a subscription for the authenticated user.
func Subscribe(c *fiber.Ctx) error {
	input := new(payment.PlanSelection)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().First(&user, "id = ?", claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if input.PaymentMethodID == "" {
		input.PaymentMethodID = user.PaymentMethodID
	}

	subscription, err := provisioner.Provision(&user, *input)
	if err != nil {
		return c.Status(provisionErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	sendSubscriptionStartedEmail(&user, subscription)

	return c.JSON(fiber.Map{
		"message":      "Subscription created successfully",
		"subscription": subscription,
	})
}

func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var subscription model.Subscription
	if err := database.GetDB().
		Where("user_id = ? AND status = ?", claims.UserID, model.SubscriptionActive).
		First(&subscription).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	// Remote first; the local row keeps its status when the gateway call
	// fails so the two systems stay consistent.
	if err := gateway.DeleteSubscription(subscription.StripeSubscriptionID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel subscription",
		})
	}

	if err := database.GetDB().Model(&subscription).
		Update("status", model.SubscriptionCanceled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var subscription model.Subscription
	if err := database.GetDB().
		Where("user_id = ? AND status = ?", claims.UserID, model.SubscriptionActive).
		Preload("Tier").
		Preload("Price").
		First(&subscription).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	return c.JSON(subscription)
}

func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		if err := database.GetDB().Model(&model.Subscription{}).
			Where("stripe_subscription_id = ?", subData.ID).
			Update("status", model.SubscriptionCanceled).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}

		log.Printf("Subscription %s cancelled", subData.ID)

	case "customer.subscription.updated":
		var subData struct {
			ID                string `json:"id"`
			Status            string `json:"status"`
			CurrentPeriodEnd  int64  `json:"current_period_end"`
			CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		updates := map[string]interface{}{
			"status":               subData.Status,
			"cancel_at_period_end": subData.CancelAtPeriodEnd,
		}
		if subData.CurrentPeriodEnd > 0 {
			periodEnd := time.Unix(subData.CurrentPeriodEnd, 0).UTC()
			updates["current_period_end"] = time.Date(
				periodEnd.Year(), periodEnd.Month(), periodEnd.Day(), 0, 0, 0, 0, time.UTC,
			)
		}

		if err := database.GetDB().Model(&model.Subscription{}).
			Where("stripe_subscription_id = ?", subData.ID).
			Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription",
			})
		}

		log.Printf("Subscription %s updated", subData.ID)
	}

	return c.SendStatus(fiber.StatusOK)
}

// provisionErrorStatus maps saga errors to HTTP statuses: bad references are
// the caller's fault, everything else is a gateway or storage failure.
func provisionErrorStatus(err error) int {
	switch {
	case errors.Is(err, payment.ErrInvalidDiscount), errors.Is(err, payment.ErrInvalidPrice):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func sendSubscriptionStartedEmail(user *model.User, subscription *model.Subscription) {
	if email.GlobalEmailService == nil {
		return
	}

	var price model.Price
	if subscription.PriceID != nil {
		if err := database.GetDB().Preload("Tier.Product").First(&price, *subscription.PriceID).Error; err != nil {
			log.Printf("Could not load price for subscription email: %v", err)
			return
		}
	}

	if err := email.GlobalEmailService.SendSubscriptionStartedEmail(
		user.Email,
		user.Name(),
		price.Tier.Product.Name,
		price.Tier.Name,
		price.BillingCycle,
		price.DisplayAmount(),
		subscription.TrialEnd,
	); err != nil {
		log.Printf("Could not send subscription email: %v", err)
	}
}
