package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/josephbrockw/base-build/internal/account"
	"github.com/josephbrockw/base-build/internal/model"
	"github.com/josephbrockw/base-build/internal/payment"
	"github.com/josephbrockw/base-build/pkg/database"
	"github.com/josephbrockw/base-build/pkg/email"
	"github.com/josephbrockw/base-build/pkg/utils/jwt"
)

var (
	registrationPolicy account.RegistrationPolicy
	tokenService       *account.TokenService
	otpExpiryMins      int
)

func InitAuthController(policy account.RegistrationPolicy, tokens *account.TokenService, otpMins int) {
	registrationPolicy = policy
	tokenService = tokens
	otpExpiryMins = otpMins
}

type RegisterInput struct {
	account.RegistrationInput
	Discount  *payment.DiscountRef `json:"discount"`
	TrialDays *int64               `json:"trial_days"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyInput struct {
	Token string `json:"token" validate:"required"`
}

// Register creates the user inactive, pending email verification, and when
// the active policy requires payment, provisions their subscription as part
// of signup. A provisioning failure deactivates the account (fail-closed)
// and surfaces the error.
func Register(c *fiber.Ctx) error {
	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := registrationPolicy.Validate(input.RegistrationInput); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var existingUser model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	user := model.User{
		Email:           input.Email,
		Username:        input.Username,
		Password:        string(hashedPassword),
		PreferredName:   input.PreferredName,
		PaymentMethodID: input.PaymentMethodID,
		IsActive:        false,
	}

	if err := database.GetDB().Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create user",
		})
	}

	otp, err := tokenService.Issue(&user)
	if err != nil {
		log.Printf("Could not issue verification token for %s: %v", user.Email, err)
	} else if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendVerificationEmail(
			user.Email, user.Salutation(), otp.Token, otpExpiryMins,
		); err != nil {
			log.Printf("Could not send verification email: %v", err)
		}
	}

	var subscription *model.Subscription
	if registrationPolicy.PaymentRequired {
		selection := payment.PlanSelection{
			PaymentMethodID: input.PaymentMethodID,
			PriceID:         input.PriceID,
			TierID:          input.TierID,
			Discount:        input.Discount,
			TrialDays:       input.TrialDays,
		}

		subscription, err = provisioner.Provision(&user, selection)
		if err != nil {
			return c.Status(provisionErrorStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Registration successful",
		"user":         user,
		"subscription": subscription,
	})
}

func Login(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is inactive",
		})
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

// Verify consumes a one-time token and activates the account. Until then the
// user is inactive and Login turns them away.
func Verify(c *fiber.Ctx) error {
	input := new(VerifyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	otp, err := tokenService.Consume(input.Token)
	if err != nil {
		if errors.Is(err, account.ErrTokenNotFound) || errors.Is(err, account.ErrTokenExpired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not verify token",
		})
	}

	if err := database.GetDB().Model(&model.User{}).
		Where("id = ?", otp.UserID).
		Updates(map[string]interface{}{
			"is_active":   true,
			"is_verified": true,
		}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not verify user",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
	})
}

func GetMe(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}
