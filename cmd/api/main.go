package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/josephbrockw/base-build/internal/account"
	"github.com/josephbrockw/base-build/internal/controller"
	"github.com/josephbrockw/base-build/internal/middleware"
	"github.com/josephbrockw/base-build/internal/model"
	"github.com/josephbrockw/base-build/internal/payment"
	"github.com/josephbrockw/base-build/pkg/config"
	"github.com/josephbrockw/base-build/pkg/cron"
	"github.com/josephbrockw/base-build/pkg/database"
	"github.com/josephbrockw/base-build/pkg/email"
	"github.com/josephbrockw/base-build/pkg/seed"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/verify", controller.Verify)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Catalog and discount checks are public: the pricing page reads them
	// before an account exists.
	api.Get("/products", controller.ListProducts)
	api.Post("/purchases/check-discount", controller.CheckDiscount)

	// Subscription routes
	subscriptions := api.Group("/subscriptions", middleware.AuthMiddleware())
	subscriptions.Post("/", controller.Subscribe)
	subscriptions.Post("/cancel", controller.CancelSubscription)
	subscriptions.Get("/my", controller.GetMySubscription)

	// Discount code administration
	discounts := api.Group("/discounts", middleware.AuthMiddleware())
	discounts.Post("/", controller.CreateDiscountCode)
	discounts.Put("/:id", controller.UpdateDiscountCode)
	discounts.Delete("/:id", controller.DeleteDiscountCode)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)
}

func main() {
	cfg := config.Load()

	if cfg.Email.ResendAPIKey != "" {
		if err := email.InitEmailService(cfg.Email.ResendAPIKey, cfg.Email.From); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, email sending disabled")
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.OneTimePassword{},
		&model.Product{},
		&model.Tier{},
		&model.Price{},
		&model.DiscountCode{},
		&model.Subscription{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	if os.Getenv("SEED_DB") == "true" {
		seed.SeedProducts(database.GetDB())
	}

	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey)
	provisioner := payment.NewProvisioner(database.GetDB(), gateway)
	registry := payment.NewDiscountRegistry(database.GetDB(), gateway)
	catalogSync := payment.NewCatalogSync(
		database.GetDB(), gateway, cfg.Server.AppName, seed.MasterFeatureList(),
	)
	tokens := account.NewTokenService(
		database.GetDB(),
		cfg.Account.OTPLength,
		time.Duration(cfg.Account.OTPExpiryMins)*time.Minute,
	)
	policy := account.RegistrationPolicy{PaymentRequired: cfg.Account.PaymentRequired}

	controller.InitAuthController(policy, tokens, cfg.Account.OTPExpiryMins)
	controller.InitSubscriptionController(provisioner, gateway, cfg.Stripe.WebhookSecret)
	controller.InitDiscountController(registry)

	cron.InitCatalogSyncCron(catalogSync)
	cron.InitTokenCleanupCron(tokens)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
