package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Account  AccountConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Port    string
	AppName string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type AccountConfig struct {
	// PaymentRequired selects the registration validation policy: when true,
	// signups must carry payment method and plan references.
	PaymentRequired bool
	OTPLength       int
	OTPExpiryMins   int
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "3000"),
			AppName: getEnv("APP_NAME", "base-build"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Account: AccountConfig{
			PaymentRequired: getEnvBool("PAYMENT_REQUIRED", true),
			OTPLength:       getEnvInt("OTP_LENGTH", 6),
			OTPExpiryMins:   getEnvInt("OTP_EXPIRATION_MINUTES", 30),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "BaseBuild <noreply@basebuild.dev>"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
