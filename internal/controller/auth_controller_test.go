package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/josephbrockw/base-build/internal/account"
	"github.com/josephbrockw/base-build/internal/model"
	"github.com/josephbrockw/base-build/pkg/database"
)

func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.OneTimePassword{}))
	database.DB = db

	InitAuthController(
		account.RegistrationPolicy{},
		account.NewTokenService(db, 6, 15*time.Minute),
		15,
	)

	app := fiber.New()
	app.Post("/api/auth/register", Register)
	app.Post("/api/auth/login", Login)
	app.Post("/api/auth/verify", Verify)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func registerUser(t *testing.T, app *fiber.App) model.User {
	t.Helper()

	resp := postJSON(t, app, "/api/auth/register", fiber.Map{
		"email":    "bo@example.com",
		"username": "bo",
		"password": "hunter22",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user model.User
	require.NoError(t, database.GetDB().Where("email = ?", "bo@example.com").First(&user).Error)
	return user
}

func TestRegisterCreatesInactiveUser(t *testing.T) {
	app := setupAuthApp(t)

	user := registerUser(t, app)
	assert.False(t, user.IsActive)
	assert.False(t, user.IsVerified)

	var tokens int64
	require.NoError(t, database.GetDB().Model(&model.OneTimePassword{}).
		Where("user_id = ? AND is_active = ?", user.ID, true).Count(&tokens).Error)
	assert.EqualValues(t, 1, tokens)
}

func TestLoginRejectsUnverifiedUser(t *testing.T) {
	app := setupAuthApp(t)
	registerUser(t, app)

	resp := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "bo@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestVerifyActivatesUser(t *testing.T) {
	app := setupAuthApp(t)
	user := registerUser(t, app)

	var otp model.OneTimePassword
	require.NoError(t, database.GetDB().
		Where("user_id = ? AND is_active = ?", user.ID, true).First(&otp).Error)

	resp := postJSON(t, app, "/api/auth/verify", fiber.Map{"token": otp.Token})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var verified model.User
	require.NoError(t, database.GetDB().First(&verified, "id = ?", user.ID).Error)
	assert.True(t, verified.IsActive)
	assert.True(t, verified.IsVerified)

	resp = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "bo@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVerifyRejectsUnknownToken(t *testing.T) {
	app := setupAuthApp(t)
	registerUser(t, app)

	resp := postJSON(t, app, "/api/auth/verify", fiber.Map{"token": "NOSUCH"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
