package account

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/josephbrockw/base-build/internal/model"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)

// TokenService issues and consumes one-time verification tokens. Issue keeps
// the one-active-token-per-user rule by deactivating prior tokens and
// inserting the new one in a single transaction.
type TokenService struct {
	db          *gorm.DB
	tokenLength int
	expiry      time.Duration
}

func NewTokenService(db *gorm.DB, tokenLength int, expiry time.Duration) *TokenService {
	return &TokenService{db: db, tokenLength: tokenLength, expiry: expiry}
}

func (s *TokenService) Issue(user *model.User) (*model.OneTimePassword, error) {
	token, err := randomToken(s.tokenLength)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	otp := &model.OneTimePassword{
		UserID:   user.ID,
		Token:    token,
		Expires:  time.Now().Add(s.expiry),
		IsActive: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.OneTimePassword{}).
			Where("user_id = ? AND is_active = ?", user.ID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
	if err != nil {
		return nil, err
	}

	return otp, nil
}

// Consume looks up an active token and deactivates it whether or not it is
// still within its expiry window. An expired token is deactivated and
// reported as ErrTokenExpired.
func (s *TokenService) Consume(token string) (*model.OneTimePassword, error) {
	var otp model.OneTimePassword
	err := s.db.Where("token = ? AND is_active = ?", token, true).First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	valid := !time.Now().After(otp.Expires)

	otp.IsActive = false
	if err := s.db.Model(&otp).Update("is_active", false).Error; err != nil {
		return nil, err
	}

	if !valid {
		return nil, ErrTokenExpired
	}
	return &otp, nil
}

// CleanupExpired deletes tokens whose expiry passed more than keepFor ago.
// Run from the cleanup cron.
func (s *TokenService) CleanupExpired(keepFor time.Duration) (int64, error) {
	cutoff := time.Now().Add(-keepFor)
	result := s.db.Where("expires < ?", cutoff).Delete(&model.OneTimePassword{})
	return result.RowsAffected, result.Error
}

func randomToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = tokenAlphabet[int(buf[i])%len(tokenAlphabet)]
	}
	return string(buf), nil
}
