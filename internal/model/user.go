package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`

	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PreferredName string `json:"preferred_name"`

	// Stored at registration so re-provisioning does not need the caller to
	// resend the payment method.
	PaymentMethodID string `json:"-"`

	// IsActive starts false and is flipped on by email verification. It is
	// also the fail-closed switch: any provisioning failure flips it off
	// before the error is surfaced.
	IsActive   bool `json:"is_active" gorm:"default:false"`
	IsVerified bool `json:"is_verified" gorm:"default:false"`

	Subscriptions []Subscription `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Name prefers the preferred name, then the full name, then the username.
// Emails address the user with it.
func (u *User) Name() string {
	if u.PreferredName != "" {
		return u.PreferredName
	}
	if full := u.GetFullName(); full != "" {
		return full
	}
	return u.Username
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) Salutation() string {
	return fmt.Sprintf("Hi, %s!", u.Name())
}
