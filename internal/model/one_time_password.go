package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OneTimePassword is a short-lived email verification token. A user holds at
// most one active token at a time; account.TokenService enforces that when it
// issues a new one.
type OneTimePassword struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Token    string    `json:"-" gorm:"uniqueIndex;not null"`
	Expires  time.Time `json:"expires"`
	IsActive bool      `json:"is_active" gorm:"default:true"`

	User User `json:"-"`
}

func (o *OneTimePassword) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
