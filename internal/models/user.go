package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. Accounts are created upstream; the relay only
// reads them to resolve the sender of a message.
type User struct {
	// ID is the unique identifier of the user (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// Email is the identity used to resolve message senders.
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// Name is the display name shown in chats.
	Name string `json:"name"`
	// Avatar is an optional URL to the user's profile image.
	Avatar *string `json:"avatar,omitempty"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
