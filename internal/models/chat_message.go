package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is a persisted chat message. Rows are written once by the relay
// and never updated; they are deleted only by the retention sweeper, together
// with their owning group.
type ChatMessage struct {
	// ID is the unique identifier of the message (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// Sender is the display name the message was sent under.
	Sender string `gorm:"not null" json:"sender"`
	// Message is the message body.
	Message string `gorm:"type:text;not null" json:"message"`
	// ChatGroupID is the room the message belongs to.
	ChatGroupID string `gorm:"not null;index" json:"chatGroupId"`
	// CreatedAt is assigned at persistence time and orders room history.
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	// UserEmail and UserAvatar are the sender's profile fields as submitted
	// with the message, denormalized so history renders without a join.
	UserEmail  string  `gorm:"not null" json:"userEmail"`
	UserAvatar *string `json:"userAvatar,omitempty"`
	// UserID references the resolved sending user.
	UserID string `gorm:"not null;index" json:"userId"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is not set.
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
