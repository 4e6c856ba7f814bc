package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatGroup is a chat room. UpdatedAt doubles as the last-activity timestamp:
// it is bumped whenever a message is saved into the group, and the retention
// sweeper deletes groups whose UpdatedAt is older than the cutoff.
type ChatGroup struct {
	// ID is the unique identifier of the group (UUID), referenced by
	// ChatMessage.ChatGroupID and used as the room id on the wire.
	ID string `gorm:"primaryKey" json:"id"`
	// Title is the human-readable room name pushed to clients on join.
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is not set.
func (g *ChatGroup) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return
}
