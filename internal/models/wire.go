package models

import "time"

// WireUser is the nested user object carried by every wire message.
type WireUser struct {
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// WireMessage is the client-facing projection of a ChatMessage. It is the
// only message shape ever sent to clients; it is derived, never stored.
type WireMessage struct {
	ID           string   `json:"id"`
	Sender       string   `json:"sender"`
	SenderAvatar string   `json:"senderAvatar,omitempty"`
	Message      string   `json:"message"`
	Room         string   `json:"room"`
	CreatedAt    string   `json:"createdAt"`
	User         WireUser `json:"user"`
}

// Wire projects the persisted record into its transport shape. Absent avatars
// collapse to omitted fields, and the timestamp is serialized as ISO-8601.
func (m ChatMessage) Wire() WireMessage {
	var avatar string
	if m.UserAvatar != nil {
		avatar = *m.UserAvatar
	}
	return WireMessage{
		ID:           m.ID,
		Sender:       m.Sender,
		SenderAvatar: avatar,
		Message:      m.Message,
		Room:         m.ChatGroupID,
		CreatedAt:    m.CreatedAt.UTC().Format(time.RFC3339Nano),
		User: WireUser{
			Email:  m.UserEmail,
			Avatar: avatar,
		},
	}
}

// WireHistory projects a slice of records, returning an empty (non-nil) slice
// for empty input so the client always receives a JSON array.
func WireHistory(msgs []ChatMessage) []WireMessage {
	out := make([]WireMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Wire())
	}
	return out
}
