package models_test

import (
	"chatpulse/backend/internal/models"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWire_ProjectsPersistedMessage(t *testing.T) {
	avatar := "https://cdn.example.com/a.png"
	created := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	msg := models.ChatMessage{
		ID:          "m1",
		Sender:      "Alice",
		Message:     "hello",
		ChatGroupID: "r1",
		CreatedAt:   created,
		UserEmail:   "a@x.com",
		UserAvatar:  &avatar,
		UserID:      "u1",
	}

	wire := msg.Wire()
	assert.Equal(t, "m1", wire.ID)
	assert.Equal(t, "Alice", wire.Sender)
	assert.Equal(t, avatar, wire.SenderAvatar)
	assert.Equal(t, "hello", wire.Message)
	assert.Equal(t, "r1", wire.Room)
	assert.Equal(t, "2026-01-15T09:30:00Z", wire.CreatedAt)
	assert.Equal(t, "a@x.com", wire.User.Email)
	assert.Equal(t, avatar, wire.User.Avatar)
}

func TestWire_AbsentAvatarIsOmitted(t *testing.T) {
	msg := models.ChatMessage{
		ID:          "m1",
		Sender:      "Alice",
		Message:     "hello",
		ChatGroupID: "r1",
		CreatedAt:   time.Now(),
		UserEmail:   "a@x.com",
	}

	data, err := json.Marshal(msg.Wire())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "senderAvatar")

	user, ok := decoded["user"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, user, "avatar")
	assert.Equal(t, "a@x.com", user["email"])
}

func TestWire_TimestampIsISO8601(t *testing.T) {
	msg := models.ChatMessage{CreatedAt: time.Date(2026, 6, 1, 12, 0, 0, 500000000, time.FixedZone("CEST", 2*3600))}
	wire := msg.Wire()

	parsed, err := time.Parse(time.RFC3339Nano, wire.CreatedAt)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(msg.CreatedAt))
	// Always serialized in UTC.
	assert.Equal(t, "2026-06-01T10:00:00.5Z", wire.CreatedAt)
}

func TestWireHistory_EmptyInputYieldsEmptyArray(t *testing.T) {
	out := models.WireHistory(nil)
	require.NotNil(t, out)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestWireHistory_PreservesOrder(t *testing.T) {
	msgs := []models.ChatMessage{
		{ID: "m1", CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "m2", CreatedAt: time.Now()},
	}
	out := models.WireHistory(msgs)
	require.Len(t, out, 2)
	assert.Equal(t, "m1", out[0].ID)
	assert.Equal(t, "m2", out[1].ID)
}
