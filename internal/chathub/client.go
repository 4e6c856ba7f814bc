package chathub

import "chatpulse/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub and the room registry can manage sessions
// uniformly.
type Client interface {
	// GetSessionID returns the unique identifier of this connection. It is
	// independent of any user identity.
	GetSessionID() string
	// GetRoomID returns the room requested at handshake time, or "" for a
	// roomless connection.
	GetRoomID() string

	// GetSendChannel returns the channel the hub writes outbound events to.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's outbound channel, stopping its write pump.
	Close()
}
