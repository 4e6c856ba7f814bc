package chathub

import (
	"chatpulse/backend/internal/models"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements the chathub.Client interface on top of a
// gorilla/websocket connection.
type WebSocketClient struct {
	SessionID string
	RoomID    string
	Conn      *websocket.Conn
	Hub       *ManagerService
	Send      chan models.Envelope

	closeOnce sync.Once
	done      chan struct{}
}

func NewWebSocketClient(hub *ManagerService, sessionID, roomID string, conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{
		SessionID: sessionID,
		RoomID:    roomID,
		Conn:      conn,
		Hub:       hub,
		Send:      make(chan models.Envelope, 256),
		done:      make(chan struct{}),
	}
}

func (c *WebSocketClient) GetSessionID() string { return c.SessionID }

func (c *WebSocketClient) GetRoomID() string { return c.RoomID }

func (c *WebSocketClient) GetSendChannel() chan<- models.Envelope { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close signals both pumps to stop. The Send channel is never closed, so a
// broadcast racing a disconnect can not panic; undelivered events are simply
// dropped with the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump reads client events from the socket and forwards them to the hub.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("session", c.SessionID).Msg("websocket read error")
			}
			break
		}

		var env models.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			log.Warn().Err(err).Str("session", c.SessionID).Msg("malformed client frame")
			continue
		}

		c.Hub.IncomingCh <- Inbound{Client: c, Envelope: env}
	}
}

// writePump drains the Send channel onto the socket and keeps the connection
// alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case env := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			data, err := json.Marshal(env)
			if err != nil {
				log.Error().Err(err).Str("session", c.SessionID).Msg("failed to encode event")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
