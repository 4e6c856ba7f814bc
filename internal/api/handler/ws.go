package handler

import (
	"chatpulse/backend/internal/chathub"
	"net/http"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin websocket requests are allowed; CORS policy is enforced on
	// the HTTP surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the HTTP connection and admits the session into the
// room named by the handshake. A connection without a room proceeds roomless;
// the room is never validated against the store here.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	room := h.roomFromHandshake(c.Request)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, uuid.New().String(), room, conn)
	h.Hub.RegisterCh <- client
	client.Run()
}

// roomFromHandshake extracts the requested room from the handshake metadata:
// the plain room query parameter, or the room claim of a signed token.
func (h *Handler) roomFromHandshake(r *http.Request) string {
	q := r.URL.Query()
	if room := q.Get("room"); room != "" {
		return room
	}

	tokenString := q.Get("token")
	if tokenString == "" {
		return ""
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		log.Warn().Err(err).Msg("invalid handshake token")
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	room, _ := claims["room"].(string)
	return room
}

// Healthz is a liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
