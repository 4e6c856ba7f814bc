package handler

import "chatpulse/backend/internal/chathub"

// Handler holds the chat hub and the secret used to verify signed handshake
// payloads.
type Handler struct {
	Hub       *chathub.ManagerService
	JWTSecret string
}

func NewHandler(hub *chathub.ManagerService, jwtSecret string) *Handler {
	return &Handler{Hub: hub, JWTSecret: jwtSecret}
}
