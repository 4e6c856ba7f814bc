package models

import "encoding/json"

// Realtime protocol event names.
const (
	// EventRoomInfo is pushed once after a join with the room's title.
	EventRoomInfo = "room_info"
	// EventFetchMessages carries room history: pushed once after a join, and
	// sent as a reply to an explicit client fetch request.
	EventFetchMessages = "fetch_messages"
	// EventSendMessage is a client request to send a message to a room.
	EventSendMessage = "send_message"
	// EventNewMessage is broadcast to every member of a room on each send.
	EventNewMessage = "new_message"
)

// Envelope frames every websocket exchange in both directions. Ack is an
// optional client-chosen correlation id: when set on a request, the reply
// event echoes it so the client can match responses to callbacks.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Ack   string          `json:"ack,omitempty"`
}

// RoomInfo is the payload of a room_info push.
type RoomInfo struct {
	Name string `json:"name"`
}

// FetchMessagesRequest is the payload of a client fetch_messages request.
type FetchMessagesRequest struct {
	Room string `json:"room"`
}

// SendMessageRequest is the payload of a client send_message request.
type SendMessageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Room    string `json:"room"`
	User    struct {
		Email  string  `json:"email"`
		Avatar *string `json:"avatar,omitempty"`
	} `json:"user"`
}
