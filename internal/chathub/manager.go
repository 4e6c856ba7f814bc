package chathub

import (
	"chatpulse/backend/internal/metrics"
	"chatpulse/backend/internal/models"
	"chatpulse/backend/internal/storage"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// UnknownRoomTitle is pushed as the room name when the requested room has no
// chat group behind it, or when the title lookup fails. The join itself still
// succeeds.
const UnknownRoomTitle = "Unknown Room"

// Inbound pairs a client request with the session it arrived on.
type Inbound struct {
	Client   Client
	Envelope models.Envelope
}

// ManagerService is the chat hub. Session registration and teardown serialize
// through its Run loop; store-bound work (history fetches, sends) runs in
// per-request goroutines so one slow query never stalls other connections.
type ManagerService struct {
	Registry *RoomRegistry

	// Channels
	IncomingCh   chan Inbound
	RegisterCh   chan Client
	UnregisterCh chan Client

	Storage storage.Storage

	// clients tracks every live session, roomless ones included. Touched only
	// by the Run loop.
	clients map[string]Client
}

func NewManagerService(s storage.Storage) *ManagerService {
	return &ManagerService{
		Registry:     NewRoomRegistry(),
		IncomingCh:   make(chan Inbound),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		Storage:      s,
		clients:      make(map[string]Client),
	}
}

// Run is the hub dispatcher. It must run in its own goroutine.
func (m *ManagerService) Run() {
	log.Info().Msg("chat hub started")

	for {
		select {
		case c := <-m.RegisterCh:
			m.clients[c.GetSessionID()] = c
			metrics.WsSessions.Inc()

			if room := c.GetRoomID(); room != "" {
				m.Registry.Join(room, c)
				log.Info().Str("session", c.GetSessionID()).Str("room", room).Msg("session joined room")
				go m.pushRoomState(c, room)
			} else {
				log.Warn().Str("session", c.GetSessionID()).Msg("session connected without a room")
			}

		case c := <-m.UnregisterCh:
			sid := c.GetSessionID()
			if _, ok := m.clients[sid]; !ok {
				continue
			}
			delete(m.clients, sid)
			m.Registry.Leave(sid)
			c.Close()
			metrics.WsSessions.Dec()
			log.Info().Str("session", sid).Msg("session disconnected")

		case in := <-m.IncomingCh:
			switch in.Envelope.Event {
			case models.EventFetchMessages:
				go m.handleFetch(in.Client, in.Envelope)
			case models.EventSendMessage:
				go m.handleSend(in.Client, in.Envelope)
			default:
				log.Warn().Str("session", in.Client.GetSessionID()).Str("event", in.Envelope.Event).Msg("unknown event")
			}
		}
	}
}

// pushRoomState sends the joining session its room title and the room's full
// message history. Store failures degrade: a fallback title and an empty
// history, never a dropped connection.
func (m *ManagerService) pushRoomState(c Client, room string) {
	name := UnknownRoomTitle
	group, err := m.Storage.GetGroupByID(room)
	if err != nil {
		log.Error().Err(err).Str("room", room).Msg("failed to fetch room info")
	} else if group != nil {
		name = group.Title
	}
	m.deliver(c, envelope(models.EventRoomInfo, models.RoomInfo{Name: name}, ""))

	m.deliver(c, envelope(models.EventFetchMessages, m.historyFor(room), ""))
}

// handleFetch answers an explicit fetch_messages request with the room's
// history, correlated by the request's ack id.
func (m *ManagerService) handleFetch(c Client, req models.Envelope) {
	var data models.FetchMessagesRequest
	if err := json.Unmarshal(req.Data, &data); err != nil {
		log.Warn().Err(err).Str("session", c.GetSessionID()).Msg("malformed fetch_messages request")
		return
	}
	m.deliver(c, envelope(models.EventFetchMessages, m.historyFor(data.Room), req.Ack))
}

// historyFor loads a room's history in creation order, soft-failing to an
// empty list on store errors.
func (m *ManagerService) historyFor(room string) []models.WireMessage {
	history, err := m.Storage.GetChatHistory(room)
	if err != nil {
		return []models.WireMessage{}
	}
	return models.WireHistory(history)
}

// handleSend validates a send request, persists the message and fans it out
// to every current member of the room, sender included. The outcome is
// reported to the caller alone via its ack.
func (m *ManagerService) handleSend(c Client, req models.Envelope) {
	var data models.SendMessageRequest
	if err := json.Unmarshal(req.Data, &data); err != nil {
		m.ack(c, req, "invalid send_message payload")
		return
	}

	user, err := m.Storage.FindUserByEmail(data.User.Email)
	if err != nil {
		log.Error().Err(err).Str("room", data.Room).Msg("sender lookup failed")
		m.ack(c, req, "failed to send message")
		return
	}
	if user == nil {
		m.ack(c, req, fmt.Sprintf("user with email %s not found", data.User.Email))
		return
	}

	msg := &models.ChatMessage{
		ChatGroupID: data.Room,
		Sender:      data.Sender,
		Message:     data.Message,
		UserID:      user.ID,
		UserEmail:   data.User.Email,
		UserAvatar:  data.User.Avatar,
	}
	if err := m.Storage.SaveMessage(msg); err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			m.ack(c, req, fmt.Sprintf("room %s not found", data.Room))
			return
		}
		log.Error().Err(err).Str("room", data.Room).Msg("failed to save message")
		m.ack(c, req, "failed to send message")
		return
	}

	out := envelope(models.EventNewMessage, msg.Wire(), "")
	for _, member := range m.Registry.MembersOf(data.Room) {
		m.deliver(member, out)
	}
	metrics.MessagesTotal.Inc()
	log.Debug().Str("room", data.Room).Str("message", msg.ID).Msg("message broadcast")

	m.ack(c, req, "")
}

// ack replies to a correlated request: null data on success, a human-readable
// error string otherwise. Requests without an ack id get no reply.
func (m *ManagerService) ack(c Client, req models.Envelope, errMsg string) {
	if req.Ack == "" {
		return
	}
	data := json.RawMessage("null")
	if errMsg != "" {
		data, _ = json.Marshal(errMsg)
	}
	m.deliver(c, models.Envelope{Event: req.Event, Data: data, Ack: req.Ack})
}

// deliver hands an event to one session without blocking: a client whose
// buffer is full is kicked so it cannot stall delivery to anyone else.
func (m *ManagerService) deliver(c Client, env models.Envelope) {
	select {
	case c.GetSendChannel() <- env:
	default:
		log.Warn().Str("session", c.GetSessionID()).Str("event", env.Event).Msg("send buffer full, dropping client")
		go func() { m.UnregisterCh <- c }()
	}
}

func envelope(event string, data interface{}, ack string) models.Envelope {
	raw, _ := json.Marshal(data)
	return models.Envelope{Event: event, Data: raw, Ack: ack}
}
