package chathub_test

import (
	"chatpulse/backend/internal/models"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify/mock implementation of the storage.Storage
// interface, allowing flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) FindUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetChatHistory(roomID string) ([]models.ChatMessage, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockStorage) GetGroupByID(roomID string) (*models.ChatGroup, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatGroup), args.Error(1)
}

func (m *MockStorage) ListStaleGroupIDs(cutoff time.Time) ([]string, error) {
	args := m.Called(cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) DeleteMessagesByRooms(roomIDs []string) (int64, error) {
	args := m.Called(roomIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) DeleteGroupsByIDs(roomIDs []string) (int64, error) {
	args := m.Called(roomIDs)
	return args.Get(0).(int64), args.Error(1)
}

// mockClient is a test double for the chathub.Client interface with a
// buffered send channel so deliveries never block the hub in tests.
type mockClient struct {
	sessionID string
	roomID    string
	send      chan models.Envelope
}

func newMockClient(sessionID, roomID string) *mockClient {
	return &mockClient{
		sessionID: sessionID,
		roomID:    roomID,
		send:      make(chan models.Envelope, 16),
	}
}

func (c *mockClient) GetSessionID() string { return c.sessionID }

func (c *mockClient) GetRoomID() string { return c.roomID }

func (c *mockClient) GetSendChannel() chan<- models.Envelope { return c.send }

func (c *mockClient) Run() {}

func (c *mockClient) Close() {}

// drainEvents empties the send channel and returns what was delivered.
func (c *mockClient) drainEvents() []models.Envelope {
	var events []models.Envelope
	for {
		select {
		case env := <-c.send:
			events = append(events, env)
		default:
			return events
		}
	}
}
