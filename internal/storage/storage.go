package storage

import (
	"chatpulse/backend/internal/config"
	"chatpulse/backend/internal/models"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrRoomNotFound is returned by SaveMessage when the target room has no chat
// group behind it. Messages are never persisted into nonexistent rooms.
var ErrRoomNotFound = errors.New("chat room not found")

// Storage is the persistence boundary consumed by the chat hub and the
// retention sweeper.
type Storage interface {
	FindUserByEmail(email string) (*models.User, error)
	SaveMessage(msg *models.ChatMessage) error
	GetChatHistory(roomID string) ([]models.ChatMessage, error)
	GetGroupByID(roomID string) (*models.ChatGroup, error)

	ListStaleGroupIDs(cutoff time.Time) ([]string, error)
	DeleteMessagesByRooms(roomIDs []string) (int64, error)
	DeleteGroupsByIDs(roomIDs []string) (int64, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// FindUserByEmail resolves a user by email. A missing user is not an error:
// it returns (nil, nil) so callers can distinguish "unknown sender" from a
// store failure.
func (s *Service) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveMessage persists a message and bumps the owning group's last-activity
// timestamp in one transaction, so a failed insert leaves no trace. A bump
// that touches no row means the group does not exist: the transaction rolls
// back with ErrRoomNotFound rather than leaving an orphan message behind.
func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		res := tx.Model(&models.ChatGroup{}).
			Where("id = ?", msg.ChatGroupID).
			Update("updated_at", msg.CreatedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRoomNotFound
		}
		return nil
	})
}

// GetChatHistory returns all messages of a room ordered by creation time
// ascending. An unknown room yields an empty slice, not an error.
func (s *Service) GetChatHistory(roomID string) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	err := s.DB.Where("chat_group_id = ?", roomID).
		Order("created_at asc").
		Find(&history).Error
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to load chat history")
		return nil, err
	}
	return history, nil
}

// GetGroupByID fetches a chat group, serving the title from Redis when the
// cache is warm. A missing group returns (nil, nil). Cache errors fall
// through to Postgres.
func (s *Service) GetGroupByID(roomID string) (*models.ChatGroup, error) {
	key := "room_title:" + roomID
	if title, err := s.Redis.Get(s.Ctx, key).Result(); err == nil {
		return &models.ChatGroup{ID: roomID, Title: title}, nil
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("room", roomID).Msg("room title cache read failed")
	}

	var group models.ChatGroup
	err := s.DB.Select("id", "title").Where("id = ?", roomID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.Redis.Set(s.Ctx, key, group.Title, config.RoomTitleCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("room title cache write failed")
	}
	return &group, nil
}

// ListStaleGroupIDs returns the ids of all groups whose last activity is
// older than the cutoff.
func (s *Service) ListStaleGroupIDs(cutoff time.Time) ([]string, error) {
	var ids []string
	err := s.DB.Model(&models.ChatGroup{}).
		Where("updated_at < ?", cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteMessagesByRooms bulk-deletes every message belonging to the given
// rooms and reports how many rows went away.
func (s *Service) DeleteMessagesByRooms(roomIDs []string) (int64, error) {
	res := s.DB.Where("chat_group_id IN ?", roomIDs).Delete(&models.ChatMessage{})
	return res.RowsAffected, res.Error
}

// DeleteGroupsByIDs bulk-deletes the given groups. Callers must delete the
// groups' messages first.
func (s *Service) DeleteGroupsByIDs(roomIDs []string) (int64, error) {
	res := s.DB.Where("id IN ?", roomIDs).Delete(&models.ChatGroup{})
	return res.RowsAffected, res.Error
}
