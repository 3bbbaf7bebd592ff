package repository

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"srhbot/models"
)

// ChatRepository stores chat transcripts.
type ChatRepository interface {
	SaveMessage(message models.ChatMessage) error
	// GetMessagesByUserID returns the newest limit messages in chronological
	// order; limit <= 0 returns all of them.
	GetMessagesByUserID(userID string, limit int) ([]models.ChatMessage, error)
}

// chatRepository keeps transcripts in memory. Used by the CLI and tests.
type chatRepository struct {
	messages map[string][]models.ChatMessage
	mu       sync.RWMutex
}

// NewChatRepository creates an in-memory chat repository.
func NewChatRepository() ChatRepository {
	return &chatRepository{
		messages: make(map[string][]models.ChatMessage),
	}
}

func (r *chatRepository) SaveMessage(message models.ChatMessage) error {
	if message.UserID == "" {
		return errors.New("save message: user ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	userMessages := r.messages[message.UserID]
	message.ID = uint(len(userMessages) + 1)
	r.messages[message.UserID] = append(userMessages, message)
	return nil
}

func (r *chatRepository) GetMessagesByUserID(userID string, limit int) ([]models.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userMessages := r.messages[userID]
	if limit > 0 && len(userMessages) > limit {
		userMessages = userMessages[len(userMessages)-limit:]
	}

	// Return a copy so callers cannot modify the stored transcript.
	result := make([]models.ChatMessage, len(userMessages))
	copy(result, userMessages)
	return result, nil
}

type gormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a chat repository backed by the database.
func NewGormChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) SaveMessage(message models.ChatMessage) error {
	if message.UserID == "" {
		return errors.New("save message: user ID cannot be empty")
	}
	if err := r.db.Create(&message).Error; err != nil {
		log.Printf("ERROR: [ChatRepository] Failed to save message for userID %s: %v", message.UserID, err)
		return fmt.Errorf("failed to save message for userID %s: %w", message.UserID, err)
	}
	return nil
}

func (r *gormChatRepository) GetMessagesByUserID(userID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	q := r.db.Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&messages).Error; err != nil {
		log.Printf("ERROR: [ChatRepository] Failed to fetch messages for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch messages for userID %s: %w", userID, err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
