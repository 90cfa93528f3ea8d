// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file covers the Message model.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
)

// chatMessages scopes a query to one chat's messages in a deterministic
// order (CreatedAt ASC with ID as the tie-breaker, since sqlite timestamps
// have second precision).
func chatMessages(db *gorm.DB, chatID string) *gorm.DB {
	return db.Where("chat_id = ?", chatID).Order("created_at ASC, id ASC")
}

// CreateMessage inserts a new message row for the chat.
func CreateMessage(db *gorm.DB, chatID, role, content string) (*domain.Message, error) {
	m := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// ListMessages returns up to limit messages of the chat, oldest first. A
// limit <= 0 returns them all.
func ListMessages(db *gorm.DB, chatID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := chatMessages(db, chatID)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(db *gorm.DB, chatID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).Scan(&total).Error
	return total, err
}

// ListMessagesPage returns one page of the chat's messages, oldest first.
func ListMessagesPage(db *gorm.DB, chatID string, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := chatMessages(db, chatID).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetMessage fetches a message by ID.
func GetMessage(db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
