// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file covers the Chat model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Every query is scoped to the owning
// user; a chat ID alone never grants access.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound so services and handlers match one sentinel.
var ErrNotFound = gorm.ErrRecordNotFound

// ownedChats scopes a query to the chats of one user, newest first.
func ownedChats(ctx context.Context, db *gorm.DB, userID string) *gorm.DB {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
}

// CreateChat inserts a new Chat row owned by userID with the given title.
// Assistant marks the conversation as assistant-driven. The chat ID is a
// randomly generated UUID (string), and CreatedAt is set to UTC.
func CreateChat(ctx context.Context, db *gorm.DB, userID, title string, assistant bool) (*domain.Chat, error) {
	c := &domain.Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Assistant: assistant,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListChats returns every chat belonging to userID, most recent first. A
// user without chats gets an empty slice, not an error.
func ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	err := ownedChats(ctx, db, userID).Find(&out).Error
	return out, err
}

// CountChats returns the total number of chats owned by userID.
func CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListChatsPage returns one page of the user's chats. The caller computes
// offset and limit (e.g., (page-1)*pageSize) and pairs the result with
// CountChats for pagination metadata.
func ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	var out []domain.Chat
	err := ownedChats(ctx, db, userID).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetChat fetches one chat by ID and owner. A missing or foreign chat yields
// ErrNotFound.
func GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	var c domain.Chat
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateChatTitle renames a chat identified by id and owned by userID. Zero
// affected rows (missing chat, or someone else's) reports ErrNotFound.
func UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	res := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
