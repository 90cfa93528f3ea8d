// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file holds the small aggregate queries behind the
// HTTP layer's conditional responses (ETag generation).
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
)

// countAndLatest runs a count over the scoped query and, when rows exist,
// fetches the most recent updated_at. The timestamp comes from ORDER BY
// rather than MAX(), which SQLite would return as TEXT.
func countAndLatest(q *gorm.DB) (int64, *time.Time, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		UpdatedAt time.Time
	}
	if err := q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// ChatsStats reports how many chats the user owns and the newest UpdatedAt
// among them. With no chats the count is 0 and the timestamp nil.
func ChatsStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	return countAndLatest(db.WithContext(ctx).Model(&domain.Chat{}).Where("user_id = ?", userID))
}

// MessagesStats reports how many messages the chat holds and the newest
// UpdatedAt among them. With no messages the count is 0 and the timestamp
// nil.
func MessagesStats(ctx context.Context, db *gorm.DB, chatID string) (int64, *time.Time, error) {
	return countAndLatest(db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID))
}
