// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Favorite
// model: per-user watch flags on catalog items.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving business rules to the services package.
//
// Error semantics:
//   - ToggleFavorite never reports a duplicate: the unique (user_id, item_id)
//     index guarantees at most one row, and the toggle removes it when present.
//   - On DB errors (connectivity, constraints, etc.), the raw gorm error is
//     propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
)

// ToggleFavorite flips the favorite flag for (userID, itemID). If a row
// exists it is deleted; otherwise a new row is created. The returned bool is
// the resulting state: true when the item is now a favorite.
//
// The read and the write run in one transaction so concurrent toggles for
// the same pair serialize on the unique index rather than racing.
func ToggleFavorite(ctx context.Context, db *gorm.DB, userID, section, itemID string) (bool, error) {
	var nowFavorite bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Favorite
		err := tx.Where("user_id = ? AND item_id = ?", userID, itemID).First(&existing).Error
		switch {
		case err == nil:
			nowFavorite = false
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			nowFavorite = true
			return tx.Create(&domain.Favorite{
				ID:        uuid.NewString(),
				UserID:    userID,
				Section:   section,
				ItemID:    itemID,
				CreatedAt: time.Now().UTC(),
			}).Error
		default:
			return err
		}
	})
	return nowFavorite, err
}

// ListFavorites returns the user's favorites, optionally narrowed to one
// section, newest first.
func ListFavorites(ctx context.Context, db *gorm.DB, userID, section string) ([]domain.Favorite, error) {
	var out []domain.Favorite
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if section != "" {
		q = q.Where("section = ?", section)
	}
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

// IsFavorite reports whether the user has favorited the item.
func IsFavorite(ctx context.Context, db *gorm.DB, userID, itemID string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&total).Error
	return total > 0, err
}
