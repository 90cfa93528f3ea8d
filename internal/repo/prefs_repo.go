// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Preference
// and Wallet models, both keyed one row per user.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
)

// GetPreference returns the user's preference row, or ErrNotFound when the
// user has never saved one.
func GetPreference(ctx context.Context, db *gorm.DB, userID string) (*domain.Preference, error) {
	var p domain.Preference
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPreference writes the user's preference row, inserting on first save
// and overwriting language and theme on subsequent ones.
func UpsertPreference(ctx context.Context, db *gorm.DB, userID, language, theme string) (*domain.Preference, error) {
	p := &domain.Preference{
		UserID:    userID,
		Language:  language,
		Theme:     theme,
		UpdatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "theme", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetWallet returns the user's wallet row, or ErrNotFound if none exists.
func GetWallet(ctx context.Context, db *gorm.DB, userID string) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWallet inserts the user's wallet row. If a concurrent request won the
// insert race, the existing row is returned instead of an error.
func CreateWallet(ctx context.Context, db *gorm.DB, w *domain.Wallet) (*domain.Wallet, error) {
	w.CreatedAt = time.Now().UTC()
	err := db.WithContext(ctx).Create(w).Error
	if err == nil {
		return w, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return GetWallet(ctx, db, w.UserID)
	}
	return nil, err
}
