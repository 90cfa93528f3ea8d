// Package services – PrefsService
//
// This file implements PrefsService, which owns per-user UI preferences
// (language, theme) and the lazily generated mock wallet. Preferences are a
// single row per user, created on first save and overwritten afterwards;
// reads before the first save return the defaults without touching the
// database row.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
	"github.com/nkarpov/go-superapp-backend/internal/repo"
)

const (
	defaultLanguage = "en"
	defaultTheme    = "light"
)

var supportedLanguages = map[string]struct{}{"en": {}, "ru": {}}
var supportedThemes = map[string]struct{}{"light": {}, "dark": {}}

// PrefsRepo defines the repository contract required by PrefsService.
type PrefsRepo interface {
	GetPreference(ctx context.Context, db *gorm.DB, userID string) (*domain.Preference, error)
	UpsertPreference(ctx context.Context, db *gorm.DB, userID, language, theme string) (*domain.Preference, error)
	GetWallet(ctx context.Context, db *gorm.DB, userID string) (*domain.Wallet, error)
	CreateWallet(ctx context.Context, db *gorm.DB, w *domain.Wallet) (*domain.Wallet, error)
}

// gormPrefsRepo adapts the package-level repo functions to PrefsRepo.
type gormPrefsRepo struct{}

func (gormPrefsRepo) GetPreference(ctx context.Context, db *gorm.DB, userID string) (*domain.Preference, error) {
	return repo.GetPreference(ctx, db, userID)
}

func (gormPrefsRepo) UpsertPreference(ctx context.Context, db *gorm.DB, userID, language, theme string) (*domain.Preference, error) {
	return repo.UpsertPreference(ctx, db, userID, language, theme)
}

func (gormPrefsRepo) GetWallet(ctx context.Context, db *gorm.DB, userID string) (*domain.Wallet, error) {
	return repo.GetWallet(ctx, db, userID)
}

func (gormPrefsRepo) CreateWallet(ctx context.Context, db *gorm.DB, w *domain.Wallet) (*domain.Wallet, error) {
	return repo.CreateWallet(ctx, db, w)
}

// PrefsService provides preference reads/writes and wallet access.
type PrefsService struct {
	DB   *gorm.DB
	Repo PrefsRepo
}

// NewPrefsService constructs a PrefsService bound to the GORM-backed repo.
func NewPrefsService(db *gorm.DB) *PrefsService {
	return &PrefsService{DB: db, Repo: gormPrefsRepo{}}
}

// Get returns the user's saved preferences, or the defaults when the user
// has never saved any.
func (s *PrefsService) Get(ctx context.Context, userID string) (*domain.Preference, error) {
	p, err := s.Repo.GetPreference(ctx, s.DB, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.Preference{UserID: userID, Language: defaultLanguage, Theme: defaultTheme}, nil
	}
	return p, err
}

// Update validates and persists the user's preferences. Either field may be
// blank to keep its current (or default) value.
func (s *PrefsService) Update(ctx context.Context, userID, lang, theme string) (*domain.Preference, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = current.Language
	} else if _, ok := supportedLanguages[lang]; !ok {
		return nil, ErrInvalidLanguage
	}

	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme == "" {
		theme = current.Theme
	} else if _, ok := supportedThemes[theme]; !ok {
		return nil, ErrInvalidTheme
	}

	return s.Repo.UpsertPreference(ctx, s.DB, userID, lang, theme)
}

// Wallet returns the user's mock wallet, generating and persisting one on
// first access. Subsequent calls reload the same record.
func (s *PrefsService) Wallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	w, err := s.Repo.GetWallet(ctx, s.DB, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh, err := generateWallet(userID)
	if err != nil {
		return nil, err
	}
	return s.Repo.CreateWallet(ctx, s.DB, fresh)
}
