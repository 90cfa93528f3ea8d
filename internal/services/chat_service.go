// Package services – ChatService
//
// This file implements the ChatService, which manages the lifecycle of
// messenger chats: creating them, listing them (plain and paginated), and
// renaming them, with title normalization and ownership checks on every
// path. Title handling stays minimal here because automatic title generation
// happens in MessageService on the first user message.
//
// Predictable failures surface as service-level sentinels (ErrChatNotFound)
// so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
	"golang.org/x/text/language"
)

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// ChatRepo is the persistence contract ChatService needs. The router wires
// it to the repo package's free functions through a small shim.
type ChatRepo interface {
	CreateChat(ctx context.Context, db *gorm.DB, userID, title string, assistant bool) (*domain.Chat, error)
	ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error)
	GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error)
	UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error
	CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error)
}

// ChatService provides chat-level operations: create, list, rename. It
// enforces title rules and ownership constraints.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the chat repository used by this service.
	Repo ChatRepo

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
	// TitleLocale is retained for compatibility; auto-titling is handled in MessageService.
	TitleLocale language.Tag
}

// NewChatService constructs a ChatService with sane defaults for title handling.
func NewChatService(db *gorm.DB, r ChatRepo) *ChatService {
	return &ChatService{
		DB:          db,
		Repo:        r,
		TitleMaxLen: 60,
		TitleLocale: language.Und,
	}
}

// Create inserts a new chat owned by userID. assistant marks the
// conversation as assistant-driven. The title is normalized and clipped;
// a blank one falls back to a default.
func (s *ChatService) Create(ctx context.Context, userID, title string, assistant bool) (*domain.Chat, error) {
	return s.Repo.CreateChat(ctx, s.DB, userID, s.cleanTitle(title, "New chat"), assistant)
}

// List returns all chats for a user. Prefer ListPage on large datasets.
func (s *ChatService) List(ctx context.Context, userID string) ([]domain.Chat, error) {
	return s.Repo.ListChats(ctx, s.DB, userID)
}

// ListPage returns one page of the user's chats plus the total count.
// Invalid page/pageSize values fall back to 1 and 20.
func (s *ChatService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Chat, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := s.Repo.CountChats(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Chat{}, 0, nil
	}

	items, err := s.Repo.ListChatsPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	return items, total, err
}

// UpdateTitle renames a chat after confirming it exists and belongs to the
// user. A blank title falls back to "Untitled".
func (s *ChatService) UpdateTitle(ctx context.Context, userID, chatID, title string) error {
	if _, err := s.Repo.GetChat(ctx, s.DB, chatID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChatNotFound
		}
		return err
	}
	return s.Repo.UpdateChatTitle(ctx, s.DB, chatID, userID, s.cleanTitle(title, "Untitled"))
}

// cleanTitle trims and collapses whitespace, substitutes fallback when the
// result is empty, and clips to the configured maximum rune length.
func (s *ChatService) cleanTitle(title, fallback string) string {
	title = whitespaceRE.ReplaceAllString(strings.TrimSpace(title), " ")
	if title == "" {
		title = fallback
	}
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}
