// Handler wiring.
//
// This file declares the service contracts consumed by the HTTP layer and
// the Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results into
// HTTP responses. Each endpoint group lives in its own file.
package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/assistant"
	"github.com/nkarpov/go-superapp-backend/internal/catalog"
	"github.com/nkarpov/go-superapp-backend/internal/domain"
	"github.com/nkarpov/go-superapp-backend/internal/fulfillment"
	"github.com/nkarpov/go-superapp-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ChatService defines chat lifecycle operations consumed by HTTP handlers.
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Create starts a new chat for userID with an optional title.
	Create(ctx context.Context, userID, title string, assistant bool) (*domain.Chat, error)
	// List returns all chats for a user (legacy, non-paginated).
	List(ctx context.Context, userID string) ([]domain.Chat, error)
	// ListPage returns a page of chats for a user and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Chat, int64, error)
	// UpdateTitle renames a chat that belongs to userID.
	UpdateTitle(ctx context.Context, userID, chatID, title string) error
}

// MessageService defines message posting and retrieval operations.
type MessageService interface {
	// Post appends a user message (and, in assistant chats, a reply).
	Post(ctx context.Context, userID, chatID, prompt string) (*domain.Message, error)
	// ListPage returns a page of messages within a chat and the total count.
	ListPage(ctx context.Context, chatID string, page, pageSize int) ([]domain.Message, int64, error)
}

// VoiceService interprets spoken and typed commands into navigation results.
type VoiceService interface {
	Voice(ctx context.Context, audio []byte) (*assistant.Result, error)
	Text(ctx context.Context, utterance string) (*assistant.Result, error)
}

// PrefsService owns per-user preferences and the mock wallet.
type PrefsService interface {
	Get(ctx context.Context, userID string) (*domain.Preference, error)
	Update(ctx context.Context, userID, language, theme string) (*domain.Preference, error)
	Wallet(ctx context.Context, userID string) (*domain.Wallet, error)
}

//
// Handler wiring
//

// Handlers groups all HTTP endpoints of the API. It depends on abstract
// service interfaces where practical to keep transport concerns separate
// from business logic; the catalog store and the fulfillment manager are
// concrete in-memory components and are used directly.
type Handlers struct {
	chatSvc  ChatService
	msgSvc   MessageService
	voiceSvc VoiceService
	prefsSvc PrefsService

	catalog *catalog.Store
	orders  *fulfillment.Manager
	feed    *fulfillment.Feed

	// db backs favorites and idempotency records.
	db *gorm.DB
}

// New constructs a Handlers instance bound to the given services and stores.
func New(
	chatSvc ChatService,
	msgSvc MessageService,
	voiceSvc VoiceService,
	prefsSvc PrefsService,
	store *catalog.Store,
	orders *fulfillment.Manager,
	feed *fulfillment.Feed,
	db *gorm.DB,
) *Handlers {
	return &Handlers{
		chatSvc:  chatSvc,
		msgSvc:   msgSvc,
		voiceSvc: voiceSvc,
		prefsSvc: prefsSvc,
		catalog:  store,
		orders:   orders,
		feed:     feed,
		db:       db,
	}
}

// userID extracts the authenticated user id from Gin context (set by
// upstream middleware). If absent, it falls back to the "X-User-ID" header,
// and finally to "demo-user".
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginationFor computes the response metadata for a page.
func paginationFor(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
