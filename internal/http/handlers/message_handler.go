// Message HTTP handlers.
//
// This file exposes REST endpoints for chat messages:
//   - POST /chats/{id}/messages   (append a user message; assistant chats reply)
//   - GET  /chats/{id}/messages   (list paginated messages for a chat)
//
// Idempotency: if the client supplies an Idempotency-Key header and a
// previous successful result exists for (user, chat, key), the handler
// returns the recorded message and sets `Idempotency-Replayed: true`.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/assistant"
	"github.com/nkarpov/go-superapp-backend/internal/domain"
	"github.com/nkarpov/go-superapp-backend/internal/http/middleware"
	"github.com/nkarpov/go-superapp-backend/internal/repo"
	"github.com/nkarpov/go-superapp-backend/internal/services"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for sending a user message.
// Content is normalized by the handler (line endings, excessive blank lines)
// before being passed to the service layer.
type PostMessageRequest struct {
	// Content is the user prompt. It must be non-empty.
	Content string `json:"content" binding:"required,min=1" example:"Привет! Чем займёмся сегодня?"`
}

// PostMessageResponse is the JSON envelope for a newly created message. In
// assistant chats this is the reply; otherwise it is the stored user message.
type PostMessageResponse struct {
	Message *domain.Message `json:"message"`
}

// ListMessagesResponse contains a page of chat messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// blankRunRE matches runs of three or more newlines; collapsing them to two
// keeps paragraph breaks intact.
var blankRunRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text before it reaches the service:
// CRLF and lone CR become LF, long blank runs shrink, and surrounding
// whitespace goes away.
func sanitizeContent(raw string) string {
	s := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(raw)
	return strings.TrimSpace(blankRunRE.ReplaceAllString(s, "\n\n"))
}

// promptRuneLimit reads the configured prompt length cap off the concrete
// MessageService, defaulting conservatively when the handler was wired with
// a different implementation.
func promptRuneLimit(msgSvc MessageService) int {
	if ms, ok := msgSvc.(*services.MessageService); ok && ms.MaxPromptRunes > 0 {
		return ms.MaxPromptRunes
	}
	return 4000
}

// msgDB exposes the GORM handle of the concrete message service for ETag and
// idempotency lookups.
func (h *Handlers) msgDB() *gorm.DB {
	if svc, ok := h.msgSvc.(*services.MessageService); ok && svc.DB != nil {
		return svc.DB
	}
	return h.db
}

//
// Handlers
//

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message
// @Description Appends a user message to the chat. In assistant chats a generated reply is stored and returned.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "User ID that owns the chat"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       id               path    string  true  "Chat ID (UUID)"  format(uuid)
// @Param       body             body    handlers.PostMessageRequest  true  "User message payload"
//
// @Success     200  {object}  handlers.PostMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Chat not found"
// @Failure     502  {object}  handlers.ErrorResponse "Assistant upstream failed"
// @Router      /chats/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	chatID := c.Param("id")

	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	content := sanitizeContent(req.Content)
	maxRunes := promptRuneLimit(h.msgSvc)
	if maxRunes > 0 && utf8.RuneCountInString(content) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		return
	}
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	currentUser := userID(c)
	scope := "chat:" + chatID

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey == "" {
		idemKey = strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	}
	if idemKey != "" {
		if db := h.msgDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, scope, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMessage(db, rec.ResultID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, PostMessageResponse{Message: prev})
					return
				}
			}
		}
	}

	m, err := h.msgSvc.Post(ctx, currentUser, chatID, content)
	if err != nil {
		var apiErr *assistant.APIError
		switch {
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		case errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		case errors.Is(err, services.ErrEmptyPrompt):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		case errors.As(err, &apiErr):
			fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "assistant is unavailable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	// Idempotency (store path), best effort.
	if idemKey != "" {
		if db := h.msgDB(); db != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, scope, idemKey, m.ID, http.StatusOK, ttl)
		}
	}

	ok(c, http.StatusOK, PostMessageResponse{Message: m})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a chat
// @Description Returns a paginated list of messages for the given chat.
// @Tags        Messages
// @Produce     json
//
// @Param       id         path   string  true  "Chat ID (UUID)"  format(uuid)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Router      /chats/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	chatID := c.Param("id")

	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	// Weak ETag from message count plus the newest timestamp; a stats error
	// just skips the conditional path.
	if db := h.msgDB(); db != nil {
		if count, maxTS, err := repo.MessagesStats(ctx, db, chatID); err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"messages:%s:%d:%d"`, chatID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampPagination(c)

	items, total, err := h.msgSvc.ListPage(ctx, chatID, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: paginationFor(page, pageSize, total),
	})
}
