// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the lifecycle of chat messages and assistant replies. It validates
// inputs, checks chat ownership, asks the external assistant for a reply in
// assistant-marked chats, and persists the user/assistant message pair
// atomically. Plain chats store only what the user posts.
//
// Optional enhancement: it also auto-generates a chat title from the first
// user prompt when the chat still has a default/empty title.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include chat/user identifiers and pagination parameters where applicable.

package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
	"github.com/nkarpov/go-superapp-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	// default titles considered placeholders, eligible for auto-generation
	defaultTitleNew      = "New chat"
	defaultTitleUntitled = "Untitled"

	// maximum prior messages forwarded to the assistant as context
	defaultHistoryLimit = 20
)

// Completer produces a conversational reply for a prompt. The assistant
// client satisfies it; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, prompt, service string, history []string) (string, error)
}

// MessageService coordinates message persistence and assistant replies.
type MessageService struct {
	DB *gorm.DB

	// Assistant answers prompts in assistant-marked chats. When nil, all
	// chats behave as plain ones.
	Assistant Completer

	// Optional guards
	MaxPromptRunes int
	MaxReplyRunes  int
	HistoryLimit   int

	// Title generation config
	TitleLocale language.Tag
	TitleMaxLen int
}

// Post validates the prompt, verifies chat ownership, and persists the user
// message. In an assistant chat it additionally obtains a reply and persists
// both messages in one transaction; the returned message is then the
// assistant's. It may auto-generate a chat title from the first prompt.
func (s *MessageService) Post(ctx context.Context, userID, chatID, prompt string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Post",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	// Normalize & validate prompt
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(prompt) > s.MaxPromptRunes {
		return nil, ErrTooLong
	}

	// Ensure the chat exists and belongs to the user
	chat, err := repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		return nil, ErrChatNotFound
	}

	// Obtain the reply before opening the transaction; upstream latency
	// must not hold a write lock.
	var reply string
	if chat.Assistant && s.Assistant != nil {
		history, err := s.history(ctx, chatID)
		if err != nil {
			return nil, err
		}
		reply, err = s.complete(ctx, prompt, history)
		if err != nil {
			return nil, err
		}
	}

	var result *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userMsg, err := repo.CreateMessage(tx, chatID, roleUser, prompt)
		if err != nil {
			return err
		}
		result = userMsg

		if reply != "" {
			m, err := repo.CreateMessage(tx, chatID, roleAssistant, reply)
			if err != nil {
				return err
			}
			result = m
		}

		// A placeholder title gets replaced with one derived from the prompt.
		if placeholderTitle(chat.Title) {
			if gen := s.titleFromPrompt(prompt); gen != "" {
				if uerr := tx.Model(&domain.Chat{}).Where("id = ?", chatID).Update("title", gen).Error; uerr == nil {
					chat.Title = gen
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Clip reply length if configured
	if s.MaxReplyRunes > 0 && utf8.RuneCountInString(result.Content) > s.MaxReplyRunes {
		runes := []rune(result.Content)
		result.Content = string(runes[:s.MaxReplyRunes])
	}

	return result, nil
}

// ListPage returns paginated messages for a chat.
func (s *MessageService) ListPage(ctx context.Context, chatID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	// The chat must exist before pagination makes sense.
	var chatCount int64
	if err := s.DB.WithContext(ctx).Model(&domain.Chat{}).Where("id = ?", chatID).Count(&chatCount).Error; err != nil {
		return nil, 0, err
	}
	if chatCount == 0 {
		return nil, 0, ErrChatNotFound
	}

	total, err := repo.CountMessages(s.DB.WithContext(ctx), chatID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	items, err := repo.ListMessagesPage(s.DB.WithContext(ctx), chatID, (page-1)*pageSize, pageSize)
	return items, total, err
}

// history returns the chat's most recent message bodies, oldest first.
func (s *MessageService) history(ctx context.Context, chatID string) ([]string, error) {
	limit := s.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	msgs, err := repo.ListMessages(s.DB.WithContext(ctx), chatID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Content)
	}
	return out, nil
}

// complete wraps the upstream call in its own span so slow replies are
// visible in traces.
func (s *MessageService) complete(ctx context.Context, prompt string, history []string) (string, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "complete",
		trace.WithAttributes(attribute.Int("history.len", len(history))),
	)
	defer span.End()

	reply, err := s.Assistant.Complete(ctx, prompt, "chat", history)
	if err != nil {
		return "", fmt.Errorf("assistant reply: %w", err)
	}
	return reply, nil
}

// placeholderTitle reports whether a title is still one of the defaults and
// therefore eligible for auto-generation.
func placeholderTitle(current string) bool {
	switch strings.TrimSpace(strings.ToLower(current)) {
	case "", strings.ToLower(defaultTitleNew), strings.ToLower(defaultTitleUntitled):
		return true
	}
	return false
}

// titleFromPrompt derives a short title from the prompt: the first eight
// non-stop-words, title-cased for the configured locale, clipped to
// TitleMaxLen runes. Returns "" when nothing usable remains.
func (s *MessageService) titleFromPrompt(prompt string) string {
	toks := titleWordRE.FindAllString(strings.ToLower(strings.TrimSpace(prompt)), -1)
	if len(toks) == 0 {
		return ""
	}

	locale := s.TitleLocale
	if locale == language.Und {
		locale = language.English
	}
	caser := cases.Title(locale)

	words := make([]string, 0, 8)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		words = append(words, caser.String(w))
		if len(words) == 8 {
			break
		}
	}
	if len(words) == 0 {
		return ""
	}

	title := strings.Join(words, " ")
	max := s.TitleMaxLen
	if max <= 0 {
		max = 60
	}
	if utf8.RuneCountInString(title) > max {
		title = string([]rune(title)[:max])
	}
	return title
}

var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// English plus common Russian function words, enough to keep generated
// titles compact.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
	"и": {}, "в": {}, "на": {}, "с": {}, "по": {}, "за": {}, "до": {}, "из": {},
	"не": {}, "что": {}, "как": {}, "это": {}, "а": {}, "но": {}, "у": {}, "мне": {},
}
