package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/nkarpov/go-superapp-backend/internal/http/middleware"
	"github.com/nkarpov/go-superapp-backend/internal/services"
)

func Test_sanitizeContent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"привет", "привет"},
		{"  a\r\nb  ", "a\nb"},
		{"x\n\n\n\n\ny", "x\n\ny"},
		{"\r\r\n", ""},
	}
	for _, tc := range cases {
		if got := sanitizeContent(tc.in); got != tc.want {
			t.Fatalf("sanitizeContent(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func newMessageHarness(t *testing.T) (*gin.Engine, *services.MessageService, *services.ChatService) {
	t.Helper()
	db := newHandlerDB(t)
	chatSvc := services.NewChatService(db, testChatRepo{})
	msgSvc := &services.MessageService{
		DB:             db,
		MaxPromptRunes: 2000,
		MaxReplyRunes:  1500,
		TitleLocale:    language.Und,
		TitleMaxLen:    60,
	}
	h := newTestHandlers(t, handlerParts{chat: chatSvc, msg: msgSvc, db: db})

	r := gin.New()
	r.POST("/chats/:id/messages", h.PostMessage)
	r.GET("/chats/:id/messages", h.ListMessages)
	return r, msgSvc, chatSvc
}

func TestPostMessage_Validation(t *testing.T) {
	r, _, _ := newMessageHarness(t)

	// Malformed chat id -> 400
	w := perform(r, http.MethodPost, "/chats/oops/messages", `{"content":"hi"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid -> %d", w.Code)
	}

	// Missing content -> 400
	id := uuid.NewString()
	w = perform(r, http.MethodPost, "/chats/"+id+"/messages", `{}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing content -> %d", w.Code)
	}

	// Whitespace-only content -> 400 after sanitizing
	w = perform(r, http.MethodPost, "/chats/"+id+"/messages", `{"content":"  \r\n  "}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank content -> %d", w.Code)
	}

	// Unknown chat -> 404
	w = perform(r, http.MethodPost, "/chats/"+id+"/messages", `{"content":"привет"}`, map[string]string{"X-User-ID": "u1"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing chat -> %d body=%s", w.Code, w.Body.String())
	}
}

func TestPostMessage_PlainChat_StoresUserMessage(t *testing.T) {
	r, _, chatSvc := newMessageHarness(t)

	ch, err := chatSvc.Create(context.Background(), "u1", "Личное", false)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := perform(r, http.MethodPost, "/chats/"+ch.ID+"/messages", `{"content":"первое сообщение"}`, map[string]string{"X-User-ID": "u1"})
	if w.Code != http.StatusOK {
		t.Fatalf("post -> %d body=%s", w.Code, w.Body.String())
	}
	var out PostMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Message == nil || out.Message.Role != "user" || out.Message.Content != "первое сообщение" {
		t.Fatalf("unexpected message: %+v", out.Message)
	}
}

func TestPostMessage_IdempotentReplay(t *testing.T) {
	r, _, chatSvc := newMessageHarness(t)

	ch, err := chatSvc.Create(context.Background(), "u1", "Личное", false)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	hdr := map[string]string{
		"X-User-ID":                       "u1",
		middleware.HeaderIdempotencyKey: "retry-1",
	}

	w1 := perform(r, http.MethodPost, "/chats/"+ch.ID+"/messages", `{"content":"только один раз"}`, hdr)
	if w1.Code != http.StatusOK {
		t.Fatalf("first post -> %d body=%s", w1.Code, w1.Body.String())
	}
	var first PostMessageResponse
	if err := json.Unmarshal(w1.Body.Bytes(), &first); err != nil {
		t.Fatalf("json: %v", err)
	}

	w2 := perform(r, http.MethodPost, "/chats/"+ch.ID+"/messages", `{"content":"только один раз"}`, hdr)
	if w2.Code != http.StatusOK {
		t.Fatalf("replay -> %d body=%s", w2.Code, w2.Body.String())
	}
	if w2.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("expected replay header, got %q", w2.Header().Get("Idempotency-Replayed"))
	}
	var second PostMessageResponse
	if err := json.Unmarshal(w2.Body.Bytes(), &second); err != nil {
		t.Fatalf("json: %v", err)
	}
	if first.Message.ID != second.Message.ID {
		t.Fatalf("replay returned a different message: %s vs %s", first.Message.ID, second.Message.ID)
	}
}

func TestPostMessage_UpstreamFailure_Maps502(t *testing.T) {
	db := newHandlerDB(t)
	chatSvc := services.NewChatService(db, testChatRepo{})
	msgSvc := &services.MessageService{
		DB:        db,
		Assistant: failingCompleter{},
	}
	h := newTestHandlers(t, handlerParts{chat: chatSvc, msg: msgSvc, db: db})
	r := gin.New()
	r.POST("/chats/:id/messages", h.PostMessage)

	ch, err := chatSvc.Create(context.Background(), "u1", "Советы", true)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := perform(r, http.MethodPost, "/chats/"+ch.ID+"/messages", `{"content":"посоветуй фильм"}`, map[string]string{"X-User-ID": "u1"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("upstream failure -> %d body=%s", w.Code, w.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Code != ErrCodeUpstreamFailed {
		t.Fatalf("code = %q; want %q", resp.Code, ErrCodeUpstreamFailed)
	}
}

func TestListMessages_ETagAndNotFound(t *testing.T) {
	r, _, chatSvc := newMessageHarness(t)

	// Unknown chat -> 404
	w := perform(r, http.MethodGet, "/chats/"+uuid.NewString()+"/messages", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing chat -> %d", w.Code)
	}

	ch, err := chatSvc.Create(context.Background(), "u1", "Личное", false)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	hdr := map[string]string{"X-User-ID": "u1"}
	if w := perform(r, http.MethodPost, "/chats/"+ch.ID+"/messages", `{"content":"раз"}`, hdr); w.Code != http.StatusOK {
		t.Fatalf("seed post -> %d", w.Code)
	}

	w = perform(r, http.MethodGet, "/chats/"+ch.ID+"/messages", "", hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}
	var out ListMessagesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out.Messages) != 1 || out.Pagination.Total != 1 {
		t.Fatalf("unexpected page: %+v", out)
	}

	w2 := perform(r, http.MethodGet, "/chats/"+ch.ID+"/messages", "", map[string]string{"X-User-ID": "u1", "If-None-Match": etag})
	if w2.Code != http.StatusNotModified {
		t.Fatalf("etag replay -> %d", w2.Code)
	}
}
