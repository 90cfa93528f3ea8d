package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nkarpov/go-superapp-backend/internal/assistant"
	"github.com/nkarpov/go-superapp-backend/internal/catalog"
	"github.com/nkarpov/go-superapp-backend/internal/domain"
	"github.com/nkarpov/go-superapp-backend/internal/fulfillment"
	"github.com/nkarpov/go-superapp-backend/internal/repo"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------- test DB + repo shim ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&domain.Chat{}, &domain.Message{}, &domain.Favorite{},
		&domain.Preference{}, &domain.Wallet{}, &domain.Idempotency{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testChatRepo implements services.ChatRepo over the repo package, mirroring
// the shim the router uses.
type testChatRepo struct{}

func (testChatRepo) CreateChat(ctx context.Context, db *gorm.DB, userID, title string, assistant bool) (*domain.Chat, error) {
	return repo.CreateChat(ctx, db, userID, title, assistant)
}

func (testChatRepo) ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	return repo.ListChats(ctx, db, userID)
}

func (testChatRepo) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	return repo.GetChat(ctx, db, id, userID)
}

func (testChatRepo) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateChatTitle(ctx, db, id, userID, title)
}

func (testChatRepo) CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountChats(ctx, db, userID)
}

func (testChatRepo) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	return repo.ListChatsPage(ctx, db, userID, offset, limit)
}

// ---------- flexible service stubs ----------

type stubChatSvc struct {
	create    func(context.Context, string, string, bool) (*domain.Chat, error)
	list      func(context.Context, string) ([]domain.Chat, error)
	listPage  func(context.Context, string, int, int) ([]domain.Chat, int64, error)
	updateTit func(context.Context, string, string, string) error
}

func (s stubChatSvc) Create(ctx context.Context, u, title string, assistant bool) (*domain.Chat, error) {
	if s.create != nil {
		return s.create(ctx, u, title, assistant)
	}
	return &domain.Chat{ID: uuid.NewString(), UserID: u, Title: title, Assistant: assistant}, nil
}

func (s stubChatSvc) List(ctx context.Context, u string) ([]domain.Chat, error) {
	if s.list != nil {
		return s.list(ctx, u)
	}
	return nil, nil
}

func (s stubChatSvc) ListPage(ctx context.Context, u string, p, ps int) ([]domain.Chat, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, u, p, ps)
	}
	return nil, 0, nil
}

func (s stubChatSvc) UpdateTitle(ctx context.Context, u, id, title string) error {
	if s.updateTit != nil {
		return s.updateTit(ctx, u, id, title)
	}
	return nil
}

type stubMsgSvc struct {
	post     func(context.Context, string, string, string) (*domain.Message, error)
	listPage func(context.Context, string, int, int) ([]domain.Message, int64, error)
}

func (s stubMsgSvc) Post(ctx context.Context, u, chatID, prompt string) (*domain.Message, error) {
	if s.post != nil {
		return s.post(ctx, u, chatID, prompt)
	}
	return &domain.Message{ID: uuid.NewString(), ChatID: chatID, Role: "user", Content: prompt}, nil
}

func (s stubMsgSvc) ListPage(ctx context.Context, chatID string, p, ps int) ([]domain.Message, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, chatID, p, ps)
	}
	return nil, 0, nil
}

type stubVoiceSvc struct {
	voice func(context.Context, []byte) (*assistant.Result, error)
	text  func(context.Context, string) (*assistant.Result, error)
}

func (s stubVoiceSvc) Voice(ctx context.Context, audio []byte) (*assistant.Result, error) {
	if s.voice != nil {
		return s.voice(ctx, audio)
	}
	return &assistant.Result{Text: "ok"}, nil
}

func (s stubVoiceSvc) Text(ctx context.Context, utterance string) (*assistant.Result, error) {
	if s.text != nil {
		return s.text(ctx, utterance)
	}
	return &assistant.Result{Text: utterance}, nil
}

type stubPrefsSvc struct {
	get    func(context.Context, string) (*domain.Preference, error)
	update func(context.Context, string, string, string) (*domain.Preference, error)
	wallet func(context.Context, string) (*domain.Wallet, error)
}

func (s stubPrefsSvc) Get(ctx context.Context, u string) (*domain.Preference, error) {
	if s.get != nil {
		return s.get(ctx, u)
	}
	return &domain.Preference{UserID: u, Language: "en", Theme: "light"}, nil
}

func (s stubPrefsSvc) Update(ctx context.Context, u, lang, theme string) (*domain.Preference, error) {
	if s.update != nil {
		return s.update(ctx, u, lang, theme)
	}
	return &domain.Preference{UserID: u, Language: lang, Theme: theme}, nil
}

func (s stubPrefsSvc) Wallet(ctx context.Context, u string) (*domain.Wallet, error) {
	if s.wallet != nil {
		return s.wallet(ctx, u)
	}
	return &domain.Wallet{UserID: u, Address: "0xabc"}, nil
}

// failingCompleter simulates an assistant upstream outage.
type failingCompleter struct{}

func (failingCompleter) Complete(context.Context, string, string, []string) (string, error) {
	return "", &assistant.APIError{Status: 503, Body: "overloaded"}
}

// ---------- wiring ----------

// handlerParts collects the dependencies a test wants to override; zero
// values get working defaults.
type handlerParts struct {
	chat   ChatService
	msg    MessageService
	voice  VoiceService
	prefs  PrefsService
	store  *catalog.Store
	orders *fulfillment.Manager
	feed   *fulfillment.Feed
	db     *gorm.DB
}

// newTestHandlers builds a Handlers with defaults for anything the test did
// not set. The fulfillment manager uses hour-long delays so no automatic
// transition fires during a test.
func newTestHandlers(_ *testing.T, p handlerParts) *Handlers {
	if p.chat == nil {
		p.chat = stubChatSvc{}
	}
	if p.msg == nil {
		p.msg = stubMsgSvc{}
	}
	if p.voice == nil {
		p.voice = stubVoiceSvc{}
	}
	if p.prefs == nil {
		p.prefs = stubPrefsSvc{}
	}
	if p.store == nil {
		p.store = catalog.NewStore()
	}
	if p.feed == nil {
		p.feed = fulfillment.NewFeed(10)
	}
	if p.orders == nil {
		p.orders = fulfillment.NewManager(fulfillment.Config{
			SearchDelay: time.Hour,
			ResetDelay:  time.Hour,
		}, nil, p.feed)
	}
	return New(p.chat, p.msg, p.voice, p.prefs, p.store, p.orders, p.feed, p.db)
}

// perform runs one request through a fresh engine with the given route.
func perform(r *gin.Engine, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req = httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, newBodyReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func newBodyReader(s string) io.Reader { return bytes.NewBufferString(s) }
