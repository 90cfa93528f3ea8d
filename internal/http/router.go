// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. Cross-cutting concerns live here: tracing,
// correlation IDs, logging with redaction, panic recovery, metrics, CORS,
// security headers, idempotency, and rate limiting.
//
// All dependencies are injected, so the router itself stays deterministic.
// Observability comes first in the chain (OTel spans plus Prometheus), and
// the middleware order is safe by default: RequestID before logging before
// recovery.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	_ "github.com/nkarpov/go-superapp-backend/docs"
	"github.com/nkarpov/go-superapp-backend/internal/assistant"
	"github.com/nkarpov/go-superapp-backend/internal/catalog"
	"github.com/nkarpov/go-superapp-backend/internal/config"
	"github.com/nkarpov/go-superapp-backend/internal/domain"
	"github.com/nkarpov/go-superapp-backend/internal/fulfillment"
	"github.com/nkarpov/go-superapp-backend/internal/http/handlers"
	"github.com/nkarpov/go-superapp-backend/internal/http/middleware"
	"github.com/nkarpov/go-superapp-backend/internal/intent"
	"github.com/nkarpov/go-superapp-backend/internal/repo"
	"github.com/nkarpov/go-superapp-backend/internal/services"
)

// chatRepoShim satisfies services.ChatRepo by delegating to the repo
// package's free functions, keeping services unaware of the concrete repo.
type chatRepoShim struct{}

func (chatRepoShim) CreateChat(ctx context.Context, db *gorm.DB, userID, title string, assistant bool) (*domain.Chat, error) {
	return repo.CreateChat(ctx, db, userID, title, assistant)
}

func (chatRepoShim) ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	return repo.ListChats(ctx, db, userID)
}

func (chatRepoShim) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	return repo.GetChat(ctx, db, id, userID)
}

func (chatRepoShim) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateChatTitle(ctx, db, id, userID, title)
}

func (chatRepoShim) CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountChats(ctx, db, userID)
}

func (chatRepoShim) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	return repo.ListChatsPage(ctx, db, userID, offset, limit)
}

// corsAllowMethods and corsAllowHeaders are shared by both CORS postures.
var (
	corsAllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsAllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey}
	corsExposeHdrs   = []string{"X-Request-ID", "Content-Length"}
)

// installCORS mounts the CORS middleware. With no configured origins it
// allows everything and always sets ACAO: * so bare health checks (no Origin
// header) still see the header. With an allowlist it echoes the matching
// Origin and adds Vary.
func installCORS(r *gin.Engine, origins []string) {
	if len(origins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsAllowMethods,
			AllowHeaders:     corsAllowHeaders,
			ExposeHeaders:    corsExposeHdrs,
			AllowCredentials: false, // gin-contrib/cors forbids credentials with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
		return
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     corsAllowMethods,
		AllowHeaders:     corsAllowHeaders,
		ExposeHeaders:    corsExposeHdrs,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// RegisterRoutes attaches every middleware and endpoint to the Gin engine:
// observability, idempotency, rate limiting, CORS and security headers,
// health and metrics, then the versioned public API under cfg.APIBasePath.
//
// The in-memory pieces (catalog store, fulfillment manager, notification
// feed) are owned by main and injected; services over the database and the
// assistant upstream client are assembled here.
//
// The chain runs in this order: otelgin, RequestID, RedactingLogger,
// Recovery, body size limiter, Metrics, IdempotencyValidator, rate limiter,
// CORS, security headers, gzip. The validator sits before the rate limiter
// so replays can bypass it.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store *catalog.Store, orders *fulfillment.Manager, feed *fulfillment.Feed, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())

	// 1 MiB covers the largest base64 voice payloads.
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	installCORS(r, cfg.CORS.AllowedOrigins)

	// HSTS only fires when enabled and the request arrived over HTTPS.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Voice replies carry base64 audio and compress well.
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	upstream := assistant.NewClient(cfg.Assistant.APIKey,
		assistant.WithBaseURL(cfg.Assistant.BaseURL),
		assistant.WithTimeout(cfg.Assistant.Timeout),
	)
	voiceSvc := assistant.NewService(upstream, intent.NewRouter(intent.DefaultRules()))

	chatSvc := services.NewChatService(db, chatRepoShim{})
	msgSvc := &services.MessageService{
		DB:             db,
		Assistant:      upstream,
		MaxPromptRunes: 2000,
		MaxReplyRunes:  1500,
		HistoryLimit:   20,
		TitleMaxLen:    8,
		TitleLocale:    language.Russian,
	}
	prefsSvc := services.NewPrefsService(db)

	h := handlers.New(chatSvc, msgSvc, voiceSvc, prefsSvc, store, orders, feed, db)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Navigation
		api.GET("/routes", h.ListRoutes)

		// Chats
		api.POST("/chats", h.CreateChat)
		api.GET("/chats", h.ListChats)
		api.PUT("/chats/:id/title", h.UpdateChatTitle)

		// Messages
		api.GET("/chats/:id/messages", h.ListMessages)
		api.POST("/chats/:id/messages", h.PostMessage)

		// Catalog and favorites
		api.GET("/catalog/:section", h.ListItems)
		api.POST("/catalog/:section", h.CreateItem)
		api.POST("/catalog/:section/:id/favorite", h.ToggleFavorite)
		api.GET("/favorites", h.ListFavorites)

		// Fulfillment orders
		api.GET("/orders/:kind", h.GetOrder)
		api.POST("/orders/:kind", h.SubmitOrder)
		api.POST("/orders/:kind/start", h.StartOrder)
		api.POST("/orders/:kind/complete", h.CompleteOrder)

		// Assistant
		api.POST("/assistant/voice", h.VoiceCommand)
		api.POST("/assistant/text", h.TextCommand)

		// Preferences and wallet
		api.GET("/preferences", h.GetPreferences)
		api.PUT("/preferences", h.UpdatePreferences)
		api.GET("/wallet", h.GetWallet)
	}
}

// limitBody caps the request body at maxBytes via http.MaxBytesReader.
// Oversized requests fail when a downstream handler reads the body.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" and "" as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
