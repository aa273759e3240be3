// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
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
	"gorm.io/gorm"

	"github.com/carewire/go-hospital-backend/internal/config"
	"github.com/carewire/go-hospital-backend/internal/domain"
	"github.com/carewire/go-hospital-backend/internal/http/handlers"
	"github.com/carewire/go-hospital-backend/internal/http/middleware"
	"github.com/carewire/go-hospital-backend/internal/hub"
	"github.com/carewire/go-hospital-backend/internal/ratelimit"
	"github.com/carewire/go-hospital-backend/internal/repo"
	"github.com/carewire/go-hospital-backend/internal/services"
)

// messageRepoShim adapts the repository free functions to the
// services.MessageRepo interface expected by the ChatService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type messageRepoShim struct{}

// CreateMessage proxies repo.CreateMessage.
func (messageRepoShim) CreateMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	return repo.CreateMessage(ctx, db, m)
}

// ListMessages proxies repo.ListMessages.
func (messageRepoShim) ListMessages(ctx context.Context, db *gorm.DB, key string, offset, limit int) ([]domain.ChatMessage, error) {
	return repo.ListMessages(ctx, db, key, offset, limit)
}

// CountMessages proxies repo.CountMessages.
func (messageRepoShim) CountMessages(ctx context.Context, db *gorm.DB, key string) (int64, error) {
	return repo.CountMessages(ctx, db, key)
}

// GetAttachment proxies repo.GetAttachment.
func (messageRepoShim) GetAttachment(ctx context.Context, db *gorm.DB, id string) (*domain.ChatMessage, error) {
	return repo.GetAttachment(ctx, db, id)
}

// userDirectoryShim adapts repo.UserExists to services.UserDirectory.
type userDirectoryShim struct{}

// UserExists proxies repo.UserExists.
func (userDirectoryShim) UserExists(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	return repo.UserExists(ctx, db, username)
}

// notificationRepoShim adapts the notification repository free functions to
// services.NotificationRepo.
type notificationRepoShim struct{}

func (notificationRepoShim) ListNotifications(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Notification, error) {
	return repo.ListNotifications(ctx, db, userID, offset, limit)
}

func (notificationRepoShim) CountUnread(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountUnread(ctx, db, userID)
}

func (notificationRepoShim) MarkRead(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.MarkRead(ctx, db, id, userID)
}

func (notificationRepoShim) MarkAllRead(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.MarkAllRead(ctx, db, userID)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured request logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter (attachment uploads set the cap)
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. Gzip (event stream and metrics excluded)
//  9. CORS and Security headers
// 10. Identity (API group only)
//
// assistant may be nil; the assistant endpoint is mounted only when the
// client is present and enabled in config.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, liveHub *hub.Hub, assistant services.AssistantClient, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured request logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit; sized for attachment uploads
	r.Use(limitBody(cfg.MaxUploadBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) Response compression. The SSE stream must flush incrementally and
	// /metrics is scraped by Prometheus directly, so both stay uncompressed.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{
		cfg.APIBasePath + "/events",
		"/metrics",
	})))

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Role"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
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
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Role"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/hub
	chatSvc := services.NewChatService(db, messageRepoShim{}, userDirectoryShim{}, liveHub)
	notifSvc := &services.NotificationService{DB: db, Repo: notificationRepoShim{}}

	var asstSvc handlers.AssistantService
	if cfg.AssistantEnabled && assistant != nil {
		asstSvc = &services.AssistantService{
			Limiter: ratelimit.NewSlidingWindow(cfg.AssistantLimit),
			Client:  assistant,
		}
	}

	h := handlers.New(chatSvc, notifSvc, asstSvc, liveHub)

	// Public API: identity is required on every endpoint under the base path.
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.Identity())
	{
		// Conversations
		api.POST("/conversations", h.StartConversation)
		api.GET("/conversations/:key/messages", h.GetHistory)
		api.POST("/conversations/:key/messages", h.SendMessage)
		api.POST("/conversations/:key/attachments", h.UploadAttachment)
		api.GET("/messages/:id/attachment", h.DownloadAttachment)

		// Live events
		api.GET("/events", h.StreamEvents)

		// Notification inbox
		api.GET("/notifications", h.ListNotifications)
		api.GET("/notifications/unread-count", h.UnreadCount)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
		api.POST("/notifications/read-all", h.MarkAllNotificationsRead)

		// Assistant
		if asstSvc != nil {
			api.POST("/assistant", h.AskAssistant)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
