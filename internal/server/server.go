// Package server contains the HTTP handlers and routing for the Hachiko API.
package server

import (
	"context"
	"log/slog"
	"time"

	"hachiko/internal/cache"
	"hachiko/internal/config"
	"hachiko/internal/database"
	"hachiko/internal/kv"
	"hachiko/internal/marketdata"
	"hachiko/internal/middleware"
	"hachiko/internal/models"
	"hachiko/internal/moderation"
	"hachiko/internal/ratelimit"
	"hachiko/internal/repository"
	"hachiko/internal/service"
	"hachiko/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	counters       kv.Store
	promMiddleware *fiberprometheus.FiberPrometheus

	users    repository.UserRepository
	messages repository.MessageRepository
	chat     *service.ChatService
	uploads  *storage.Client
	market   *marketdata.Client
	log      *slog.Logger
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	log := middleware.Logger

	// Counter backend is selected once for the process lifetime.
	counters := kv.Select(cfg, redisClient, log)
	if mem, ok := counters.(*kv.MemoryStore); ok {
		mem.StartSweeper(context.Background(), time.Minute)
	}

	moderator, err := moderation.NewModerator()
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewLimiter(
		counters,
		cfg.ChatRateLimit,
		time.Duration(cfg.ChatRateWindowSec)*time.Second,
		log,
	)

	users := repository.NewUserRepository(db)
	messages := repository.NewMessageRepository(db)

	uploads, err := storage.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if uploads != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uploads.EnsureBucket(ctx); err != nil {
			log.Warn("upload bucket unavailable, uploads disabled", "err", err)
			uploads = nil
		}
	}

	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		counters:       counters,
		promMiddleware: fiberprometheus.New("hachiko"),
		users:          users,
		messages:       messages,
		chat:           service.NewChatService(users, messages, limiter, moderator, log),
		uploads:        uploads,
		market:         marketdata.NewClient(),
		log:            log,
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP). The chat
	// submission quota is enforced separately inside the ingestion pipeline.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health", s.HealthCheck)
	api.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public chat boundary
	api.Post("/chat", s.PostChatMessage)
	api.Get("/chat", s.GetChatMessages)

	// Token price passthrough for the chart widget
	api.Get("/token-data", s.GetTokenData)

	// Uploads require an identity-provider token
	api.Post("/upload", middleware.AuthRequired, s.UploadAttachment)

	// Admin CRUD
	admin := api.Group("/admin", middleware.AuthRequired)
	admin.Get("/messages", s.AdminListMessages)
	admin.Delete("/messages/:id", s.AdminDeleteMessage)
	admin.Get("/users", s.AdminListUsers)
}

// HealthCheck reports service, database and Redis status.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"service": "hachiko",
		"status":  "healthy",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"timestamp": time.Now().UTC(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Hachiko API",
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			s.log.Error("unhandled error", "path", c.Path(), "err", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	s.log.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			s.log.Error("error closing sql DB", "err", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			s.log.Error("error closing redis", "err", rerr)
		}
	}

	s.log.Info("server shutdown complete")
	return nil
}
