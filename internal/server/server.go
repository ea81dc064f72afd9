// Package server contains the HTTP handlers for the feed API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"konishi/internal/cache"
	"konishi/internal/config"
	"konishi/internal/database"
	"konishi/internal/featureflags"
	"konishi/internal/middleware"
	"konishi/internal/models"
	"konishi/internal/observability"
	"konishi/internal/repository"
	"konishi/internal/service"
	"konishi/internal/upload"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	validate       *validator.Validate
	featureFlags   *featureflags.Manager
	feedService    *service.FeedService
	postHydrator   *service.PostHydrator
}

// NewServer connects the store, Redis and upload backend named by cfg and
// builds a Server on top of them.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	images, err := upload.NewResolver(cfg)
	if err != nil {
		return nil, fmt.Errorf("upload backend: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.InitRedis(cfg.RedisURL), images)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case rate limiting fails open.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images upload.ImageResolver) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database handle")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	authors := service.NewAuthorService(userRepo)
	nested := service.NewCommentHydrator(commentRepo, replyRepo, likeRepo, authors)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: observability.HTTPMetrics(),
		validate:       newValidator(),
		featureFlags:   flags,
		feedService:    service.NewFeedService(postRepo, commentRepo, flags),
		postHydrator:   service.NewPostHydrator(postRepo, commentRepo, likeRepo, authors, nested, images),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())

	// CORS runs before anything that can short-circuit so error responses
	// still carry the headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextLogger())
	app.Use(middleware.StructuredLogger())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.ReadinessCheck)
	app.Get("/health/live", s.LivenessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Every feed route needs a viewer. The context logger runs again so the
	// request logger picks up user_id.
	api := app.Group("/api", middleware.AuthRequired(s.config.JWTSecret), middleware.ContextLogger())

	limit := middleware.RateLimit(s.redis, s.config.RateLimitPerMinute, time.Minute, "feed")

	feed := api.Group("/feed", limit)
	feed.Get("/", s.GetFeed)
	feed.Post("/posts", s.GetFeedPosts)

	api.Get("/posts/:public_id", limit, s.GetPost)
	api.Get("/feature-flags", s.GetFeatureFlags)
}

// App builds the fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "konishi feed API",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	s.app = app
	return app
}

// Start serves HTTP on the configured port until Shutdown is called.
func (s *Server) Start() error {
	app := s.App()
	log.Info().Str("port", s.config.Port).Msg("HTTP server listening")
	return app.Listen(":" + s.config.Port)
}

// Shutdown drains in-flight requests and releases the store and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Error().Err(err).Msg("error shutting down HTTP server")
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("error closing sql DB")
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Error().Err(rerr).Msg("error closing redis")
		}
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}

// errorHandler renders errors that escaped the handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.Envelope{
			Success: false,
			Message: fiberErr.Message,
		})
	}
	return respondError(c, err)
}
