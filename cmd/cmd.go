package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trailswipe-backend/internal/config"
	"trailswipe-backend/internal/handlers"
	"trailswipe-backend/internal/middleware"
	"trailswipe-backend/internal/repository"
	"trailswipe-backend/internal/repository/memory"
	"trailswipe-backend/internal/seed"
	"trailswipe-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to storage
	var (
		userRepo   repository.UserStore
		trailRepo  repository.TrailStore
		swipeRepo  repository.SwipeStore
		matchRepo  repository.MatchStore
		friendRepo repository.FriendshipStore
	)
	switch cfg.Database.Driver {
	case "memory":
		store := memory.NewStore()
		userRepo = store.Users()
		trailRepo = store.Trails()
		swipeRepo = store.Swipes()
		matchRepo = store.Matches()
		friendRepo = store.Friendships()
		log.Info().Msg("Using in-memory store")
	case "postgres":
		db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		// Test database connection
		if err := db.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping database")
		}
		log.Info().Msg("Database connection established")

		userRepo = repository.NewUserRepository(db)
		trailRepo = repository.NewTrailRepository(db)
		swipeRepo = repository.NewSwipeRepository(db)
		matchRepo = repository.NewMatchRepository(db)
		friendRepo = repository.NewFriendshipRepository(db)
	default:
		log.Fatal().Str("driver", cfg.Database.Driver).Msg("Unknown database driver")
	}

	// Connect to Redis; optional, the service degrades to no rate limiting
	// and no trail cache without it
	var redisClient *redis.Client
	if cfg.Redis.URI != "" {
		opts, err := redis.ParseURL(cfg.Redis.URI)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to parse Redis URI")
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, continuing without it")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Msg("Redis connection established")
		}
	}

	// Photo URL resolution is optional too
	var photoService *services.PhotoService
	if cfg.AWS.S3Bucket != "" {
		photoService, err = services.NewPhotoService(
			cfg.AWS.Region,
			cfg.AWS.S3Bucket,
			cfg.AWS.AccessKey,
			cfg.AWS.SecretKey,
			cfg.AWS.Endpoint,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create photo service")
		}
	}

	// Seed the trail catalog on first boot
	if cfg.Seed.TrailsFile != "" {
		if err := seed.Trails(context.Background(), cfg.Seed.TrailsFile, trailRepo); err != nil {
			log.Fatal().Err(err).Str("file", cfg.Seed.TrailsFile).Msg("Failed to seed trails")
		}
	}

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	trailService := services.NewTrailService(trailRepo, userRepo, photoService, redisClient)
	swipeService := services.NewSwipeService(swipeRepo, trailRepo, matchRepo, friendRepo)
	friendService := services.NewFriendService(friendRepo, userRepo)
	matchService := services.NewMatchService(matchRepo)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	trailHandler := handlers.NewTrailHandler(trailService)
	swipeHandler := handlers.NewSwipeHandler(swipeService)
	friendHandler := handlers.NewFriendHandler(friendService)
	matchHandler := handlers.NewMatchHandler(matchService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RateLimit(redisClient))
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Get("/auth/me", userHandler.Me)
			r.Put("/auth/profile", userHandler.UpdateProfile)

			r.Get("/trails/cards", trailHandler.Cards)
			r.Get("/trails/saved", trailHandler.Saved)
			r.Get("/trails/{id}", trailHandler.Get)

			r.Post("/swipes", swipeHandler.Create)
			r.Get("/swipes", swipeHandler.List)
			r.Post("/swipes/clear", swipeHandler.Clear)

			r.Post("/friends/invite", friendHandler.Invite)
			r.Post("/friends/accept", friendHandler.Accept)
			r.Post("/friends/decline", friendHandler.Decline)
			r.Get("/friends", friendHandler.List)
			r.Get("/friends/requests", friendHandler.Requests)

			r.Get("/matches", matchHandler.List)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
