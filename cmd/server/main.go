package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"dataroom/internal/auth/blacklist"
	"dataroom/internal/auth/password"
	"dataroom/internal/auth/token"
	"dataroom/internal/config"
	"dataroom/internal/domain"
	"dataroom/internal/handler"
	"dataroom/internal/middleware"
	"dataroom/internal/repository/postgres"
	"dataroom/internal/service"
	"dataroom/internal/storage/local"
	"dataroom/internal/storage/s3"

	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage_backend", cfg.StorageBackend,
	)

	if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected", "max_conns", 25, "min_conns", 5)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	activityRepo := postgres.NewActivityRepository(repoConfig)

	// Blob storage backend
	var blobs domain.BlobStorage
	switch cfg.StorageBackend {
	case "s3":
		blobs, err = s3.New(ctx, s3.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize s3 storage: %v", err)
		}
	default:
		blobs, err = local.New(cfg.FileStoragePath)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
	}

	// Token revocation store; Redis when configured, in-process otherwise
	var revoked domain.TokenBlacklist
	if cfg.RedisAddr != "" {
		store := blacklist.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := store.Ping(ctx); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer store.Close()
		revoked = store
		logger.Info("redis token blacklist enabled", "addr", cfg.RedisAddr)
	} else {
		revoked = blacklist.NewMemory()
	}

	tokens := token.New(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTokenTTL)
	hasher := password.NewDefault()

	authService := service.NewAuthService(userRepo, hasher, tokens, revoked, logger)
	folderService := service.NewFolderService(folderRepo, fileRepo, blobs, activityRepo, logger)
	fileService := service.NewFileService(fileRepo, folderRepo, blobs, activityRepo, logger)
	searchService := service.NewSearchService(folderRepo, fileRepo, logger)
	userService := service.NewUserService(userRepo, logger)

	logger.Info("services initialized")

	mux := handler.NewRouter(handler.Handlers{
		Auth:   handler.NewAuthHandler(authService, logger),
		Folder: handler.NewFolderHandler(folderService, logger),
		File:   handler.NewFileHandler(fileService, cfg.MaxUploadBytes(), logger),
		Search: handler.NewSearchHandler(searchService, logger),
		User:   handler.NewUserHandler(userService, logger),
	})

	// Middleware chain, applied in reverse order (they wrap each other).
	// Order: CORS -> Recovery -> Logging -> Identity -> Routes
	var root http.Handler = mux
	root = middleware.Identity(tokens, revoked, logger)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS must run before auth to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
