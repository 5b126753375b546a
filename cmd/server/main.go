package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stallfinder/internal/config"
	"stallfinder/internal/handlers"
	"stallfinder/internal/middleware"
	"stallfinder/internal/repositories/mongodb"
	"stallfinder/internal/services"
	"stallfinder/pkg/cache"
	"stallfinder/pkg/database"
	"stallfinder/pkg/logger"
	"stallfinder/pkg/maps"
	"stallfinder/pkg/oauth"
	"stallfinder/pkg/storage"
	"stallfinder/pkg/websocket"
	"stallfinder/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     logFormat(cfg.App.Environment),
		Output:     "stdout",
		TimeFormat: time.RFC3339,
		Colors:     cfg.App.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Redis is optional. Without it the repositories and services just
	// skip their cache paths.
	var (
		repoCache    mongodb.CacheService
		serviceCache services.CacheService
	)
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisCache.Close()
		repoCache = redisCache
		serviceCache = redisCache
	} else {
		log.Warn("Redis disabled, running without caching")
	}

	verifier := buildVerifier(cfg, log)
	geocoder := buildGeocoder(cfg, log)
	fileStorage := buildStorage(cfg, log)

	// Browser sign-in needs the full authorization-code credentials;
	// mobile clients send ID tokens and work without them.
	var webFlow services.CodeExchanger
	if cfg.OAuth.Google.ClientSecret != "" && cfg.OAuth.Google.RedirectURL != "" {
		webFlow = oauth.NewGoogleWebFlow(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.OAuth.Google.RedirectURL)
	}

	wsHandler := websocket.NewHandler()

	// Repositories
	bathroomRepo := mongodb.NewBathroomRepository(db.Database, repoCache)
	reviewRepo := mongodb.NewReviewRepository(db.Database)
	usageRepo := mongodb.NewUsageRepository(db, repoCache)
	favoriteRepo := mongodb.NewFavoriteRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database, repoCache)

	// Services
	authService := services.NewAuthService(userRepo, verifier, webFlow, serviceCache, cfg.Security.JWTSecret, log)
	userService := services.NewUserService(userRepo, log)
	bathroomService := services.NewBathroomService(bathroomRepo, serviceCache, geocoder, log)
	reviewService := services.NewReviewService(reviewRepo, bathroomRepo, userRepo, wsHandler.GetHub(), log)
	usageService := services.NewUsageService(usageRepo, bathroomRepo, wsHandler.GetHub(), log)
	favoriteService := services.NewFavoriteService(favoriteRepo, bathroomRepo, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	bathroomHandler := handlers.NewBathroomHandler(bathroomService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	usageHandler := handlers.NewUsageHandler(usageService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	uploadHandler := handlers.NewUploadHandler(fileStorage)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.WithError(err).Fatal("Invalid trusted proxies")
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	authRequired := middleware.AuthRequired(cfg.Security.JWTSecret, authService)
	optionalAuth := middleware.OptionalAuth(cfg.Security.JWTSecret, authService)

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, authRequired)
		routes.SetupBathroomRoutes(v1, bathroomHandler, reviewHandler, usageHandler, favoriteHandler, authRequired, optionalAuth)
		routes.SetupUserRoutes(v1, userHandler, reviewHandler, usageHandler, favoriteHandler, authRequired, optionalAuth)
		routes.SetupUploadRoutes(v1, uploadHandler, authRequired)
		routes.SetupWebSocketRoutes(v1, wsHandler, authRequired)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}

func logFormat(environment string) string {
	if environment == "production" {
		return "json"
	}
	return "text"
}

// buildVerifier wires the configured identity providers. When Firebase
// Auth is enabled it fronts both Google and Apple sign-in, since
// Firebase ID tokens cover federated providers.
func buildVerifier(cfg *config.Config, log *logger.Logger) *oauth.VerifierMux {
	mux := oauth.NewVerifierMux()

	if cfg.OAuth.Firebase.Enabled {
		fb, err := oauth.NewFirebaseVerifier(context.Background(), cfg.OAuth.Firebase.CredentialsFile)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize Firebase Auth")
		}
		mux.Register("google", fb)
		mux.Register("apple", fb)
		return mux
	}

	if cfg.OAuth.Google.ClientID != "" {
		mux.Register("google", oauth.NewGoogleVerifier(cfg.OAuth.Google.ClientID))
	}
	if cfg.OAuth.Apple.ClientID != "" {
		mux.Register("apple", oauth.NewAppleVerifier(cfg.OAuth.Apple.ClientID))
	}

	return mux
}

func buildGeocoder(cfg *config.Config, log *logger.Logger) services.Geocoder {
	switch cfg.Maps.Provider {
	case "mapbox":
		if cfg.Maps.Mapbox.AccessToken == "" {
			log.Warn("Mapbox access token missing, building names will not be resolved")
			return nil
		}
		return maps.NewMapboxProvider(cfg.Maps.Mapbox.AccessToken)
	default:
		if cfg.Maps.GoogleMaps.APIKey == "" {
			log.Warn("Google Maps API key missing, building names will not be resolved")
			return nil
		}
		provider, err := maps.NewGoogleMapsProvider(cfg.Maps.GoogleMaps.APIKey)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize Google Maps client")
		}
		return provider
	}
}

func buildStorage(cfg *config.Config, log *logger.Logger) storage.Provider {
	switch cfg.Storage.Provider {
	case "s3":
		provider, err := storage.NewS3Provider(cfg.Storage.AWS.Region, cfg.Storage.AWS.Bucket, cfg.Storage.AWS.CDNDomain)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize S3 storage")
		}
		return provider
	case "gcs":
		provider, err := storage.NewGCSProvider(cfg.Storage.GCP.Bucket, cfg.Storage.GCP.CredentialsFile, cfg.Storage.GCP.CDNDomain)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize GCS storage")
		}
		return provider
	default:
		provider, err := storage.NewLocalProvider(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize local storage")
		}
		return provider
	}
}
