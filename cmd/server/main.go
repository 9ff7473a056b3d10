package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/pesona/api/internal/config"
	"github.com/pesona/api/internal/database"
	"github.com/pesona/api/internal/handler"
	"github.com/pesona/api/internal/jobs"
	"github.com/pesona/api/internal/middleware"
	"github.com/pesona/api/internal/repository"
	"github.com/pesona/api/internal/service"
	"github.com/pesona/api/internal/storage"
	"github.com/pesona/api/pkg/jwt"
)

func main() {
	// Load .env if present; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// In development, generate a key pair on first run so the server
	// starts without manual key management
	if cfg.IsDevelopment() {
		if _, err := os.Stat(cfg.JWT.PrivateKeyPath); os.IsNotExist(err) {
			slog.Info("generating development JWT key pair", slog.String("path", cfg.JWT.PrivateKeyPath))
			if err := jwt.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
				slog.Error("failed to generate key pair", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Photo storage
	photoStore, err := storage.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		slog.Error("failed to initialize photo storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	destinationRepo := repository.NewDestinationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)

	// Services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService: jwtService,
		TokenRepo:  tokenRepo,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})

	destinationService := service.NewDestinationService(destinationRepo, reviewRepo, photoStore)
	eventService := service.NewEventService(eventRepo, destinationRepo)
	packageService := service.NewPackageService(packageRepo, destinationRepo)

	reviewService := service.NewReviewService(service.ReviewServiceConfig{
		ReviewRepo:    reviewRepo,
		DestRepo:      destinationRepo,
		Files:         photoStore,
		MaxPhotoBytes: cfg.Upload.MaxSizeBytes,
		MaxPhotos:     cfg.Upload.MaxPerReview,
	})

	itineraryService := service.NewItineraryService(itineraryRepo, destinationRepo)
	adminUsersService := service.NewAdminUsersService(service.AdminUsersServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
		ReviewRepo:   reviewRepo,
		Files:        photoStore,
	})
	seederService := service.NewSeederService(userRepo, destinationRepo)

	// Bootstrap the initial admin account when credentials are provided
	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if username != "" && email != "" && password != "" {
		if err := seederService.EnsureAdmin(ctx, username, email, password); err != nil {
			slog.Error("failed to ensure admin account", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if cfg.IsDevelopment() {
			admin, err := userRepo.GetByUsername(ctx, username)
			if err == nil && admin != nil {
				if err := seederService.SeedSampleCatalog(ctx, admin.ID); err != nil {
					slog.Error("failed to seed sample catalog", slog.String("error", err.Error()))
				}
			}
		}
	}

	// Background jobs
	tokenCleanup := jobs.NewTokenCleanup(tokenRepo, 1*time.Hour)
	tokenCleanup.Start()
	defer tokenCleanup.Stop()

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	destinationHandler := handler.NewDestinationHandler(destinationService)
	eventHandler := handler.NewEventHandler(eventService)
	packageHandler := handler.NewPackageHandler(packageService)
	reviewHandler := handler.NewReviewHandler(reviewService, cfg.Upload.MaxSizeBytes)
	itineraryHandler := handler.NewItineraryHandler(itineraryService)
	adminUsersHandler := handler.NewAdminUsersHandler(adminUsersService)

	// Router
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/healthz", handler.Health)

	authMiddleware := middleware.Auth(tokenService)
	adminMiddleware := middleware.AdminAuth(tokenService)
	optionalAuth := middleware.OptionalAuth(tokenService)

	// Auth endpoints
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /v1/auth/refresh", authHandler.Refresh)
	mux.Handle("POST /v1/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /v1/auth/password", authMiddleware(http.HandlerFunc(authHandler.ChangePassword)))

	// Destination catalog (public reads, admin writes)
	mux.HandleFunc("GET /v1/destinations", destinationHandler.List)
	mux.HandleFunc("GET /v1/destinations/locations", destinationHandler.ListLocations)
	mux.HandleFunc("GET /v1/destinations/{destinationId}", destinationHandler.Get)
	mux.Handle("POST /v1/destinations", adminMiddleware(http.HandlerFunc(destinationHandler.Create)))
	mux.Handle("PATCH /v1/destinations/{destinationId}", adminMiddleware(http.HandlerFunc(destinationHandler.Update)))
	mux.Handle("DELETE /v1/destinations/{destinationId}", adminMiddleware(http.HandlerFunc(destinationHandler.Delete)))

	// Cultural events (public reads, admin writes)
	mux.HandleFunc("GET /v1/events", eventHandler.List)
	mux.HandleFunc("GET /v1/events/{eventId}", eventHandler.Get)
	mux.HandleFunc("GET /v1/destinations/{destinationId}/events", eventHandler.ListByDestination)
	mux.Handle("POST /v1/events", adminMiddleware(http.HandlerFunc(eventHandler.Create)))
	mux.Handle("PATCH /v1/events/{eventId}", adminMiddleware(http.HandlerFunc(eventHandler.Update)))
	mux.Handle("DELETE /v1/events/{eventId}", adminMiddleware(http.HandlerFunc(eventHandler.Delete)))

	// Tourist packages (public reads, admin writes)
	mux.HandleFunc("GET /v1/packages", packageHandler.List)
	mux.HandleFunc("GET /v1/packages/{packageId}", packageHandler.Get)
	mux.Handle("POST /v1/packages", adminMiddleware(http.HandlerFunc(packageHandler.Create)))
	mux.Handle("PATCH /v1/packages/{packageId}", adminMiddleware(http.HandlerFunc(packageHandler.Update)))
	mux.Handle("PATCH /v1/packages/{packageId}/promote", adminMiddleware(http.HandlerFunc(packageHandler.Promote)))
	mux.Handle("DELETE /v1/packages/{packageId}", adminMiddleware(http.HandlerFunc(packageHandler.Delete)))

	// Reviews and photos
	mux.HandleFunc("GET /v1/destinations/{destinationId}/reviews", reviewHandler.ListByDestination)
	mux.Handle("POST /v1/destinations/{destinationId}/reviews", authMiddleware(http.HandlerFunc(reviewHandler.Create)))
	mux.HandleFunc("GET /v1/reviews/{reviewId}", reviewHandler.Get)
	mux.Handle("PATCH /v1/reviews/{reviewId}", authMiddleware(http.HandlerFunc(reviewHandler.Update)))
	mux.Handle("DELETE /v1/reviews/{reviewId}", authMiddleware(http.HandlerFunc(reviewHandler.Delete)))
	mux.Handle("GET /v1/profile/reviews", authMiddleware(http.HandlerFunc(reviewHandler.ListMine)))
	mux.HandleFunc("GET /v1/photos/{filename}", reviewHandler.GetPhoto)

	// Itineraries: public list and read for public entries, owner access
	// through optional auth on reads
	mux.HandleFunc("GET /v1/itineraries", itineraryHandler.ListPublic)
	mux.Handle("GET /v1/itineraries/mine", authMiddleware(http.HandlerFunc(itineraryHandler.ListMine)))
	mux.Handle("GET /v1/itineraries/{itineraryId}", optionalAuth(http.HandlerFunc(itineraryHandler.Get)))
	mux.Handle("POST /v1/itineraries", authMiddleware(http.HandlerFunc(itineraryHandler.Create)))
	mux.Handle("PATCH /v1/itineraries/{itineraryId}", authMiddleware(http.HandlerFunc(itineraryHandler.Update)))
	mux.Handle("PATCH /v1/itineraries/{itineraryId}/visibility", authMiddleware(http.HandlerFunc(itineraryHandler.SetVisibility)))
	mux.Handle("DELETE /v1/itineraries/{itineraryId}", authMiddleware(http.HandlerFunc(itineraryHandler.Delete)))

	// Admin user management
	mux.Handle("GET /v1/admin/users", adminMiddleware(http.HandlerFunc(adminUsersHandler.ListUsers)))
	mux.Handle("PATCH /v1/admin/users/{userId}/role", adminMiddleware(http.HandlerFunc(adminUsersHandler.UpdateRole)))
	mux.Handle("DELETE /v1/admin/users/{userId}", adminMiddleware(http.HandlerFunc(adminUsersHandler.DeleteUser)))

	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// setupLogging installs the process-wide logger: colorized output for
// development terminals, JSON lines for production collectors.
func setupLogging(cfg *config.Config) {
	var loggerHandler slog.Handler
	if cfg.IsDevelopment() {
		loggerHandler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	} else {
		loggerHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	slog.SetDefault(slog.New(loggerHandler))
}
