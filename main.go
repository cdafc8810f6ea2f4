package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/archivus/archive-service/internal/config"
	"github.com/archivus/archive-service/internal/events"
	"github.com/archivus/archive-service/internal/handlers"
	"github.com/archivus/archive-service/internal/repositories/postgres"
	"github.com/archivus/archive-service/internal/seed"
	"github.com/archivus/archive-service/internal/services"
	"github.com/archivus/archive-service/internal/storage"
	"github.com/archivus/archive-service/internal/utils"
	"github.com/archivus/archive-service/internal/validator"
	"github.com/archivus/archive-service/pkg"
)

func main() {
	seedOnly := flag.Bool("seed", false, "seed reference data and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repoManager := postgres.NewRepositoryManager(db)
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	repo := repoManager.GetRepository()

	if *seedOnly {
		if err := seed.Run(context.Background(), repo, slogLogger); err != nil {
			log.Fatalf("Failed to seed reference data: %v", err)
		}
		return
	}

	// The token blacklist needs Redis; a server without it could not
	// authenticate anyone.
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	var casdoorClient services.CasdoorVerifier
	if cfg.OAuthEnabled() {
		casdoorClient = casdoorsdk.NewClient(
			cfg.Casdoor.Endpoint,
			cfg.Casdoor.ClientID,
			cfg.Casdoor.ClientSecret,
			cfg.Casdoor.Cert,
			cfg.Casdoor.Organization,
			cfg.Casdoor.Application,
		)
	}

	bus := events.NewBus(slogLogger)

	serviceManager := services.NewServiceManager(services.ServiceManagerDeps{
		Repo:        repo,
		RedisClient: redisClient,
		Storage:     store,
		Publisher:   bus,
		Validator:   validator.NewBusinessValidator(),
		Casdoor:     casdoorClient,
		JWT:         cfg.JWT,
		Logger:      slogLogger,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Approved reviews feed the points ledger through the event bus.
	subCtx, stopSubscriber := context.WithCancel(context.Background())
	defer stopSubscriber()
	err = bus.SubscribeDocumentReviewed(subCtx, func(ctx context.Context, event events.DocumentReviewedEvent) error {
		return serviceManager.Points().AwardForApproval(ctx, services.DocumentApprovalEvent{
			DocumentID: event.DocumentID,
			UploaderID: event.UploaderID,
			ReviewerID: event.ReviewerID,
			Status:     event.Status,
			ReviewedAt: event.ReviewedAt,
		})
	})
	if err != nil {
		log.Fatalf("Failed to subscribe points worker: %v", err)
	}

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	stopSubscriber()

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	redisClient.Close()

	logger.Info("Server exited")
}
