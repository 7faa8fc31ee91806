package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/translab/translab-api/internal/application/service"
	"github.com/translab/translab-api/internal/config"
	"github.com/translab/translab-api/internal/infrastructure/database"
	"github.com/translab/translab-api/internal/infrastructure/repository"
	"github.com/translab/translab-api/internal/notification"
	"github.com/translab/translab-api/internal/presentation/http/handler"
	"github.com/translab/translab-api/internal/presentation/http/routes"
	"github.com/translab/translab-api/pkg/logging"
	"github.com/translab/translab-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.NewSugaredLogger(cfg.App.Env)
	defer logger.Sync() //nolint:errcheck

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		logger.Warnw("failed to seed default data", "error", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	branchService := service.NewBranchService(branchRepo)
	userService := service.NewUserService(userRepo, branchRepo)
	customerService := service.NewCustomerService(customerRepo)
	orderService := service.NewOrderService(orderRepo, auditRepo, logger)
	paymentService := service.NewPaymentService(orderRepo, logger)
	receiptService := service.NewReceiptService(receiptRepo, orderRepo, paymentService, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire Telegram senders for branches that have a bot configured and
	// start the outbox dispatcher.
	registry := notification.NewRegistry()
	branches, err := branchRepo.ListAll(ctx)
	if err != nil {
		logger.Warnw("failed to list branches for notifications", "error", err)
	}
	for _, b := range branches {
		if b.BotToken == "" || b.StaffChatID == 0 {
			continue
		}
		registry.Register(b.ID, notification.NewTelegramSender(b.BotToken, b.StaffChatID))
	}

	dispatcher := notification.NewDispatcher(
		outboxRepo,
		registry,
		logger,
		cfg.Outbox.PollInterval,
		cfg.Outbox.BatchSize,
		cfg.Outbox.MaxAttempts,
	)
	go dispatcher.Run(ctx)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Branch:   handler.NewBranchHandler(branchService),
		Order:    handler.NewOrderHandler(orderService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Receipt:  handler.NewReceiptHandler(receiptService),
		Customer: handler.NewCustomerHandler(customerService),
		User:     handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		BranchRepo:      branchRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Infow("starting server", "service", cfg.App.Name, "port", port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server shutdown failed", "error", err)
	}
}
