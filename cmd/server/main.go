package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "arrienda-backend/internal/api/http"
	"arrienda-backend/internal/config"
	"arrienda-backend/internal/jobs"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/repository/postgres"
	"arrienda-backend/internal/scheduler"
	"arrienda-backend/internal/security"
	"arrienda-backend/internal/service"
	"arrienda-backend/internal/wompi"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local development keeps secrets in .env; missing file is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Arrienda Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Wompi configuration", "environment", cfg.Wompi.Environment, "fee_percent", cfg.Wompi.ApprovalFeePercent)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Apply schema migrations
	if err := postgres.RunMigrations(context.Background(), db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations applied")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Notifier
	var notifier service.Notifier
	if cfg.Email.SendGridAPIKey != "" {
		notifier = service.NewSendGridNotifier(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	} else {
		logger.Warn("No SendGrid API key configured, email notifications disabled")
		notifier = service.NewNoopNotifier()
	}

	// Initialize Wompi client
	wompiClient := wompi.NewClient(cfg.Wompi.APIBaseURL, cfg.Wompi.PrivateKey)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	propertySvc := service.NewPropertyService(store.PropertyRepository)
	leaseSvc := service.NewLeaseService(
		store.LeaseRepository,
		store.PropertyRepository,
		store.UserRepository,
		store.TenantProfileRepository,
		store.PaymentRepository,
		store,
		notifier,
	)
	otpSvc := service.NewOtpService(
		store.LeaseRepository,
		store.OtpRepository,
		store.UserRepository,
		store.PropertyRepository,
		store,
		notifier,
		cfg.Otp.ExpiryMinutes,
		cfg.Otp.TestMode,
	)
	paymentSvc := service.NewPaymentService(
		store.LeaseRepository,
		store.PaymentRepository,
		store.WebhookEventRepository,
		store.UserRepository,
		store,
		wompiClient,
		service.WompiSettings{
			PublicKey:       cfg.Wompi.PublicKey,
			IntegritySecret: cfg.Wompi.IntegritySecret,
			EventsSecret:    cfg.Wompi.EventsSecret,
			CheckoutBaseURL: cfg.Wompi.CheckoutBaseURL,
			FeePercent:      cfg.Wompi.ApprovalFeePercent,
		},
	)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Auth:     authSvc,
		Property: propertySvc,
		Lease:    leaseSvc,
		Otp:      otpSvc,
		Payment:  paymentSvc,
		Tokens:   tokenManager,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the in-process scheduler
	jobRunner := jobs.NewJobRunner(store, paymentSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
