package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"arrienda-backend/internal/config"
	"arrienda-backend/internal/jobs"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/repository/postgres"
	"arrienda-backend/internal/scheduler"
	"arrienda-backend/internal/service"
	"arrienda-backend/internal/wompi"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('purge-otp-codes', 'reconcile-payments', 'all')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Arrienda Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Jobs only need the payment service; notifications are the server's
	// concern.
	wompiClient := wompi.NewClient(cfg.Wompi.APIBaseURL, cfg.Wompi.PrivateKey)
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

	jobRunner := jobs.NewJobRunner(store, paymentSvc, cfg)

	// One-shot mode for manual runs and container cron
	if *runOnce != "" {
		runSingleJob(jobRunner, *runOnce)
		return
	}

	// Daemon mode with the in-process scheduler
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	logger.Info("Cronjob runner started, waiting for scheduled jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	logger.Info("Cronjob runner stopped")
}

func runSingleJob(jobRunner *jobs.JobRunner, name string) {
	switch name {
	case "purge-otp-codes":
		jobRunner.PurgeExpiredOtpCodes()
	case "reconcile-payments":
		jobRunner.ReconcilePendingPayments()
	case "all":
		jobRunner.RunAllMaintenanceJobs()
	default:
		log.Fatalf("Unknown job: %s", name)
	}
}
