package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"wcm/internal/config"
	"wcm/internal/handler"
	"wcm/internal/middleware"
	"wcm/internal/queue"
	"wcm/internal/repository"
	"wcm/internal/service"
)

const version = "1.0.0"

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Verify database connection
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Connected to database")

	// Connect to RabbitMQ. The API works without it; report cache
	// refreshes are simply skipped until the worker picks them up on
	// the next publish.
	var publisher *queue.Publisher
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Printf("⚠️  RabbitMQ unavailable, report cache refresh disabled: %v", err)
	} else {
		defer conn.Close()
		publisher, err = queue.NewPublisher(conn, queue.ReportQueue)
		if err != nil {
			log.Printf("⚠️  Failed to create publisher, report cache refresh disabled: %v", err)
			publisher = nil
		} else {
			log.Println("✅ Connected to RabbitMQ")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	senderSvc := service.NewSenderService(
		cfg.Sender.SuccessRate,
		time.Duration(cfg.Sender.MinDelayMs)*time.Millisecond,
		time.Duration(cfg.Sender.MaxDelayMs)*time.Millisecond,
	)
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	var campaignSvc *service.CampaignService
	if publisher != nil {
		campaignSvc = service.NewCampaignService(campaignRepo, recipientRepo, senderSvc, publisher)
	} else {
		campaignSvc = service.NewCampaignService(campaignRepo, recipientRepo, senderSvc, nil)
	}
	reportSvc := service.NewReportService(campaignRepo, reportRepo)
	healthSvc := service.NewHealthService(db, cfg.GetRabbitMQURL(), version)
	log.Println("✅ Services initialized")

	// Start the scheduled-campaign sweep
	var scheduler *service.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = service.NewScheduler(cfg.Scheduler.CronSpec, campaignRepo, campaignSvc)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		log.Printf("✅ Scheduler started (spec: %s)", cfg.Scheduler.CronSpec)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authSvc)
	campaignHandler := handler.NewCampaignHandler(campaignSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	healthHandler := handler.NewHealthHandler(healthSvc)

	// Create router
	router := mux.NewRouter()
	router.Use(middleware.Recovery)

	// Public routes
	router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")
	router.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Authenticated routes
	api := router.PathPrefix("/").Subrouter()
	api.Use(middleware.Authenticate(cfg.JWT.Secret))

	api.HandleFunc("/campaigns", campaignHandler.Create).Methods("POST")
	api.HandleFunc("/campaigns", campaignHandler.List).Methods("GET")
	api.HandleFunc("/campaigns/{id}", campaignHandler.GetByID).Methods("GET")
	api.HandleFunc("/campaigns/{id}", campaignHandler.Delete).Methods("DELETE")
	api.HandleFunc("/campaigns/{id}/status", campaignHandler.UpdateStatus).Methods("PUT")
	api.HandleFunc("/campaigns/{id}/send", campaignHandler.Send).Methods("POST")
	api.HandleFunc("/campaigns/{id}/report", reportHandler.CampaignReport).Methods("GET")
	api.HandleFunc("/reports", reportHandler.OwnerReports).Methods("GET")
	api.HandleFunc("/reports/summary", reportHandler.OwnerSummary).Methods("GET")

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 API Server starting on port :%s", cfg.Server.Port)
		log.Printf("📍 Health check: http://localhost:%s/health", cfg.Server.Port)
		log.Printf("🌍 Environment: %s", cfg.Env)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down gracefully...")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	// Let in-flight send fan-outs finish so no campaign is stranded
	// in sending.
	campaignSvc.WaitForSends()

	log.Println("✅ Server stopped")
}
