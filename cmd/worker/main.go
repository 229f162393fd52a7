package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"wcm/internal/config"
	"wcm/internal/queue"
	"wcm/internal/repository"
	"wcm/internal/service"
)

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

	// Initialize report service
	campaignRepo := repository.NewCampaignRepository(db)
	reportRepo := repository.NewReportRepository(db)
	reportSvc := service.NewReportService(campaignRepo, reportRepo)
	log.Println("✅ Services initialized")

	// Connect to RabbitMQ. Unlike the API, the worker has nothing to do
	// without it.
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	log.Println("✅ Connected to RabbitMQ")

	// Start consumer
	handler := createJobHandler(reportSvc)
	consumer, err := queue.NewConsumer(conn, queue.ReportQueue, handler)
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("✅ Worker started, consuming from queue: %s", queue.ReportQueue)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down gracefully...")

	if err := consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	log.Println("✅ Worker stopped")
}

// createJobHandler creates the report job processing handler
func createJobHandler(reportSvc *service.ReportService) queue.JobHandler {
	return func(job *queue.ReportJob) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Printf("📨 Refreshing report cache for campaign: %s", job.CampaignID)

		if err := reportSvc.RefreshCache(ctx, job.CampaignID); err != nil {
			log.Printf("❌ Failed to refresh report cache for %s: %v", job.CampaignID, err)
			return err
		}

		return nil
	}
}
