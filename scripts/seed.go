//go:build ignore

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"wcm/internal/auth"
	"wcm/internal/config"
)

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Command-line flags
var (
	campaignsCount = flag.Int("campaigns", 3, "Number of sample campaigns to create")
	adminPassword  = flag.String("admin-password", "admin123", "Password for the default admin user")
	clearData      = flag.Bool("clear", false, "Clear existing seed data before inserting")
	showHelp       = flag.Bool("help", false, "Show usage information")
)

func main() {
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	printInfo("=== Campaign Manager Database Seeder ===\n")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	// Connect to database
	printInfo("Connecting to database...")
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	// Clear data if requested
	if *clearData {
		if err := clearSeedData(db); err != nil {
			printError(fmt.Sprintf("Failed to clear seed data: %v", err))
			os.Exit(1)
		}
	}

	// Seed the default admin user
	adminID, created, err := seedAdminUser(db, *adminPassword)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed admin user: %v", err))
		os.Exit(1)
	}

	// Seed sample campaigns owned by admin
	campaignsCreated, err := seedCampaigns(db, adminID, *campaignsCount)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed campaigns: %v", err))
		os.Exit(1)
	}

	// Print summary
	printInfo("\n=== Seeding Summary ===")
	if created {
		printSuccess("✓ Admin user created (username: admin)")
	} else {
		printSuccess("✓ Admin user already exists")
	}
	printSuccess(fmt.Sprintf("✓ Campaigns created: %d", campaignsCreated))
	printInfo("\nSeeding completed successfully!")
}

// clearSeedData removes existing seed data
func clearSeedData(db *sql.DB) error {
	printWarning("Clearing existing seed data...")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Campaigns cascade to recipients; reports cache rows go explicitly
	_, err = tx.Exec(`DELETE FROM reports WHERE campaign_id IN (
		SELECT id FROM campaigns WHERE name LIKE 'Weekend Sale%' OR name LIKE 'Product Launch%' OR name LIKE 'Holiday Greetings%'
	)`)
	if err != nil {
		return fmt.Errorf("failed to delete report cache rows: %w", err)
	}

	_, err = tx.Exec("DELETE FROM campaigns WHERE name LIKE 'Weekend Sale%' OR name LIKE 'Product Launch%' OR name LIKE 'Holiday Greetings%'")
	if err != nil {
		return fmt.Errorf("failed to delete campaigns: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	printSuccess("✓ Seed data cleared\n")
	return nil
}

// seedAdminUser creates the default admin account if it does not exist
func seedAdminUser(db *sql.DB, password string) (int, bool, error) {
	printInfo("Seeding admin user...")

	var id int
	err := db.QueryRow("SELECT id FROM users WHERE username = 'admin'").Scan(&id)
	if err == nil {
		printSuccess("✓ Admin user already exists (skipped)")
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	err = db.QueryRow(
		"INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id",
		"admin", "admin@example.com", hash,
	).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert admin user: %w", err)
	}

	printSuccess("✓ Admin user created")
	return id, true, nil
}

// seedCampaigns generates and inserts sample campaigns with recipients
func seedCampaigns(db *sql.DB, ownerID, count int) (int, error) {
	printInfo(fmt.Sprintf("Seeding %d campaigns...", count))

	campaigns := []struct {
		name          string
		description   string
		message       string
		mediaURL      *string
		mediaType     *string
		status        string
		scheduledTime *time.Time
		phoneNumbers  []string
	}{
		{
			name:          "Weekend Sale",
			description:   "Discount announcement for the weekend sale",
			message:       "Big weekend sale! Up to 50% off everything. Visit us today!",
			status:        "scheduled",
			scheduledTime: timePtr(time.Now().Add(48 * time.Hour)),
			phoneNumbers:  []string{"+254700010001", "+254700010002", "+254700010003"},
		},
		{
			name:         "Product Launch",
			description:  "New product line announcement with a teaser image",
			message:      "Our new collection just dropped. Be the first to check it out!",
			mediaURL:     stringPtr("https://cdn.example.com/launch.jpg"),
			mediaType:    stringPtr("image"),
			status:       "draft",
			phoneNumbers: []string{"+254700010004", "+254700010005"},
		},
		{
			name:         "Holiday Greetings",
			description:  "Season's greetings to loyal customers",
			message:      "Happy holidays from all of us! Thank you for your support this year.",
			status:       "draft",
			phoneNumbers: []string{"+254700010006", "+254700010007", "+254700010008", "+254700010009"},
		},
	}

	created := 0
	for i := 0; i < count && i < len(campaigns); i++ {
		c := campaigns[i]

		// Skip when a campaign of the same name already exists for the owner
		var exists bool
		err := db.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM campaigns WHERE name = $1 AND user_id = $2)",
			c.name, ownerID,
		).Scan(&exists)
		if err != nil {
			return created, fmt.Errorf("failed to check campaign %s: %w", c.name, err)
		}
		if exists {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return created, fmt.Errorf("failed to begin transaction: %w", err)
		}

		campaignID := uuid.NewString()
		_, err = tx.Exec(
			`INSERT INTO campaigns (id, name, description, message, media_url, media_type, scheduled_time, status, user_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			campaignID, c.name, c.description, c.message, c.mediaURL, c.mediaType, c.scheduledTime, c.status, ownerID,
		)
		if err != nil {
			tx.Rollback()
			return created, fmt.Errorf("failed to insert campaign %s: %w", c.name, err)
		}

		for _, phone := range c.phoneNumbers {
			_, err = tx.Exec(
				"INSERT INTO recipients (campaign_id, phone_number, status) VALUES ($1, $2, 'pending')",
				campaignID, phone,
			)
			if err != nil {
				tx.Rollback()
				return created, fmt.Errorf("failed to insert recipient for %s: %w", c.name, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return created, fmt.Errorf("failed to commit transaction: %w", err)
		}

		created++
	}

	printSuccess(fmt.Sprintf("✓ Seeded %d campaigns (skipped %d existing)", created, count-created))
	return created, nil
}

// Helper functions

// stringPtr returns a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// timePtr returns a pointer to a time.Time
func timePtr(t time.Time) *time.Time {
	return &t
}

// printSuccess prints a success message in green
func printSuccess(msg string) {
	fmt.Printf("%s%s%s\n", colorGreen, msg, colorReset)
}

// printError prints an error message in red
func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorRed, msg, colorReset)
}

// printInfo prints an info message in cyan
func printInfo(msg string) {
	fmt.Printf("%s%s%s\n", colorCyan, msg, colorReset)
}

// printWarning prints a warning message in yellow
func printWarning(msg string) {
	fmt.Printf("%s%s%s\n", colorYellow, msg, colorReset)
}

// printUsage displays usage information
func printUsage() {
	printInfo("=== Campaign Manager Database Seeder ===\n")
	fmt.Println("Usage: go run scripts/seed.go [flags]")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  go run scripts/seed.go")
	fmt.Println("  go run scripts/seed.go -campaigns=2")
	fmt.Println("  go run scripts/seed.go -clear")
	fmt.Println("\nNotes:")
	fmt.Println("  - The default admin user is admin / admin123 (change with -admin-password)")
	fmt.Println("  - The script is idempotent - running multiple times won't create duplicates")
	fmt.Println("  - Use -clear to remove existing seed campaigns before inserting new data")
}
