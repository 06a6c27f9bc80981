// Command main runs the database seeder for Mystery Meet.
package main

import (
	"flag"
	"log"

	"github.com/wan8ting/mystery-meet/internal/config"
	"github.com/wan8ting/mystery-meet/internal/database"
	"github.com/wan8ting/mystery-meet/internal/seed"
)

func main() {
	// Parse command line flags
	numPending := flag.Int("pending", 10, "Number of pending posts to create")
	numApproved := flag.Int("approved", 25, "Number of approved posts to create")
	numReported := flag.Int("reported", 5, "Number of reported posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	modEmail := flag.String("moderator", "", "Moderator email to create (optional)")
	modPassword := flag.String("password", "", "Moderator password (required with -moderator)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d pending, %d approved, %d reported, clean=%v\n",
		*numPending, *numApproved, *numReported, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumPending:        *numPending,
		NumApproved:       *numApproved,
		NumReported:       *numReported,
		ShouldClean:       *shouldClean,
		ModeratorEmail:    *modEmail,
		ModeratorPassword: *modPassword,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
