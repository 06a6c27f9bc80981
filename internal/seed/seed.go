// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/wan8ting/mystery-meet/internal/identity"
	"github.com/wan8ting/mystery-meet/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumPending  int
	NumApproved int
	NumReported int
	ShouldClean bool

	// Moderator credentials to create. Skipped when empty.
	ModeratorEmail    string
	ModeratorPassword string
}

var introTemplates = []string{
	"Looking for someone to explore %s with. I spend most weekends outdoors.",
	"New to the area, into %s and bad puns. Say hi if that sounds bearable.",
	"I collect vinyl and opinions about %s. Happy to trade either.",
	"Mostly here for conversation about %s. Coffee optional, curiosity required.",
	"Weeknight climber, weekend cook. Ask me about %s.",
}

// Run populates the database with sample posts in every moderation state.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		log.Println("Cleaning existing data...")
		if err := clean(db); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	if opts.ModeratorEmail != "" && opts.ModeratorPassword != "" {
		if err := createModerator(db, opts.ModeratorEmail, opts.ModeratorPassword); err != nil {
			return err
		}
		log.Printf("Created moderator %s", opts.ModeratorEmail)
	}

	created := 0
	for i := 0; i < opts.NumPending; i++ {
		if err := db.Create(buildPost(r, models.StatusPending, 0)).Error; err != nil {
			return fmt.Errorf("seeding pending post: %w", err)
		}
		created++
	}
	for i := 0; i < opts.NumApproved; i++ {
		if err := db.Create(buildPost(r, models.StatusApproved, 0)).Error; err != nil {
			return fmt.Errorf("seeding approved post: %w", err)
		}
		created++
	}
	for i := 0; i < opts.NumReported; i++ {
		// A couple of reports, sometimes enough to be auto-hidden.
		post := buildPost(r, models.StatusApproved, 1+r.Intn(4))
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("seeding reported post: %w", err)
		}
		created++
	}

	log.Printf("Seeded %d posts (%d pending, %d approved, %d reported)",
		created, opts.NumPending, opts.NumApproved, opts.NumReported)
	return nil
}

func buildPost(r *rand.Rand, status models.PostStatus, reports int) *models.Post {
	topic := gofakeit.Hobby()
	daysBack := r.Intn(30)
	hoursBack := r.Intn(24)

	post := &models.Post{
		Nickname:     gofakeit.FirstName(),
		Age:          18 + r.Intn(42),
		Contact:      gofakeit.Email(),
		Intro:        fmt.Sprintf(introTemplates[r.Intn(len(introTemplates))], topic),
		Status:       status,
		ReportsCount: reports,
	}
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
	return post
}

func createModerator(db *gorm.DB, email, password string) error {
	hash, err := identity.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing moderator password: %w", err)
	}
	mod := &models.Moderator{Email: email, Password: hash}
	if err := db.Where("email = ?", email).FirstOrCreate(mod).Error; err != nil {
		return fmt.Errorf("creating moderator: %w", err)
	}
	return nil
}

func clean(db *gorm.DB) error {
	for _, table := range []string{"moderation_actions", "posts"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
