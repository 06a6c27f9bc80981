// Package bootstrap establishes runtime dependencies (database, Redis)
// and performs explicit startup provisioning.
package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"github.com/wan8ting/mystery-meet/internal/cache"
	"github.com/wan8ting/mystery-meet/internal/config"
	"github.com/wan8ting/mystery-meet/internal/database"
	"github.com/wan8ting/mystery-meet/internal/identity"
	"github.com/wan8ting/mystery-meet/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to DB and Redis and runs development provisioning.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevModerator(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development moderator: %w", err)
	}

	return db, r, nil
}

// ensureDevModerator creates a moderator account from DEV_MODERATOR_*
// settings so a fresh development database is usable without the seeder.
// Outside the development environment this is a no-op.
func ensureDevModerator(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevModeratorEmail))
	if email == "" {
		return nil
	}
	password := cfg.DevModeratorPassword
	if password == "" {
		return fmt.Errorf("DEV_MODERATOR_PASSWORD must be set when DEV_MODERATOR_EMAIL is set")
	}

	hashedPassword, err := identity.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash moderator password: %w", err)
	}

	mod := models.Moderator{Email: email, Password: hashedPassword}
	if err := db.Where("email = ?", email).FirstOrCreate(&mod).Error; err != nil {
		return err
	}

	log.Printf("development moderator bootstrap ensured for %s", email)
	return nil
}
