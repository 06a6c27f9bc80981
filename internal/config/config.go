// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	JWTIssuer      string `mapstructure:"JWT_ISSUER"`
	JWTAudience    string `mapstructure:"JWT_AUDIENCE"`
	SessionTTLMins int    `mapstructure:"SESSION_TTL_MINUTES"`
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	// Board policy. These are deployment decisions, not code constants:
	// an operator tunes them without a rebuild.
	MinAge            int    `mapstructure:"MODERATION_MIN_AGE"`
	MaxIntroLen       int    `mapstructure:"MODERATION_MAX_INTRO_LEN"`
	AutoHideThreshold int    `mapstructure:"MODERATION_AUTO_HIDE_THRESHOLD"`
	AdminEmails       string `mapstructure:"MODERATION_ADMIN_EMAILS"`
	BannedWords       string `mapstructure:"MODERATION_BANNED_WORDS"`
	RequireNickname   bool   `mapstructure:"MODERATION_REQUIRE_NICKNAME"`

	SubmitRateLimit      int `mapstructure:"SUBMIT_RATE_LIMIT"`
	SubmitRateWindowSecs int `mapstructure:"SUBMIT_RATE_WINDOW_SECONDS"`
	ReportRateLimit      int `mapstructure:"REPORT_RATE_LIMIT"`
	ReportRateWindowSecs int `mapstructure:"REPORT_RATE_WINDOW_SECONDS"`

	// Development-only moderator bootstrap. Ignored outside the
	// development environment.
	DevModeratorEmail    string `mapstructure:"DEV_MODERATOR_EMAIL"`
	DevModeratorPassword string `mapstructure:"DEV_MODERATOR_PASSWORD"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config
	// We intentionally ignore this error as the config file may not exist yet
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to merge profile config 'config.%s.yml': %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	// Set default values for development
	viper.SetDefault("PORT", "8460")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "mystery_meet")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("JWT_ISSUER", "mystery-meet-api")
	viper.SetDefault("JWT_AUDIENCE", "mystery-meet-admin")
	viper.SetDefault("SESSION_TTL_MINUTES", 12*60)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("APP_ENV", "development")

	viper.SetDefault("MODERATION_MIN_AGE", 18)
	viper.SetDefault("MODERATION_MAX_INTRO_LEN", 280)
	viper.SetDefault("MODERATION_AUTO_HIDE_THRESHOLD", 3)
	viper.SetDefault("MODERATION_ADMIN_EMAILS", "")
	viper.SetDefault("MODERATION_BANNED_WORDS", "")
	viper.SetDefault("MODERATION_REQUIRE_NICKNAME", true)

	viper.SetDefault("SUBMIT_RATE_LIMIT", 1)
	viper.SetDefault("SUBMIT_RATE_WINDOW_SECONDS", 600)
	viper.SetDefault("REPORT_RATE_LIMIT", 5)
	viper.SetDefault("REPORT_RATE_WINDOW_SECONDS", 60)

	viper.SetDefault("DEV_MODERATOR_EMAIL", "")
	viper.SetDefault("DEV_MODERATOR_PASSWORD", "")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MinAge < 0 {
		return errors.New("MODERATION_MIN_AGE must not be negative")
	}
	if c.MaxIntroLen <= 0 {
		return errors.New("MODERATION_MAX_INTRO_LEN must be positive")
	}
	if c.AutoHideThreshold <= 0 {
		return errors.New("MODERATION_AUTO_HIDE_THRESHOLD must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if len(c.AdminEmailList()) == 0 {
			return errors.New("MODERATION_ADMIN_EMAILS must list at least one admin in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else {
		// Development/Test warnings
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}

// AdminEmailList returns the configured admin emails, lowercased and trimmed.
func (c *Config) AdminEmailList() []string {
	return splitList(c.AdminEmails)
}

// BannedWordList returns the configured banned words, lowercased and trimmed.
func (c *Config) BannedWordList() []string {
	return splitList(c.BannedWords)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
