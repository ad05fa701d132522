// Package config holds runtime configuration and the tuning constants for
// matching, caching and moderation.
package config

import (
	"fmt"
	"os"
)

// Config carries everything read from the environment at startup.
type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string

	HTTPAddr  string
	JWTSecret string

	// ModerationURL is the base URL of the external content moderation
	// service. Empty means every moderation call fails with a transport
	// error, which chat sends survive (advisory) and request creation
	// does not (blocking).
	ModerationURL string

	// Telegram reviewer notifications; both empty disables the notifier.
	TelegramBotToken     string
	TelegramReviewerChat string

	LogLevel string
}

// Load reads the configuration from the environment. Callers are expected
// to have loaded .env (godotenv) beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:             os.Getenv("MONGODB_URI"),
		MongoDatabase:        getenvDefault("MONGODB_DATABASE", "campusmentor"),
		RedisAddr:            getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		HTTPAddr:             getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		ModerationURL:        os.Getenv("MODERATION_URL"),
		TelegramBotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramReviewerChat: os.Getenv("TELEGRAM_REVIEWER_CHAT"),
		LogLevel:             getenvDefault("LOG_LEVEL", "info"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
