package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram configuration
	BotToken string

	// Owner (the only identity allowed to issue commands)
	OwnerID int64

	// Database configuration
	DatabasePath string

	// Channel reconciliation job
	ReconcileInterval time.Duration
	ReconcileWarmup   time.Duration
}

// Load reads configuration from the environment. The bot token, database
// path and owner id are mandatory; anything else falls back to defaults.
func Load() (*Config, error) {
	token := getEnv("BOT_TOKEN", "")
	if token == "" {
		return nil, fmt.Errorf("missing BOT_TOKEN env var")
	}

	dbPath := getEnv("DATABASE_PATH", "")
	if dbPath == "" {
		return nil, fmt.Errorf("missing DATABASE_PATH env var")
	}

	ownerID, err := strconv.ParseInt(getEnv("OWNER_ID", "0"), 10, 64)
	if err != nil || ownerID == 0 {
		return nil, fmt.Errorf("missing/invalid OWNER_ID env var")
	}

	intervalSecs, _ := strconv.Atoi(getEnv("RECONCILE_INTERVAL", "60"))
	if intervalSecs <= 0 {
		intervalSecs = 60
	}

	return &Config{
		BotToken:          token,
		OwnerID:           ownerID,
		DatabasePath:      dbPath,
		ReconcileInterval: time.Duration(intervalSecs) * time.Second,
		ReconcileWarmup:   10 * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
