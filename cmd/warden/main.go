package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tgwarden/internal/config"
	"tgwarden/internal/database"
	"tgwarden/internal/moderation"
	"tgwarden/internal/platforms/telegram"
	"tgwarden/internal/policy"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("🗄️ Initializing policy database...")
	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// The cache must be fully loaded before the first event; an
	// unreachable store here is fatal, never a partial start.
	policies := policy.NewCache(db)
	if err := policies.Load(); err != nil {
		log.Fatalf("Failed to load policy cache: %v", err)
	}
	eph := policy.NewEphemeral()

	log.Println("📱 Initializing Telegram bot...")
	client, err := telegram.NewClient(telegram.Config{BotToken: cfg.BotToken})
	if err != nil {
		log.Fatalf("Failed to create Telegram client: %v", err)
	}

	engine := moderation.NewEngine(policies, eph, moderation.DefaultContentFilter(), client.SelfID(), cfg.OwnerID)
	executor := moderation.NewExecutor(client, policies, cfg.OwnerID)
	handler := telegram.NewHandler(client, policies, eph, engine, executor, cfg.OwnerID)

	if err := client.Start(handler.HandleUpdate); err != nil {
		log.Fatalf("Failed to start Telegram client: %v", err)
	}

	// Channels don't emit service messages for info changes; the
	// reconciler polls them and re-applies title/photo locks.
	reconciler := moderation.NewReconciler(client, policies, cfg.ReconcileInterval, cfg.ReconcileWarmup)
	reconciler.Start()

	log.Println("✅ Moderation bot is running. Press Ctrl+C to stop.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	reconciler.Stop()
	client.Stop()
}
