// Command migrate creates or updates the directory schema.
// Usage: go run ./cmd/migrate
package main

import (
	"log"

	"github.com/sahilchouksey/edu-directory/config"
	"github.com/sahilchouksey/edu-directory/database"
	"github.com/sahilchouksey/edu-directory/utils"
)

func main() {
	log.Println("=== Directory schema migration ===")

	if err := config.LoadENV(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
	env, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read configuration:", err)
	}
	logger := utils.NewLogger(env.GO_ENV, env.LOG_LEVEL)
	defer logger.Sync()

	store, err := database.StartGORM(env, logger)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := store.HealthCheck(); err != nil {
		log.Fatal("Database health check failed:", err)
	}

	log.Println("Migrations completed")
}
