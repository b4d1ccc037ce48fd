package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edu-directory/database"
	"github.com/sahilchouksey/edu-directory/utils/response"
)

// HandleCheckHealth reports liveness and database reachability. A nil store
// means the directory is served from memory.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if store == nil {
		return c.JSON(fiber.Map{"status": "ok", "database": "memory"})
	}
	if err := store.HealthCheck(); err != nil {
		return response.ServiceUnavailable(c, "Database unreachable")
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "up"})
}
