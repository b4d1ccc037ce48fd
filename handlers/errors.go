package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edu-directory/services"
	"github.com/sahilchouksey/edu-directory/utils/response"
)

// RespondError maps service errors onto the response envelope. Repository
// details never reach the client.
func RespondError(c *fiber.Ctx, err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, notFoundMessage)
	case errors.Is(err, services.ErrRepositoryUnavailable), errors.Is(err, context.DeadlineExceeded):
		return response.ServiceUnavailable(c, "Directory temporarily unavailable, please retry")
	default:
		return response.InternalServerError(c, "")
	}
}
