package handlers

import (
	"errors"

	"github.com/foster034/pal-content-api/internal/repository"
	"github.com/foster034/pal-content-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing or invalid field",
			"field": validationErr.Field,
		})
	case errors.Is(err, service.ErrInvalidLocationFormat),
		errors.Is(err, service.ErrNoSelectedLocation),
		errors.Is(err, service.ErrUnknownLocation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrNotConnected),
		errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrReauthorizationRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "reconnect needed",
		})
	case errors.Is(err, service.ErrRefreshTransient):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
}
