package middleware

import (
	"crypto/subtle"

	config "github.com/foster034/pal-content-api/configs"
	"github.com/gofiber/fiber/v2"
)

type AdminMiddleware struct {
	cfg config.Config
}

func NewAdminMiddleware(cfg config.Config) *AdminMiddleware {
	return &AdminMiddleware{cfg: cfg}
}

// RequireAdminKey guards the administrative repair routes with a shared key.
// Human-user authentication lives in the front end; this API only gates the
// repair surface.
func (m *AdminMiddleware) RequireAdminKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-Admin-Key")
		if m.cfg.AdminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(m.cfg.AdminKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid admin key",
			})
		}
		return c.Next()
	}
}
