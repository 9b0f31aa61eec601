package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PublicCache sets shared cache headers on successful GET responses
func PublicCache(maxAge time.Duration) fiber.Handler {
	return cacheHeaders("public", maxAge)
}

// PrivateCache sets private cache headers (for user-specific data)
func PrivateCache(maxAge time.Duration) fiber.Handler {
	return cacheHeaders("private", maxAge)
}

func cacheHeaders(scope string, maxAge time.Duration) fiber.Handler {
	value := scope + ", max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() == fiber.MethodGet && c.Response().StatusCode() == fiber.StatusOK {
			c.Set("Cache-Control", value)
		}

		return err
	}
}

// NoStore forbids caching; used on token and security responses
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")
		return c.Next()
	}
}
