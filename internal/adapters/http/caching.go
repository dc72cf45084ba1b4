package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/api/health" || path == "/api/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.Contains(path, "/geojson"):
			ttl = "public, max-age=3600" // Converted collections are immutable

		case strings.HasPrefix(path, "/api/features/nearby"):
			ttl = "public, max-age=60" // Location queries move with the crews

		case strings.HasPrefix(path, "/api/features/bbox"):
			ttl = "public, max-age=30" // Viewport queries refresh on pan

		case strings.HasPrefix(path, "/api/boundaries"):
			ttl = "public, max-age=300" // Work areas change rarely

		case strings.HasPrefix(path, "/api/images/"):
			ttl = "public, max-age=86400" // Stored photos never change

		case strings.HasPrefix(path, "/api/auth"):
			ttl = "no-store" // Never cache auth responses

		case strings.HasPrefix(path, "/api/"):
			ttl = "private, max-age=30" // Dashboard data is per-user
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
