package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/geofieldx/geofieldx/internal/adapters/valkey"
)

// HealthHandler answers liveness probes without touching any dependency.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler probes the database, the event broker, and the cache. The
// database is required for readiness; NATS and Valkey report their state but
// the API serves without them.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		switch {
		case deps.DB == nil:
			checks["database"] = "not configured"
			ready = false
		default:
			if err := deps.DB.Pool.Ping(ctx); err != nil {
				checks["database"] = "error: " + err.Error()
				ready = false
			} else {
				checks["database"] = "ok"
			}
		}

		switch {
		case deps.NATS == nil:
			checks["nats"] = "not configured"
		case deps.NATS.IsConnected():
			checks["nats"] = "ok"
		default:
			checks["nats"] = "disconnected"
			ready = false
		}

		if deps.Cache == nil {
			checks["cache"] = "not configured"
		} else if _, err := deps.Cache.Get(ctx, "readiness:probe"); err != nil && !errors.Is(err, valkey.ErrMiss) {
			checks["cache"] = "error: " + err.Error()
			ready = false
		} else {
			checks["cache"] = "ok"
		}

		status, code := "ready", fiber.StatusOK
		if !ready {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
