package http

import (
	"crypto/sha256"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ETagMiddleware tags successful GET responses with a weak ETag derived from
// the body, and collapses them to 304 when If-None-Match already carries it.
func ETagMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Method() != fiber.MethodGet {
			return nil
		}
		res := c.Response()
		if res.StatusCode() != fiber.StatusOK || len(res.Body()) == 0 {
			return nil
		}

		sum := sha256.Sum256(res.Body())
		tag := fmt.Sprintf(`W/"%x"`, sum[:8])
		c.Set(fiber.HeaderETag, tag)

		if c.Get(fiber.HeaderIfNoneMatch) == tag {
			res.ResetBody()
			res.SetStatusCode(fiber.StatusNotModified)
		}
		return nil
	}
}
