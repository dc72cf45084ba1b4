package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
)

// ListBoundariesHandler returns all work-area polygons.
func ListBoundariesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		boundaries, err := deps.Boundaries.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(boundaries)
	}
}

// GetBoundaryHandler returns a single boundary by ID.
func GetBoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "boundary id is required")
		}
		boundary, err := deps.Boundaries.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "boundary not found")
		}
		return c.JSON(boundary)
	}
}

// CreateBoundaryHandler creates a new work area. Supervisor only.
func CreateBoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreateBoundaryInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		user := currentUser(c)
		boundary, err := deps.Boundaries.Create(c.Context(), in, user.ID)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(boundary)
	}
}

// UpdateBoundaryHandler rewrites a boundary's name, polygon, and status.
func UpdateBoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		existing, err := deps.Boundaries.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "boundary not found")
		}

		var b domain.Boundary
		if err := c.BodyParser(&b); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		b.ID = existing.ID
		b.CreatedBy = existing.CreatedBy

		updated, err := deps.Boundaries.Update(c.Context(), &b)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(updated)
	}
}

type boundaryAssignRequest struct {
	TeamID *string `json:"team_id"`
}

// BoundaryAssignHandler links or unlinks the crew behind a boundary.
func BoundaryAssignHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req boundaryAssignRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		boundary, err := deps.Boundaries.AssignTeam(c.Context(), id, req.TeamID)
		if err != nil {
			return errNotFound(c, "boundary not found")
		}
		return c.JSON(boundary)
	}
}

// BoundaryFeaturesHandler returns features inside a boundary polygon.
func BoundaryFeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		features, err := deps.Boundaries.FeaturesInside(c.Context(), id)
		if err != nil {
			return errNotFound(c, "boundary not found")
		}
		return c.JSON(features)
	}
}

// DeleteBoundaryHandler removes a boundary.
func DeleteBoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.Boundaries.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "boundary not found")
		}
		return c.SendStatus(204)
	}
}
