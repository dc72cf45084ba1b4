package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
)

// ListTeamsHandler returns all teams with member counts.
func ListTeamsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		teams, err := deps.Teams.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(teams)
	}
}

// GetTeamHandler returns a single team by ID.
func GetTeamHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "team id is required")
		}
		team, err := deps.Teams.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "team not found")
		}
		return c.JSON(team)
	}
}

// CreateTeamHandler registers a team in pending state.
func CreateTeamHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreateTeamInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		team, err := deps.Teams.Create(c.Context(), in)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(team)
	}
}

type approvalRequest struct {
	Approval string `json:"approval"`
}

// TeamApprovalHandler approves or rejects a team. Supervisor only.
func TeamApprovalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req approvalRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		team, err := deps.Teams.SetApproval(c.Context(), id, domain.ApprovalStatus(req.Approval))
		if err != nil {
			if !domain.ValidApprovalStatus(domain.ApprovalStatus(req.Approval)) {
				return errBadRequest(c, err.Error())
			}
			return errNotFound(c, "team not found")
		}
		return c.JSON(team)
	}
}

// TeamMembersHandler returns the accounts on a team.
func TeamMembersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		members, err := deps.Teams.Members(c.Context(), id)
		if err != nil {
			return errNotFound(c, "team not found")
		}
		return c.JSON(members)
	}
}

// DeleteTeamHandler removes a team. Supervisor only.
func DeleteTeamHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.Teams.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "team not found")
		}
		return c.SendStatus(204)
	}
}

// ListUsersHandler returns all accounts. Supervisor only.
func ListUsersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := deps.Users.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(users)
	}
}

// GetUserHandler returns a single account by ID.
func GetUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		user, err := deps.Users.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "user not found")
		}
		return c.JSON(user)
	}
}

// UserApprovalHandler approves or rejects an account. Supervisor only.
func UserApprovalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req approvalRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		user, err := deps.Users.SetApproval(c.Context(), id, domain.ApprovalStatus(req.Approval))
		if err != nil {
			if !domain.ValidApprovalStatus(domain.ApprovalStatus(req.Approval)) {
				return errBadRequest(c, err.Error())
			}
			return errNotFound(c, "user not found")
		}
		return c.JSON(user)
	}
}

type userTeamRequest struct {
	TeamID *string `json:"team_id"`
}

// UserTeamHandler moves an account between teams. Supervisor only.
func UserTeamHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req userTeamRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		user, err := deps.Users.SetTeam(c.Context(), id, req.TeamID)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(user)
	}
}
