package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
)

// ListTasksHandler returns tasks filtered by status, priority, and team.
func ListTasksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := ports.TaskFilter{
			Status:   domain.TaskStatus(c.Query("status")),
			Priority: domain.TaskPriority(c.Query("priority")),
			TeamID:   c.Query("team_id"),
			Offset:   c.QueryInt("offset", 0),
			Limit:    c.QueryInt("limit", 100),
		}
		if filter.Status != "" && !domain.ValidTaskStatus(filter.Status) {
			return errBadRequest(c, "unknown status "+string(filter.Status))
		}
		if filter.Priority != "" && !domain.ValidTaskPriority(filter.Priority) {
			return errBadRequest(c, "unknown priority "+string(filter.Priority))
		}

		tasks, total, err := deps.Tasks.List(c.Context(), filter)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: filter.Offset, Limit: filter.Limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: tasks, Pagination: pg})
	}
}

// GetTaskHandler returns a single task by ID.
func GetTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "task id is required")
		}
		task, err := deps.Tasks.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "task not found")
		}
		return c.JSON(task)
	}
}

// CreateTaskHandler creates a new field task.
func CreateTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreateTaskInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		user := currentUser(c)
		task, err := deps.Tasks.Create(c.Context(), in, user.ID)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(task)
	}
}

// UpdateTaskHandler rewrites a task's editable fields.
func UpdateTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		existing, err := deps.Tasks.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "task not found")
		}

		var t domain.Task
		if err := c.BodyParser(&t); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		t.ID = existing.ID
		t.CreatedBy = existing.CreatedBy

		updated, err := deps.Tasks.Update(c.Context(), &t)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(updated)
	}
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

// TaskStatusHandler moves a task along its workflow.
func TaskStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req taskStatusRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		task, err := deps.Tasks.SetStatus(c.Context(), id, domain.TaskStatus(req.Status))
		if err != nil {
			if strings.Contains(err.Error(), "cannot move task") ||
				strings.Contains(err.Error(), "unknown status") {
				return errConflict(c, err.Error())
			}
			return errNotFound(c, "task not found")
		}
		return c.JSON(task)
	}
}

type taskAssignRequest struct {
	TeamID     *string `json:"team_id"`
	AssigneeID *string `json:"assignee_id"`
}

// TaskAssignHandler hands a task to a team and optionally a user.
func TaskAssignHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req taskAssignRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		task, err := deps.Tasks.Assign(c.Context(), id, req.TeamID, req.AssigneeID)
		if err != nil {
			if strings.Contains(err.Error(), "without a team") {
				return errBadRequest(c, err.Error())
			}
			return errNotFound(c, "task not found")
		}
		return c.JSON(task)
	}
}

// DeleteTaskHandler removes a task.
func DeleteTaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.Tasks.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "task not found")
		}
		return c.SendStatus(204)
	}
}
