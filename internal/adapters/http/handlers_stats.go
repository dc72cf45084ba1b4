package http

import (
	"github.com/gofiber/fiber/v2"
)

// DashboardStats holds row counts for the field-operations dashboard header.
type DashboardStats struct {
	Features          int    `json:"features"`
	FeaturesCompleted int    `json:"features_completed"`
	TasksOpen         int    `json:"tasks_open"`
	TasksDone         int    `json:"tasks_done"`
	Boundaries        int    `json:"boundaries"`
	Teams             int    `json:"teams"`
	Users             int    `json:"users"`
	Shapefiles        int    `json:"shapefiles"`
	LastActivity      string `json:"last_activity,omitempty"`
}

// StatsHandler returns row counts from the field tables.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats DashboardStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM features),
				(SELECT count(*) FROM features WHERE status = 'completed'),
				(SELECT count(*) FROM tasks WHERE status IN ('open', 'in_progress', 'review')),
				(SELECT count(*) FROM tasks WHERE status = 'done'),
				(SELECT count(*) FROM boundaries),
				(SELECT count(*) FROM teams),
				(SELECT count(*) FROM users),
				(SELECT count(*) FROM shapefiles),
				COALESCE((SELECT max(updated_at)::text FROM features), '')
		`)
		if err := row.Scan(&stats.Features, &stats.FeaturesCompleted,
			&stats.TasksOpen, &stats.TasksDone, &stats.Boundaries,
			&stats.Teams, &stats.Users, &stats.Shapefiles, &stats.LastActivity); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// TeamStats summarizes one team's workload for the team detail panel.
type TeamStats struct {
	TeamID            string `json:"team_id"`
	Members           int    `json:"members"`
	FeaturesAssigned  int    `json:"features_assigned"`
	FeaturesCompleted int    `json:"features_completed"`
	TasksOpen         int    `json:"tasks_open"`
	TasksDone         int    `json:"tasks_done"`
	Boundaries        int    `json:"boundaries"`
}

// TeamStatsHandler returns per-team counts across features, tasks and boundaries.
func TeamStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		id := c.Params("id")
		if _, err := deps.Teams.GetByID(c.Context(), id); err != nil {
			return errNotFound(c, "team not found")
		}

		stats := TeamStats{TeamID: id}
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM users WHERE team_id = $1),
				(SELECT count(*) FROM features WHERE team_id = $1),
				(SELECT count(*) FROM features WHERE team_id = $1 AND status = 'completed'),
				(SELECT count(*) FROM tasks WHERE team_id = $1 AND status IN ('open', 'in_progress', 'review')),
				(SELECT count(*) FROM tasks WHERE team_id = $1 AND status = 'done'),
				(SELECT count(*) FROM boundaries WHERE team_id = $1)
		`, id)
		if err := row.Scan(&stats.Members, &stats.FeaturesAssigned,
			&stats.FeaturesCompleted, &stats.TasksOpen, &stats.TasksDone,
			&stats.Boundaries); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}
