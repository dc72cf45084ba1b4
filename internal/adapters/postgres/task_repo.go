package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
)

// TaskRepo implements ports.TaskRepository with pgx.
type TaskRepo struct {
	db *DB
}

// NewTaskRepo creates a new TaskRepo.
func NewTaskRepo(db *DB) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskCols = `
	id, title, COALESCE(description, ''), status, priority, due_date,
	team_id, assignee_id,
	ST_Y(location::geometry), ST_X(location::geometry),
	feature_ref, created_by, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t        domain.Task
		lat, lon *float64
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate,
		&t.TeamID, &t.AssigneeID,
		&lat, &lon,
		&t.FeatureID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		t.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &t, nil
}

// Create inserts a task and fills in its generated ID and timestamps.
func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	var lat, lon *float64
	if t.Location != nil {
		lat, lon = &t.Location.Lat, &t.Location.Lon
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, team_id, assignee_id, location, feature_ref, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
		        CASE WHEN $8::float8 IS NULL THEN NULL
		             ELSE ST_SetSRID(ST_MakePoint($9, $8), 4326)::geography END,
		        $10, $11)
		RETURNING id, created_at, updated_at
	`, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.TeamID, t.AssigneeID,
		lat, lon, t.FeatureID, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update rewrites the mutable columns of a task.
func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	var lat, lon *float64
	if t.Location != nil {
		lat, lon = &t.Location.Lat, &t.Location.Lon
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5, due_date = $6,
		    location = CASE WHEN $7::float8 IS NULL THEN NULL
		                    ELSE ST_SetSRID(ST_MakePoint($8, $7), 4326)::geography END,
		    updated_at = now()
		WHERE id = $1
	`, t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, lat, lon)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus moves a task through its workflow.
func (r *TaskRepo) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE tasks SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Assign sets the team and optional user a task belongs to.
func (r *TaskRepo) Assign(ctx context.Context, id string, teamID, assigneeID *string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE tasks SET team_id = $2, assignee_id = $3, updated_at = now() WHERE id = $1
	`, id, teamID, assigneeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a task.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetByID returns a task by UUID.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return scanTask(r.db.Pool.QueryRow(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE id = $1`, id))
}

// List returns tasks matching the filter plus the unpaged total.
func (r *TaskRepo) List(ctx context.Context, filter ports.TaskFilter) ([]domain.Task, int, error) {
	where := []string{"true"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.TeamID != "" {
		args = append(args, filter.TeamID)
		where = append(where, fmt.Sprintf("team_id = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM tasks WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE `+cond+
			fmt.Sprintf(` ORDER BY priority = 'urgent' DESC, due_date NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
				len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, total, rows.Err()
}
