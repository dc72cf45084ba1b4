package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

// TeamRepo implements ports.TeamRepository with pgx.
type TeamRepo struct {
	db *DB
}

// NewTeamRepo creates a new TeamRepo.
func NewTeamRepo(db *DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// Create inserts a team (pending approval by default).
func (r *TeamRepo) Create(ctx context.Context, t *domain.Team) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO teams (name, city, approval)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, t.Name, t.City, t.Approval).Scan(&t.ID, &t.CreatedAt)
}

// SetApproval approves or rejects a team.
func (r *TeamRepo) SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE teams SET approval = $2 WHERE id = $1`, id, approval)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TouchActivity bumps the team's last-active timestamp.
func (r *TeamRepo) TouchActivity(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE teams SET last_active_at = now() WHERE id = $1`, id)
	return err
}

// Delete removes a team.
func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetByID returns a team with its member count.
func (r *TeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	var t domain.Team
	err := r.db.Pool.QueryRow(ctx, `
		SELECT t.id, t.name, COALESCE(t.city, ''), t.approval, t.last_active_at, t.created_at,
		       (SELECT count(*) FROM users u WHERE u.team_id = t.id)
		FROM teams t WHERE t.id = $1
	`, id).Scan(&t.ID, &t.Name, &t.City, &t.Approval, &t.LastActiveAt, &t.CreatedAt, &t.MemberCount)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all teams ordered by name.
func (r *TeamRepo) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT t.id, t.name, COALESCE(t.city, ''), t.approval, t.last_active_at, t.created_at,
		       (SELECT count(*) FROM users u WHERE u.team_id = t.id)
		FROM teams t ORDER BY t.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.City, &t.Approval, &t.LastActiveAt, &t.CreatedAt, &t.MemberCount); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Members returns the users belonging to a team.
func (r *TeamRepo) Members(ctx context.Context, id string) ([]domain.User, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, username, email, role, approval, team_id, last_active_at, created_at
		FROM users WHERE team_id = $1 ORDER BY username
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Approval, &u.TeamID, &u.LastActiveAt, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
