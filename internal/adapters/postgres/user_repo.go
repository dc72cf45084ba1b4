package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

// UserRepo implements ports.UserRepository with pgx.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userCols = `id, username, email, password_hash, role, approval, team_id, last_active_at, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &u.Approval, &u.TeamID, &u.LastActiveAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user account.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role, approval, team_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, u.Username, u.Email, u.PasswordHash, u.Role, u.Approval, u.TeamID).Scan(&u.ID, &u.CreatedAt)
}

// GetByID returns a user by UUID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.Pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

// GetByUsername returns a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(r.db.Pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE username = $1`, username))
}

// List returns all users ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+userCols+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// SetApproval approves or rejects an account.
func (r *UserRepo) SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET approval = $2 WHERE id = $1`, id, approval)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetTeam moves a user between teams (nil removes membership).
func (r *UserRepo) SetTeam(ctx context.Context, id string, teamID *string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET team_id = $2 WHERE id = $1`, id, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TouchActivity bumps the user's last-active timestamp.
func (r *UserRepo) TouchActivity(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET last_active_at = now() WHERE id = $1`, id)
	return err
}
