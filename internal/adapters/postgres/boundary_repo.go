package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

// BoundaryRepo implements ports.BoundaryRepository with pgx.
type BoundaryRepo struct {
	db *DB
}

// NewBoundaryRepo creates a new BoundaryRepo.
func NewBoundaryRepo(db *DB) *BoundaryRepo {
	return &BoundaryRepo{db: db}
}

func scanBoundary(row pgx.Row) (*domain.Boundary, error) {
	var (
		b       domain.Boundary
		rawGeom string
	)
	err := row.Scan(&b.ID, &b.Name, &rawGeom, &b.Status, &b.TeamID, &b.CreatedBy, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	geom, err := decodeGeometry(rawGeom)
	if err != nil {
		return nil, err
	}
	if geom.Polygon != nil {
		b.Polygon = *geom.Polygon
	}
	return &b, nil
}

// Create inserts a boundary polygon.
func (r *BoundaryRepo) Create(ctx context.Context, b *domain.Boundary) error {
	geom, err := encodeGeometry(domain.Geometry{Kind: domain.GeometryPolygon, Polygon: &b.Polygon})
	if err != nil {
		return err
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO boundaries (name, polygon, status, team_id, created_by)
		VALUES ($1, ST_SetSRID(ST_GeomFromGeoJSON($2), 4326)::geography, $3, $4, $5)
		RETURNING id, created_at
	`, b.Name, geom, b.Status, b.TeamID, b.CreatedBy).Scan(&b.ID, &b.CreatedAt)
}

// Update rewrites name, polygon, and status.
func (r *BoundaryRepo) Update(ctx context.Context, b *domain.Boundary) error {
	geom, err := encodeGeometry(domain.Geometry{Kind: domain.GeometryPolygon, Polygon: &b.Polygon})
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE boundaries
		SET name = $2, polygon = ST_SetSRID(ST_GeomFromGeoJSON($3), 4326)::geography, status = $4
		WHERE id = $1
	`, b.ID, b.Name, geom, b.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AssignTeam points a boundary at a team (nil clears the assignment).
func (r *BoundaryRepo) AssignTeam(ctx context.Context, id string, teamID *string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE boundaries SET team_id = $2 WHERE id = $1`, id, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a boundary.
func (r *BoundaryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM boundaries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetByID returns a boundary by UUID.
func (r *BoundaryRepo) GetByID(ctx context.Context, id string) (*domain.Boundary, error) {
	return scanBoundary(r.db.Pool.QueryRow(ctx, `
		SELECT id, name, ST_AsGeoJSON(polygon::geometry), status, team_id, created_by, created_at
		FROM boundaries WHERE id = $1
	`, id))
}

// List returns all boundaries ordered by name.
func (r *BoundaryRepo) List(ctx context.Context) ([]domain.Boundary, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, ST_AsGeoJSON(polygon::geometry), status, team_id, created_by, created_at
		FROM boundaries ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boundaries []domain.Boundary
	for rows.Next() {
		b, err := scanBoundary(rows)
		if err != nil {
			return nil, err
		}
		boundaries = append(boundaries, *b)
	}
	return boundaries, rows.Err()
}
