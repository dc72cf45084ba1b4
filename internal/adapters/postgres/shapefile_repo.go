package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

// ShapefileRepo implements ports.ShapefileRepository with pgx. The converted
// FeatureCollection lives in a JSONB column; metadata listings never load it.
type ShapefileRepo struct {
	db *DB
}

// NewShapefileRepo creates a new ShapefileRepo.
func NewShapefileRepo(db *DB) *ShapefileRepo {
	return &ShapefileRepo{db: db}
}

// Create stores a converted shapefile with its GeoJSON payload.
func (r *ShapefileRepo) Create(ctx context.Context, s *domain.Shapefile) error {
	var bounds any
	if s.Bounds != nil {
		bounds = *s.Bounds
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO shapefiles (name, type_label, filename, uploaded_by, team_id, feature_count, bounds, geojson)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, s.Name, s.TypeLabel, s.Filename, s.UploadedBy, s.TeamID,
		s.FeatureCount, bounds, s.GeoJSON).Scan(&s.ID, &s.CreatedAt)
}

// GetByID returns shapefile metadata without the GeoJSON payload.
func (r *ShapefileRepo) GetByID(ctx context.Context, id string) (*domain.Shapefile, error) {
	var s domain.Shapefile
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(type_label, ''), filename, uploaded_by, team_id, feature_count, bounds, created_at
		FROM shapefiles WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.TypeLabel, &s.Filename, &s.UploadedBy,
		&s.TeamID, &s.FeatureCount, &s.Bounds, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetGeoJSON returns just the stored FeatureCollection bytes.
func (r *ShapefileRepo) GetGeoJSON(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT geojson FROM shapefiles WHERE id = $1`, id).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// List returns shapefile metadata, newest first.
func (r *ShapefileRepo) List(ctx context.Context) ([]domain.Shapefile, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(type_label, ''), filename, uploaded_by, team_id, feature_count, bounds, created_at
		FROM shapefiles ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.Shapefile
	for rows.Next() {
		var s domain.Shapefile
		if err := rows.Scan(&s.ID, &s.Name, &s.TypeLabel, &s.Filename, &s.UploadedBy,
			&s.TeamID, &s.FeatureCount, &s.Bounds, &s.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, s)
	}
	return files, rows.Err()
}

// Delete removes a shapefile and its payload.
func (r *ShapefileRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM shapefiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
