package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
)

// FeatureRepo implements ports.FeatureRepository with pgx.
type FeatureRepo struct {
	db *DB
}

// NewFeatureRepo creates a new FeatureRepo.
func NewFeatureRepo(db *DB) *FeatureRepo {
	return &FeatureRepo{db: db}
}

const featureCols = `
	id, feature_id, type, specific_type,
	ST_AsGeoJSON(geom::geometry),
	state, status, maintenance, team_id,
	COALESCE(images, '{}'), COALESCE(remarks, ''), COALESCE(metadata, '{}'),
	created_by, created_at, updated_at`

func scanFeature(row pgx.Row) (*domain.Feature, error) {
	var (
		f       domain.Feature
		rawGeom string
	)
	err := row.Scan(
		&f.ID, &f.FeatureID, &f.Type, &f.SpecificType,
		&rawGeom,
		&f.State, &f.Status, &f.Maintenance, &f.TeamID,
		&f.Images, &f.Remarks, &f.Metadata,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Geometry, err = decodeGeometry(rawGeom)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanFeatures(rows pgx.Rows) ([]domain.Feature, error) {
	defer rows.Close()
	var features []domain.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, *f)
	}
	return features, rows.Err()
}

// Create inserts a feature and fills in its generated ID and timestamps.
func (r *FeatureRepo) Create(ctx context.Context, f *domain.Feature) error {
	geom, err := encodeGeometry(f.Geometry)
	if err != nil {
		return err
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO features (feature_id, type, specific_type, geom, state, status, maintenance, team_id, images, remarks, metadata, created_by)
		VALUES ($1, $2, $3, ST_SetSRID(ST_GeomFromGeoJSON($4), 4326)::geography, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, f.FeatureID, f.Type, f.SpecificType, geom, f.State, f.Status, f.Maintenance,
		f.TeamID, f.Images, f.Remarks, f.Metadata, f.CreatedBy,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// Update rewrites the mutable columns of a feature.
func (r *FeatureRepo) Update(ctx context.Context, f *domain.Feature) error {
	geom, err := encodeGeometry(f.Geometry)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE features
		SET specific_type = $2,
		    geom = ST_SetSRID(ST_GeomFromGeoJSON($3), 4326)::geography,
		    state = $4, status = $5, maintenance = $6, team_id = $7,
		    remarks = $8, metadata = $9, updated_at = now()
		WHERE id = $1
	`, f.ID, f.SpecificType, geom, f.State, f.Status, f.Maintenance, f.TeamID, f.Remarks, f.Metadata)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus sets work status and optionally the maintenance flag.
func (r *FeatureRepo) UpdateStatus(ctx context.Context, id string, status domain.FeatureStatus, maintenance *bool) error {
	if maintenance != nil {
		t, err := r.db.Pool.Exec(ctx, `
			UPDATE features SET status = $2, maintenance = $3, updated_at = now() WHERE id = $1
		`, id, status, *maintenance)
		if err != nil {
			return err
		}
		if t.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}
	t, err := r.db.Pool.Exec(ctx, `
		UPDATE features SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if t.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AppendImages adds stored image paths to a feature.
func (r *FeatureRepo) AppendImages(ctx context.Context, id string, paths []string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE features SET images = COALESCE(images, '{}') || $2, updated_at = now() WHERE id = $1
	`, id, paths)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a feature.
func (r *FeatureRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM features WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetByID returns a feature by UUID.
func (r *FeatureRepo) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	return scanFeature(r.db.Pool.QueryRow(ctx,
		`SELECT `+featureCols+` FROM features WHERE id = $1`, id))
}

// List returns features matching the filter plus the unpaged total.
func (r *FeatureRepo) List(ctx context.Context, filter ports.FeatureFilter) ([]domain.Feature, int, error) {
	where := []string{"true"}
	args := []any{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TeamID != "" {
		args = append(args, filter.TeamID)
		where = append(where, fmt.Sprintf("team_id = $%d", len(args)))
	}
	if filter.Maintenance != nil {
		args = append(args, *filter.Maintenance)
		where = append(where, fmt.Sprintf("maintenance = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM features WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+featureCols+` FROM features WHERE `+cond+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	features, err := scanFeatures(rows)
	return features, total, err
}

// FindNearby returns features within radiusMeters using PostGIS ST_DWithin.
func (r *FeatureRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Feature, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+featureCols+`,
		       ST_Distance(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance
		FROM features
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []domain.Feature
	for rows.Next() {
		var (
			f       domain.Feature
			rawGeom string
			dist    float64
		)
		if err := rows.Scan(
			&f.ID, &f.FeatureID, &f.Type, &f.SpecificType,
			&rawGeom,
			&f.State, &f.Status, &f.Maintenance, &f.TeamID,
			&f.Images, &f.Remarks, &f.Metadata,
			&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
			&dist,
		); err != nil {
			return nil, err
		}
		if f.Geometry, err = decodeGeometry(rawGeom); err != nil {
			return nil, err
		}
		f.Distance = &dist
		features = append(features, f)
	}
	return features, rows.Err()
}

// FindInBounds returns features intersecting a viewport bounding box.
func (r *FeatureRepo) FindInBounds(ctx context.Context, b domain.Bounds, limit int) ([]domain.Feature, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+featureCols+`
		FROM features
		WHERE ST_Intersects(geom::geometry, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		ORDER BY created_at DESC
		LIMIT $5
	`, b.MinLon, b.MinLat, b.MaxLon, b.MaxLat, limit)
	if err != nil {
		return nil, err
	}
	return scanFeatures(rows)
}

// FindInPolygon returns features inside a stored boundary polygon.
func (r *FeatureRepo) FindInPolygon(ctx context.Context, boundaryID string) ([]domain.Feature, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT f.id, f.feature_id, f.type, f.specific_type,
		       ST_AsGeoJSON(f.geom::geometry),
		       f.state, f.status, f.maintenance, f.team_id,
		       COALESCE(f.images, '{}'), COALESCE(f.remarks, ''), COALESCE(f.metadata, '{}'),
		       f.created_by, f.created_at, f.updated_at
		FROM features f
		JOIN boundaries b ON b.id = $1
		WHERE ST_Intersects(f.geom::geometry, b.polygon::geometry)
	`, boundaryID)
	if err != nil {
		return nil, err
	}
	return scanFeatures(rows)
}

// UpsertBatch inserts many features using pgx.Batch, keyed on feature_id.
func (r *FeatureRepo) UpsertBatch(ctx context.Context, features []domain.Feature) error {
	batch := &pgx.Batch{}
	for i := range features {
		f := &features[i]
		geom, err := encodeGeometry(f.Geometry)
		if err != nil {
			return fmt.Errorf("feature %s: %w", f.FeatureID, err)
		}
		batch.Queue(`
			INSERT INTO features (feature_id, type, specific_type, geom, state, status, maintenance, team_id, remarks, metadata, created_by)
			VALUES ($1, $2, $3, ST_SetSRID(ST_GeomFromGeoJSON($4), 4326)::geography, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (feature_id) DO UPDATE
			SET specific_type = EXCLUDED.specific_type, geom = EXCLUDED.geom,
			    state = EXCLUDED.state, status = EXCLUDED.status,
			    remarks = EXCLUDED.remarks, metadata = EXCLUDED.metadata,
			    updated_at = now()
		`, f.FeatureID, f.Type, f.SpecificType, geom, f.State, f.Status, f.Maintenance,
			f.TeamID, f.Remarks, f.Metadata, f.CreatedBy)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range features {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}
