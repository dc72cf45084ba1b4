package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/pkg/geospatial"
	"github.com/geofieldx/geofieldx/internal/pkg/metrics"
)

// CreateFeatureInput is a feature creation request.
type CreateFeatureInput struct {
	FeatureID    string          `json:"feature_id" validate:"required,max=64"`
	Type         string          `json:"type" validate:"required"`
	SpecificType string          `json:"specific_type" validate:"required"`
	Geometry     domain.Geometry `json:"geometry"`
	State        string          `json:"state" validate:"required"`
	TeamID       *string         `json:"team_id,omitempty" validate:"omitempty,uuid4"`
	Remarks      string          `json:"remarks" validate:"max=2000"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
}

// FeatureService handles infrastructure-asset business logic.
type FeatureService struct {
	features  ports.FeatureRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewFeatureService creates a new FeatureService.
func NewFeatureService(features ports.FeatureRepository, cache ports.CacheService, publisher ports.EventPublisher) *FeatureService {
	return &FeatureService{features: features, cache: cache, publisher: publisher}
}

// Create validates enum membership and geometry shape, then persists.
func (s *FeatureService) Create(ctx context.Context, in CreateFeatureInput, createdBy string) (*domain.Feature, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid feature: %w", err)
	}

	ftype := domain.FeatureType(in.Type)
	if !domain.ValidFeatureType(ftype) {
		return nil, fmt.Errorf("unknown feature type %q", in.Type)
	}
	if !domain.ValidSpecificType(ftype, in.SpecificType) {
		return nil, fmt.Errorf("specific type %q not allowed for %s", in.SpecificType, ftype)
	}
	state := domain.FeatureState(in.State)
	if !domain.ValidFeatureState(state) {
		return nil, fmt.Errorf("unknown state %q", in.State)
	}
	if err := domain.ValidateGeometry(ftype, &in.Geometry); err != nil {
		return nil, err
	}

	status := domain.StatusUnassigned
	if in.TeamID != nil {
		status = domain.StatusAssigned
	}

	f := &domain.Feature{
		FeatureID:    in.FeatureID,
		Type:         ftype,
		SpecificType: in.SpecificType,
		Geometry:     in.Geometry,
		State:        state,
		Status:       status,
		TeamID:       in.TeamID,
		Remarks:      in.Remarks,
		Metadata:     in.Metadata,
		CreatedBy:    createdBy,
	}
	if err := s.features.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create feature: %w", err)
	}

	metrics.FeaturesCreated.WithLabelValues(string(ftype)).Inc()
	s.invalidateViewport(ctx)
	if s.publisher != nil {
		_ = s.publisher.PublishFeatureEvent(ctx, &domain.FeatureEvent{Action: "created", Feature: f})
	}
	return f, nil
}

// Update replaces mutable fields after re-running the geometry checks.
func (s *FeatureService) Update(ctx context.Context, f *domain.Feature) (*domain.Feature, error) {
	if !domain.ValidSpecificType(f.Type, f.SpecificType) {
		return nil, fmt.Errorf("specific type %q not allowed for %s", f.SpecificType, f.Type)
	}
	if !domain.ValidFeatureState(f.State) {
		return nil, fmt.Errorf("unknown state %q", f.State)
	}
	if !domain.ValidFeatureStatus(f.Status) {
		return nil, fmt.Errorf("unknown status %q", f.Status)
	}
	if err := domain.ValidateGeometry(f.Type, &f.Geometry); err != nil {
		return nil, err
	}

	if err := s.features.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("update feature: %w", err)
	}

	s.invalidateViewport(ctx)
	if s.publisher != nil {
		_ = s.publisher.PublishFeatureEvent(ctx, &domain.FeatureEvent{Action: "updated", Feature: f})
	}
	return f, nil
}

// SetStatus updates work status and optionally toggles maintenance.
func (s *FeatureService) SetStatus(ctx context.Context, id string, status domain.FeatureStatus, maintenance *bool) (*domain.Feature, error) {
	if !domain.ValidFeatureStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	if err := s.features.UpdateStatus(ctx, id, status, maintenance); err != nil {
		return nil, err
	}

	f, err := s.features.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateViewport(ctx)
	if s.publisher != nil {
		_ = s.publisher.PublishFeatureEvent(ctx, &domain.FeatureEvent{Action: "status_changed", Feature: f})
	}
	return f, nil
}

// AttachImages records stored photo paths against a feature.
func (s *FeatureService) AttachImages(ctx context.Context, id string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no images to attach")
	}
	return s.features.AppendImages(ctx, id, paths)
}

// Delete removes a feature and announces the removal.
func (s *FeatureService) Delete(ctx context.Context, id string) error {
	f, err := s.features.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.features.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateViewport(ctx)
	if s.publisher != nil {
		_ = s.publisher.PublishFeatureEvent(ctx, &domain.FeatureEvent{Action: "deleted", Feature: f})
	}
	return nil
}

// GetByID returns a single feature.
func (s *FeatureService) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	return s.features.GetByID(ctx, id)
}

// List returns features matching a filter plus the unpaged total.
func (s *FeatureService) List(ctx context.Context, filter ports.FeatureFilter) ([]domain.Feature, int, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.features.List(ctx, filter)
}

// FindNearby returns features within radiusMeters of the given point.
func (s *FeatureService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Feature, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("features:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var features []domain.Feature
			if err := json.Unmarshal(data, &features); err == nil {
				metrics.CacheHits.WithLabelValues("features_nearby").Inc()
				return features, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("features_nearby").Inc()
	}

	features, err := s.features.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// Point features always carry a distance, whether or not the store
	// computed one.
	for i := range features {
		if features[i].Distance == nil && features[i].Geometry.Point != nil {
			d := geospatial.Haversine(lat, lon, features[i].Geometry.Point.Lat, features[i].Geometry.Point.Lon)
			features[i].Distance = &d
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(features); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return features, nil
}

// FindInBounds returns features intersecting a map viewport.
func (s *FeatureService) FindInBounds(ctx context.Context, b domain.Bounds, limit int) ([]domain.Feature, error) {
	if limit <= 0 || limit > 2000 {
		limit = 1000
	}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return nil, fmt.Errorf("inverted bounding box")
	}
	return s.features.FindInBounds(ctx, b, limit)
}

// invalidateViewport drops the nearby-query cache generation marker.
// Individual nearby keys expire on their own short TTL; this only clears
// the well-known hot key used by dashboards.
func (s *FeatureService) invalidateViewport(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "features:overview")
	}
}
