package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/pkg/geospatial"
	"github.com/geofieldx/geofieldx/internal/pkg/metrics"
	"github.com/geofieldx/geofieldx/internal/pkg/shapefile"
)

// ImportShapefileInput describes an uploaded vector archive.
type ImportShapefileInput struct {
	Name      string  `json:"name" validate:"required,max=120"`
	TypeLabel string  `json:"type_label" validate:"max=120"`
	Filename  string  `json:"filename" validate:"required"`
	TeamID    *string `json:"team_id,omitempty" validate:"omitempty,uuid4"`
	Archive   []byte  `json:"-"`
}

// ShapefileService converts uploaded ZIP archives to GeoJSON and serves the
// converted collections back to map clients.
type ShapefileService struct {
	shapefiles ports.ShapefileRepository
	cache      ports.CacheService
	publisher  ports.EventPublisher

	simplifyAboveN int
	epsilonMeters  float64
	maxFeatures    int
}

// NewShapefileService creates a new ShapefileService.
func NewShapefileService(repo ports.ShapefileRepository, cache ports.CacheService, publisher ports.EventPublisher, simplifyAboveN int, epsilonMeters float64, maxFeatures int) *ShapefileService {
	return &ShapefileService{
		shapefiles:     repo,
		cache:          cache,
		publisher:      publisher,
		simplifyAboveN: simplifyAboveN,
		epsilonMeters:  epsilonMeters,
		maxFeatures:    maxFeatures,
	}
}

// Import converts the archive and persists the resulting collection.
func (s *ShapefileService) Import(ctx context.Context, in ImportShapefileInput, uploadedBy string) (*domain.Shapefile, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid upload: %w", err)
	}
	if len(in.Archive) == 0 {
		return nil, fmt.Errorf("empty archive")
	}

	start := time.Now()
	result, err := shapefile.ConvertZip(in.Archive, shapefile.Options{
		SimplifyAboveN: s.simplifyAboveN,
		EpsilonDeg:     geospatial.MetersToDegrees(s.epsilonMeters),
		MaxFeatures:    s.maxFeatures,
	})
	if err != nil {
		metrics.ShapefileConvertErrors.Inc()
		return nil, fmt.Errorf("convert %s: %w", in.Filename, err)
	}
	metrics.ShapefileConvertDuration.Observe(time.Since(start).Seconds())
	metrics.ShapefilesConverted.Inc()

	sf := &domain.Shapefile{
		Name:         in.Name,
		TypeLabel:    in.TypeLabel,
		Filename:     in.Filename,
		UploadedBy:   uploadedBy,
		TeamID:       in.TeamID,
		FeatureCount: result.FeatureCount,
		Bounds:       &result.Bounds,
		GeoJSON:      result.GeoJSON,
	}
	if err := s.shapefiles.Create(ctx, sf); err != nil {
		return nil, fmt.Errorf("store shapefile: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.PublishShapefileImported(ctx, &domain.ShapefileEvent{
			ID:           sf.ID,
			Name:         sf.Name,
			FeatureCount: sf.FeatureCount,
			TeamID:       sf.TeamID,
		})
	}
	return sf, nil
}

// GeoJSON returns the converted FeatureCollection, cached because collections
// are immutable after import and map clients fetch them repeatedly.
func (s *ShapefileService) GeoJSON(ctx context.Context, id string) ([]byte, error) {
	cacheKey := "shapefiles:geojson:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			metrics.CacheHits.WithLabelValues("shapefile_geojson").Inc()
			return data, nil
		}
		metrics.CacheMisses.WithLabelValues("shapefile_geojson").Inc()
	}

	data, err := s.shapefiles.GetGeoJSON(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, data, 3600)
	}
	return data, nil
}

// GetByID returns collection metadata without the GeoJSON payload.
func (s *ShapefileService) GetByID(ctx context.Context, id string) (*domain.Shapefile, error) {
	return s.shapefiles.GetByID(ctx, id)
}

// List returns all imported collections, metadata only.
func (s *ShapefileService) List(ctx context.Context) ([]domain.Shapefile, error) {
	return s.shapefiles.List(ctx)
}

// Delete removes a collection and its cached payload.
func (s *ShapefileService) Delete(ctx context.Context, id string) error {
	if err := s.shapefiles.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "shapefiles:geojson:"+id)
	}
	return nil
}
