package usecases

import (
	"context"
	"fmt"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
)

// CreateBoundaryInput is a work-area creation request.
type CreateBoundaryInput struct {
	Name    string            `json:"name" validate:"required,max=120"`
	Polygon domain.GeoPolygon `json:"polygon"`
	TeamID  *string           `json:"team_id,omitempty" validate:"omitempty,uuid4"`
}

// BoundaryService manages team work areas.
type BoundaryService struct {
	boundaries ports.BoundaryRepository
	features   ports.FeatureRepository
}

// NewBoundaryService creates a new BoundaryService.
func NewBoundaryService(boundaries ports.BoundaryRepository, features ports.FeatureRepository) *BoundaryService {
	return &BoundaryService{boundaries: boundaries, features: features}
}

// Create validates the polygon rings and persists a new boundary. Unclosed
// rings are closed automatically rather than rejected.
func (s *BoundaryService) Create(ctx context.Context, in CreateBoundaryInput, createdBy string) (*domain.Boundary, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid boundary: %w", err)
	}

	outer, err := domain.CloseRing(in.Polygon.Outer)
	if err != nil {
		return nil, fmt.Errorf("outer ring: %w", err)
	}
	holes := make([][]domain.GeoPoint, 0, len(in.Polygon.Holes))
	for i, hole := range in.Polygon.Holes {
		closed, err := domain.CloseRing(hole)
		if err != nil {
			return nil, fmt.Errorf("hole %d: %w", i, err)
		}
		holes = append(holes, closed)
	}

	b := &domain.Boundary{
		Name:      in.Name,
		Polygon:   domain.GeoPolygon{Outer: outer, Holes: holes},
		Status:    domain.BoundaryActive,
		TeamID:    in.TeamID,
		CreatedBy: createdBy,
	}
	if err := s.boundaries.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create boundary: %w", err)
	}
	return b, nil
}

// Update rewrites a boundary's name, polygon, and status.
func (s *BoundaryService) Update(ctx context.Context, b *domain.Boundary) (*domain.Boundary, error) {
	if !domain.ValidBoundaryStatus(b.Status) {
		return nil, fmt.Errorf("unknown status %q", b.Status)
	}
	outer, err := domain.CloseRing(b.Polygon.Outer)
	if err != nil {
		return nil, fmt.Errorf("outer ring: %w", err)
	}
	b.Polygon.Outer = outer
	for i, hole := range b.Polygon.Holes {
		closed, err := domain.CloseRing(hole)
		if err != nil {
			return nil, fmt.Errorf("hole %d: %w", i, err)
		}
		b.Polygon.Holes[i] = closed
	}
	if err := s.boundaries.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// AssignTeam links or unlinks the crew responsible for a boundary.
func (s *BoundaryService) AssignTeam(ctx context.Context, id string, teamID *string) (*domain.Boundary, error) {
	if err := s.boundaries.AssignTeam(ctx, id, teamID); err != nil {
		return nil, err
	}
	return s.boundaries.GetByID(ctx, id)
}

// FeaturesInside returns all features whose geometry intersects the boundary.
func (s *BoundaryService) FeaturesInside(ctx context.Context, id string) ([]domain.Feature, error) {
	if _, err := s.boundaries.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.features.FindInPolygon(ctx, id)
}

// Delete removes a boundary.
func (s *BoundaryService) Delete(ctx context.Context, id string) error {
	return s.boundaries.Delete(ctx, id)
}

// GetByID returns a single boundary.
func (s *BoundaryService) GetByID(ctx context.Context, id string) (*domain.Boundary, error) {
	return s.boundaries.GetByID(ctx, id)
}

// List returns all boundaries.
func (s *BoundaryService) List(ctx context.Context) ([]domain.Boundary, error) {
	return s.boundaries.List(ctx)
}
