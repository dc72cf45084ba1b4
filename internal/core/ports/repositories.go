package ports

import (
	"context"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

// FeatureFilter narrows feature listings.
type FeatureFilter struct {
	Type        domain.FeatureType
	Status      domain.FeatureStatus
	TeamID      string
	Maintenance *bool
	Offset      int
	Limit       int
}

// FeatureRepository persists infrastructure features.
type FeatureRepository interface {
	Create(ctx context.Context, f *domain.Feature) error
	Update(ctx context.Context, f *domain.Feature) error
	UpdateStatus(ctx context.Context, id string, status domain.FeatureStatus, maintenance *bool) error
	AppendImages(ctx context.Context, id string, paths []string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Feature, error)
	List(ctx context.Context, filter FeatureFilter) ([]domain.Feature, int, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Feature, error)
	FindInBounds(ctx context.Context, b domain.Bounds, limit int) ([]domain.Feature, error)
	FindInPolygon(ctx context.Context, boundaryID string) ([]domain.Feature, error)
	UpsertBatch(ctx context.Context, features []domain.Feature) error
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status   domain.TaskStatus
	Priority domain.TaskPriority
	TeamID   string
	Offset   int
	Limit    int
}

// TaskRepository persists field tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	Assign(ctx context.Context, id string, teamID, assigneeID *string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, int, error)
}

// BoundaryRepository persists work-area polygons.
type BoundaryRepository interface {
	Create(ctx context.Context, b *domain.Boundary) error
	Update(ctx context.Context, b *domain.Boundary) error
	AssignTeam(ctx context.Context, id string, teamID *string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Boundary, error)
	List(ctx context.Context) ([]domain.Boundary, error)
}

// TeamRepository persists field teams.
type TeamRepository interface {
	Create(ctx context.Context, t *domain.Team) error
	SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) error
	TouchActivity(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Members(ctx context.Context, id string) ([]domain.User, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) error
	SetTeam(ctx context.Context, id string, teamID *string) error
	TouchActivity(ctx context.Context, id string) error
}

// ShapefileRepository persists converted shapefile collections.
type ShapefileRepository interface {
	Create(ctx context.Context, s *domain.Shapefile) error
	GetByID(ctx context.Context, id string) (*domain.Shapefile, error)
	GetGeoJSON(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]domain.Shapefile, error)
	Delete(ctx context.Context, id string) error
}
