package ports

import (
	"context"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishFeatureEvent(ctx context.Context, ev *domain.FeatureEvent) error
	PublishTaskEvent(ctx context.Context, ev *domain.TaskEvent) error
	PublishShapefileImported(ctx context.Context, ev *domain.ShapefileEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeFeatureEvents(ctx context.Context, handler func(ctx context.Context, ev *domain.FeatureEvent) error) error
	SubscribeTaskEvents(ctx context.Context, handler func(ctx context.Context, ev *domain.TaskEvent) error) error
	SubscribeShapefileEvents(ctx context.Context, handler func(ctx context.Context, ev *domain.ShapefileEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// ImageStore persists uploaded feature photos and their thumbnails.
type ImageStore interface {
	Save(ctx context.Context, featureID, filename string, data []byte) (path string, err error)
	Open(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}
