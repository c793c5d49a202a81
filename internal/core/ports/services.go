package ports

import (
	"context"

	"github.com/samirrijal/skytag/internal/core/domain"
)

// EventPublisher publishes geotagging results to a message broker.
type EventPublisher interface {
	PublishFootprint(ctx context.Context, fp *domain.CaptureFootprint) error
	PublishGeotag(ctx context.Context, tag *domain.Geotag) error
}

// EventSubscriber subscribes to capture-pipeline events from a message broker.
type EventSubscriber interface {
	SubscribeCaptures(ctx context.Context, handler func(ctx context.Context, c *domain.Capture) error) error
	SubscribeSightings(ctx context.Context, handler func(ctx context.Context, ev *domain.SightingEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
