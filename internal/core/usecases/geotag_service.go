package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/skytag/internal/core/domain"
	"github.com/samirrijal/skytag/internal/core/geotag"
	"github.com/samirrijal/skytag/internal/core/ports"
	"github.com/samirrijal/skytag/internal/pkg/logging"
	"github.com/samirrijal/skytag/internal/pkg/metrics"
	"github.com/samirrijal/skytag/internal/pkg/telemetry"
)

// GeotagService turns captures into ground footprints and sightings into geotags.
type GeotagService struct {
	engine    *geotag.Engine
	cache     ports.CacheService
	publisher ports.EventPublisher
	cacheTTL  int
	now       func() time.Time
}

// NewGeotagService creates a new GeotagService. cache and publisher may be nil.
func NewGeotagService(engine *geotag.Engine, cache ports.CacheService, publisher ports.EventPublisher, cacheTTLSeconds int) *GeotagService {
	return &GeotagService{
		engine:    engine,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTLSeconds,
		now:       time.Now,
	}
}

// ProcessCapture computes the ground footprint of a capture and publishes it.
// Footprints are cached per capture together with a digest of their inputs, so a
// redelivered capture only republishes while a corrected one is reprojected.
func (s *GeotagService) ProcessCapture(ctx context.Context, c *domain.Capture) (*domain.CaptureFootprint, error) {
	if c == nil || c.ID == "" {
		return nil, fmt.Errorf("%w: capture id is required", domain.ErrMissingID)
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanProcessCapture, trace.WithAttributes(
		attribute.String(telemetry.AttrCaptureID, c.ID),
		attribute.String(telemetry.AttrImgMode, string(c.ImgMode)),
	))
	defer span.End()

	// Inputs are checked before the cache so bad telemetry is never answered from it.
	if err := errors.Join(c.Telemetry.Validate(), c.FOV.Validate()); err != nil {
		metrics.ProjectionFailures.WithLabelValues(FailureKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("footprint for capture %s: %w", c.ID, err)
	}

	log := logging.FromContext(ctx).With("capture_id", c.ID)
	cacheKey := "footprint:" + c.ID
	digest := s.engine.InputDigest(c.Telemetry, c.FOV)

	fp, hit := s.cachedFootprint(ctx, cacheKey, digest)
	span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, hit))
	if !hit {
		start := time.Now()
		corners, err := s.engine.Corners(c.Telemetry, c.FOV)
		metrics.ProjectionDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ProjectionFailures.WithLabelValues(FailureKind(err)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("footprint for capture %s: %w", c.ID, err)
		}

		fp = &domain.CaptureFootprint{
			CaptureID:   c.ID,
			Footprint:   corners,
			Bounds:      corners.Bounds(),
			InputDigest: digest,
			ComputedAt:  s.now().UTC(),
		}
		if s.cache != nil {
			if data, err := json.Marshal(fp); err == nil {
				if err := s.cache.Set(ctx, cacheKey, data, s.cacheTTL); err != nil {
					log.Warn("cache footprint failed", "error", err)
				}
			}
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishFootprint(ctx, fp); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("publish footprint %s: %w", c.ID, err)
		}
	}

	metrics.CapturesProcessed.WithLabelValues(string(c.ImgMode)).Inc()
	log.Debug("footprint computed", "cache_hit", hit, "digest", digest, "bounds", fp.Bounds)
	return fp, nil
}

// cachedFootprint returns the cached footprint for key if it was computed from inputs
// with the given digest. A stale entry is dropped.
func (s *GeotagService) cachedFootprint(ctx context.Context, key, digest string) (*domain.CaptureFootprint, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("footprint").Inc()
		return nil, false
	}
	var fp domain.CaptureFootprint
	if err := json.Unmarshal(data, &fp); err != nil || fp.InputDigest != digest {
		metrics.CacheMisses.WithLabelValues("footprint").Inc()
		if err := s.cache.Delete(ctx, key); err != nil {
			logging.FromContext(ctx).Warn("drop stale footprint failed", "key", key, "error", err)
		}
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("footprint").Inc()
	return &fp, true
}

// LocateSighting geotags a sighting on its capture and publishes the result.
func (s *GeotagService) LocateSighting(ctx context.Context, ev *domain.SightingEvent) (*domain.Geotag, error) {
	if ev == nil || ev.Sighting.ID == "" {
		return nil, fmt.Errorf("%w: sighting id is required", domain.ErrMissingID)
	}
	if ev.Sighting.CaptureID != "" && ev.Capture.ID != "" && ev.Sighting.CaptureID != ev.Capture.ID {
		return nil, fmt.Errorf("%w: sighting %s belongs to capture %s, not %s",
			domain.ErrGeotagUnavailable, ev.Sighting.ID, ev.Sighting.CaptureID, ev.Capture.ID)
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanLocateSighting, trace.WithAttributes(
		attribute.String(telemetry.AttrSightingID, ev.Sighting.ID),
		attribute.String(telemetry.AttrCaptureID, ev.Capture.ID),
	))
	defer span.End()

	tag, err := s.engine.Locate(ev.Capture, ev.Sighting)
	if err != nil {
		metrics.ProjectionFailures.WithLabelValues(FailureKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("geotag sighting %s: %w", ev.Sighting.ID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishGeotag(ctx, &tag); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("publish geotag %s: %w", ev.Sighting.ID, err)
		}
	}

	metrics.SightingsGeotagged.Inc()
	logging.FromContext(ctx).Debug("sighting geotagged",
		"sighting_id", tag.SightingID,
		"lat", tag.Location.Latitude,
		"lon", tag.Location.Longitude,
		"direction", tag.Direction.String(),
	)
	return &tag, nil
}

// EngineConfig reports the projection settings in use.
func (s *GeotagService) EngineConfig() geotag.Config {
	return s.engine.Config()
}

// ClassifyBearing maps a clockwise-from-north bearing to its compass sector.
func (s *GeotagService) ClassifyBearing(radians float64) (domain.CardinalDirection, error) {
	return domain.CardinalFromRadians(radians)
}

// MergeGeotags combines repeated geotags of one target into their median.
func (s *GeotagService) MergeGeotags(tags ...*domain.Geotag) (*domain.Geotag, error) {
	merged := domain.MedianGeotag(tags...)
	if merged == nil {
		return nil, fmt.Errorf("%w: no complete geotags to merge", domain.ErrGeotagUnavailable)
	}
	return merged, nil
}

// FailureKind labels a geotagging error by its cause, for metrics and error responses.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return "coordinate"
	case errors.Is(err, domain.ErrInvalidAltitude):
		return "altitude"
	case errors.Is(err, domain.ErrDegenerateProjection):
		return "degenerate"
	case errors.Is(err, domain.ErrInvalidAngle):
		return "angle"
	case errors.Is(err, domain.ErrInvalidFOV):
		return "fov"
	case errors.Is(err, domain.ErrPixelOutOfFrame):
		return "pixel"
	case errors.Is(err, domain.ErrGeotagUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrMissingID):
		return "missing_id"
	default:
		return "other"
	}
}
