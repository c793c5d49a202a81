package workflows

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/skytag/internal/core/domain"
	"github.com/samirrijal/skytag/internal/core/usecases"
	"github.com/samirrijal/skytag/internal/pkg/telemetry"
)

// GeotagActivities holds the activity implementations for the batch geotag workflow.
type GeotagActivities struct {
	Geotag *usecases.GeotagService
}

// GeotagCapture computes, caches and publishes the footprint of one capture.
// Bad telemetry can never succeed on retry, so it fails non-retryable.
func (a *GeotagActivities) GeotagCapture(ctx context.Context, c domain.Capture) (*domain.CaptureFootprint, error) {
	info := activity.GetInfo(ctx)
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanBatchActivity, trace.WithAttributes(
		attribute.String(telemetry.AttrCaptureID, c.ID),
		attribute.String("temporal.workflow_id", info.WorkflowExecution.ID),
		attribute.Int("temporal.attempt", int(info.Attempt)),
	))
	defer span.End()

	fp, err := a.Geotag.ProcessCapture(ctx, &c)
	if err != nil {
		if domain.IsValidationError(err) {
			activity.GetLogger(ctx).Warn("capture rejected", "captureID", c.ID, "error", err)
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidCapture, err)
		}
		return nil, fmt.Errorf("geotag capture %s: %w", c.ID, err)
	}
	return fp, nil
}
