package workflows

import (
	"slices"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/skytag/internal/core/domain"
)

// ErrTypeInvalidCapture tags application errors raised for captures that fail validation.
const ErrTypeInvalidCapture = "InvalidCapture"

// BatchGeotagInput is the input for the batch geotag workflow.
type BatchGeotagInput struct {
	BatchID  string
	Captures []domain.Capture
}

// BatchGeotagResult collects the footprints that were produced and the captures that failed.
type BatchGeotagResult struct {
	BatchID    string
	Footprints []domain.CaptureFootprint
	Failed     []string
}

// BatchGeotagWorkflow re-geotags a flight's captures, one activity per capture. A failed
// capture is recorded and does not abort the rest of the batch.
func BatchGeotagWorkflow(ctx workflow.Context, input BatchGeotagInput) (*BatchGeotagResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting batch geotag workflow", "batchID", input.BatchID, "captures", len(input.Captures))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{ErrTypeInvalidCapture},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	captures := slices.Clone(input.Captures)
	slices.SortFunc(captures, domain.CompareByTimestamp)

	futures := make([]workflow.Future, len(captures))
	for i, c := range captures {
		futures[i] = workflow.ExecuteActivity(ctx, "GeotagCapture", c)
	}

	result := &BatchGeotagResult{BatchID: input.BatchID}
	for i, f := range futures {
		var fp domain.CaptureFootprint
		if err := f.Get(ctx, &fp); err != nil {
			logger.Warn("capture failed", "captureID", captures[i].ID, "error", err)
			result.Failed = append(result.Failed, captures[i].ID)
			continue
		}
		result.Footprints = append(result.Footprints, fp)
	}

	logger.Info("Batch geotag finished", "footprints", len(result.Footprints), "failed", len(result.Failed))
	return result, nil
}
