package telemetry

// Span names used for tracing.
const (
	SpanProcessCapture = "geotag.process_capture"
	SpanLocateSighting = "geotag.locate_sighting"
	SpanBatchActivity  = "geotag.batch_activity"
)

// Span attribute keys.
const (
	AttrCaptureID  = "skytag.capture_id"
	AttrSightingID = "skytag.sighting_id"
	AttrCacheHit   = "skytag.cache_hit"
	AttrImgMode    = "skytag.img_mode"
)
