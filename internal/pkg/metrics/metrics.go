package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics (ops server only)
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skytag",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skytag",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "path"})

	// Geotagging metrics
	CapturesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skytag",
		Subsystem: "geotag",
		Name:      "captures_processed_total",
		Help:      "Total captures whose footprint was computed or served from cache",
	}, []string{"img_mode"})

	SightingsGeotagged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skytag",
		Subsystem: "geotag",
		Name:      "sightings_geotagged_total",
		Help:      "Total target sightings placed on the ground",
	})

	ProjectionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skytag",
		Subsystem: "geotag",
		Name:      "projection_failures_total",
		Help:      "Projections rejected, by failure kind",
	}, []string{"kind"})

	ProjectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skytag",
		Subsystem: "geotag",
		Name:      "footprint_duration_seconds",
		Help:      "Time to project the four corners of a capture",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	// Messaging
	MessagesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skytag",
		Subsystem: "bus",
		Name:      "messages_handled_total",
		Help:      "Bus messages handled, by stream and outcome (ack, nak, term)",
	}, []string{"stream", "outcome"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skytag",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skytag",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
