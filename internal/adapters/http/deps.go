package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/skytag/internal/core/usecases"
)

// Pinger is a dependency whose connectivity can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by the ops server.
type Dependencies struct {
	Geotag  *usecases.GeotagService
	NATS    *nats.Conn
	Cache   Pinger
	Version string
}
