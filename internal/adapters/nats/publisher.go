package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/skytag/internal/core/domain"
)

// Subjects and streams used on the capture bus.
const (
	SubjectCapture   = "skytag.capture."
	SubjectSighting  = "skytag.sighting."
	SubjectFootprint = "skytag.footprint."
	SubjectGeotag    = "skytag.geotag."

	StreamCaptures  = "CAPTURES"
	StreamSightings = "SIGHTINGS"
	StreamResults   = "GEOTAG_RESULTS"
)

// Streams returns the JetStream streams the geotagger reads from and writes to.
func Streams() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      StreamCaptures,
			Subjects:  []string{SubjectCapture + ">"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      StreamSightings,
			Subjects:  []string{SubjectSighting + ">"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      StreamResults,
			Subjects:  []string{SubjectFootprint + ">", SubjectGeotag + ">"},
			Retention: nats.InterestPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := EnsureStreams(js); err != nil {
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

// EnsureStreams creates or updates every stream from Streams.
func EnsureStreams(js nats.JetStreamManager) error {
	for _, cfg := range Streams() {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

func (p *Publisher) PublishFootprint(ctx context.Context, fp *domain.CaptureFootprint) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectFootprint+fp.CaptureID, data,
		nats.Context(ctx), nats.MsgId(msgID("footprint", fp.CaptureID, data)))
	return err
}

func (p *Publisher) PublishGeotag(ctx context.Context, tag *domain.Geotag) error {
	data, err := json.Marshal(tag)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectGeotag+tag.SightingID, data,
		nats.Context(ctx), nats.MsgId(msgID("geotag", tag.SightingID, data)))
	return err
}

// msgID builds the JetStream dedupe ID for a result. It covers the payload as well as
// the identity: republishing an unchanged result is dropped within the duplicate window,
// a corrected one for the same capture or sighting is not.
func msgID(kind, id string, payload []byte) string {
	return fmt.Sprintf("%s-%s-%016x", kind, id, xxhash.Sum64(payload))
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Connect dials NATS with unlimited reconnects.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("skytag"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}
