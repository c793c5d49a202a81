package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/skytag/internal/core/domain"
	"github.com/samirrijal/skytag/internal/pkg/logging"
	"github.com/samirrijal/skytag/internal/pkg/metrics"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, err
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

func (s *Subscriber) SubscribeCaptures(ctx context.Context, handler func(ctx context.Context, c *domain.Capture) error) error {
	return s.subscribe(ctx, SubjectCapture+">", "capture-geotagger", StreamCaptures,
		func(ctx context.Context, data []byte) error {
			var c domain.Capture
			if err := json.Unmarshal(data, &c); err != nil {
				return errMalformed{err}
			}
			return handler(ctx, &c)
		})
}

func (s *Subscriber) SubscribeSightings(ctx context.Context, handler func(ctx context.Context, ev *domain.SightingEvent) error) error {
	return s.subscribe(ctx, SubjectSighting+">", "sighting-geotagger", StreamSightings,
		func(ctx context.Context, data []byte) error {
			var ev domain.SightingEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				return errMalformed{err}
			}
			return handler(ctx, &ev)
		})
}

func (s *Subscriber) subscribe(ctx context.Context, subject, durable, stream string, handle func(context.Context, []byte) error) error {
	base := logging.FromContext(ctx).With("stream", stream)
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		log := base.With("subject", msg.Subject)
		mctx := logging.WithLogger(ctx, log)
		outcome := settle(msg, handle(mctx, msg.Data), log)
		metrics.MessagesHandled.WithLabelValues(stream, outcome).Inc()
	},
		nats.Durable(durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// errMalformed marks payloads that cannot be decoded.
type errMalformed struct{ err error }

func (e errMalformed) Error() string { return "malformed payload: " + e.err.Error() }
func (e errMalformed) Unwrap() error { return e.err }

// Acknowledger is the part of *nats.Msg used to settle a delivery.
type Acknowledger interface {
	Ack(opts ...nats.AckOpt) error
	Nak(opts ...nats.AckOpt) error
	Term(opts ...nats.AckOpt) error
}

// settle acks handled messages, terminates ones that can never succeed and naks the rest
// for redelivery. It returns the outcome label.
func settle(msg Acknowledger, err error, log *slog.Logger) string {
	switch {
	case err == nil:
		_ = msg.Ack()
		return "ack"
	case domain.IsValidationError(err) || isMalformed(err):
		log.Warn("message rejected", "error", err)
		_ = msg.Term()
		return "term"
	default:
		log.Error("message handling failed, will retry", "error", err)
		_ = msg.Nak()
		return "nak"
	}
}

func isMalformed(err error) bool {
	_, ok := err.(errMalformed)
	return ok
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
