package natsadapter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/skytag/internal/core/domain"
)

type fakeMsg struct{ acked, naked, termed int }

func (m *fakeMsg) Ack(...nats.AckOpt) error  { m.acked++; return nil }
func (m *fakeMsg) Nak(...nats.AckOpt) error  { m.naked++; return nil }
func (m *fakeMsg) Term(...nats.AckOpt) error { m.termed++; return nil }

func TestSettle(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"success", nil, "ack"},
		{"validation", fmt.Errorf("footprint: %w", domain.ErrDegenerateProjection), "term"},
		{"malformed", errMalformed{errors.New("unexpected EOF")}, "term"},
		{"transient", errors.New("nats: timeout"), "nak"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMsg{}
			if got := settle(m, tt.err, log); got != tt.outcome {
				t.Fatalf("expected %s, got %s", tt.outcome, got)
			}
			if m.acked+m.naked+m.termed != 1 {
				t.Errorf("message settled %d times", m.acked+m.naked+m.termed)
			}
		})
	}
}

func TestStreams(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Streams() {
		for _, subj := range s.Subjects {
			if seen[subj] {
				t.Errorf("subject %s bound to more than one stream", subj)
			}
			seen[subj] = true
		}
	}
	for _, want := range []string{"skytag.capture.>", "skytag.sighting.>", "skytag.footprint.>", "skytag.geotag.>"} {
		if !seen[want] {
			t.Errorf("no stream captures %s", want)
		}
	}
}
