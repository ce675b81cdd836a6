// Package publisher pushes derived journeys to NATS JetStream so other
// services can consume them without polling the HTTP API.
package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/theoremus-urban-solutions/railtrack/journey"
)

// Metrics is the small surface the publisher reports through. A nil
// Metrics is allowed and turns reporting off.
type Metrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	NATSSetConnected(connected bool)
}

type JourneyPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	stream  string
	metrics Metrics
}

// New connects to NATS and ensures the journey stream exists. Subjects
// follow "<stream lowercased>.<provider>.<number>".
func New(url, stream string, m Metrics) (*JourneyPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("railtrack"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("publisher: connect %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("publisher: jetstream: %w", err)
	}
	if _, err := js.StreamInfo(stream); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     stream,
			Subjects: []string{strings.ToLower(stream) + ".>"},
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("publisher: ensure stream %s: %w", stream, err)
		}
	}

	if m != nil {
		m.NATSSetConnected(true)
	}
	return &JourneyPublisher{nc: nc, js: js, stream: stream, metrics: m}, nil
}

func (p *JourneyPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// Publish sends one derived journey as JSON. Errors are reported to the
// caller; the tracker logs and keeps polling.
func (p *JourneyPublisher) Publish(j journey.Journey) error {
	subject := fmt.Sprintf("%s.%s.%s",
		strings.ToLower(p.stream), subjectToken(string(j.Provider)), subjectToken(j.Number))

	b, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("publisher: marshal journey %s: %w", j.Number, err)
	}

	_, err = p.js.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	if err != nil {
		return fmt.Errorf("publisher: publish %s: %w", subject, err)
	}
	return nil
}

// subjectToken strips the characters NATS subjects reserve.
func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
