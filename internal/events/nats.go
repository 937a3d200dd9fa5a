package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATSPublisher implements Publisher using NATS
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSPublisher creates a new NATS-backed publisher
func NewNATSPublisher(natsURL, subject string, logger zerolog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}, nil
}

// Close closes the NATS connection
func (n *NATSPublisher) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}

// PublishBufferStatus publishes buffer status events to NATS
func (n *NATSPublisher) PublishBufferStatus(ctx context.Context, event BufferStatusEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		n.logger.Error().Err(err).Str("subject", n.subject).Msg("Failed to publish buffer status")
		return err
	}

	// Eviction pressure gets its own routing key so trainers can alert on
	// a buffer that has started overwriting experience.
	if event.State == "full" {
		routingKey := n.subject + ".full"
		if err := n.conn.Publish(routingKey, data); err != nil {
			n.logger.Error().Err(err).Str("routing_key", routingKey).Msg("Failed to publish to routing key")
		}
	}

	n.logger.Debug().
		Str("state", event.State).
		Int("size", event.Size).
		Str("subject", n.subject).
		Msg("Published buffer status event")

	return nil
}

// PublishSample publishes sample events to NATS
func (n *NATSPublisher) PublishSample(ctx context.Context, event SampleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := n.subject + ".samples"
	if err := n.conn.Publish(subject, data); err != nil {
		n.logger.Error().Err(err).Str("subject", subject).Msg("Failed to publish sample event")
		return err
	}

	n.logger.Debug().
		Int("batch_size", event.BatchSize).
		Str("subject", subject).
		Msg("Published sample event")

	return nil
}
