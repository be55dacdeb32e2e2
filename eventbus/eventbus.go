// Package eventbus abstracts the publish side of the lifecycle event
// stream. Post and media mutations are announced on a Kafka topic for
// downstream consumers (feed rebuilders, search indexers); publishing is
// best-effort and a no-op bus stands in when no brokers are configured.
package eventbus

import (
	"context"
	"encoding/json"
)

// Event is the payload envelope published to the stream.
type Event struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// EventBus publishes events to a topic.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// NoopEventBus discards every event. Used when no brokers are configured
// and in tests.
type NoopEventBus struct{}

func (NoopEventBus) Publish(ctx context.Context, topic string, event Event) error { return nil }

func (NoopEventBus) Close() {}
