package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Fulfillment outcome event types. Failed and invariant-violation events are
// the remediation trail for orders that were paid but never reached the
// provider; ops tooling replays from this topic.
const (
	EventOrderSubmitted     = "fulfillment.submitted"
	EventOrderFailed        = "fulfillment.failed"
	EventInvariantViolation = "fulfillment.invariant_violation"
)

type OrderEvents struct {
	writer *kafka.Writer
}

func NewOrderEvents(brokers ...string) *OrderEvents {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "fulfillment-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OrderEvents{writer: w}
}

// Publish emits one outcome event keyed by session id, so all events for a
// session land in the same partition in order.
func (p *OrderEvents) Publish(ctx context.Context, eventType, sessionID string, payload any) error {
	msg, err := newMessage(eventType, sessionID, payload)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for session %s: %w", eventType, sessionID, err)
	}
	return nil
}

func (p *OrderEvents) Close() error {
	return p.writer.Close()
}

func newMessage(eventType, sessionID string, payload any) (kafka.Message, error) {
	body := map[string]any{
		"session_id":  sessionID,
		"payload":     payload,
		"occurred_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	value, err := json.Marshal(body)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return kafka.Message{
		Key:   []byte(sessionID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}, nil
}
