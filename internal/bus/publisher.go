package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
	"github.com/redis/go-redis/v9"
)

// messageField is the single stream entry field holding the JSON envelope.
const messageField = "message"

// Publisher writes event envelopes onto Redis streams. The requeue path
// uses it to re-emit an update event with its payload untouched.
type Publisher struct {
	client     *redis.Client
	originator string
}

func NewPublisher(client *redis.Client, originator string) *Publisher {
	return &Publisher{client: client, originator: originator}
}

// Publish wraps payload in a fresh envelope and appends it to the topic's
// stream. The payload bytes are passed through unchanged.
func (p *Publisher) Publish(ctx context.Context, topic string, payload json.RawMessage) error {
	msg := model.EventMessage{
		Topic:       topic,
		Originator:  p.originator,
		Timestamp:   time.Now().UTC(),
		ContentType: "application/json",
		Payload:     payload,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event message: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{messageField: string(data)},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}
