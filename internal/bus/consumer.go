package bus

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/dispatch"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/sync"
	"github.com/redis/go-redis/v9"
)

// ProcessedFunc is called after every message with its terminal outcome.
// Wired to the audit log and the ops feed in main.
type ProcessedFunc func(msg *model.EventMessage, outcome sync.Outcome, err error, took time.Duration)

// Consumer reads the create and update streams through a consumer group and
// hands each envelope to the dispatcher. Messages are acked whether they
// succeed or fail: failures are terminal for the event (the engine's own
// requeue is the only retry mechanism), and the audit log keeps the trace.
type Consumer struct {
	client      *redis.Client
	group       string
	name        string
	topics      []string
	dispatcher  *dispatch.Dispatcher
	onProcessed ProcessedFunc
}

func NewConsumer(client *redis.Client, group, name string, topics []string, dispatcher *dispatch.Dispatcher, onProcessed ProcessedFunc) *Consumer {
	return &Consumer{
		client:      client,
		group:       group,
		name:        name,
		topics:      topics,
		dispatcher:  dispatcher,
		onProcessed: onProcessed,
	}
}

// Run blocks consuming messages until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroups(ctx); err != nil {
		return err
	}

	// XReadGroup wants streams followed by their cursors.
	streams := make([]string, 0, len(c.topics)*2)
	streams = append(streams, c.topics...)
	for range c.topics {
		streams = append(streams, ">")
	}

	log.Printf("consuming topics %v as group %s", c.topics, c.group)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		results, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  streams,
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Printf("stream read failed, retrying: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range results {
			for _, entry := range stream.Messages {
				c.handle(ctx, stream.Stream, entry)
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, stream string, entry redis.XMessage) {
	start := time.Now()

	msg, err := decodeEntry(entry)
	if err != nil {
		log.Printf("dropping undecodable entry %s on %s: %v", entry.ID, stream, err)
		c.ack(ctx, stream, entry.ID)
		return
	}

	outcome, err := c.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		log.Printf("event on %s finished %s: %v", stream, outcome, err)
	}
	c.ack(ctx, stream, entry.ID)

	if c.onProcessed != nil {
		c.onProcessed(msg, outcome, err, time.Since(start))
	}
}

func (c *Consumer) ack(ctx context.Context, stream, id string) {
	if err := c.client.XAck(ctx, stream, c.group, id).Err(); err != nil {
		log.Printf("failed to ack %s on %s: %v", id, stream, err)
	}
}

func (c *Consumer) ensureGroups(ctx context.Context) error {
	for _, topic := range c.topics {
		err := c.client.XGroupCreateMkStream(ctx, topic, c.group, "0").Err()
		if err != nil && !isBusyGroup(err) {
			return err
		}
	}
	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func decodeEntry(entry redis.XMessage) (*model.EventMessage, error) {
	raw, ok := entry.Values[messageField].(string)
	if !ok {
		return nil, errors.New("entry has no message field")
	}
	var msg model.EventMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
