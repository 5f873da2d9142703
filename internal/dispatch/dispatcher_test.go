package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/sync"
)

func envelope(topic string, payload string) *model.EventMessage {
	return &model.EventMessage{
		Topic:       topic,
		Originator:  "test-originator",
		Timestamp:   time.Now().UTC(),
		ContentType: "application/json",
		Payload:     json.RawMessage(payload),
	}
}

func TestDispatchRoutesToHandler(t *testing.T) {
	dispatcher := NewDispatcher()

	var received *model.ChallengeEvent
	dispatcher.Register("challenge.notification.create", func(ctx context.Context, event *model.ChallengeEvent, raw json.RawMessage) (sync.Outcome, error) {
		received = event
		return sync.OutcomeCreated, nil
	})

	msg := envelope("challenge.notification.create", `{"id":"challenge-1","status":"Active","name":"Test"}`)
	outcome, err := dispatcher.Dispatch(context.Background(), msg)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if outcome != sync.OutcomeCreated {
		t.Errorf("expected Created, got %s", outcome)
	}
	if received == nil || received.ID != "challenge-1" || received.Status != model.StatusActive {
		t.Errorf("handler got wrong event: %+v", received)
	}
}

func TestDispatchUnknownTopic(t *testing.T) {
	dispatcher := NewDispatcher()

	msg := envelope("some.other.topic", `{"id":"challenge-1","status":"Active","name":"Test"}`)
	if _, err := dispatcher.Dispatch(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown topic")
	}
}

func TestDispatchRejectsInvalidPayload(t *testing.T) {
	dispatcher := NewDispatcher()

	invoked := false
	dispatcher.Register("challenge.notification.update", func(ctx context.Context, event *model.ChallengeEvent, raw json.RawMessage) (sync.Outcome, error) {
		invoked = true
		return sync.OutcomeUpdated, nil
	})

	cases := []struct {
		name    string
		payload string
	}{
		{"missing id", `{"status":"Active","name":"Test"}`},
		{"missing status", `{"id":"challenge-1","name":"Test"}`},
		{"bad status value", `{"id":"challenge-1","status":"Unknown","name":"Test"}`},
		{"not json", `"plain string"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := envelope("challenge.notification.update", tc.payload)
			_, err := dispatcher.Dispatch(context.Background(), msg)

			var schemaErr *SchemaValidationError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaValidationError, got %v", err)
			}
			if invoked {
				t.Fatal("handler must not run for invalid payloads")
			}
		})
	}
}

func TestDispatchRejectsInvalidEnvelope(t *testing.T) {
	dispatcher := NewDispatcher()
	dispatcher.Register("challenge.notification.update", func(ctx context.Context, event *model.ChallengeEvent, raw json.RawMessage) (sync.Outcome, error) {
		t.Fatal("handler must not run")
		return sync.OutcomeUpdated, nil
	})

	msg := envelope("challenge.notification.update", `{"id":"challenge-1","status":"Active","name":"Test"}`)
	msg.Originator = ""

	_, err := dispatcher.Dispatch(context.Background(), msg)
	var schemaErr *SchemaValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaValidationError for bad envelope, got %v", err)
	}
}
