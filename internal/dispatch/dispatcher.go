package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/sync"
)

// SchemaValidationError marks an inbound message that failed envelope or
// payload validation; the engine is never invoked for these.
type SchemaValidationError struct {
	Err error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("event failed schema validation: %v", e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }

// HandlerFunc processes one validated event. raw is the original payload
// bytes for handlers that need to republish unchanged.
type HandlerFunc func(ctx context.Context, event *model.ChallengeEvent, raw json.RawMessage) (sync.Outcome, error)

type Dispatcher struct {
	handlers map[string]HandlerFunc
	validate *validator.Validate
}

func NewDispatcher() *Dispatcher {
	log.Println("dispatcher initialized")
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		validate: validator.New(),
	}
}

func (d *Dispatcher) Register(topic string, handler HandlerFunc) {
	log.Printf("registering handler for topic: %s", topic)
	d.handlers[topic] = handler
}

// Dispatch validates the envelope and payload, then routes to the topic's
// handler. Unknown topics and malformed messages never reach a handler.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *model.EventMessage) (sync.Outcome, error) {
	handler, ok := d.handlers[msg.Topic]
	if !ok {
		log.Printf("no handler found for topic: %s", msg.Topic)
		return sync.OutcomeFailed, errors.New("unknown topic: " + msg.Topic)
	}

	if err := d.validate.Struct(msg); err != nil {
		return sync.OutcomeFailed, &SchemaValidationError{Err: err}
	}

	var event model.ChallengeEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return sync.OutcomeFailed, &SchemaValidationError{Err: err}
	}
	if err := d.validate.Struct(&event); err != nil {
		return sync.OutcomeFailed, &SchemaValidationError{Err: err}
	}

	outcome, err := handler(ctx, &event, msg.Payload)
	if err != nil {
		log.Printf("handler error for topic %s, challenge %s: %v", msg.Topic, event.ID, err)
	}
	return outcome, err
}
