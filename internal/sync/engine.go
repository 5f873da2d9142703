package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
)

// Outcome is the terminal state of one event pass. Every event ends in
// exactly one of these.
type Outcome string

const (
	OutcomeSkippedNew Outcome = "skipped_new"
	OutcomeCreated    Outcome = "created"
	OutcomeUpdated    Outcome = "updated"
	OutcomeDeferred   Outcome = "deferred_missing_legacy"
	OutcomeFailed     Outcome = "failed"
)

// ErrMissingWinner: a completed task challenge must name a first-place
// winner before the legacy record can be closed.
var ErrMissingWinner = errors.New("completed task challenge has no first-place winner")

type Translator interface {
	Translate(ctx context.Context, event *model.ChallengeEvent, isCreate bool) (*model.LegacyChallengeDTO, error)
}

type Gateway interface {
	Create(ctx context.Context, dto *model.LegacyChallengeDTO) (*model.LegacyChallengeRecord, error)
	Get(ctx context.Context, legacyID int64) (*model.LegacyChallengeRecord, error)
	Update(ctx context.Context, legacyID int64, dto *model.LegacyChallengeDTO) error
	Activate(ctx context.Context, legacyID int64) error
	Close(ctx context.Context, legacyID, winnerID int64) error
}

type CanonicalClient interface {
	WriteBack(ctx context.Context, challengeID string, legacyProjectID, legacyForumID int64, legacyModifiedAt time.Time, legacyID int64) error
	GetChallengeTypeID(ctx context.Context, challengeID string) (string, error)
}

// Publisher re-emits an event payload on a topic. Used only for the
// defer/requeue path.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload json.RawMessage) error
}

// Engine reconciles one canonical event against the legacy system. It holds
// no per-event state, so independent events may run concurrently through
// the same instance.
type Engine struct {
	translator Translator
	gateway    Gateway
	canonical  CanonicalClient
	publisher  Publisher

	updateTopic string
	taskTypeID  string
}

func NewEngine(translator Translator, gateway Gateway, canonical CanonicalClient, publisher Publisher, updateTopic, taskTypeID string) *Engine {
	return &Engine{
		translator:  translator,
		gateway:     gateway,
		canonical:   canonical,
		publisher:   publisher,
		updateTopic: updateTopic,
		taskTypeID:  taskTypeID,
	}
}

// ProcessCreate handles an event from the create topic.
func (e *Engine) ProcessCreate(ctx context.Context, event *model.ChallengeEvent, _ json.RawMessage) (Outcome, error) {
	if event.Status == model.StatusNew {
		log.Printf("challenge %s is still New, no legacy record needed", event.ID)
		return OutcomeSkippedNew, nil
	}
	return e.create(ctx, event)
}

// ProcessUpdate handles an event from the update topic. raw is the original
// payload, republished untouched when the legacy record is not yet visible.
func (e *Engine) ProcessUpdate(ctx context.Context, event *model.ChallengeEvent, raw json.RawMessage) (Outcome, error) {
	if event.Status == model.StatusNew {
		log.Printf("challenge %s is still New, skipping legacy update", event.ID)
		return OutcomeSkippedNew, nil
	}
	if event.LegacyID == nil {
		// Update arrived before the create was reconciled; create now.
		log.Printf("challenge %s has no legacy id on update, falling back to create", event.ID)
		return e.create(ctx, event)
	}

	record, err := e.gateway.Get(ctx, *event.LegacyID)
	if err != nil {
		// The legacy record is not visible yet (replication lag or
		// out-of-order delivery). Hand the event back to the bus and let a
		// later delivery retry; this is the only locally-recovered failure.
		log.Printf("legacy challenge %d not visible yet, requeueing event for challenge %s: %v", *event.LegacyID, event.ID, err)
		if publishErr := e.publisher.Publish(ctx, e.updateTopic, raw); publishErr != nil {
			return OutcomeFailed, publishErr
		}
		return OutcomeDeferred, nil
	}

	dto, err := e.translator.Translate(ctx, event, false)
	if err != nil {
		return OutcomeFailed, err
	}
	if err := e.gateway.Update(ctx, *event.LegacyID, dto); err != nil {
		return OutcomeFailed, err
	}

	if err := e.applyStatusTransition(ctx, event, record); err != nil {
		return OutcomeFailed, err
	}
	log.Printf("updated legacy challenge %d for challenge %s", *event.LegacyID, event.ID)
	return OutcomeUpdated, nil
}

func (e *Engine) create(ctx context.Context, event *model.ChallengeEvent) (Outcome, error) {
	dto, err := e.translator.Translate(ctx, event, true)
	if err != nil {
		return OutcomeFailed, err
	}
	record, err := e.gateway.Create(ctx, dto)
	if err != nil {
		return OutcomeFailed, err
	}
	if err := e.canonical.WriteBack(ctx, event.ID, record.ProjectID, record.ForumID, record.UpdatedAt, record.ID); err != nil {
		return OutcomeFailed, err
	}
	log.Printf("created legacy challenge %d for challenge %s", record.ID, event.ID)
	return OutcomeCreated, nil
}

// applyStatusTransition compares the event's target status with the status
// the legacy system last reported and fires activate/close side effects on
// a real transition only, so replays stay idempotent.
func (e *Engine) applyStatusTransition(ctx context.Context, event *model.ChallengeEvent, record *model.LegacyChallengeRecord) error {
	switch {
	case event.Status == model.StatusActive && record.CurrentStatus != model.StatusActive:
		return e.gateway.Activate(ctx, *event.LegacyID)

	case event.Status == model.StatusCompleted && record.CurrentStatus != model.StatusCompleted:
		typeID, err := e.canonical.GetChallengeTypeID(ctx, event.ID)
		if err != nil {
			return err
		}
		if typeID != e.taskTypeID {
			// The legacy system closes non-task challenges on its own.
			return nil
		}
		winner := firstPlaceWinner(event.Winners)
		if winner == nil {
			return ErrMissingWinner
		}
		return e.gateway.Close(ctx, *event.LegacyID, winner.UserID)
	}
	return nil
}

func firstPlaceWinner(winners []model.Winner) *model.Winner {
	for i := range winners {
		if winners[i].Placement == 1 {
			return &winners[i]
		}
	}
	return nil
}
