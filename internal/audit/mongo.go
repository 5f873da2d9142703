package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is one processed event and how it ended.
type Record struct {
	ID          string    `bson:"_id" json:"id"`
	ChallengeID string    `bson:"challenge_id" json:"challengeId"`
	Topic       string    `bson:"topic" json:"topic"`
	Outcome     string    `bson:"outcome" json:"outcome"`
	Error       string    `bson:"error,omitempty" json:"error,omitempty"`
	ProcessedAt time.Time `bson:"processed_at" json:"processedAt"`
	DurationMS  int64     `bson:"duration_ms" json:"durationMs"`
}

type Store struct {
	records *mongo.Collection
}

func NewStore(client *mongo.Client, dbName string) *Store {
	return &Store{
		records: client.Database(dbName).Collection("sync_records"),
	}
}

// Insert stores a processed-event record, assigning an id when absent.
func (s *Store) Insert(ctx context.Context, record Record) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now().UTC()
	}
	if _, err := s.records.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert sync record: %w", err)
	}
	return nil
}

// Recent returns the latest processed events, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Record, error) {
	if limit < 1 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "processed_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.records.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync records: %w", err)
	}
	defer cursor.Close(ctx)

	var results []Record
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode sync records: %w", err)
	}
	return results, nil
}
