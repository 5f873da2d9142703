package legacy

import (
	"context"
	"fmt"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/api"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
)

// UnavailableError means the legacy record for a known legacyId could not be
// fetched. With the legacy system's write-after-read lag this usually means
// "not visible yet", so the engine treats it as a deferral signal rather
// than a failure.
type UnavailableError struct {
	LegacyID int64
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("legacy challenge %d not available: %v", e.LegacyID, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Gateway issues the write-side calls against the legacy challenge API.
type Gateway struct {
	client  *api.Client
	baseURL string
}

func NewGateway(client *api.Client, baseURL string) *Gateway {
	return &Gateway{client: client, baseURL: baseURL}
}

func (g *Gateway) Create(ctx context.Context, dto *model.LegacyChallengeDTO) (*model.LegacyChallengeRecord, error) {
	var record model.LegacyChallengeRecord
	if err := g.client.Post(ctx, g.baseURL, dto, &record); err != nil {
		return nil, fmt.Errorf("failed to create legacy challenge: %w", err)
	}
	return &record, nil
}

func (g *Gateway) Get(ctx context.Context, legacyID int64) (*model.LegacyChallengeRecord, error) {
	var record model.LegacyChallengeRecord
	url := fmt.Sprintf("%s/%d", g.baseURL, legacyID)
	if err := g.client.Get(ctx, url, &record); err != nil {
		return nil, &UnavailableError{LegacyID: legacyID, Err: err}
	}
	return &record, nil
}

func (g *Gateway) Update(ctx context.Context, legacyID int64, dto *model.LegacyChallengeDTO) error {
	url := fmt.Sprintf("%s/%d", g.baseURL, legacyID)
	if err := g.client.Put(ctx, url, dto, nil); err != nil {
		return fmt.Errorf("failed to update legacy challenge %d: %w", legacyID, err)
	}
	return nil
}

func (g *Gateway) Activate(ctx context.Context, legacyID int64) error {
	url := fmt.Sprintf("%s/%d/activate", g.baseURL, legacyID)
	if err := g.client.Post(ctx, url, nil, nil); err != nil {
		return fmt.Errorf("failed to activate legacy challenge %d: %w", legacyID, err)
	}
	return nil
}

func (g *Gateway) Close(ctx context.Context, legacyID, winnerID int64) error {
	url := fmt.Sprintf("%s/%d/close?winnerId=%d", g.baseURL, legacyID, winnerID)
	if err := g.client.Post(ctx, url, nil, nil); err != nil {
		return fmt.Errorf("failed to close legacy challenge %d: %w", legacyID, err)
	}
	return nil
}
