package canonical

import (
	"context"
	"fmt"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/api"
)

// Updater writes legacy-assigned identifiers back to the canonical record
// and reads the record's declared type when the engine needs it.
type Updater struct {
	client  *api.Client
	baseURL string
}

func NewUpdater(client *api.Client, baseURL string) *Updater {
	return &Updater{client: client, baseURL: baseURL}
}

type legacyPatch struct {
	DirectProjectID int64     `json:"directProjectId"`
	ForumID         int64     `json:"forumId"`
	ModifiedAt      time.Time `json:"modifiedAt"`
}

type writeBackPatch struct {
	LegacyID int64       `json:"legacyId"`
	Legacy   legacyPatch `json:"legacy"`
}

// WriteBack patches the canonical challenge with the identifiers the legacy
// system assigned on create. The API merges the legacy sub-record, so
// repeating the same write-back is a no-op.
func (u *Updater) WriteBack(ctx context.Context, challengeID string, legacyProjectID, legacyForumID int64, legacyModifiedAt time.Time, legacyID int64) error {
	patch := writeBackPatch{
		LegacyID: legacyID,
		Legacy: legacyPatch{
			DirectProjectID: legacyProjectID,
			ForumID:         legacyForumID,
			ModifiedAt:      legacyModifiedAt,
		},
	}
	url := fmt.Sprintf("%s/%s", u.baseURL, challengeID)
	if err := u.client.Patch(ctx, url, patch, nil); err != nil {
		return fmt.Errorf("failed to patch canonical challenge %s: %w", challengeID, err)
	}
	return nil
}

// GetChallengeTypeID fetches the canonical record's declared type id.
func (u *Updater) GetChallengeTypeID(ctx context.Context, challengeID string) (string, error) {
	var challenge struct {
		TypeID string `json:"typeId"`
	}
	url := fmt.Sprintf("%s/%s", u.baseURL, challengeID)
	if err := u.client.Get(ctx, url, &challenge); err != nil {
		return "", fmt.Errorf("failed to fetch canonical challenge %s: %w", challengeID, err)
	}
	return challenge.TypeID, nil
}
