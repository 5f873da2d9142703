package lookup

import (
	"context"
	"fmt"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/api"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/config"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
)

// NotFoundError means an upstream lookup returned no result for an
// identifier the event referenced.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Resolver translates canonical identifiers into their legacy counterparts
// through read-only query endpoints. It holds no cache: every event
// re-resolves so late reference-data changes are always picked up.
type Resolver struct {
	client *api.Client

	projectURL      string
	typeURL         string
	technologiesURL string
	platformsURL    string
}

func NewResolver(client *api.Client, cfg config.Config) *Resolver {
	return &Resolver{
		client:          client,
		projectURL:      cfg.ProjectAPIURL,
		typeURL:         cfg.ChallengeTypeAPIURL,
		technologiesURL: cfg.TechnologiesAPIURL,
		platformsURL:    cfg.PlatformsAPIURL,
	}
}

// ResolveProject returns the legacy (direct) project id linked to a
// canonical project. A project without a direct project id resolves to 0;
// the translator decides whether that is fatal.
func (r *Resolver) ResolveProject(ctx context.Context, projectID int64) (int64, error) {
	var project struct {
		DirectProjectID *int64 `json:"directProjectId"`
	}
	url := fmt.Sprintf("%s/%d", r.projectURL, projectID)
	if err := r.client.Get(ctx, url, &project); err != nil {
		if api.IsNotFound(err) {
			return 0, &NotFoundError{Resource: "project", ID: fmt.Sprintf("%d", projectID)}
		}
		return 0, err
	}
	if project.DirectProjectID == nil {
		return 0, nil
	}
	return *project.DirectProjectID, nil
}

func (r *Resolver) ResolveChallengeType(ctx context.Context, typeID string) (model.ChallengeType, error) {
	var challengeType model.ChallengeType
	url := fmt.Sprintf("%s/%s", r.typeURL, typeID)
	if err := r.client.Get(ctx, url, &challengeType); err != nil {
		if api.IsNotFound(err) {
			return model.ChallengeType{}, &NotFoundError{Resource: "challenge type", ID: typeID}
		}
		return model.ChallengeType{}, err
	}
	return challengeType, nil
}

func (r *Resolver) ListTechnologies(ctx context.Context) ([]model.Technology, error) {
	var technologies []model.Technology
	if err := r.client.Get(ctx, r.technologiesURL, &technologies); err != nil {
		return nil, err
	}
	return technologies, nil
}

func (r *Resolver) ListPlatforms(ctx context.Context) ([]model.Platform, error) {
	var platforms []model.Platform
	if err := r.client.Get(ctx, r.platformsURL, &platforms); err != nil {
		return nil, err
	}
	return platforms, nil
}
