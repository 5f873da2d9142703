package translate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/config"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/render"
)

var (
	ErrMissingProject         = errors.New("no legacy project id available for challenge")
	ErrMissingSubmissionPhase = errors.New("submission phase is required when phases are present")
	ErrMissingPrizes          = errors.New("challenge prize information is required")
)

// LookupService is the read-only cross-reference surface the translator
// needs. Satisfied by lookup.Resolver.
type LookupService interface {
	ResolveProject(ctx context.Context, projectID int64) (int64, error)
	ResolveChallengeType(ctx context.Context, typeID string) (model.ChallengeType, error)
	ListTechnologies(ctx context.Context) ([]model.Technology, error)
	ListPlatforms(ctx context.Context) ([]model.Platform, error)
}

// Translator builds the legacy create/update body from a canonical event.
// It performs remote lookups but never writes anywhere.
type Translator struct {
	lookups LookupService
	consts  config.LegacyConstants
	now     func() time.Time
}

func NewTranslator(lookups LookupService, consts config.LegacyConstants) *Translator {
	return &Translator{
		lookups: lookups,
		consts:  consts,
		now:     time.Now,
	}
}

// Translate converts an event into the legacy representation. isCreate
// switches on the fixed defaults the legacy create call requires.
func (t *Translator) Translate(ctx context.Context, event *model.ChallengeEvent, isCreate bool) (*model.LegacyChallengeDTO, error) {
	projectID, err := t.legacyProjectID(ctx, event)
	if err != nil {
		return nil, err
	}

	dto := &model.LegacyChallengeDTO{
		Name:      event.Name,
		ProjectID: projectID,
		Status:    event.Status,
	}
	if event.Legacy != nil {
		dto.Track = event.Legacy.Track
		dto.ReviewType = event.Legacy.ReviewType
		dto.ForumID = event.Legacy.ForumID
	}
	dto.BillingAccountID = event.BillingAccountID
	dto.CopilotID = event.CopilotID

	if isCreate {
		t.applyCreateDefaults(event, dto)
	}

	if event.TypeID != nil {
		if err := t.applyChallengeType(ctx, *event.TypeID, dto); err != nil {
			return nil, err
		}
	}

	if event.Description != nil {
		rendered := render.ToHTML(*event.Description)
		dto.DetailedRequirements = &rendered.Text
	}
	if event.PrivateDescription != nil {
		rendered := render.ToHTML(*event.PrivateDescription)
		dto.PrivateDescription = &rendered.Text
	}

	if len(event.Phases) > 0 {
		if err := t.applyPhases(event.Phases, dto); err != nil {
			return nil, err
		}
	}

	if len(event.PrizeSets) > 0 {
		if err := t.applyPrizes(event.PrizeSets, dto); err != nil {
			return nil, err
		}
	}

	if len(event.Tags) > 0 {
		if err := t.applyTags(ctx, event.Tags, dto); err != nil {
			return nil, err
		}
	}

	return dto, nil
}

// legacyProjectID prefers the direct project id already on the event and
// falls back to a canonical project lookup.
func (t *Translator) legacyProjectID(ctx context.Context, event *model.ChallengeEvent) (int64, error) {
	if event.Legacy != nil && event.Legacy.DirectProjectID != nil {
		return *event.Legacy.DirectProjectID, nil
	}
	if event.ProjectID == nil {
		return 0, ErrMissingProject
	}
	directProjectID, err := t.lookups.ResolveProject(ctx, *event.ProjectID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve project %d: %w", *event.ProjectID, err)
	}
	if directProjectID == 0 {
		return 0, ErrMissingProject
	}
	return directProjectID, nil
}

func (t *Translator) applyCreateDefaults(event *model.ChallengeEvent, dto *model.LegacyChallengeDTO) {
	confidentiality := t.consts.DefaultConfidentialityType
	if event.Legacy != nil && event.Legacy.ConfidentialityType != "" {
		confidentiality = event.Legacy.ConfidentialityType
	}
	guidelines := t.consts.SubmissionGuidelines
	visibility := true
	milestoneID := t.consts.MilestoneID

	dto.ConfidentialityType = &confidentiality
	dto.SubmissionGuidelines = &guidelines
	dto.SubmissionVisibility = &visibility
	dto.MilestoneID = &milestoneID
}

// applyChallengeType maps the canonical type onto subTrack. Task types have
// no native legacy subtrack: they ride on first-to-finish with a task flag.
func (t *Translator) applyChallengeType(ctx context.Context, typeID string, dto *model.LegacyChallengeDTO) error {
	challengeType, err := t.lookups.ResolveChallengeType(ctx, typeID)
	if err != nil {
		return fmt.Errorf("failed to resolve challenge type %s: %w", typeID, err)
	}
	subTrack := challengeType.Abbreviation
	if challengeType.Abbreviation == t.consts.TaskTypeAbbreviation {
		subTrack = t.consts.FirstToFinishSubTrack
		task := true
		dto.Task = &task
	}
	dto.SubTrack = &subTrack
	dto.LegacyTypeID = &challengeType.LegacyID
	return nil
}

func (t *Translator) applyPhases(phases []model.Phase, dto *model.LegacyChallengeDTO) error {
	var registration, submission, checkpoint *model.Phase
	for i := range phases {
		switch phases[i].PhaseID {
		case t.consts.RegistrationPhaseID:
			registration = &phases[i]
		case t.consts.SubmissionPhaseID:
			submission = &phases[i]
		case t.consts.CheckpointSubmissionPhaseID:
			checkpoint = &phases[i]
		}
	}
	if submission == nil {
		return ErrMissingSubmissionPhase
	}
	// Challenges without an explicit registration phase register for as
	// long as they accept submissions.
	registrationDuration := submission.Duration
	if registration != nil {
		registrationDuration = registration.Duration
	}

	now := t.now().UTC()
	setWindow := func(duration int64) (*time.Time, *time.Time, *int64) {
		start := now
		end := now.Add(time.Duration(duration) * time.Second)
		return &start, &end, &duration
	}

	dto.RegistrationStartsAt, dto.RegistrationEndsAt, dto.RegistrationDuration = setWindow(registrationDuration)
	dto.SubmissionStartsAt, dto.SubmissionEndsAt, dto.SubmissionDuration = setWindow(submission.Duration)

	// The checkpoint trio stays explicitly null when no checkpoint phase
	// exists; the fields are declared without omitempty.
	if checkpoint != nil {
		dto.CheckpointSubmissionStartsAt, dto.CheckpointSubmissionEndsAt, dto.CheckpointSubmissionDuration = setWindow(checkpoint.Duration)
	}
	return nil
}

func (t *Translator) applyPrizes(prizeSets []model.PrizeSet, dto *model.LegacyChallengeDTO) error {
	var challengeSet, checkpointSet *model.PrizeSet
	for i := range prizeSets {
		switch prizeSets[i].Type {
		case t.consts.ChallengePrizeSetType:
			challengeSet = &prizeSets[i]
		case t.consts.CheckpointPrizeSetType:
			checkpointSet = &prizeSets[i]
		}
	}
	if challengeSet == nil {
		return ErrMissingPrizes
	}

	prizes := make([]float64, 0, len(challengeSet.Prizes))
	for _, prize := range challengeSet.Prizes {
		prizes = append(prizes, prize.Value)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(prizes)))
	dto.Prizes = prizes

	if checkpointSet != nil && len(checkpointSet.Prizes) > 0 {
		dto.NumberOfCheckpointPrizes = len(checkpointSet.Prizes)
		dto.TopCheckpointPrize = checkpointSet.Prizes[0].Value
	}
	return nil
}

func (t *Translator) applyTags(ctx context.Context, tags []string, dto *model.LegacyChallengeDTO) error {
	tagged := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagged[tag] = true
	}

	technologies, err := t.lookups.ListTechnologies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list technologies: %w", err)
	}
	for _, technology := range technologies {
		if tagged[technology.Name] {
			dto.Technologies = append(dto.Technologies, technology)
		}
	}

	platforms, err := t.lookups.ListPlatforms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list platforms: %w", err)
	}
	for _, platform := range platforms {
		if tagged[platform.Name] {
			dto.Platforms = append(dto.Platforms, platform)
		}
	}
	return nil
}
