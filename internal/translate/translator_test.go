package translate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/config"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
)

type fakeLookups struct {
	directProjectID int64
	projectErr      error
	challengeType   model.ChallengeType
	typeErr         error
	technologies    []model.Technology
	platforms       []model.Platform
}

func (f *fakeLookups) ResolveProject(ctx context.Context, projectID int64) (int64, error) {
	return f.directProjectID, f.projectErr
}

func (f *fakeLookups) ResolveChallengeType(ctx context.Context, typeID string) (model.ChallengeType, error) {
	return f.challengeType, f.typeErr
}

func (f *fakeLookups) ListTechnologies(ctx context.Context) ([]model.Technology, error) {
	return f.technologies, nil
}

func (f *fakeLookups) ListPlatforms(ctx context.Context) ([]model.Platform, error) {
	return f.platforms, nil
}

func testConstants() config.LegacyConstants {
	return config.LegacyConstants{
		DefaultConfidentialityType:  "public",
		SubmissionGuidelines:        "read the spec before submitting",
		MilestoneID:                 1,
		TaskTypeID:                  "task-type-id",
		TaskTypeAbbreviation:        "TSK",
		FirstToFinishSubTrack:       "FIRST_2_FINISH",
		RegistrationPhaseID:         "reg-phase",
		SubmissionPhaseID:           "sub-phase",
		CheckpointSubmissionPhaseID: "checkpoint-phase",
		ChallengePrizeSetType:       "placement",
		CheckpointPrizeSetType:      "checkpoint",
	}
}

func newTestTranslator(lookups *fakeLookups) *Translator {
	translator := NewTranslator(lookups, testConstants())
	translator.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return translator
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func baseEvent() *model.ChallengeEvent {
	return &model.ChallengeEvent{
		ID:        "challenge-1",
		Status:    model.StatusActive,
		Name:      "Test Challenge",
		ProjectID: int64Ptr(500),
		Legacy: &model.LegacyData{
			Track:      "DEVELOP",
			ReviewType: "COMMUNITY",
		},
	}
}

func TestTranslateCreateDefaults(t *testing.T) {
	lookups := &fakeLookups{directProjectID: 9001}
	translator := newTestTranslator(lookups)

	dto, err := translator.Translate(context.Background(), baseEvent(), true)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if dto.ProjectID != 9001 {
		t.Errorf("expected resolved project id 9001, got %d", dto.ProjectID)
	}
	if dto.ConfidentialityType == nil || *dto.ConfidentialityType != "public" {
		t.Errorf("expected confidentialityType public, got %v", dto.ConfidentialityType)
	}
	if dto.SubmissionVisibility == nil || !*dto.SubmissionVisibility {
		t.Error("expected submissionVisibility true")
	}
	if dto.MilestoneID == nil || *dto.MilestoneID != 1 {
		t.Errorf("expected milestoneId 1, got %v", dto.MilestoneID)
	}
	if dto.SubmissionGuidelines == nil || *dto.SubmissionGuidelines == "" {
		t.Error("expected submission guidelines to be set")
	}
	if dto.Track != "DEVELOP" || dto.ReviewType != "COMMUNITY" {
		t.Errorf("scalar copy failed: track=%q reviewType=%q", dto.Track, dto.ReviewType)
	}
}

func TestTranslateUpdateSkipsDefaults(t *testing.T) {
	lookups := &fakeLookups{directProjectID: 9001}
	translator := newTestTranslator(lookups)

	dto, err := translator.Translate(context.Background(), baseEvent(), false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.ConfidentialityType != nil || dto.SubmissionVisibility != nil || dto.MilestoneID != nil {
		t.Error("update mode must not set create-only defaults")
	}
}

func TestTranslatePrefersDirectProjectID(t *testing.T) {
	lookups := &fakeLookups{projectErr: errors.New("lookup must not be called")}
	translator := newTestTranslator(lookups)

	event := baseEvent()
	event.Legacy.DirectProjectID = int64Ptr(123)

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.ProjectID != 123 {
		t.Errorf("expected direct project id 123, got %d", dto.ProjectID)
	}
}

func TestTranslateMissingProject(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 0})

	if _, err := translator.Translate(context.Background(), baseEvent(), true); !errors.Is(err, ErrMissingProject) {
		t.Fatalf("expected ErrMissingProject, got %v", err)
	}

	event := baseEvent()
	event.ProjectID = nil
	if _, err := translator.Translate(context.Background(), event, true); !errors.Is(err, ErrMissingProject) {
		t.Fatalf("expected ErrMissingProject without projectId, got %v", err)
	}
}

func TestTranslateTaskTypeRewrite(t *testing.T) {
	lookups := &fakeLookups{
		directProjectID: 9001,
		challengeType:   model.ChallengeType{ID: "task-type-id", Abbreviation: "TSK", LegacyID: 42},
	}
	translator := newTestTranslator(lookups)

	event := baseEvent()
	event.TypeID = strPtr("task-type-id")

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.SubTrack == nil || *dto.SubTrack != "FIRST_2_FINISH" {
		t.Errorf("expected subTrack FIRST_2_FINISH, got %v", dto.SubTrack)
	}
	if dto.Task == nil || !*dto.Task {
		t.Error("expected task flag set")
	}
	if dto.LegacyTypeID == nil || *dto.LegacyTypeID != 42 {
		t.Errorf("expected legacyTypeId 42, got %v", dto.LegacyTypeID)
	}
}

func TestTranslateNonTaskType(t *testing.T) {
	lookups := &fakeLookups{
		directProjectID: 9001,
		challengeType:   model.ChallengeType{ID: "other", Abbreviation: "CODE", LegacyID: 39},
	}
	translator := newTestTranslator(lookups)

	event := baseEvent()
	event.TypeID = strPtr("other")

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.SubTrack == nil || *dto.SubTrack != "CODE" {
		t.Errorf("expected subTrack CODE, got %v", dto.SubTrack)
	}
	if dto.Task != nil {
		t.Error("task flag must stay unset for non-task types")
	}
}

func TestTranslateRendersDescriptions(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})

	event := baseEvent()
	event.Description = strPtr("# Heading")
	event.PrivateDescription = strPtr("plain text")

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.DetailedRequirements == nil || !strings.Contains(*dto.DetailedRequirements, "<h1>") {
		t.Errorf("expected rendered heading, got %v", dto.DetailedRequirements)
	}
	if dto.PrivateDescription == nil || !strings.Contains(*dto.PrivateDescription, "plain text") {
		t.Errorf("expected private description preserved, got %v", dto.PrivateDescription)
	}
}

func TestTranslatePhases(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})

	event := baseEvent()
	event.Phases = []model.Phase{
		{PhaseID: "reg-phase", Duration: 3600},
		{PhaseID: "sub-phase", Duration: 7200},
	}

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.RegistrationDuration == nil || *dto.RegistrationDuration != 3600 {
		t.Errorf("expected registration duration 3600, got %v", dto.RegistrationDuration)
	}
	if dto.SubmissionDuration == nil || *dto.SubmissionDuration != 7200 {
		t.Errorf("expected submission duration 7200, got %v", dto.SubmissionDuration)
	}
	if !dto.SubmissionEndsAt.Equal(dto.SubmissionStartsAt.Add(2 * time.Hour)) {
		t.Error("submission window end must be start + duration")
	}
	if dto.CheckpointSubmissionStartsAt != nil || dto.CheckpointSubmissionEndsAt != nil || dto.CheckpointSubmissionDuration != nil {
		t.Error("checkpoint fields must stay nil without a checkpoint phase")
	}

	// The legacy API requires the checkpoint keys to be present as null.
	data, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, key := range []string{"checkpointSubmissionStartsAt", "checkpointSubmissionEndsAt", "checkpointSubmissionDuration"} {
		if !strings.Contains(string(data), `"`+key+`":null`) {
			t.Errorf("expected %s to serialize as explicit null", key)
		}
	}
}

func TestTranslateWirePayloadPhases(t *testing.T) {
	// Phases arrive on the wire as {id, duration}; the id key must land on
	// Phase.PhaseID or no phase ever matches the configured ids.
	payload := `{
		"id": "challenge-1",
		"status": "Active",
		"name": "Test Challenge",
		"projectId": 500,
		"legacy": {"track": "DEVELOP", "reviewType": "COMMUNITY"},
		"phases": [
			{"id": "reg-phase", "duration": 3600},
			{"id": "sub-phase", "duration": 7200}
		]
	}`
	var event model.ChallengeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		t.Fatalf("payload did not unmarshal: %v", err)
	}
	if len(event.Phases) != 2 || event.Phases[1].PhaseID != "sub-phase" {
		t.Fatalf("phase ids lost on unmarshal: %+v", event.Phases)
	}

	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})
	dto, err := translator.Translate(context.Background(), &event, false)
	if err != nil {
		t.Fatalf("Translate failed on wire-shaped phases: %v", err)
	}
	if dto.SubmissionDuration == nil || *dto.SubmissionDuration != 7200 {
		t.Errorf("expected submission duration 7200, got %v", dto.SubmissionDuration)
	}
	if dto.RegistrationDuration == nil || *dto.RegistrationDuration != 3600 {
		t.Errorf("expected registration duration 3600, got %v", dto.RegistrationDuration)
	}
}

func TestTranslateRegistrationFallsBackToSubmission(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})

	event := baseEvent()
	event.Phases = []model.Phase{{PhaseID: "sub-phase", Duration: 7200}}

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.RegistrationDuration == nil || *dto.RegistrationDuration != 7200 {
		t.Errorf("expected registration to inherit submission duration, got %v", dto.RegistrationDuration)
	}
}

func TestTranslateCheckpointPhase(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})

	event := baseEvent()
	event.Phases = []model.Phase{
		{PhaseID: "sub-phase", Duration: 7200},
		{PhaseID: "checkpoint-phase", Duration: 1800},
	}

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.CheckpointSubmissionStartsAt == nil || dto.CheckpointSubmissionEndsAt == nil || dto.CheckpointSubmissionDuration == nil {
		t.Fatal("expected all three checkpoint fields populated")
	}
	if *dto.CheckpointSubmissionDuration != 1800 {
		t.Errorf("expected checkpoint duration 1800, got %d", *dto.CheckpointSubmissionDuration)
	}
	if !dto.CheckpointSubmissionEndsAt.Equal(dto.CheckpointSubmissionStartsAt.Add(30 * time.Minute)) {
		t.Error("checkpoint window end must be start + duration")
	}
}

func TestTranslateMissingSubmissionPhase(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})

	event := baseEvent()
	event.Phases = []model.Phase{{PhaseID: "reg-phase", Duration: 3600}}

	if _, err := translator.Translate(context.Background(), event, false); !errors.Is(err, ErrMissingSubmissionPhase) {
		t.Fatalf("expected ErrMissingSubmissionPhase, got %v", err)
	}
}

func TestTranslatePrizesSortedDescending(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})

	event := baseEvent()
	event.PrizeSets = []model.PrizeSet{
		{Type: "placement", Prizes: []model.Prize{{Value: 250}, {Value: 1000}, {Value: 500}}},
	}

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	want := []float64{1000, 500, 250}
	if len(dto.Prizes) != len(want) {
		t.Fatalf("expected %d prizes, got %d", len(want), len(dto.Prizes))
	}
	for i := range want {
		if dto.Prizes[i] != want[i] {
			t.Errorf("prize %d: expected %v, got %v", i, want[i], dto.Prizes[i])
		}
	}
	if dto.NumberOfCheckpointPrizes != 0 || dto.TopCheckpointPrize != 0 {
		t.Error("checkpoint prize fields must be zero without a checkpoint set")
	}
}

func TestTranslateCheckpointPrizes(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})

	event := baseEvent()
	event.PrizeSets = []model.PrizeSet{
		{Type: "placement", Prizes: []model.Prize{{Value: 1000}}},
		{Type: "checkpoint", Prizes: []model.Prize{{Value: 50}, {Value: 50}, {Value: 50}}},
	}

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if dto.NumberOfCheckpointPrizes != 3 {
		t.Errorf("expected 3 checkpoint prizes, got %d", dto.NumberOfCheckpointPrizes)
	}
	if dto.TopCheckpointPrize != 50 {
		t.Errorf("expected checkpoint prize value 50, got %v", dto.TopCheckpointPrize)
	}
}

func TestTranslateMissingChallengePrizes(t *testing.T) {
	translator := newTestTranslator(&fakeLookups{directProjectID: 9001})

	event := baseEvent()
	event.PrizeSets = []model.PrizeSet{
		{Type: "checkpoint", Prizes: []model.Prize{{Value: 50}}},
	}

	if _, err := translator.Translate(context.Background(), event, false); !errors.Is(err, ErrMissingPrizes) {
		t.Fatalf("expected ErrMissingPrizes, got %v", err)
	}
}

func TestTranslateTagFiltering(t *testing.T) {
	lookups := &fakeLookups{
		directProjectID: 9001,
		technologies: []model.Technology{
			{ID: 1, Name: "Go"},
			{ID: 2, Name: "Java"},
		},
		platforms: []model.Platform{
			{ID: 10, Name: "Linux"},
			{ID: 11, Name: "AWS"},
		},
	}
	translator := newTestTranslator(lookups)

	event := baseEvent()
	event.Tags = []string{"Go", "AWS"}

	dto, err := translator.Translate(context.Background(), event, false)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(dto.Technologies) != 1 || dto.Technologies[0].Name != "Go" {
		t.Errorf("expected only Go technology, got %v", dto.Technologies)
	}
	if len(dto.Platforms) != 1 || dto.Platforms[0].Name != "AWS" {
		t.Errorf("expected only AWS platform, got %v", dto.Platforms)
	}
}
