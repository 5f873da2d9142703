package model

import "time"

// LegacyChallengeDTO is the body of legacy create and update calls. Optional
// sections use pointers with omitempty, except the checkpoint-submission
// trio: once phases are translated the legacy API requires those keys to be
// present, null when no checkpoint phase exists, so they carry no omitempty.
type LegacyChallengeDTO struct {
	Track      string          `json:"track"`
	Name       string          `json:"name"`
	ReviewType string          `json:"reviewType"`
	ProjectID  int64           `json:"projectId"`
	Status     ChallengeStatus `json:"status"`

	BillingAccountID *int64 `json:"billingAccountId,omitempty"`
	ForumID          *int64 `json:"forumId,omitempty"`
	CopilotID        *int64 `json:"copilotId,omitempty"`

	ConfidentialityType  *string `json:"confidentialityType,omitempty"`
	SubmissionGuidelines *string `json:"submissionGuidelines,omitempty"`
	SubmissionVisibility *bool   `json:"submissionVisibility,omitempty"`
	MilestoneID          *int    `json:"milestoneId,omitempty"`

	SubTrack     *string `json:"subTrack,omitempty"`
	Task         *bool   `json:"task,omitempty"`
	LegacyTypeID *int64  `json:"legacyTypeId,omitempty"`

	DetailedRequirements *string `json:"detailedRequirements,omitempty"`
	PrivateDescription   *string `json:"privateDescription,omitempty"`

	RegistrationStartsAt *time.Time `json:"registrationStartsAt,omitempty"`
	RegistrationEndsAt   *time.Time `json:"registrationEndsAt,omitempty"`
	RegistrationDuration *int64     `json:"registrationDuration,omitempty"`
	SubmissionStartsAt   *time.Time `json:"submissionStartsAt,omitempty"`
	SubmissionEndsAt     *time.Time `json:"submissionEndsAt,omitempty"`
	SubmissionDuration   *int64     `json:"submissionDuration,omitempty"`

	CheckpointSubmissionStartsAt *time.Time `json:"checkpointSubmissionStartsAt"`
	CheckpointSubmissionEndsAt   *time.Time `json:"checkpointSubmissionEndsAt"`
	CheckpointSubmissionDuration *int64     `json:"checkpointSubmissionDuration"`

	Prizes                   []float64 `json:"prizes,omitempty"`
	NumberOfCheckpointPrizes int       `json:"numberOfCheckpointPrizes"`
	TopCheckpointPrize       float64   `json:"topCheckpointPrize"`

	Technologies []Technology `json:"technologies,omitempty"`
	Platforms    []Platform   `json:"platforms,omitempty"`
}

// LegacyChallengeRecord is what the legacy system reports back. It is owned
// by the legacy system; the engine only reads it to detect status
// transitions and to harvest legacy-assigned identifiers after a create.
type LegacyChallengeRecord struct {
	ID            int64           `json:"id"`
	CurrentStatus ChallengeStatus `json:"currentStatus"`
	ProjectID     int64           `json:"projectId"`
	ForumID       int64           `json:"forumId"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type Technology struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Platform struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ChallengeType is the canonical type record resolved during translation.
type ChallengeType struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	LegacyID     int64  `json:"legacyId"`
}
