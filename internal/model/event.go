package model

import (
	"encoding/json"
	"time"
)

type ChallengeStatus string

const (
	StatusNew       ChallengeStatus = "New"
	StatusDraft     ChallengeStatus = "Draft"
	StatusActive    ChallengeStatus = "Active"
	StatusCompleted ChallengeStatus = "Completed"
	StatusCancelled ChallengeStatus = "Cancelled"
)

// EventMessage is the bus envelope shared by the create and update topics.
// Payload stays raw so a deferred event can be republished byte-for-byte.
type EventMessage struct {
	Topic       string          `json:"topic" validate:"required"`
	Originator  string          `json:"originator" validate:"required"`
	Timestamp   time.Time       `json:"timestamp" validate:"required"`
	ContentType string          `json:"content-type" validate:"required"`
	Payload     json.RawMessage `json:"payload" validate:"required"`
}

// LegacyData is the sub-record of canonical challenges that mirrors
// legacy-system fields. DirectProjectID and ForumID are only present once
// the legacy record exists.
type LegacyData struct {
	Track               string `json:"track,omitempty"`
	ReviewType          string `json:"reviewType,omitempty"`
	ConfidentialityType string `json:"confidentialityType,omitempty"`
	DirectProjectID     *int64 `json:"directProjectId,omitempty"`
	ForumID             *int64 `json:"forumId,omitempty"`
}

type Phase struct {
	PhaseID  string `json:"id"`
	Duration int64  `json:"duration"` // seconds
}

type Prize struct {
	Value float64 `json:"value"`
}

type PrizeSet struct {
	Type   string  `json:"type"`
	Prizes []Prize `json:"prizes"`
}

type Winner struct {
	UserID    int64 `json:"userId"`
	Placement int   `json:"placement"`
}

// ChallengeEvent is the inbound payload on both topics. Optional fields are
// pointers so "absent" and "zero" stay distinguishable; the update topic
// routinely carries partial payloads.
type ChallengeEvent struct {
	ID                 string          `json:"id" validate:"required"`
	Status             ChallengeStatus `json:"status" validate:"required,oneof=New Draft Active Completed Cancelled"`
	LegacyID           *int64          `json:"legacyId,omitempty"`
	Legacy             *LegacyData     `json:"legacy,omitempty"`
	ProjectID          *int64          `json:"projectId,omitempty"`
	TypeID             *string         `json:"typeId,omitempty"`
	Name               string          `json:"name" validate:"required"`
	Description        *string         `json:"description,omitempty"`
	PrivateDescription *string         `json:"privateDescription,omitempty"`
	Phases             []Phase         `json:"phases,omitempty"`
	PrizeSets          []PrizeSet      `json:"prizeSets,omitempty"`
	Tags               []string        `json:"tags,omitempty"`
	BillingAccountID   *int64          `json:"billingAccountId,omitempty"`
	CopilotID          *int64          `json:"copilotId,omitempty"`
	Winners            []Winner        `json:"winners,omitempty"`
}
