package timeline

import "time"

// ChallengePhase mirrors the legacy project_phase table. The legacy schema
// calls a challenge a "project"; ProjectID here is the legacy challenge id.
type ChallengePhase struct {
	ProjectPhaseID     int64     `gorm:"column:project_phase_id;primaryKey" json:"projectPhaseId"`
	ProjectID          int64     `gorm:"column:project_id" json:"projectId"`
	PhaseTypeID        int64     `gorm:"column:phase_type_id" json:"phaseTypeId"`
	PhaseStatusID      int64     `gorm:"column:phase_status_id" json:"phaseStatusId"`
	ScheduledStartTime time.Time `gorm:"column:scheduled_start_time" json:"scheduledStartTime"`
	ScheduledEndTime   time.Time `gorm:"column:scheduled_end_time" json:"scheduledEndTime"`
	Duration           int64     `gorm:"column:duration" json:"duration"`
}

func (ChallengePhase) TableName() string { return "project_phase" }

type PhaseType struct {
	PhaseTypeID int64  `gorm:"column:phase_type_id;primaryKey" json:"phaseTypeId"`
	Name        string `gorm:"column:name" json:"name"`
}

func (PhaseType) TableName() string { return "phase_type" }
