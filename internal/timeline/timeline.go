package timeline

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Service runs the phase-scheduling queries against the legacy relational
// store. Each call runs under its own connection scope; writes are wrapped
// in a transaction so a failure rolls back cleanly.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) GetChallengePhases(ctx context.Context, legacyID int64) ([]ChallengePhase, error) {
	var phases []ChallengePhase
	err := s.db.WithContext(ctx).
		Where("project_id = ?", legacyID).
		Order("scheduled_start_time").
		Find(&phases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load phases for legacy challenge %d: %w", legacyID, err)
	}
	return phases, nil
}

func (s *Service) GetPhaseTypes(ctx context.Context) ([]PhaseType, error) {
	var types []PhaseType
	if err := s.db.WithContext(ctx).Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to load phase types: %w", err)
	}
	return types, nil
}

func (s *Service) UpdatePhase(ctx context.Context, phaseID, legacyID int64, start, end time.Time, duration, statusID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&ChallengePhase{}).
			Where("project_phase_id = ? AND project_id = ?", phaseID, legacyID).
			Updates(map[string]interface{}{
				"scheduled_start_time": start,
				"scheduled_end_time":   end,
				"duration":             duration,
				"phase_status_id":      statusID,
			}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update phase %d of legacy challenge %d: %w", phaseID, legacyID, err)
	}
	return nil
}

// EnableNotifications turns on timeline notifications for every resource on
// the legacy challenge, attributed to actor.
func (s *Service) EnableNotifications(ctx context.Context, legacyID int64, actor string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(
			`UPDATE notification SET enabled = true, modify_user = ?, modify_date = now() WHERE project_id = ?`,
			actor, legacyID,
		).Error
	})
	if err != nil {
		return fmt.Errorf("failed to enable notifications for legacy challenge %d: %w", legacyID, err)
	}
	return nil
}
