package services

import (
	"time"

	"robotics-event-api/packages/core/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AutoEndService struct {
	db           *gorm.DB
	matchService *MatchService
	duration     time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewAutoEndService(db *gorm.DB, matchService *MatchService, duration time.Duration, logger *zap.Logger) *AutoEndService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoEndService{
		db:           db,
		matchService: matchService,
		duration:     duration,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *AutoEndService) cutoff() time.Time {
	return s.now().Add(-s.duration)
}

// EndExpiredMatches completes every ongoing match that started at least the
// configured duration ago and returns how many were ended.
func (s *AutoEndService) EndExpiredMatches() (int, error) {
	var expired []models.Match
	if err := s.db.
		Where("status = ? AND started_at <= ?", models.MatchStatusOngoing, s.cutoff()).
		Order("number ASC").
		Find(&expired).Error; err != nil {
		s.logger.Error("finding expired matches failed", zap.Error(err))
		return 0, err
	}

	if len(expired) == 0 {
		return 0, nil
	}

	ended := 0
	for _, match := range expired {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.matchService.endInTx(tx, match.ID)
		})
		if err != nil {
			// Keep going; a referee may have ended it in the meantime.
			s.logger.Warn("auto-ending match failed", zap.Uint("match_id", match.ID), zap.Error(err))
			continue
		}
		if _, err := s.matchService.publish(match.ID, ActionAutoEnded); err != nil {
			s.logger.Warn("loading auto-ended match failed", zap.Uint("match_id", match.ID), zap.Error(err))
		}
		ended++
	}

	return ended, nil
}

// GetExpiredMatchesCount returns the number of ongoing matches past the cutoff.
func (s *AutoEndService) GetExpiredMatchesCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.Match{}).
		Where("status = ? AND started_at <= ?", models.MatchStatusOngoing, s.cutoff()).
		Count(&count).Error
	return count, err
}
