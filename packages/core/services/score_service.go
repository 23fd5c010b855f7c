package services

import (
	"robotics-event-api/packages/core/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreService struct {
	db       *gorm.DB
	notifier Notifier
	logger   *zap.Logger
}

func NewScoreService(db *gorm.DB, notifier Notifier, logger *zap.Logger) *ScoreService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{
		db:       db,
		notifier: notifier,
		logger:   logger,
	}
}

// RecordScore persists a scoring event and, for team-level types, bumps the
// team's assignment counter in the same transaction.
func (s *ScoreService) RecordScore(matchID uint, req models.RecordScoreRequest, createdBy string) (*models.Score, error) {
	var score models.Score

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&match, matchID).Error; err != nil {
			if isNotFound(err) {
				return notFound("Match")
			}
			return err
		}
		if match.Status.Final() {
			return stateError("Cannot record scores on a %s match.", match.Status)
		}

		var scoreType models.ScoreType
		if err := tx.First(&scoreType, req.ScoreTypeID).Error; err != nil {
			if isNotFound(err) {
				return notFound("Score type")
			}
			return err
		}

		score = models.Score{
			MatchID:     match.ID,
			ScoreTypeID: scoreType.ID,
			Points:      scoreType.Points,
			CreatedBy:   createdBy,
		}

		switch scoreType.Target {
		case models.TargetTeam:
			if req.TeamID == nil {
				return configError("A team is required for team score types.")
			}
			var assignment models.MatchAlliance
			if err := tx.Where("match_id = ? AND team_id = ?", match.ID, *req.TeamID).First(&assignment).Error; err != nil {
				if isNotFound(err) {
					return stateError("Team is not playing in this match.")
				}
				return err
			}
			score.TeamID = &assignment.TeamID
			score.AllianceID = &assignment.AllianceID

			if err := tx.Create(&score).Error; err != nil {
				return err
			}
			return tx.Model(&models.MatchAlliance{}).
				Where("id = ?", assignment.ID).
				UpdateColumn("score", gorm.Expr("score + ?", score.Points)).Error

		case models.TargetAlliance:
			if req.TeamID != nil {
				return configError("Alliance score types cannot target a team.")
			}
			if req.AllianceID == nil {
				return configError("An alliance is required for alliance score types.")
			}
			var playing int64
			if err := tx.Model(&models.MatchAlliance{}).
				Where("match_id = ? AND alliance_id = ?", match.ID, *req.AllianceID).
				Count(&playing).Error; err != nil {
				return err
			}
			if playing == 0 {
				return stateError("Alliance is not playing in this match.")
			}
			score.AllianceID = req.AllianceID
			return tx.Create(&score).Error
		}

		return configError("Unknown score target %q.", scoreType.Target)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("score recorded",
		zap.Uint("match_id", matchID),
		zap.Uint("score_id", score.ID),
		zap.Int("points", score.Points),
	)
	s.publish(matchID)

	return &score, nil
}

// DeleteScore removes an event and reverses its effect on the assignment
// counter. Completed matches may be corrected this way.
func (s *ScoreService) DeleteScore(scoreID uint) (*models.Match, error) {
	var matchID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var score models.Score
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&score, scoreID).Error; err != nil {
			if isNotFound(err) {
				return notFound("Score")
			}
			return err
		}
		matchID = score.MatchID

		switch t := score.Target().(type) {
		case models.TeamTarget:
			if err := tx.Model(&models.MatchAlliance{}).
				Where("match_id = ? AND team_id = ?", score.MatchID, t.TeamID).
				UpdateColumn("score", gorm.Expr("score - ?", score.Points)).Error; err != nil {
				return err
			}
		case models.AllianceTarget:
		default:
			return invariantError("Score %d has neither a team nor an alliance.", score.ID)
		}

		return tx.Delete(&score).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("score deleted", zap.Uint("match_id", matchID), zap.Uint("score_id", scoreID))
	return s.publish(matchID), nil
}

func (s *ScoreService) GetScoreboard(matchID uint) (*models.MatchScoreboard, error) {
	match, err := loadMatch(s.db, matchID)
	if err != nil {
		return nil, err
	}
	alliances, err := loadAlliances(s.db)
	if err != nil {
		return nil, err
	}
	board := BuildScoreboard(match, alliances)
	return &board, nil
}

func (s *ScoreService) publish(matchID uint) *models.Match {
	match, err := loadMatch(s.db, matchID)
	if err != nil {
		s.logger.Warn("could not load match for notification", zap.Uint("match_id", matchID), zap.Error(err))
		return nil
	}
	s.notifier.ScoreUpdated(match)
	return match
}
