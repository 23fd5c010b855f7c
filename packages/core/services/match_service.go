package services

import (
	"errors"
	"sync"
	"time"

	"robotics-event-api/packages/core/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Match status change actions carried by notifications.
const (
	ActionStarted   = "started"
	ActionEnded     = "ended"
	ActionCancelled = "cancelled"
	ActionLoaded    = "loaded"
	ActionAutoEnded = "auto_ended"
)

type MatchService struct {
	db       *gorm.DB
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	// startMu serialises start requests inside this process; the partial
	// unique index on ongoing matches covers other processes.
	startMu sync.Mutex

	loadedMu  sync.Mutex
	loadedID  uint
	loadedExp time.Time
	loadedTTL time.Duration
}

func NewMatchService(db *gorm.DB, notifier Notifier, loadedTTL time.Duration, logger *zap.Logger) *MatchService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{
		db:        db,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
		loadedTTL: loadedTTL,
	}
}

func (s *MatchService) GetMatches(filters models.MatchFilters) ([]models.Match, error) {
	query := s.db.Model(&models.Match{})
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Round != nil {
		query = query.Where("round = ?", *filters.Round)
	}

	var matches []models.Match
	if err := preloadMatch(query).Order("number ASC").Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *MatchService) GetMatch(matchID uint) (*models.Match, error) {
	return loadMatch(s.db, matchID)
}

// StartMatch moves an upcoming match to ongoing. Only one match may be
// ongoing at a time; the check is a query, never a cached value.
func (s *MatchService) StartMatch(matchID uint) (*models.Match, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		match, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}

		var ongoing int64
		if err := tx.Model(&models.Match{}).
			Where("status = ? AND id <> ?", models.MatchStatusOngoing, match.ID).
			Count(&ongoing).Error; err != nil {
			return err
		}
		if ongoing > 0 {
			return stateError("Another match is already ongoing.")
		}
		if match.Status != models.MatchStatusUpcoming {
			return stateError("Only upcoming matches can be started.")
		}

		now := s.now()
		return tx.Model(match).Updates(map[string]any{
			"status":     models.MatchStatusOngoing,
			"started_at": now,
			"ended_at":   nil,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.publish(matchID, ActionStarted)
}

// EndMatch completes an ongoing match.
func (s *MatchService) EndMatch(matchID uint) (*models.Match, error) {
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.endInTx(tx, matchID)
	}); err != nil {
		return nil, err
	}
	return s.publish(matchID, ActionEnded)
}

func (s *MatchService) endInTx(tx *gorm.DB, matchID uint) error {
	match, err := lockMatch(tx, matchID)
	if err != nil {
		return err
	}
	if match.Status != models.MatchStatusOngoing {
		return stateError("Only ongoing matches can be ended.")
	}
	return tx.Model(match).Updates(map[string]any{
		"status":   models.MatchStatusCompleted,
		"ended_at": s.now(),
	}).Error
}

// CancelMatch aborts an ongoing match and puts it back in the queue so it
// can be replayed.
func (s *MatchService) CancelMatch(matchID uint) (*models.Match, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		match, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if match.Status != models.MatchStatusOngoing {
			return stateError("Only ongoing matches can be cancelled.")
		}
		return tx.Model(match).Updates(map[string]any{
			"status":       models.MatchStatusUpcoming,
			"started_at":   nil,
			"cancelled_at": s.now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.publish(matchID, ActionCancelled)
}

// LoadMatch marks the match as the one shown on the field displays.
func (s *MatchService) LoadMatch(matchID uint) (*models.Match, error) {
	match, err := loadMatch(s.db, matchID)
	if err != nil {
		return nil, err
	}

	s.loadedMu.Lock()
	s.loadedID = match.ID
	s.loadedExp = s.now().Add(s.loadedTTL)
	s.loadedMu.Unlock()

	s.notifier.MatchStatusChanged(match, ActionLoaded)
	return match, nil
}

// GetLoadedMatch returns the loaded match while its mark is fresh, or the
// next upcoming match otherwise. It returns nil when neither exists.
func (s *MatchService) GetLoadedMatch() (*models.Match, error) {
	s.loadedMu.Lock()
	id, exp := s.loadedID, s.loadedExp
	s.loadedMu.Unlock()

	if id != 0 && s.now().Before(exp) {
		match, err := loadMatch(s.db, id)
		if err == nil {
			return match, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	var match models.Match
	if err := preloadMatch(s.db).
		Where("status = ?", models.MatchStatusUpcoming).
		Order("number ASC").
		First(&match).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

// DeleteAllMatches clears the whole schedule, elimination series included.
func (s *MatchService) DeleteAllMatches() error {
	if err := s.db.Transaction(truncateSchedule); err != nil {
		return err
	}
	s.loadedMu.Lock()
	s.loadedID = 0
	s.loadedMu.Unlock()
	s.logger.Info("all matches deleted")
	return nil
}

func (s *MatchService) publish(matchID uint, action string) (*models.Match, error) {
	match, err := loadMatch(s.db, matchID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("match status changed",
		zap.Uint("match_id", match.ID),
		zap.Int("number", match.Number),
		zap.String("action", action),
	)
	s.notifier.MatchStatusChanged(match, action)
	return match, nil
}

func lockMatch(tx *gorm.DB, matchID uint) (*models.Match, error) {
	var match models.Match
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&match, matchID).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Match")
		}
		return nil, err
	}
	return &match, nil
}
