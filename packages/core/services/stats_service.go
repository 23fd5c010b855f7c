package services

import (
	"context"

	"robotics-event-api/packages/core/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

// GetStats gathers the dashboard counters concurrently.
func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.Team{}).Count(&stats.TotalTeams).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.Match{}).Count(&stats.TotalMatches).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.Match{}).
			Where("status = ?", models.MatchStatusCompleted).
			Count(&stats.CompletedMatches).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.Match{}).
			Where("status = ?", models.MatchStatusUpcoming).
			Count(&stats.UpcomingMatches).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.Score{}).Count(&stats.TotalScores).Error
	})
	g.Go(func() error {
		var ongoing []models.Match
		if err := preloadMatch(s.db.WithContext(ctx)).
			Where("status = ?", models.MatchStatusOngoing).
			Limit(1).
			Find(&ongoing).Error; err != nil {
			return err
		}
		if len(ongoing) > 0 {
			stats.OngoingMatch = &ongoing[0]
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
