package services

import (
	"context"
	"time"

	"robotics-event-api/packages/core/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EliminationService struct {
	db       *gorm.DB
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time
}

func NewEliminationService(db *gorm.DB, interval time.Duration, logger *zap.Logger) *EliminationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EliminationService{
		db:       db,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// bracketBuilder appends elimination matches inside one transaction,
// continuing the global match numbering.
type bracketBuilder struct {
	tx        *gorm.DB
	home      uint
	away      uint
	number    int
	start     time.Time
	interval  time.Duration
	created   int
	createdBy string
}

func (s *EliminationService) newBuilder(tx *gorm.DB, createdBy string) (*bracketBuilder, error) {
	alliances, err := loadAlliances(tx)
	if err != nil {
		return nil, err
	}
	if len(alliances) < 2 {
		return nil, configError("At least 2 alliances (red/blue) are required.")
	}
	number, err := nextMatchNumber(tx)
	if err != nil {
		return nil, err
	}
	return &bracketBuilder{
		tx:        tx,
		home:      alliances[0].ID,
		away:      alliances[1].ID,
		number:    number,
		start:     s.now(),
		interval:  s.interval,
		createdBy: createdBy,
	}, nil
}

// addMatch creates one match of a series with homeGroup on the first
// alliance and awayGroup on the second.
func (b *bracketBuilder) addMatch(series *models.EliminationSeries, round models.EliminationRound, homeGroup, awayGroup *models.AllianceGroup) (*models.Match, error) {
	match := models.Match{
		Number:              b.number,
		Type:                models.MatchTypeElimination,
		Round:               &round,
		EliminationSeriesID: &series.ID,
		Status:              models.MatchStatusUpcoming,
		StartTime:           b.start.Add(time.Duration(b.created) * b.interval),
		CreatedBy:           b.createdBy,
	}
	if err := b.tx.Create(&match).Error; err != nil {
		return nil, err
	}

	var assignments []models.MatchAlliance
	for _, side := range []struct {
		group    *models.AllianceGroup
		alliance uint
	}{{homeGroup, b.home}, {awayGroup, b.away}} {
		groupID := side.group.ID
		for i, teamID := range side.group.Members() {
			assignments = append(assignments, models.MatchAlliance{
				MatchID:          match.ID,
				TeamID:           teamID,
				AllianceID:       side.alliance,
				Position:         i + 1,
				CountsForRanking: true,
				AllianceGroupID:  &groupID,
			})
		}
	}
	if err := b.tx.Create(&assignments).Error; err != nil {
		return nil, err
	}

	b.number++
	b.created++
	match.Assignments = assignments
	return &match, nil
}

// addSeries creates a two-match series with the home/away swap.
func (b *bracketBuilder) addSeries(round models.EliminationRound, first, second *models.AllianceGroup) (*models.EliminationSeries, error) {
	series := models.EliminationSeries{
		Round:            round,
		AllianceGroup1ID: first.ID,
		AllianceGroup2ID: second.ID,
		Status:           models.SeriesStatusPending,
	}
	if err := b.tx.Create(&series).Error; err != nil {
		return nil, err
	}
	if _, err := b.addMatch(&series, round, first, second); err != nil {
		return nil, err
	}
	if _, err := b.addMatch(&series, round, second, first); err != nil {
		return nil, err
	}
	return &series, nil
}

// GenerateBracket builds the opening series from the completed groups:
// a final for two groups, or 1v4 and 2v3 semifinals for four.
func (s *EliminationService) GenerateBracket(createdBy string) ([]models.EliminationSeries, error) {
	var created []models.EliminationSeries

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var groups []models.AllianceGroup
		if err := tx.Where("picked_team_id IS NOT NULL").Order("seed ASC").Find(&groups).Error; err != nil {
			return err
		}
		if len(groups) == 0 {
			return configError("No completed alliance groups found.")
		}
		if len(groups) < 2 {
			return configError("At least 2 alliance groups are required.")
		}

		var existing int64
		if err := tx.Model(&models.EliminationSeries{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return stateError("Elimination bracket already exists. Reset first.")
		}

		b, err := s.newBuilder(tx, createdBy)
		if err != nil {
			return err
		}

		switch len(groups) {
		case 2:
			series, err := b.addSeries(models.RoundFinal, &groups[0], &groups[1])
			if err != nil {
				return err
			}
			created = append(created, *series)
		case 4:
			sf1, err := b.addSeries(models.RoundSemifinal1, &groups[0], &groups[3])
			if err != nil {
				return err
			}
			sf2, err := b.addSeries(models.RoundSemifinal2, &groups[1], &groups[2])
			if err != nil {
				return err
			}
			created = append(created, *sf1, *sf2)
		default:
			return configError("Only 2 or 4 alliance groups are supported.")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("elimination bracket generated", zap.Int("series", len(created)))
	return created, nil
}

func (s *EliminationService) GetSeries(seriesID uint) (*models.EliminationSeries, error) {
	return findSeries(s.db, seriesID)
}

func findSeries(db *gorm.DB, seriesID uint) (*models.EliminationSeries, error) {
	var series models.EliminationSeries
	if err := db.First(&series, seriesID).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Series")
		}
		return nil, err
	}
	return &series, nil
}

// GetSeriesResult counts match wins per group over the completed matches
// of a series. Drawn matches award nothing.
func (s *EliminationService) GetSeriesResult(seriesID uint) (models.SeriesResult, error) {
	series, err := findSeries(s.db, seriesID)
	if err != nil {
		return models.SeriesResult{}, err
	}
	return seriesResult(s.db, series)
}

func seriesResult(db *gorm.DB, series *models.EliminationSeries) (models.SeriesResult, error) {
	var groups []models.AllianceGroup
	if err := db.Where("id IN ?", []uint{series.AllianceGroup1ID, series.AllianceGroup2ID}).Find(&groups).Error; err != nil {
		return models.SeriesResult{}, err
	}
	var group1, group2 *models.AllianceGroup
	for i := range groups {
		switch groups[i].ID {
		case series.AllianceGroup1ID:
			group1 = &groups[i]
		case series.AllianceGroup2ID:
			group2 = &groups[i]
		}
	}
	if group1 == nil || group2 == nil {
		return models.SeriesResult{}, notFound("Alliance group")
	}

	var matches []models.Match
	if err := db.
		Preload("Assignments").
		Preload("Scores").
		Where("elimination_series_id = ?", series.ID).
		Order("number ASC").
		Find(&matches).Error; err != nil {
		return models.SeriesResult{}, err
	}

	return tallySeries(matches, group1, group2), nil
}

func tallySeries(matches []models.Match, group1, group2 *models.AllianceGroup) models.SeriesResult {
	result := models.SeriesResult{TotalMatches: len(matches)}
	for i := range matches {
		if matches[i].Status != models.MatchStatusCompleted {
			continue
		}
		result.CompletedMatches++
		score1 := GroupTotal(&matches[i], group1.Members())
		score2 := GroupTotal(&matches[i], group2.Members())
		switch {
		case score1 > score2:
			result.Group1Wins++
		case score2 > score1:
			result.Group2Wins++
		}
	}
	return result
}

// DetermineSeriesWinner settles the series when one group has strictly more
// wins. With equal wins it returns nil and moves the series to in_progress
// once any match has been completed.
func (s *EliminationService) DetermineSeriesWinner(seriesID uint) (*models.AllianceGroup, models.SeriesResult, error) {
	var winner *models.AllianceGroup
	var result models.SeriesResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var series models.EliminationSeries
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&series, seriesID).Error; err != nil {
			if isNotFound(err) {
				return notFound("Series")
			}
			return err
		}

		var err error
		result, err = seriesResult(tx, &series)
		if err != nil {
			return err
		}

		if series.WinnerAllianceGroupID != nil {
			winner = &models.AllianceGroup{}
			return tx.Preload("CaptainTeam").Preload("PickedTeam").First(winner, *series.WinnerAllianceGroupID).Error
		}

		var winnerID *uint
		switch {
		case result.Group1Wins > result.Group2Wins:
			winnerID = &series.AllianceGroup1ID
		case result.Group2Wins > result.Group1Wins:
			winnerID = &series.AllianceGroup2ID
		}

		updates := map[string]any{}
		switch {
		case winnerID != nil:
			updates["status"] = models.SeriesStatusCompleted
			updates["winner_alliance_group_id"] = *winnerID
		case result.CompletedMatches > 0:
			updates["status"] = models.SeriesStatusInProgress
		default:
			updates["status"] = models.SeriesStatusPending
		}
		if err := tx.Model(&series).Updates(updates).Error; err != nil {
			return err
		}

		if winnerID == nil {
			return nil
		}
		winner = &models.AllianceGroup{}
		return tx.Preload("CaptainTeam").Preload("PickedTeam").First(winner, *winnerID).Error
	})
	if err != nil {
		return nil, models.SeriesResult{}, err
	}

	if winner != nil {
		s.logger.Info("series decided", zap.Uint("series_id", seriesID), zap.Uint("winner_group_id", winner.ID))
	}
	return winner, result, nil
}

// GenerateTiebreaker adds one extra match to a tied, undecided series. The
// better seed takes the first alliance.
func (s *EliminationService) GenerateTiebreaker(seriesID uint, createdBy string) (*models.Match, error) {
	var match *models.Match

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var series models.EliminationSeries
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&series, seriesID).Error; err != nil {
			if isNotFound(err) {
				return notFound("Series")
			}
			return err
		}
		if series.WinnerAllianceGroupID != nil {
			return stateError("Series already has a winner.")
		}

		result, err := seriesResult(tx, &series)
		if err != nil {
			return err
		}
		if !result.Tied() {
			return stateError("Series is not tied. Cannot generate tiebreaker.")
		}

		var group1, group2 models.AllianceGroup
		if err := tx.First(&group1, series.AllianceGroup1ID).Error; err != nil {
			return err
		}
		if err := tx.First(&group2, series.AllianceGroup2ID).Error; err != nil {
			return err
		}
		home, away := &group1, &group2
		if group2.Seed < group1.Seed {
			home, away = &group2, &group1
		}

		b, err := s.newBuilder(tx, createdBy)
		if err != nil {
			return err
		}
		match, err = b.addMatch(&series, series.Round.Tiebreaker(), home, away)
		if err != nil {
			return err
		}
		if result.CompletedMatches == 0 {
			return nil
		}
		return tx.Model(&series).Update("status", models.SeriesStatusInProgress).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tiebreaker generated", zap.Uint("series_id", seriesID), zap.Int("number", match.Number))
	return match, nil
}

// AdvanceBracket creates the final once both semifinals have winners. It
// returns nil without error when there is nothing to do yet.
func (s *EliminationService) AdvanceBracket(seriesID uint, createdBy string) (*models.EliminationSeries, error) {
	var final *models.EliminationSeries

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var completed models.EliminationSeries
		if err := tx.First(&completed, seriesID).Error; err != nil {
			if isNotFound(err) {
				return notFound("Series")
			}
			return err
		}
		if completed.WinnerAllianceGroupID == nil {
			return stateError("Series must have a winner to advance bracket.")
		}
		if !completed.Round.IsSemifinal() {
			return nil
		}

		var semis []models.EliminationSeries
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("round IN ?", []models.EliminationRound{models.RoundSemifinal1, models.RoundSemifinal2}).
			Order("round ASC").
			Find(&semis).Error; err != nil {
			return err
		}
		if len(semis) != 2 || semis[0].WinnerAllianceGroupID == nil || semis[1].WinnerAllianceGroupID == nil {
			return nil
		}

		var finals int64
		if err := tx.Model(&models.EliminationSeries{}).Where("round = ?", models.RoundFinal).Count(&finals).Error; err != nil {
			return err
		}
		if finals > 0 {
			return nil
		}

		var winner1, winner2 models.AllianceGroup
		if err := tx.First(&winner1, *semis[0].WinnerAllianceGroupID).Error; err != nil {
			return err
		}
		if err := tx.First(&winner2, *semis[1].WinnerAllianceGroupID).Error; err != nil {
			return err
		}
		home, away := &winner1, &winner2
		if winner2.Seed < winner1.Seed {
			home, away = &winner2, &winner1
		}

		b, err := s.newBuilder(tx, createdBy)
		if err != nil {
			return err
		}
		final, err = b.addSeries(models.RoundFinal, home, away)
		return err
	})
	if err != nil {
		return nil, err
	}

	if final != nil {
		s.logger.Info("final series created", zap.Uint("series_id", final.ID))
	}
	return final, nil
}

// GetBracketState loads every series with its result alongside the groups.
func (s *EliminationService) GetBracketState(ctx context.Context) (*models.BracketState, error) {
	var series []models.EliminationSeries
	var groups []models.AllianceGroup

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(ctx).
			Preload("AllianceGroup1.CaptainTeam").
			Preload("AllianceGroup1.PickedTeam").
			Preload("AllianceGroup2.CaptainTeam").
			Preload("AllianceGroup2.PickedTeam").
			Preload("Winner.CaptainTeam").
			Preload("Winner.PickedTeam").
			Preload("Matches", func(db *gorm.DB) *gorm.DB {
				return db.Order("number ASC")
			}).
			Preload("Matches.Assignments.Team").
			Preload("Matches.Assignments.Alliance").
			Preload("Matches.Scores.ScoreType").
			Order("id ASC").
			Find(&series).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).
			Preload("CaptainTeam").
			Preload("PickedTeam").
			Order("seed ASC").
			Find(&groups).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	state := &models.BracketState{
		Series:         make([]models.SeriesWithResult, 0, len(series)),
		AllianceGroups: groups,
	}
	for i := range series {
		entry := models.SeriesWithResult{EliminationSeries: series[i]}
		if series[i].AllianceGroup1 != nil && series[i].AllianceGroup2 != nil {
			entry.Result = tallySeries(series[i].Matches, series[i].AllianceGroup1, series[i].AllianceGroup2)
		}
		state.Series = append(state.Series, entry)
	}
	return state, nil
}

// Reset removes elimination matches with their assignments and scores, and
// every series. Qualification data is left alone.
func (s *EliminationService) Reset() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var matchIDs []uint
		if err := tx.Model(&models.Match{}).Where("type = ?", models.MatchTypeElimination).Pluck("id", &matchIDs).Error; err != nil {
			return err
		}
		if len(matchIDs) > 0 {
			if err := tx.Where("match_id IN ?", matchIDs).Delete(&models.Score{}).Error; err != nil {
				return err
			}
			if err := tx.Where("match_id IN ?", matchIDs).Delete(&models.MatchAlliance{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", matchIDs).Delete(&models.Match{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("1 = 1").Delete(&models.EliminationSeries{}).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("elimination bracket reset")
	return nil
}
