package services

import (
	"math/rand"
	"sync"
	"time"

	"robotics-event-api/packages/core/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type plannedSlot struct {
	TeamID           uint
	AllianceID       uint
	Position         int
	Surrogate        bool
	CountsForRanking bool
}

type plannedMatch struct {
	Round int
	Slots []plannedSlot
}

type scheduleParams struct {
	TeamIDs           []uint
	AllianceIDs       []uint
	RoundsPerTeam     int
	TeamsPerAlliance  int
	MaxScoringMatches int // 0 means no cap
}

// planQualification builds the round-based schedule in memory. Each round
// shuffles the whole roster, cuts it into matches, and tops up the last
// match with surrogates taken from teams not already in it.
func planQualification(rng *rand.Rand, p scheduleParams) ([]plannedMatch, error) {
	if p.RoundsPerTeam <= 0 {
		return nil, configError("Rounds per team must be at least 1.")
	}
	if p.TeamsPerAlliance <= 0 {
		return nil, configError("Teams per alliance must be at least 1.")
	}
	if len(p.AllianceIDs) < 2 {
		return nil, configError("At least 2 alliances are required.")
	}

	teamsPerMatch := p.TeamsPerAlliance * len(p.AllianceIDs)
	teamCount := len(p.TeamIDs)
	if teamCount < teamsPerMatch {
		return nil, configError("Not enough teams. Need at least %d but found %d.", teamsPerMatch, teamCount)
	}

	matchesPerRound := (teamCount + teamsPerMatch - 1) / teamsPerMatch
	scheduled := make(map[uint]int, teamCount)
	plan := make([]plannedMatch, 0, p.RoundsPerTeam*matchesPerRound)

	for round := 1; round <= p.RoundsPerTeam; round++ {
		order := make([]uint, teamCount)
		for i, j := range rng.Perm(teamCount) {
			order[i] = p.TeamIDs[j]
		}

		for m := 0; m < matchesPerRound; m++ {
			start := m * teamsPerMatch
			end := start + teamsPerMatch
			if end > teamCount {
				end = teamCount
			}

			regular := append([]uint(nil), order[start:end]...)
			surrogates, err := pickSurrogates(rng, p.TeamIDs, regular, teamsPerMatch-len(regular))
			if err != nil {
				return nil, err
			}

			teams := append(regular, surrogates...)
			rng.Shuffle(len(teams), func(i, j int) { teams[i], teams[j] = teams[j], teams[i] })

			if len(p.AllianceIDs)*p.TeamsPerAlliance != len(teams) {
				return nil, invariantError("Slot count %d does not match team count %d.", len(p.AllianceIDs)*p.TeamsPerAlliance, len(teams))
			}

			isSurrogate := make(map[uint]bool, len(surrogates))
			for _, id := range surrogates {
				isSurrogate[id] = true
			}

			match := plannedMatch{Round: round, Slots: make([]plannedSlot, 0, len(teams))}
			next := 0
			for _, allianceID := range p.AllianceIDs {
				for position := 1; position <= p.TeamsPerAlliance; position++ {
					teamID := teams[next]
					next++
					scheduled[teamID]++
					match.Slots = append(match.Slots, plannedSlot{
						TeamID:           teamID,
						AllianceID:       allianceID,
						Position:         position,
						Surrogate:        isSurrogate[teamID],
						CountsForRanking: p.MaxScoringMatches <= 0 || scheduled[teamID] <= p.MaxScoringMatches,
					})
				}
			}
			plan = append(plan, match)
		}
	}

	return plan, nil
}

func pickSurrogates(rng *rand.Rand, roster, taken []uint, need int) ([]uint, error) {
	if need <= 0 {
		return nil, nil
	}

	in := make(map[uint]bool, len(taken))
	for _, id := range taken {
		in[id] = true
	}
	pool := make([]uint, 0, len(roster))
	for _, id := range roster {
		if !in[id] {
			pool = append(pool, id)
		}
	}
	if len(pool) < need {
		return nil, invariantError("Surrogate pool has %d teams but %d are needed.", len(pool), need)
	}

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:need], nil
}

// QualificationScheduler replaces the whole match schedule with a freshly
// generated qualification schedule.
type QualificationScheduler struct {
	db       *gorm.DB
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewQualificationScheduler(db *gorm.DB, rng *rand.Rand, interval time.Duration, logger *zap.Logger) *QualificationScheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QualificationScheduler{
		db:       db,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		rng:      rng,
	}
}

// Generate wipes matches, assignments, scores and elimination series, then
// writes the new schedule. Everything happens in one transaction.
func (s *QualificationScheduler) Generate(req models.GenerateScheduleRequest, createdBy string) (*models.ScheduleSummary, error) {
	maxScoring := 0
	if req.MaxScoringMatches != nil {
		if *req.MaxScoringMatches <= 0 {
			return nil, configError("Max scoring matches must be at least 1.")
		}
		maxScoring = *req.MaxScoringMatches
	}

	summary := &models.ScheduleSummary{Rounds: req.RoundsPerTeam}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var teamIDs []uint
		if err := tx.Model(&models.Team{}).Order("number ASC").Pluck("id", &teamIDs).Error; err != nil {
			return err
		}
		var allianceIDs []uint
		if err := tx.Model(&models.Alliance{}).Order("id ASC").Pluck("id", &allianceIDs).Error; err != nil {
			return err
		}

		s.mu.Lock()
		plan, err := planQualification(s.rng, scheduleParams{
			TeamIDs:           teamIDs,
			AllianceIDs:       allianceIDs,
			RoundsPerTeam:     req.RoundsPerTeam,
			TeamsPerAlliance:  req.TeamsPerAlliance,
			MaxScoringMatches: maxScoring,
		})
		s.mu.Unlock()
		if err != nil {
			return err
		}

		if err := truncateSchedule(tx); err != nil {
			return err
		}

		number, err := nextMatchNumber(tx)
		if err != nil {
			return err
		}
		summary.FirstNumber = number

		now := s.now()
		for i, planned := range plan {
			match := models.Match{
				Number:    number,
				Type:      models.MatchTypeQualification,
				Status:    models.MatchStatusUpcoming,
				StartTime: now.Add(time.Duration(i) * s.interval),
				CreatedBy: createdBy,
			}
			if err := tx.Create(&match).Error; err != nil {
				return err
			}

			assignments := make([]models.MatchAlliance, 0, len(planned.Slots))
			for _, slot := range planned.Slots {
				if slot.Surrogate {
					summary.SurrogateUses++
				}
				assignments = append(assignments, models.MatchAlliance{
					MatchID:          match.ID,
					TeamID:           slot.TeamID,
					AllianceID:       slot.AllianceID,
					Position:         slot.Position,
					CountsForRanking: slot.CountsForRanking,
					Surrogate:        slot.Surrogate,
				})
			}
			if err := tx.Create(&assignments).Error; err != nil {
				return err
			}

			summary.LastNumber = number
			number++
		}
		summary.MatchCount = len(plan)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("qualification schedule generated",
		zap.Int("rounds", summary.Rounds),
		zap.Int("matches", summary.MatchCount),
		zap.Int("surrogate_uses", summary.SurrogateUses),
	)
	return summary, nil
}

// truncateSchedule deletes every match-shaped row. Alliance groups survive.
func truncateSchedule(tx *gorm.DB) error {
	if err := tx.Where("1 = 1").Delete(&models.Score{}).Error; err != nil {
		return err
	}
	if err := tx.Where("1 = 1").Delete(&models.MatchAlliance{}).Error; err != nil {
		return err
	}
	if err := tx.Where("1 = 1").Delete(&models.Match{}).Error; err != nil {
		return err
	}
	return tx.Where("1 = 1").Delete(&models.EliminationSeries{}).Error
}
