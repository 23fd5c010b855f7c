package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const fixtureAuthor = "fixtures"

type Fixtures struct {
	db     *gorm.DB
	logger *zap.Logger
	rng    *rand.Rand

	teams      *services.TeamService
	scoreTypes *services.ScoreTypeService
	scheduler  *services.QualificationScheduler
	matches    *services.MatchService
	scores     *services.ScoreService
}

func NewFixtures(db *gorm.DB, rng *rand.Rand, logger *zap.Logger) *Fixtures {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	matchService := services.NewMatchService(db, nil, time.Hour, logger)
	return &Fixtures{
		db:         db,
		logger:     logger,
		rng:        rng,
		teams:      services.NewTeamService(db),
		scoreTypes: services.NewScoreTypeService(db),
		scheduler:  services.NewQualificationScheduler(db, rng, 10*time.Minute, logger),
		matches:    matchService,
		scores:     services.NewScoreService(db, nil, logger),
	}
}

// GenerateTestData creates the two alliances, a scoring catalogue, 12 teams
// and a three round qualification schedule, then plays the first half of
// the schedule with random scoring events.
func (f *Fixtures) GenerateTestData() error {
	f.logger.Info("starting fixtures generation")

	if err := f.ensureAlliances(); err != nil {
		return fmt.Errorf("failed to create alliances: %w", err)
	}

	teamTypes, allianceTypes, err := f.generateScoreTypes()
	if err != nil {
		return fmt.Errorf("failed to generate score types: %w", err)
	}

	teams, err := f.generateTeams()
	if err != nil {
		return fmt.Errorf("failed to generate teams: %w", err)
	}

	summary, err := f.scheduler.Generate(models.GenerateScheduleRequest{
		RoundsPerTeam:    3,
		TeamsPerAlliance: 3,
	}, fixtureAuthor)
	if err != nil {
		return fmt.Errorf("failed to generate schedule: %w", err)
	}

	played, events, err := f.playMatches(summary.MatchCount/2, teamTypes, allianceTypes)
	if err != nil {
		return fmt.Errorf("failed to play matches: %w", err)
	}

	f.logger.Info("fixtures generated",
		zap.Int("teams", len(teams)),
		zap.Int("matches", summary.MatchCount),
		zap.Int("played", played),
		zap.Int("score_events", events),
	)
	return nil
}

func (f *Fixtures) ensureAlliances() error {
	for _, a := range []models.Alliance{
		{Name: "Red", Color: "#d32f2f"},
		{Name: "Blue", Color: "#1976d2"},
	} {
		alliance := a
		if err := f.db.Where(models.Alliance{Name: a.Name}).FirstOrCreate(&alliance).Error; err != nil {
			return err
		}
	}
	return nil
}

type fixtureScoreType struct {
	name   string
	points int
	target models.TargetKind
}

func (f *Fixtures) generateScoreTypes() ([]models.ScoreType, []models.ScoreType, error) {
	catalogue := []struct {
		group string
		types []fixtureScoreType
	}{
		{"Autonomous", []fixtureScoreType{
			{"Leave", 3, models.TargetTeam},
			{"Auto Coral", 4, models.TargetTeam},
		}},
		{"Teleop", []fixtureScoreType{
			{"Coral L2", 3, models.TargetTeam},
			{"Coral L4", 5, models.TargetTeam},
			{"Algae Net", 4, models.TargetAlliance},
		}},
		{"Endgame", []fixtureScoreType{
			{"Park", 2, models.TargetTeam},
			{"Deep Climb", 12, models.TargetTeam},
			{"Coopertition", 5, models.TargetAlliance},
		}},
	}

	var teamTypes, allianceTypes []models.ScoreType
	for i, entry := range catalogue {
		group, err := f.scoreTypes.CreateGroup(models.CreateScoreTypeGroupRequest{
			Name:      entry.group,
			SortOrder: i,
		})
		if err != nil {
			return nil, nil, err
		}
		for _, t := range entry.types {
			points := t.points
			created, err := f.scoreTypes.CreateScoreType(models.CreateScoreTypeRequest{
				Name:    t.name,
				Points:  &points,
				Target:  t.target,
				GroupID: &group.ID,
			})
			if err != nil {
				return nil, nil, err
			}
			if t.target == models.TargetAlliance {
				allianceTypes = append(allianceTypes, *created)
			} else {
				teamTypes = append(teamTypes, *created)
			}
		}
	}
	return teamTypes, allianceTypes, nil
}

func (f *Fixtures) generateTeams() ([]models.Team, error) {
	names := []string{
		"Circuit Breakers", "Gear Grinders", "Voltage Vipers", "Torque Titans",
		"Byte Builders", "Servo Squad", "Iron Owls", "Quantum Quokkas",
		"Sprocket Rockets", "Pneumatic Pandas", "Binary Bison", "Flux Falcons",
	}

	teams := make([]models.Team, 0, len(names))
	for i, name := range names {
		team, err := f.teams.CreateTeam(models.CreateTeamRequest{
			Number: 1000 + (i+1)*111,
			Name:   name,
		})
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, nil
}

// playMatches runs the first n upcoming matches through start, scoring and
// end, exactly as a referee would.
func (f *Fixtures) playMatches(n int, teamTypes, allianceTypes []models.ScoreType) (int, int, error) {
	upcoming := models.MatchStatusUpcoming
	matches, err := f.matches.GetMatches(models.MatchFilters{Status: &upcoming})
	if err != nil {
		return 0, 0, err
	}
	if n > len(matches) {
		n = len(matches)
	}

	events := 0
	for _, match := range matches[:n] {
		if _, err := f.matches.StartMatch(match.ID); err != nil {
			return 0, 0, err
		}

		for _, a := range match.Assignments {
			teamID := a.TeamID
			for k := f.rng.Intn(4); k > 0; k-- {
				st := teamTypes[f.rng.Intn(len(teamTypes))]
				if _, err := f.scores.RecordScore(match.ID, models.RecordScoreRequest{
					ScoreTypeID: st.ID,
					TeamID:      &teamID,
				}, fixtureAuthor); err != nil {
					return 0, 0, err
				}
				events++
			}
		}

		playing := make(map[uint]bool)
		for _, a := range match.Assignments {
			playing[a.AllianceID] = true
		}
		for allianceID := range playing {
			if len(allianceTypes) == 0 || f.rng.Intn(2) == 0 {
				continue
			}
			id := allianceID
			st := allianceTypes[f.rng.Intn(len(allianceTypes))]
			if _, err := f.scores.RecordScore(match.ID, models.RecordScoreRequest{
				ScoreTypeID: st.ID,
				AllianceID:  &id,
			}, fixtureAuthor); err != nil {
				return 0, 0, err
			}
			events++
		}

		if _, err := f.matches.EndMatch(match.ID); err != nil {
			return 0, 0, err
		}
	}
	return n, events, nil
}

// ClearAllData removes everything except the alliances, which the schema
// migration seeds.
func (f *Fixtures) ClearAllData() error {
	f.logger.Info("clearing all fixture data")

	// Delete in correct order due to foreign key constraints
	tables := []interface{}{
		&models.Score{},
		&models.MatchAlliance{},
		&models.Match{},
		&models.EliminationSeries{},
		&models.AllianceGroup{},
		&models.ScoreType{},
		&models.ScoreTypeGroup{},
		&models.Team{},
	}

	for _, table := range tables {
		if err := f.db.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table %T: %w", table, err)
		}
	}

	if f.db.Dialector.Name() != "postgres" {
		return nil
	}

	// Reset auto-increment sequences to start from 1
	sequences := []string{
		"ALTER SEQUENCE scores_id_seq RESTART WITH 1",
		"ALTER SEQUENCE match_alliances_id_seq RESTART WITH 1",
		"ALTER SEQUENCE matches_id_seq RESTART WITH 1",
		"ALTER SEQUENCE elimination_series_id_seq RESTART WITH 1",
		"ALTER SEQUENCE alliance_groups_id_seq RESTART WITH 1",
		"ALTER SEQUENCE score_types_id_seq RESTART WITH 1",
		"ALTER SEQUENCE score_type_groups_id_seq RESTART WITH 1",
		"ALTER SEQUENCE teams_id_seq RESTART WITH 1",
	}

	for _, seq := range sequences {
		if err := f.db.Exec(seq).Error; err != nil {
			f.logger.Warn("failed to reset sequence", zap.String("statement", seq), zap.Error(err))
		}
	}

	f.logger.Info("all fixture data cleared")
	return nil
}
