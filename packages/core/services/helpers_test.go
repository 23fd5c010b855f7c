package services

import (
	"testing"

	"robotics-event-api/packages/core/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Team{},
		&models.Alliance{},
		&models.ScoreTypeGroup{},
		&models.ScoreType{},
		&models.AllianceGroup{},
		&models.EliminationSeries{},
		&models.Match{},
		&models.MatchAlliance{},
		&models.Score{},
	))
	return db
}

func seedAlliances(t *testing.T, db *gorm.DB) (red, blue models.Alliance) {
	t.Helper()
	red = models.Alliance{Name: "Red", Color: "#d32f2f"}
	blue = models.Alliance{Name: "Blue", Color: "#1976d2"}
	require.NoError(t, db.Create(&red).Error)
	require.NoError(t, db.Create(&blue).Error)
	return red, blue
}

func seedTeams(t *testing.T, db *gorm.DB, n int) []models.Team {
	t.Helper()
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = models.Team{Number: 100 + i, Name: "Team " + string(rune('A'+i%26))}
	}
	require.NoError(t, db.Create(&teams).Error)
	return teams
}

func seedScoreType(t *testing.T, db *gorm.DB, name string, points int, target models.TargetKind) models.ScoreType {
	t.Helper()
	st := models.ScoreType{Name: name, Points: points, Target: target}
	require.NoError(t, db.Create(&st).Error)
	return st
}

type slot struct {
	team     models.Team
	alliance models.Alliance
	score    int
}

// seedMatch writes a match with fixed assignment scores, bypassing the
// scheduler.
func seedMatch(t *testing.T, db *gorm.DB, number int, matchType models.MatchType, status models.MatchStatus, slots ...slot) models.Match {
	t.Helper()
	match := models.Match{Number: number, Type: matchType, Status: status}
	require.NoError(t, db.Create(&match).Error)
	for i, s := range slots {
		require.NoError(t, db.Create(&models.MatchAlliance{
			MatchID:          match.ID,
			TeamID:           s.team.ID,
			AllianceID:       s.alliance.ID,
			Position:         i + 1,
			Score:            s.score,
			CountsForRanking: true,
		}).Error)
	}
	return match
}

func setMatchStatus(t *testing.T, db *gorm.DB, matchID uint, status models.MatchStatus) {
	t.Helper()
	require.NoError(t, db.Model(&models.Match{}).Where("id = ?", matchID).Update("status", status).Error)
}

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	statuses []string
	scores   []uint
}

func (n *recordingNotifier) MatchStatusChanged(match *models.Match, action string) {
	n.statuses = append(n.statuses, action)
}

func (n *recordingNotifier) ScoreUpdated(match *models.Match) {
	n.scores = append(n.scores, match.ID)
}
