package cron

import (
	"testing"
	"time"

	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAutoEnd(t *testing.T) (*services.AutoEndService, *gorm.DB) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Team{}, &models.Alliance{}, &models.Match{}, &models.MatchAlliance{}, &models.Score{}))

	matchService := services.NewMatchService(db, nil, time.Hour, nil)
	return services.NewAutoEndService(db, matchService, 150*time.Second, nil), db
}

func TestRunNowEndsExpiredMatches(t *testing.T) {
	autoEnd, db := newAutoEnd(t)

	long := time.Now().Add(-time.Hour)
	recent := time.Now()
	matches := []models.Match{
		{Number: 1, Type: models.MatchTypeQualification, Status: models.MatchStatusOngoing, StartedAt: &long},
		{Number: 2, Type: models.MatchTypeQualification, Status: models.MatchStatusUpcoming},
	}
	require.NoError(t, db.Create(&matches).Error)

	s := NewScheduler(autoEnd, "*/10 * * * * *", nil)
	s.RunNow()

	var first, second models.Match
	require.NoError(t, db.First(&first, matches[0].ID).Error)
	require.NoError(t, db.First(&second, matches[1].ID).Error)
	assert.Equal(t, models.MatchStatusCompleted, first.Status)
	assert.NotNil(t, first.EndedAt)
	assert.Equal(t, models.MatchStatusUpcoming, second.Status)

	// A match that just started is left alone.
	require.NoError(t, db.Model(&second).Updates(map[string]any{"status": models.MatchStatusOngoing, "started_at": recent}).Error)
	s.RunNow()
	require.NoError(t, db.First(&second, matches[1].ID).Error)
	assert.Equal(t, models.MatchStatusOngoing, second.Status)
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	autoEnd, _ := newAutoEnd(t)

	s := NewScheduler(autoEnd, "not a cron spec", nil)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	autoEnd, _ := newAutoEnd(t)

	s := NewScheduler(autoEnd, "@every 1h", nil)
	require.NoError(t, s.Start())
	s.Stop()
}
