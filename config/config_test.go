package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DATABASE_URL", "DB_NAME", "JWT_SECRET", "CORS_ALLOWED_ORIGINS", "MATCH_DURATION_SECONDS", "MATCH_INTERVAL_MINUTES", "MATCH_AUTONOMOUS_DURATION", "MATCH_TRANSITION_DURATION", "MATCH_TELEOP_DURATION", "MATCH_PRE_COUNTDOWN", "AUTO_END_CRON"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Contains(t, cfg.DatabaseURL, "dbname=robotics_event")
	assert.Nil(t, cfg.AllowedOrigins)
	assert.Equal(t, 150*time.Second, cfg.MatchDuration)
	assert.Equal(t, 10*time.Minute, cfg.MatchInterval)
	assert.Equal(t, "*/10 * * * * *", cfg.AutoEndSpec)
	assert.Equal(t, 158, cfg.Timing.TotalMatch)
	assert.Equal(t, 161, cfg.Timing.TotalWithCountdown)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/event")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MATCH_DURATION_SECONDS", "90")
	t.Setenv("MATCH_INTERVAL_MINUTES", "not-a-number")
	t.Setenv("MATCH_TELEOP_DURATION", "100")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://u:p@db/event", cfg.DatabaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.MatchDuration)
	assert.Equal(t, 10*time.Minute, cfg.MatchInterval)

	settings := cfg.CompetitionSettings()
	assert.Equal(t, 90, settings.AutoEndAfterSeconds)
	assert.Equal(t, 10, settings.MatchIntervalMinutes)
	assert.Equal(t, 138, settings.Timing.TotalMatch)
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, splitList(tc.in))
		})
	}
}
