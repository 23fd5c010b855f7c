package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"robotics-event-api/packages/core/models"
)

type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins []string
	MatchDuration  time.Duration
	MatchInterval  time.Duration
	LoadedMatchTTL time.Duration
	AutoEndSpec    string
	Timing         models.CompetitionTiming
}

// Load reads the process environment. Call godotenv.Load first to pick up
// a .env file.
func Load() *Config {
	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    databaseURL(),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		MatchDuration:  time.Duration(getInt("MATCH_DURATION_SECONDS", 150)) * time.Second,
		MatchInterval:  time.Duration(getInt("MATCH_INTERVAL_MINUTES", 10)) * time.Minute,
		LoadedMatchTTL: time.Duration(getInt("LOADED_MATCH_TTL_MINUTES", 60)) * time.Minute,
		AutoEndSpec:    getEnv("AUTO_END_CRON", "*/10 * * * * *"),
		Timing: models.CompetitionTiming{
			PreMatchCountdown:        getInt("MATCH_PRE_COUNTDOWN", 3),
			Autonomous:               getInt("MATCH_AUTONOMOUS_DURATION", 30),
			Transition:               getInt("MATCH_TRANSITION_DURATION", 8),
			Teleop:                   getInt("MATCH_TELEOP_DURATION", 120),
			EndgameWarning:           getInt("MATCH_ENDGAME_WARNING", 20),
			ControllersWarningOffset: getInt("MATCH_CONTROLLERS_WARNING_OFFSET", 2),
		},
	}
	cfg.Timing.TotalMatch = cfg.Timing.Autonomous + cfg.Timing.Transition + cfg.Timing.Teleop
	cfg.Timing.TotalWithCountdown = cfg.Timing.TotalMatch + cfg.Timing.PreMatchCountdown
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) CompetitionSettings() models.CompetitionSettings {
	return models.CompetitionSettings{
		Timing:               c.Timing,
		AutoEndAfterSeconds:  int(c.MatchDuration / time.Second),
		MatchIntervalMinutes: int(c.MatchInterval / time.Minute),
	}
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "robotics_event"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
