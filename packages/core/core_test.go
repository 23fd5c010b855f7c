package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"robotics-event-api/packages/core/middleware"
	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	module  *Module
	router  *gin.Engine
	db      *gorm.DB
	admin   string
	referee string
	viewer  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
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
	require.NoError(t, db.Create(&[]models.Alliance{
		{Name: "Red", Color: "#d32f2f"},
		{Name: "Blue", Color: "#1976d2"},
	}).Error)

	module := NewModule(db, Options{
		JWTSecret:      testSecret,
		MatchInterval:  5 * time.Minute,
		MatchDuration:  150 * time.Second,
		LoadedMatchTTL: time.Hour,
		AutoEndSpec:    "*/10 * * * * *",
		Rand:           rand.New(rand.NewSource(7)),
	}, nil)
	router := gin.New()
	module.SetupRoutes(router)

	token := func(subject string, roles ...string) string {
		tok, err := middleware.IssueToken(testSecret, subject, roles, time.Hour)
		require.NoError(t, err)
		return tok
	}

	return &testServer{
		module:  module,
		router:  router,
		db:      db,
		admin:   token("admin", middleware.RoleAdmin),
		referee: token("ref", middleware.RoleReferee),
		viewer:  token("viewer", "viewer"),
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) seedTeams(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		w := s.do(t, http.MethodPost, "/teams", s.admin, models.CreateTeamRequest{Number: 100 + i, Name: fmt.Sprintf("Team %d", i)})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestScheduleAndScoreFlow(t *testing.T) {
	s := newTestServer(t)
	s.seedTeams(t, 6)

	w := s.do(t, http.MethodPost, "/score-types", s.admin, map[string]any{
		"name": "Coral", "points": 3, "target": "team",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	scoreType := decode[models.ScoreType](t, w)

	w = s.do(t, http.MethodPost, "/matches/generate", s.admin, models.GenerateScheduleRequest{
		RoundsPerTeam: 2, TeamsPerAlliance: 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	summary := decode[models.ScheduleSummary](t, w)
	assert.Equal(t, 2, summary.MatchCount)
	assert.Equal(t, 1, summary.FirstNumber)
	assert.Equal(t, 2, summary.LastNumber)
	assert.Zero(t, summary.SurrogateUses)

	w = s.do(t, http.MethodGet, "/matches", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	matches := decode[[]models.Match](t, w)
	require.Len(t, matches, 2)
	first := matches[0]
	require.Len(t, first.Assignments, 6)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/start", first.ID), s.referee, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	started := decode[models.MatchActionResponse](t, w)
	assert.Equal(t, models.MatchStatusOngoing, started.Match.Status)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/start", matches[1].ID), s.referee, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Another match is already ongoing.")

	teamID := first.Assignments[0].TeamID
	w = s.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/scores", first.ID), s.referee, models.RecordScoreRequest{
		ScoreTypeID: scoreType.ID, TeamID: &teamID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/end", first.ID), s.referee, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/rankings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ranked := decode[[]models.RankingEntry](t, w)
	require.Len(t, ranked, 6)
	assert.Equal(t, teamID, ranked[0].Team.ID)
	assert.Equal(t, 3, ranked[0].TotalScore)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	s.seedTeams(t, 2)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"no token", http.MethodPost, "/matches/generate", "", nil, http.StatusUnauthorized},
		{"referee on admin route", http.MethodPost, "/matches/generate", s.referee, nil, http.StatusForbidden},
		{"viewer on referee route", http.MethodPost, "/matches/1/start", s.viewer, nil, http.StatusForbidden},
		{"invalid body", http.MethodPost, "/matches/generate", s.admin, map[string]any{}, http.StatusBadRequest},
		{"not enough teams", http.MethodPost, "/matches/generate", s.admin, models.GenerateScheduleRequest{RoundsPerTeam: 1, TeamsPerAlliance: 3}, http.StatusUnprocessableEntity},
		{"unknown match", http.MethodPost, "/matches/99/start", s.referee, nil, http.StatusNotFound},
		{"bad id", http.MethodGet, "/matches/abc", "", nil, http.StatusBadRequest},
		{"odd alliance count", http.MethodPost, "/alliance-selection/start", s.admin, map[string]any{"number_of_alliances": 3}, http.StatusUnprocessableEntity},
		{"unknown score type group", http.MethodPut, "/score-type-groups/99", s.admin, map[string]any{"name": "Endgame"}, http.StatusNotFound},
		{"bracket without groups", http.MethodPost, "/elimination/generate", s.admin, nil, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestLoadedMatch(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/matches/loaded", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	s.seedTeams(t, 6)
	w = s.do(t, http.MethodPost, "/matches/generate", s.admin, models.GenerateScheduleRequest{RoundsPerTeam: 2, TeamsPerAlliance: 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/matches/loaded", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[models.Match](t, w).Number)

	var second models.Match
	require.NoError(t, s.db.Where("number = ?", 2).First(&second).Error)
	w = s.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/load", second.ID), s.referee, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/matches/loaded", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[models.Match](t, w).Number)
}

func TestStatsAndSettings(t *testing.T) {
	s := newTestServer(t)
	s.seedTeams(t, 6)
	w := s.do(t, http.MethodPost, "/matches/generate", s.admin, models.GenerateScheduleRequest{RoundsPerTeam: 1, TeamsPerAlliance: 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[models.Stats](t, w)
	assert.EqualValues(t, 6, stats.TotalTeams)
	assert.EqualValues(t, 1, stats.TotalMatches)
	assert.EqualValues(t, 1, stats.UpcomingMatches)
	assert.Nil(t, stats.OngoingMatch)

	w = s.do(t, http.MethodGet, "/settings/competition", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMatchRoomReceivesStatusEvents(t *testing.T) {
	s := newTestServer(t)
	s.seedTeams(t, 6)
	w := s.do(t, http.MethodPost, "/matches/generate", s.admin, models.GenerateScheduleRequest{RoundsPerTeam: 1, TeamsPerAlliance: 3})
	require.Equal(t, http.StatusCreated, w.Code)

	var match models.Match
	require.NoError(t, s.db.Where("number = ?", 1).First(&match).Error)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.module.Hub.Run(ctx)

	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/ws/matches/%d", match.ID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	room := realtime.MatchRoom(match.ID)
	require.Eventually(t, func() bool { return s.module.Hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/start", match.ID), s.referee, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string                      `json:"type"`
		Room    string                      `json:"room"`
		Payload realtime.MatchStatusPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, realtime.EventMatchStatus, msg.Type)
	assert.Equal(t, room, msg.Room)
	assert.Equal(t, "started", msg.Payload.Action)
	assert.Equal(t, match.ID, msg.Payload.Match.ID)
}
