package services

import (
	"context"
	"errors"
	"testing"

	"robotics-event-api/packages/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService(t *testing.T) {
	db := newTestDB(t)
	red, blue := seedAlliances(t, db)
	svc := NewTeamService(db)

	a, err := svc.CreateTeam(models.CreateTeamRequest{Number: 254, Name: "Cheesy"})
	require.NoError(t, err)
	b, err := svc.CreateTeam(models.CreateTeamRequest{Number: 118, Name: "Robonauts"})
	require.NoError(t, err)

	_, err = svc.CreateTeam(models.CreateTeamRequest{Number: 254, Name: "Copy"})
	assert.EqualError(t, err, "Team number 254 is already taken.")

	teams, err := svc.GetAllTeams()
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, 118, teams[0].Number)

	name := "The Robonauts"
	updated, err := svc.UpdateTeam(b.ID, models.UpdateTeamRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	taken := 254
	_, err = svc.UpdateTeam(b.ID, models.UpdateTeamRequest{Number: &taken})
	assert.True(t, errors.Is(err, ErrState))

	seedMatch(t, db, 1, models.MatchTypeQualification, models.MatchStatusUpcoming, slot{*a, red, 0}, slot{*b, blue, 0})
	err = svc.DeleteTeam(a.ID)
	assert.EqualError(t, err, "Team 254 is scheduled in matches and cannot be deleted.")

	c, err := svc.CreateTeam(models.CreateTeamRequest{Number: 1678, Name: "Citrus"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTeam(c.ID))
	_, err = svc.GetTeamByID(c.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	alliances, err := svc.GetAlliances()
	require.NoError(t, err)
	require.Len(t, alliances, 2)
	assert.Equal(t, "Red", alliances[0].Name)
}

func TestScoreTypeService(t *testing.T) {
	db := newTestDB(t)
	red, blue := seedAlliances(t, db)
	teams := seedTeams(t, db, 2)
	svc := NewScoreTypeService(db)

	group, err := svc.CreateGroup(models.CreateScoreTypeGroupRequest{Name: "Endgame", SortOrder: 2})
	require.NoError(t, err)
	_, err = svc.CreateGroup(models.CreateScoreTypeGroupRequest{Name: "Endgame"})
	assert.True(t, errors.Is(err, ErrState))

	points := 12
	climb, err := svc.CreateScoreType(models.CreateScoreTypeRequest{Name: "Climb", Points: &points, Target: models.TargetTeam, GroupID: &group.ID})
	require.NoError(t, err)
	require.NotNil(t, climb.Group)
	assert.Equal(t, "Endgame", climb.Group.Name)

	_, err = svc.CreateScoreType(models.CreateScoreTypeRequest{Name: "Climb", Points: &points, Target: models.TargetTeam})
	assert.True(t, errors.Is(err, ErrState))
	_, err = svc.CreateScoreType(models.CreateScoreTypeRequest{Name: "Climb", Points: &points, Target: models.TargetAlliance})
	require.NoError(t, err, "same name is allowed for the other target")

	missing := uint(999)
	_, err = svc.CreateScoreType(models.CreateScoreTypeRequest{Name: "Park", Points: &points, Target: models.TargetTeam, GroupID: &missing})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.CreateScoreType(models.CreateScoreTypeRequest{Name: "Park", Points: &points, Target: "robot"})
	assert.True(t, errors.Is(err, ErrConfiguration))

	more := 15
	updated, err := svc.UpdateScoreType(climb.ID, models.UpdateScoreTypeRequest{Points: &more})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Points)

	match := seedMatch(t, db, 1, models.MatchTypeQualification, models.MatchStatusOngoing, slot{teams[0], red, 0}, slot{teams[1], blue, 0})
	_, err = NewScoreService(db, nil, nil).RecordScore(match.ID, models.RecordScoreRequest{ScoreTypeID: climb.ID, TeamID: &teams[0].ID}, "ref")
	require.NoError(t, err)

	err = svc.DeleteScoreType(climb.ID)
	assert.True(t, errors.Is(err, ErrState))

	require.NoError(t, svc.DeleteGroup(group.ID))
	detached, err := svc.GetScoreType(climb.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.GroupID)

	groups, err := svc.GetGroups()
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestUpdateScoreTypeGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreTypeService(db)

	auto, err := svc.CreateGroup(models.CreateScoreTypeGroupRequest{Name: "Autonomous", SortOrder: 0})
	require.NoError(t, err)
	_, err = svc.CreateGroup(models.CreateScoreTypeGroupRequest{Name: "Teleop", SortOrder: 1})
	require.NoError(t, err)

	str := func(v string) *string { return &v }
	num := func(v int) *int { return &v }

	cases := []struct {
		name    string
		id      uint
		req     models.UpdateScoreTypeGroupRequest
		kind    error
		wantNm  string
		wantOrd int
	}{
		{"rename", auto.ID, models.UpdateScoreTypeGroupRequest{Name: str("Auto")}, nil, "Auto", 0},
		{"keep own name", auto.ID, models.UpdateScoreTypeGroupRequest{Name: str("Auto"), SortOrder: num(5)}, nil, "Auto", 5},
		{"name taken", auto.ID, models.UpdateScoreTypeGroupRequest{Name: str("Teleop")}, ErrState, "", 0},
		{"unknown group", 999, models.UpdateScoreTypeGroupRequest{Name: str("Endgame")}, ErrNotFound, "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			group, err := svc.UpdateGroup(tc.id, tc.req)
			if tc.kind != nil {
				assert.True(t, errors.Is(err, tc.kind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantNm, group.Name)
			assert.Equal(t, tc.wantOrd, group.SortOrder)
		})
	}

	groups, err := svc.GetGroups()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Teleop", groups[0].Name)
	assert.Equal(t, "Auto", groups[1].Name)
}

func TestStatsService(t *testing.T) {
	db := newTestDB(t)
	red, blue := seedAlliances(t, db)
	teams := seedTeams(t, db, 4)
	seedMatch(t, db, 1, models.MatchTypeQualification, models.MatchStatusCompleted, slot{teams[0], red, 10}, slot{teams[1], blue, 5})
	ongoing := seedMatch(t, db, 2, models.MatchTypeQualification, models.MatchStatusOngoing, slot{teams[2], red, 0}, slot{teams[3], blue, 0})
	seedMatch(t, db, 3, models.MatchTypeQualification, models.MatchStatusUpcoming, slot{teams[0], red, 0}, slot{teams[3], blue, 0})

	stats, err := NewStatsService(db).GetStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalTeams)
	assert.EqualValues(t, 3, stats.TotalMatches)
	assert.EqualValues(t, 1, stats.CompletedMatches)
	assert.EqualValues(t, 1, stats.UpcomingMatches)
	assert.Zero(t, stats.TotalScores)
	require.NotNil(t, stats.OngoingMatch)
	assert.Equal(t, ongoing.ID, stats.OngoingMatch.ID)
	assert.Len(t, stats.OngoingMatch.Assignments, 2)
}
