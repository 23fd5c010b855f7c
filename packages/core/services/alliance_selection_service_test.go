package services

import (
	"errors"
	"testing"

	"robotics-event-api/packages/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedRankedEvent plays two completed qualification matches:
// A=100 vs B=50 and C=80 vs D=120.
func seedRankedEvent(t *testing.T) (*gorm.DB, []models.Team) {
	t.Helper()
	db := newTestDB(t)
	red, blue := seedAlliances(t, db)
	teams := seedTeams(t, db, 4)
	a, b, c, d := teams[0], teams[1], teams[2], teams[3]
	seedMatch(t, db, 1, models.MatchTypeQualification, models.MatchStatusCompleted, slot{a, red, 100}, slot{b, blue, 50})
	seedMatch(t, db, 2, models.MatchTypeQualification, models.MatchStatusCompleted, slot{c, red, 80}, slot{d, blue, 120})
	return db, teams
}

func TestGetRankings(t *testing.T) {
	db, teams := seedRankedEvent(t)
	svc := NewAllianceSelectionService(db, nil)

	ranked, err := svc.GetRankings()
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	want := []struct {
		team  models.Team
		total int
	}{{teams[3], 120}, {teams[0], 100}, {teams[2], 80}, {teams[1], 50}}
	for i, w := range want {
		assert.Equal(t, i+1, ranked[i].Rank)
		assert.Equal(t, w.team.ID, ranked[i].Team.ID)
		assert.Equal(t, w.total, ranked[i].TotalScore)
	}
}

func TestGetRankingsIgnoresUncountedAndUnfinished(t *testing.T) {
	db, teams := seedRankedEvent(t)
	var red, blue models.Alliance
	require.NoError(t, db.First(&red, "name = ?", "Red").Error)
	require.NoError(t, db.First(&blue, "name = ?", "Blue").Error)

	excluded := seedMatch(t, db, 3, models.MatchTypeQualification, models.MatchStatusCompleted, slot{teams[1], red, 500}, slot{teams[2], blue, 1})
	require.NoError(t, db.Model(&models.MatchAlliance{}).
		Where("match_id = ? AND team_id = ?", excluded.ID, teams[1].ID).
		Update("counts_for_ranking", false).Error)
	seedMatch(t, db, 4, models.MatchTypeQualification, models.MatchStatusUpcoming, slot{teams[1], red, 900}, slot{teams[0], blue, 0})
	seedMatch(t, db, 5, models.MatchTypeElimination, models.MatchStatusCompleted, slot{teams[1], red, 900}, slot{teams[0], blue, 0})

	ranked, err := NewAllianceSelectionService(db, nil).GetRankings()
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	last := ranked[3]
	assert.Equal(t, teams[1].ID, last.Team.ID)
	assert.Equal(t, 50, last.TotalScore)
	assert.Equal(t, 1, last.MatchesPlayed)
}

func TestGetRankingsStableOnTies(t *testing.T) {
	db := newTestDB(t)
	red, blue := seedAlliances(t, db)
	teams := seedTeams(t, db, 4)
	seedMatch(t, db, 1, models.MatchTypeQualification, models.MatchStatusCompleted,
		slot{teams[2], red, 10}, slot{teams[0], red, 10}, slot{teams[3], blue, 10}, slot{teams[1], blue, 10})

	ranked, err := NewAllianceSelectionService(db, nil).GetRankings()
	require.NoError(t, err)
	got := make([]uint, len(ranked))
	for i, r := range ranked {
		got[i] = r.Team.ID
	}
	assert.Equal(t, []uint{teams[2].ID, teams[0].ID, teams[3].ID, teams[1].ID}, got)
}

func TestDraftFlow(t *testing.T) {
	db, teams := seedRankedEvent(t)
	a, b, c, d := teams[0], teams[1], teams[2], teams[3]
	svc := NewAllianceSelectionService(db, nil)

	groups, err := svc.StartSelection(2)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assertTeamsClaimedOnce(t, db)
	seed1, seed2 := groups[0], groups[1]
	assert.Equal(t, 1, seed1.Seed)
	assert.Equal(t, d.ID, seed1.CaptainTeamID)
	assert.Equal(t, a.ID, seed2.CaptainTeamID)

	available, err := svc.GetAvailableTeams()
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{b.ID, c.ID}, teamIDs(available))

	group, err := svc.InviteTeam(seed1.ID, c.ID)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)
	require.NotNil(t, group.PendingTeamID)
	assert.Equal(t, c.ID, *group.PendingTeamID)

	_, err = svc.InviteTeam(seed2.ID, c.ID)
	assert.EqualError(t, err, "This team already has a pending invite from another alliance.")
	assertTeamsClaimedOnce(t, db)

	group, err = svc.AcceptPick(seed1.ID)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)
	assert.Nil(t, group.PendingTeamID)
	require.NotNil(t, group.PickedTeamID)
	assert.Equal(t, c.ID, *group.PickedTeamID)

	_, err = svc.InviteTeam(seed2.ID, c.ID)
	assert.EqualError(t, err, "This team has already been picked by another alliance.")
	assert.True(t, errors.Is(err, ErrState))
	assertTeamsClaimedOnce(t, db)

	_, err = svc.InviteTeam(seed2.ID, d.ID)
	assert.EqualError(t, err, "Cannot pick a team that is already a captain.")
	assertTeamsClaimedOnce(t, db)

	_, err = svc.InviteTeam(seed1.ID, b.ID)
	assert.EqualError(t, err, "This alliance group has already picked a team.")
	assertTeamsClaimedOnce(t, db)

	complete, err := svc.IsComplete()
	require.NoError(t, err)
	assert.False(t, complete)

	_, err = svc.InviteTeam(seed2.ID, b.ID)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)
	_, err = svc.InviteTeam(seed2.ID, b.ID)
	assert.EqualError(t, err, "This alliance group already has a pending invite.")
	assertTeamsClaimedOnce(t, db)

	group, err = svc.DeclinePick(seed2.ID)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)
	assert.Nil(t, group.PendingTeamID)

	_, err = svc.AcceptPick(seed2.ID)
	assert.EqualError(t, err, "No pending invite to accept.")
	assertTeamsClaimedOnce(t, db)
	_, err = svc.DeclinePick(seed2.ID)
	assert.EqualError(t, err, "No pending invite to decline.")
	assertTeamsClaimedOnce(t, db)

	_, err = svc.InviteTeam(seed2.ID, b.ID)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)
	_, err = svc.AcceptPick(seed2.ID)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)

	complete, err = svc.IsComplete()
	require.NoError(t, err)
	assert.True(t, complete)

	available, err = svc.GetAvailableTeams()
	require.NoError(t, err)
	assert.Empty(t, available)
}

type draftStep struct {
	name   string
	op     string
	seed   int
	team   int
	errMsg string
}

// TestDraftClaimsAfterDecline replays a draft where a declined team is
// claimed again and checks every group slot after each step.
func TestDraftClaimsAfterDecline(t *testing.T) {
	db, teams := seedRankedEvent(t)
	svc := NewAllianceSelectionService(db, nil)
	groups, err := svc.StartSelection(2)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)

	b, c := 1, 2
	steps := []draftStep{
		{"seed 1 invites B", "invite", 0, b, ""},
		{"seed 2 cannot invite pending B", "invite", 1, b, "This team already has a pending invite from another alliance."},
		{"seed 1 declines", "decline", 0, 0, ""},
		{"seed 2 invites released B", "invite", 1, b, ""},
		{"seed 1 cannot reclaim B", "invite", 0, b, "This team already has a pending invite from another alliance."},
		{"seed 2 accepts", "accept", 1, 0, ""},
		{"seed 1 cannot invite picked B", "invite", 0, b, "This team has already been picked by another alliance."},
		{"seed 1 has nothing to decline", "decline", 0, 0, "No pending invite to decline."},
		{"seed 1 invites C", "invite", 0, c, ""},
		{"seed 2 already picked", "invite", 1, c, "This alliance group has already picked a team."},
		{"seed 1 accepts", "accept", 0, 0, ""},
		{"seed 1 cannot accept twice", "accept", 0, 0, "No pending invite to accept."},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			groupID := groups[step.seed].ID
			var err error
			switch step.op {
			case "invite":
				_, err = svc.InviteTeam(groupID, teams[step.team].ID)
			case "accept":
				_, err = svc.AcceptPick(groupID)
			case "decline":
				_, err = svc.DeclinePick(groupID)
			}
			if step.errMsg == "" {
				require.NoError(t, err)
			} else {
				assert.EqualError(t, err, step.errMsg)
				assert.True(t, errors.Is(err, ErrState))
			}
			assertTeamsClaimedOnce(t, db)
		})
	}

	final, err := svc.GetGroups()
	require.NoError(t, err)
	require.Len(t, final, 2)
	require.NotNil(t, final[0].PickedTeamID)
	require.NotNil(t, final[1].PickedTeamID)
	assert.Equal(t, teams[c].ID, *final[0].PickedTeamID)
	assert.Equal(t, teams[b].ID, *final[1].PickedTeamID)
	assert.Nil(t, final[0].PendingTeamID)
	assert.Nil(t, final[1].PendingTeamID)
}

// assertTeamsClaimedOnce scans every group slot for a team appearing twice.
func assertTeamsClaimedOnce(t *testing.T, db *gorm.DB) {
	t.Helper()
	var groups []models.AllianceGroup
	require.NoError(t, db.Find(&groups).Error)
	seen := make(map[uint]bool)
	for _, g := range groups {
		for _, id := range g.TeamIDs() {
			assert.False(t, seen[id], "team %d claimed twice", id)
			seen[id] = true
		}
	}
}

func teamIDs(teams []models.Team) []uint {
	out := make([]uint, len(teams))
	for i, team := range teams {
		out[i] = team.ID
	}
	return out
}

func TestStartSelectionRejections(t *testing.T) {
	db, _ := seedRankedEvent(t)
	svc := NewAllianceSelectionService(db, nil)

	cases := []struct {
		name string
		n    int
		kind error
		msg  string
	}{
		{"odd count", 3, ErrConfiguration, "Number of alliances must be even."},
		{"too few", 0, ErrConfiguration, "At least 2 alliances are required."},
		{"not enough ranked teams", 6, ErrConfiguration, "Not enough ranked teams. Need at least 6 but found 4."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.StartSelection(tc.n)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind))
			assert.EqualError(t, err, tc.msg)
		})
	}

	_, err := svc.StartSelection(2)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)
	_, err = svc.StartSelection(2)
	assert.True(t, errors.Is(err, ErrState))
	assertTeamsClaimedOnce(t, db)

	require.NoError(t, svc.Reset())
	status, err := svc.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Started)
	assert.False(t, status.Complete)
	assert.Len(t, status.AvailableTeams, 4)

	_, err = svc.StartSelection(4)
	require.NoError(t, err)
	assertTeamsClaimedOnce(t, db)
}

func TestInviteUnknownIDs(t *testing.T) {
	db, teams := seedRankedEvent(t)
	svc := NewAllianceSelectionService(db, nil)
	groups, err := svc.StartSelection(2)
	require.NoError(t, err)

	_, err = svc.InviteTeam(999, teams[1].ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = svc.InviteTeam(groups[0].ID, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = svc.AcceptPick(999)
	assert.True(t, errors.Is(err, ErrNotFound))
}
