package models

import (
	"time"
)

// AllianceGroup is a drafted pairing: a captain plus, eventually, one picked
// team. PendingTeamID holds an outstanding invite.
type AllianceGroup struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Seed          int       `gorm:"uniqueIndex;not null" json:"seed"`
	CaptainTeamID uint      `gorm:"uniqueIndex;not null" json:"captain_team_id"`
	PendingTeamID *uint     `gorm:"index" json:"pending_team_id"`
	PickedTeamID  *uint     `gorm:"index" json:"picked_team_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	CaptainTeam *Team `gorm:"foreignKey:CaptainTeamID" json:"captain_team,omitempty"`
	PendingTeam *Team `gorm:"foreignKey:PendingTeamID" json:"pending_team,omitempty"`
	PickedTeam  *Team `gorm:"foreignKey:PickedTeamID" json:"picked_team,omitempty"`
}

func (AllianceGroup) TableName() string {
	return "alliance_groups"
}

func (g AllianceGroup) HasPick() bool {
	return g.PickedTeamID != nil
}

func (g AllianceGroup) HasPending() bool {
	return g.PendingTeamID != nil
}

// TeamIDs returns every team the group currently claims: captain, pick and
// pending invite.
func (g AllianceGroup) TeamIDs() []uint {
	ids := []uint{g.CaptainTeamID}
	if g.PickedTeamID != nil {
		ids = append(ids, *g.PickedTeamID)
	}
	if g.PendingTeamID != nil {
		ids = append(ids, *g.PendingTeamID)
	}
	return ids
}

// Members returns the teams that play for the group: captain and pick.
func (g AllianceGroup) Members() []uint {
	ids := []uint{g.CaptainTeamID}
	if g.PickedTeamID != nil {
		ids = append(ids, *g.PickedTeamID)
	}
	return ids
}

type StartSelectionRequest struct {
	NumberOfAlliances int `json:"number_of_alliances" binding:"required,min=2"`
}

type InviteTeamRequest struct {
	TeamID uint `json:"team_id" binding:"required"`
}

type RankingEntry struct {
	Rank          int   `json:"rank"`
	Team          *Team `json:"team"`
	TeamScore     int   `json:"team_score"`
	AllianceScore int   `json:"alliance_score"`
	TotalScore    int   `json:"total_score"`
	MatchesPlayed int   `json:"matches_played"`
}

type SelectionStatus struct {
	Started        bool            `json:"started"`
	Complete       bool            `json:"complete"`
	Groups         []AllianceGroup `json:"alliance_groups"`
	AvailableTeams []Team          `json:"available_teams"`
}
