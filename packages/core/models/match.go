package models

import (
	"time"
)

type Match struct {
	ID                  uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Number              int               `gorm:"uniqueIndex;not null" json:"number"`
	Type                MatchType         `gorm:"size:20;not null;index" json:"type"`
	Round               *EliminationRound `gorm:"size:40" json:"round"`
	EliminationSeriesID *uint             `gorm:"index" json:"elimination_series_id"`
	Status              MatchStatus       `gorm:"size:20;not null;index" json:"status"`
	StartTime           time.Time         `json:"start_time"`
	StartedAt           *time.Time        `json:"started_at"`
	EndedAt             *time.Time        `json:"ended_at"`
	CancelledAt         *time.Time        `json:"cancelled_at"`
	CreatedBy           string            `gorm:"size:255" json:"created_by,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`

	// Relationships
	Assignments []MatchAlliance `gorm:"foreignKey:MatchID" json:"match_alliances,omitempty"`
	Scores      []Score         `gorm:"foreignKey:MatchID" json:"scores,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// MatchAlliance places one team on one alliance of a match.
type MatchAlliance struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchID    uint `gorm:"not null;index;uniqueIndex:idx_match_alliances_match_team" json:"match_id"`
	TeamID     uint `gorm:"not null;index;uniqueIndex:idx_match_alliances_match_team" json:"team_id"`
	AllianceID uint `gorm:"not null;index" json:"alliance_id"`
	Position   int  `gorm:"not null" json:"position"`
	Score      int  `gorm:"not null;default:0" json:"score"`
	// CountsForRanking must be written explicitly; a gorm default would
	// swallow false.
	CountsForRanking bool      `gorm:"not null" json:"counts_for_ranking"`
	Surrogate        bool      `gorm:"not null" json:"surrogate"`
	AllianceGroupID  *uint     `gorm:"index" json:"alliance_group_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Team     *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Alliance *Alliance `gorm:"foreignKey:AllianceID" json:"alliance,omitempty"`
}

func (MatchAlliance) TableName() string {
	return "match_alliances"
}

type MatchFilters struct {
	Type   *MatchType
	Status *MatchStatus
	Round  *EliminationRound
}

type GenerateScheduleRequest struct {
	RoundsPerTeam     int  `json:"rounds_per_team" binding:"required,min=1"`
	TeamsPerAlliance  int  `json:"teams_per_alliance" binding:"required,min=1"`
	MaxScoringMatches *int `json:"max_scoring_matches,omitempty" binding:"omitempty,min=1"`
}

type ScheduleSummary struct {
	Rounds        int     `json:"rounds"`
	MatchCount    int     `json:"match_count"`
	FirstNumber   int     `json:"first_number"`
	LastNumber    int     `json:"last_number"`
	SurrogateUses int     `json:"surrogate_uses"`
	Matches       []Match `json:"matches,omitempty"`
}

type MatchActionResponse struct {
	Message string `json:"message"`
	Match   *Match `json:"match"`
}

// TeamScoreLine is a team's score in one match split into its own counter
// and the alliance-wide events of its alliance.
type TeamScoreLine struct {
	TeamID        uint   `json:"team_id"`
	TeamNumber    int    `json:"team_number,omitempty"`
	TeamName      string `json:"team_name,omitempty"`
	AllianceID    uint   `json:"alliance_id"`
	Position      int    `json:"position"`
	TeamScore     int    `json:"team_score"`
	AllianceScore int    `json:"alliance_score"`
	TotalScore    int    `json:"total_score"`
}

type AllianceScoreLine struct {
	AllianceID    uint            `json:"alliance_id"`
	AllianceName  string          `json:"alliance_name,omitempty"`
	TeamScore     int             `json:"team_score"`
	AllianceScore int             `json:"alliance_score"`
	TotalScore    int             `json:"total_score"`
	Teams         []TeamScoreLine `json:"teams"`
}

type MatchScoreboard struct {
	MatchID   uint                `json:"match_id"`
	Number    int                 `json:"number"`
	Status    MatchStatus         `json:"status"`
	Alliances []AllianceScoreLine `json:"alliances"`
}
