package models

import (
	"time"
)

type EliminationSeries struct {
	ID                    uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Round                 EliminationRound `gorm:"size:40;uniqueIndex;not null" json:"round"`
	AllianceGroup1ID      uint             `gorm:"column:alliance_group_1_id;not null" json:"alliance_group_1_id"`
	AllianceGroup2ID      uint             `gorm:"column:alliance_group_2_id;not null" json:"alliance_group_2_id"`
	WinnerAllianceGroupID *uint            `json:"winner_alliance_group_id"`
	Status                SeriesStatus     `gorm:"size:20;not null" json:"status"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`

	AllianceGroup1 *AllianceGroup `gorm:"foreignKey:AllianceGroup1ID" json:"alliance_group_1,omitempty"`
	AllianceGroup2 *AllianceGroup `gorm:"foreignKey:AllianceGroup2ID" json:"alliance_group_2,omitempty"`
	Winner         *AllianceGroup `gorm:"foreignKey:WinnerAllianceGroupID" json:"winner,omitempty"`
	Matches        []Match        `gorm:"foreignKey:EliminationSeriesID" json:"matches,omitempty"`
}

func (EliminationSeries) TableName() string {
	return "elimination_series"
}

type SeriesResult struct {
	Group1Wins       int `json:"group_1_wins"`
	Group2Wins       int `json:"group_2_wins"`
	CompletedMatches int `json:"completed_matches"`
	TotalMatches     int `json:"total_matches"`
}

func (r SeriesResult) Tied() bool {
	return r.Group1Wins == r.Group2Wins
}

type SeriesWithResult struct {
	EliminationSeries
	Result SeriesResult `json:"result"`
}

type BracketState struct {
	Series         []SeriesWithResult `json:"series"`
	AllianceGroups []AllianceGroup    `json:"alliance_groups"`
}

type SeriesWinnerResponse struct {
	Message    string             `json:"message"`
	Winner     *AllianceGroup     `json:"winner"`
	Result     SeriesResult       `json:"result"`
	NextSeries *EliminationSeries `json:"next_series,omitempty"`
}
