package models

import (
	"time"
)

// Score is one applied scoring event. Points are copied from the score type
// when the event is recorded.
type Score struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchID     uint      `gorm:"not null;index" json:"match_id"`
	ScoreTypeID uint      `gorm:"not null;index" json:"score_type_id"`
	TeamID      *uint     `gorm:"index" json:"team_id"`
	AllianceID  *uint     `gorm:"index" json:"alliance_id"`
	Points      int       `gorm:"not null" json:"points"`
	CreatedBy   string    `gorm:"size:255" json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	ScoreType *ScoreType `gorm:"foreignKey:ScoreTypeID" json:"score_type,omitempty"`
}

func (Score) TableName() string {
	return "scores"
}

// ScoreTarget is either a TeamTarget or an AllianceTarget.
type ScoreTarget interface {
	scoreTarget()
}

type TeamTarget struct {
	TeamID uint
}

type AllianceTarget struct {
	AllianceID uint
}

func (TeamTarget) scoreTarget()     {}
func (AllianceTarget) scoreTarget() {}

// Target reports who the event applies to. A row carrying a team is
// team-level even when its alliance column is filled for display.
func (s Score) Target() ScoreTarget {
	if s.TeamID != nil {
		return TeamTarget{TeamID: *s.TeamID}
	}
	if s.AllianceID != nil {
		return AllianceTarget{AllianceID: *s.AllianceID}
	}
	return nil
}

type RecordScoreRequest struct {
	ScoreTypeID uint  `json:"score_type_id" binding:"required"`
	TeamID      *uint `json:"team_id,omitempty"`
	AllianceID  *uint `json:"alliance_id,omitempty"`
}
