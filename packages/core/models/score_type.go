package models

import (
	"time"
)

// ScoreTypeGroup only organises score types for display.
type ScoreTypeGroup struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string      `gorm:"size:255;uniqueIndex;not null" json:"name"`
	SortOrder  int         `gorm:"default:0" json:"sort_order"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	ScoreTypes []ScoreType `gorm:"foreignKey:GroupID" json:"score_types,omitempty"`
}

func (ScoreTypeGroup) TableName() string {
	return "score_type_groups"
}

type ScoreType struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"size:255;not null;uniqueIndex:idx_score_types_name_target" json:"name"`
	Points    int        `gorm:"not null" json:"points"`
	Target    TargetKind `gorm:"size:20;not null;uniqueIndex:idx_score_types_name_target" json:"target"`
	GroupID   *uint      `json:"group_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Group *ScoreTypeGroup `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

func (ScoreType) TableName() string {
	return "score_types"
}

type CreateScoreTypeGroupRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type UpdateScoreTypeGroupRequest struct {
	Name      *string `json:"name,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

type CreateScoreTypeRequest struct {
	Name    string     `json:"name" binding:"required"`
	Points  *int       `json:"points" binding:"required"`
	Target  TargetKind `json:"target" binding:"required,oneof=team alliance"`
	GroupID *uint      `json:"group_id,omitempty"`
}

type UpdateScoreTypeRequest struct {
	Name    *string     `json:"name,omitempty"`
	Points  *int        `json:"points,omitempty"`
	Target  *TargetKind `json:"target,omitempty" binding:"omitempty,oneof=team alliance"`
	GroupID *uint       `json:"group_id,omitempty"`
}
