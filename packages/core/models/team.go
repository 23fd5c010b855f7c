package models

import (
	"time"
)

type Team struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    int       `gorm:"uniqueIndex;not null" json:"number"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

type CreateTeamRequest struct {
	Number int    `json:"number" binding:"required,min=1"`
	Name   string `json:"name" binding:"required"`
}

type UpdateTeamRequest struct {
	Number *int    `json:"number,omitempty" binding:"omitempty,min=1"`
	Name   *string `json:"name,omitempty"`
}

// Alliance is one side of a match. Creation order defines which alliance is
// "first" (red, home) and which is "second" (blue, away).
type Alliance struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"size:20" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Alliance) TableName() string {
	return "alliances"
}
