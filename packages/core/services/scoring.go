package services

import (
	"sort"

	"robotics-event-api/packages/core/models"

	"gorm.io/gorm"
)

// allianceWideTotals sums the team-less events of a match per alliance.
// Team-level events are already folded into the assignment counters.
func allianceWideTotals(scores []models.Score) map[uint]int {
	totals := make(map[uint]int)
	for _, s := range scores {
		switch t := s.Target().(type) {
		case models.TeamTarget:
		case models.AllianceTarget:
			totals[t.AllianceID] += s.Points
		}
	}
	return totals
}

// TeamTotal computes a team's score in a match loaded with assignments and
// scores. The second result is false when the team did not play.
func TeamTotal(match *models.Match, teamID uint) (models.TeamScoreLine, bool) {
	wide := allianceWideTotals(match.Scores)
	for _, a := range match.Assignments {
		if a.TeamID != teamID {
			continue
		}
		return teamLine(a, wide), true
	}
	return models.TeamScoreLine{}, false
}

// GroupTotal sums the team totals of a set of teams in one match. Each
// member carries its alliance's alliance-wide events, as TeamTotal does.
func GroupTotal(match *models.Match, teamIDs []uint) int {
	total := 0
	for _, id := range teamIDs {
		if line, ok := TeamTotal(match, id); ok {
			total += line.TotalScore
		}
	}
	return total
}

// BuildScoreboard lays out a loaded match per alliance, in alliance order.
func BuildScoreboard(match *models.Match, alliances []models.Alliance) models.MatchScoreboard {
	wide := allianceWideTotals(match.Scores)
	board := models.MatchScoreboard{
		MatchID: match.ID,
		Number:  match.Number,
		Status:  match.Status,
	}

	for _, alliance := range alliances {
		line := models.AllianceScoreLine{
			AllianceID:    alliance.ID,
			AllianceName:  alliance.Name,
			AllianceScore: wide[alliance.ID],
			Teams:         []models.TeamScoreLine{},
		}
		for _, a := range match.Assignments {
			if a.AllianceID != alliance.ID {
				continue
			}
			line.Teams = append(line.Teams, teamLine(a, wide))
			line.TeamScore += a.Score
		}
		sort.SliceStable(line.Teams, func(i, j int) bool {
			return line.Teams[i].Position < line.Teams[j].Position
		})
		line.TotalScore = line.TeamScore + line.AllianceScore
		board.Alliances = append(board.Alliances, line)
	}
	return board
}

func teamLine(a models.MatchAlliance, wide map[uint]int) models.TeamScoreLine {
	line := models.TeamScoreLine{
		TeamID:        a.TeamID,
		AllianceID:    a.AllianceID,
		Position:      a.Position,
		TeamScore:     a.Score,
		AllianceScore: wide[a.AllianceID],
	}
	if a.Team != nil {
		line.TeamNumber = a.Team.Number
		line.TeamName = a.Team.Name
	}
	line.TotalScore = line.TeamScore + line.AllianceScore
	return line
}

// preloadMatch returns a query that loads a match with everything a
// scoreboard or a notification needs.
func preloadMatch(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("alliance_id ASC, position ASC")
		}).
		Preload("Assignments.Team").
		Preload("Assignments.Alliance").
		Preload("Scores", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Scores.ScoreType")
}

func loadMatch(db *gorm.DB, matchID uint) (*models.Match, error) {
	var match models.Match
	if err := preloadMatch(db).First(&match, matchID).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Match")
		}
		return nil, err
	}
	return &match, nil
}

func loadAlliances(db *gorm.DB) ([]models.Alliance, error) {
	var alliances []models.Alliance
	if err := db.Order("id ASC").Find(&alliances).Error; err != nil {
		return nil, err
	}
	return alliances, nil
}

// nextMatchNumber returns max(number)+1 over every match type.
func nextMatchNumber(db *gorm.DB) (int, error) {
	var highest int
	if err := db.Model(&models.Match{}).Select("COALESCE(MAX(number), 0)").Scan(&highest).Error; err != nil {
		return 0, err
	}
	return highest + 1, nil
}
