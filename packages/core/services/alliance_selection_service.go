package services

import (
	"sort"

	"robotics-event-api/packages/core/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AllianceSelectionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAllianceSelectionService(db *gorm.DB, logger *zap.Logger) *AllianceSelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllianceSelectionService{
		db:     db,
		logger: logger,
	}
}

// GetRankings orders teams by their summed totals over completed
// qualification matches, counting only assignments flagged for ranking.
// Equal totals keep the order in which teams were first seen.
func (s *AllianceSelectionService) GetRankings() ([]models.RankingEntry, error) {
	return rankings(s.db)
}

func rankings(db *gorm.DB) ([]models.RankingEntry, error) {
	var matches []models.Match
	if err := db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Scores").
		Where("type = ? AND status = ?", models.MatchTypeQualification, models.MatchStatusCompleted).
		Order("number ASC").
		Find(&matches).Error; err != nil {
		return nil, err
	}

	var order []uint
	entries := make(map[uint]*models.RankingEntry)
	for i := range matches {
		wide := allianceWideTotals(matches[i].Scores)
		for _, a := range matches[i].Assignments {
			if !a.CountsForRanking {
				continue
			}
			entry, ok := entries[a.TeamID]
			if !ok {
				entry = &models.RankingEntry{}
				entries[a.TeamID] = entry
				order = append(order, a.TeamID)
			}
			entry.TeamScore += a.Score
			entry.AllianceScore += wide[a.AllianceID]
			entry.MatchesPlayed++
		}
	}

	var teams []models.Team
	if len(order) > 0 {
		if err := db.Where("id IN ?", order).Find(&teams).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[uint]*models.Team, len(teams))
	for i := range teams {
		byID[teams[i].ID] = &teams[i]
	}

	result := make([]models.RankingEntry, 0, len(order))
	for _, id := range order {
		entry := entries[id]
		entry.Team = byID[id]
		if entry.Team == nil {
			entry.Team = &models.Team{ID: id}
		}
		entry.TotalScore = entry.TeamScore + entry.AllianceScore
		result = append(result, *entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalScore > result[j].TotalScore
	})
	for i := range result {
		result[i].Rank = i + 1
	}
	return result, nil
}

// StartSelection creates one group per alliance, captained by the top
// ranked teams in rank order.
func (s *AllianceSelectionService) StartSelection(numberOfAlliances int) ([]models.AllianceGroup, error) {
	if numberOfAlliances < 2 {
		return nil, configError("At least 2 alliances are required.")
	}
	if numberOfAlliances%2 != 0 {
		return nil, configError("Number of alliances must be even.")
	}

	var groups []models.AllianceGroup
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.AllianceGroup{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return stateError("Alliance selection has already been started. Reset first.")
		}

		ranked, err := rankings(tx)
		if err != nil {
			return err
		}
		if len(ranked) < numberOfAlliances {
			return configError("Not enough ranked teams. Need at least %d but found %d.", numberOfAlliances, len(ranked))
		}

		groups = make([]models.AllianceGroup, numberOfAlliances)
		for i := range groups {
			groups[i] = models.AllianceGroup{
				Seed:          i + 1,
				CaptainTeamID: ranked[i].Team.ID,
			}
		}
		return tx.Create(&groups).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("alliance selection started", zap.Int("alliances", numberOfAlliances))
	return s.GetGroups()
}

// InviteTeam records a pending invite. Every group row is locked first so
// two groups can never claim the same team.
func (s *AllianceSelectionService) InviteTeam(groupID, teamID uint) (*models.AllianceGroup, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var groups []models.AllianceGroup
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("seed ASC").Find(&groups).Error; err != nil {
			return err
		}

		var group *models.AllianceGroup
		for i := range groups {
			if groups[i].ID == groupID {
				group = &groups[i]
			}
		}
		if group == nil {
			return notFound("Alliance group")
		}

		var team models.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			if isNotFound(err) {
				return notFound("Team")
			}
			return err
		}

		if group.HasPick() {
			return stateError("This alliance group has already picked a team.")
		}
		if group.HasPending() {
			return stateError("This alliance group already has a pending invite.")
		}
		for _, g := range groups {
			if g.CaptainTeamID == teamID {
				return stateError("Cannot pick a team that is already a captain.")
			}
			if g.PickedTeamID != nil && *g.PickedTeamID == teamID {
				return stateError("This team has already been picked by another alliance.")
			}
			if g.PendingTeamID != nil && *g.PendingTeamID == teamID {
				return stateError("This team already has a pending invite from another alliance.")
			}
		}

		return tx.Model(group).Update("pending_team_id", teamID).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team invited", zap.Uint("group_id", groupID), zap.Uint("team_id", teamID))
	return s.GetGroup(groupID)
}

// AcceptPick turns the pending invite into the group's pick.
func (s *AllianceSelectionService) AcceptPick(groupID uint) (*models.AllianceGroup, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		group, err := lockGroup(tx, groupID)
		if err != nil {
			return err
		}
		if !group.HasPending() {
			return stateError("No pending invite to accept.")
		}
		return tx.Model(group).Updates(map[string]any{
			"picked_team_id":  *group.PendingTeamID,
			"pending_team_id": nil,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pick accepted", zap.Uint("group_id", groupID))
	return s.GetGroup(groupID)
}

// DeclinePick clears the pending invite; the team becomes available again.
func (s *AllianceSelectionService) DeclinePick(groupID uint) (*models.AllianceGroup, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		group, err := lockGroup(tx, groupID)
		if err != nil {
			return err
		}
		if !group.HasPending() {
			return stateError("No pending invite to decline.")
		}
		return tx.Model(group).Update("pending_team_id", nil).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pick declined", zap.Uint("group_id", groupID))
	return s.GetGroup(groupID)
}

func lockGroup(tx *gorm.DB, groupID uint) (*models.AllianceGroup, error) {
	var group models.AllianceGroup
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&group, groupID).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Alliance group")
		}
		return nil, err
	}
	return &group, nil
}

// GetAvailableTeams lists teams not claimed by any group, by team number.
func (s *AllianceSelectionService) GetAvailableTeams() ([]models.Team, error) {
	var groups []models.AllianceGroup
	if err := s.db.Find(&groups).Error; err != nil {
		return nil, err
	}

	var claimed []uint
	for _, g := range groups {
		claimed = append(claimed, g.TeamIDs()...)
	}

	query := s.db.Order("number ASC")
	if len(claimed) > 0 {
		query = query.Where("id NOT IN ?", claimed)
	}

	var teams []models.Team
	if err := query.Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// IsComplete is true once groups exist and every one has a pick.
func (s *AllianceSelectionService) IsComplete() (bool, error) {
	var total, picked int64
	if err := s.db.Model(&models.AllianceGroup{}).Count(&total).Error; err != nil {
		return false, err
	}
	if total == 0 {
		return false, nil
	}
	if err := s.db.Model(&models.AllianceGroup{}).Where("picked_team_id IS NOT NULL").Count(&picked).Error; err != nil {
		return false, err
	}
	return picked == total, nil
}

func (s *AllianceSelectionService) GetGroups() ([]models.AllianceGroup, error) {
	var groups []models.AllianceGroup
	if err := s.db.
		Preload("CaptainTeam").
		Preload("PendingTeam").
		Preload("PickedTeam").
		Order("seed ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *AllianceSelectionService) GetGroup(groupID uint) (*models.AllianceGroup, error) {
	var group models.AllianceGroup
	if err := s.db.
		Preload("CaptainTeam").
		Preload("PendingTeam").
		Preload("PickedTeam").
		First(&group, groupID).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Alliance group")
		}
		return nil, err
	}
	return &group, nil
}

func (s *AllianceSelectionService) GetStatus() (*models.SelectionStatus, error) {
	groups, err := s.GetGroups()
	if err != nil {
		return nil, err
	}
	available, err := s.GetAvailableTeams()
	if err != nil {
		return nil, err
	}
	complete, err := s.IsComplete()
	if err != nil {
		return nil, err
	}
	return &models.SelectionStatus{
		Started:        len(groups) > 0,
		Complete:       complete,
		Groups:         groups,
		AvailableTeams: available,
	}, nil
}

// Reset deletes every alliance group.
func (s *AllianceSelectionService) Reset() error {
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("1 = 1").Delete(&models.AllianceGroup{}).Error
	}); err != nil {
		return err
	}
	s.logger.Info("alliance selection reset")
	return nil
}
