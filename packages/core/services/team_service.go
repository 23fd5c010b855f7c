package services

import (
	"robotics-event-api/packages/core/models"

	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{
		db: db,
	}
}

func (s *TeamService) GetAllTeams() ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.Order("number ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *TeamService) GetTeamByID(id uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, id).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Team")
		}
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) CreateTeam(req models.CreateTeamRequest) (*models.Team, error) {
	if err := s.ensureNumberFree(req.Number, 0); err != nil {
		return nil, err
	}

	team := &models.Team{
		Number: req.Number,
		Name:   req.Name,
	}
	if err := s.db.Create(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) UpdateTeam(id uint, req models.UpdateTeamRequest) (*models.Team, error) {
	team, err := s.GetTeamByID(id)
	if err != nil {
		return nil, err
	}

	if req.Number != nil {
		if err := s.ensureNumberFree(*req.Number, team.ID); err != nil {
			return nil, err
		}
		team.Number = *req.Number
	}
	if req.Name != nil {
		team.Name = *req.Name
	}

	if err := s.db.Save(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam refuses to remove a team that is scheduled or drafted.
func (s *TeamService) DeleteTeam(id uint) error {
	team, err := s.GetTeamByID(id)
	if err != nil {
		return err
	}

	var scheduled int64
	if err := s.db.Model(&models.MatchAlliance{}).Where("team_id = ?", team.ID).Count(&scheduled).Error; err != nil {
		return err
	}
	if scheduled > 0 {
		return stateError("Team %d is scheduled in matches and cannot be deleted.", team.Number)
	}

	var drafted int64
	if err := s.db.Model(&models.AllianceGroup{}).
		Where("captain_team_id = ? OR pending_team_id = ? OR picked_team_id = ?", team.ID, team.ID, team.ID).
		Count(&drafted).Error; err != nil {
		return err
	}
	if drafted > 0 {
		return stateError("Team %d belongs to an alliance group and cannot be deleted.", team.Number)
	}

	return s.db.Delete(team).Error
}

func (s *TeamService) ensureNumberFree(number int, exceptID uint) error {
	var count int64
	if err := s.db.Model(&models.Team{}).Where("number = ? AND id <> ?", number, exceptID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return stateError("Team number %d is already taken.", number)
	}
	return nil
}

func (s *TeamService) GetAlliances() ([]models.Alliance, error) {
	return loadAlliances(s.db)
}
