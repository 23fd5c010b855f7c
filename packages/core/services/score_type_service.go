package services

import (
	"robotics-event-api/packages/core/models"

	"gorm.io/gorm"
)

// ScoreTypeService manages score types and their display groups. Editing a
// score type never changes scores already recorded.
type ScoreTypeService struct {
	db *gorm.DB
}

func NewScoreTypeService(db *gorm.DB) *ScoreTypeService {
	return &ScoreTypeService{
		db: db,
	}
}

func (s *ScoreTypeService) GetGroups() ([]models.ScoreTypeGroup, error) {
	var groups []models.ScoreTypeGroup
	if err := s.db.
		Preload("ScoreTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("sort_order ASC, id ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *ScoreTypeService) CreateGroup(req models.CreateScoreTypeGroupRequest) (*models.ScoreTypeGroup, error) {
	var count int64
	if err := s.db.Model(&models.ScoreTypeGroup{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, stateError("A score type group named %q already exists.", req.Name)
	}

	group := &models.ScoreTypeGroup{Name: req.Name, SortOrder: req.SortOrder}
	if err := s.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (s *ScoreTypeService) UpdateGroup(id uint, req models.UpdateScoreTypeGroupRequest) (*models.ScoreTypeGroup, error) {
	var group models.ScoreTypeGroup
	if err := s.db.First(&group, id).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Score type group")
		}
		return nil, err
	}

	if req.Name != nil {
		var count int64
		if err := s.db.Model(&models.ScoreTypeGroup{}).
			Where("name = ? AND id <> ?", *req.Name, group.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, stateError("A score type group named %q already exists.", *req.Name)
		}
		group.Name = *req.Name
	}
	if req.SortOrder != nil {
		group.SortOrder = *req.SortOrder
	}

	if err := s.db.Omit("ScoreTypes").Save(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup detaches the group's score types before removing it.
func (s *ScoreTypeService) DeleteGroup(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var group models.ScoreTypeGroup
		if err := tx.First(&group, id).Error; err != nil {
			if isNotFound(err) {
				return notFound("Score type group")
			}
			return err
		}
		if err := tx.Model(&models.ScoreType{}).Where("group_id = ?", group.ID).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
}

func (s *ScoreTypeService) GetScoreTypes() ([]models.ScoreType, error) {
	var types []models.ScoreType
	if err := s.db.Preload("Group").Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (s *ScoreTypeService) GetScoreType(id uint) (*models.ScoreType, error) {
	var scoreType models.ScoreType
	if err := s.db.Preload("Group").First(&scoreType, id).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Score type")
		}
		return nil, err
	}
	return &scoreType, nil
}

func (s *ScoreTypeService) CreateScoreType(req models.CreateScoreTypeRequest) (*models.ScoreType, error) {
	if !req.Target.Valid() {
		return nil, configError("Target must be team or alliance.")
	}
	if err := s.ensureGroup(req.GroupID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(req.Name, req.Target, 0); err != nil {
		return nil, err
	}

	scoreType := &models.ScoreType{
		Name:    req.Name,
		Points:  *req.Points,
		Target:  req.Target,
		GroupID: req.GroupID,
	}
	if err := s.db.Create(scoreType).Error; err != nil {
		return nil, err
	}
	return s.GetScoreType(scoreType.ID)
}

func (s *ScoreTypeService) UpdateScoreType(id uint, req models.UpdateScoreTypeRequest) (*models.ScoreType, error) {
	scoreType, err := s.GetScoreType(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		scoreType.Name = *req.Name
	}
	if req.Points != nil {
		scoreType.Points = *req.Points
	}
	if req.Target != nil {
		if !req.Target.Valid() {
			return nil, configError("Target must be team or alliance.")
		}
		scoreType.Target = *req.Target
	}
	if req.GroupID != nil {
		if err := s.ensureGroup(req.GroupID); err != nil {
			return nil, err
		}
		scoreType.GroupID = req.GroupID
		scoreType.Group = nil
	}
	if err := s.ensureNameFree(scoreType.Name, scoreType.Target, scoreType.ID); err != nil {
		return nil, err
	}

	if err := s.db.Omit("Group").Save(scoreType).Error; err != nil {
		return nil, err
	}
	return s.GetScoreType(scoreType.ID)
}

// DeleteScoreType refuses while recorded scores still reference the type.
func (s *ScoreTypeService) DeleteScoreType(id uint) error {
	scoreType, err := s.GetScoreType(id)
	if err != nil {
		return err
	}

	var used int64
	if err := s.db.Model(&models.Score{}).Where("score_type_id = ?", scoreType.ID).Count(&used).Error; err != nil {
		return err
	}
	if used > 0 {
		return stateError("Score type %q has recorded scores and cannot be deleted.", scoreType.Name)
	}
	return s.db.Delete(&models.ScoreType{}, scoreType.ID).Error
}

func (s *ScoreTypeService) ensureGroup(groupID *uint) error {
	if groupID == nil {
		return nil
	}
	var count int64
	if err := s.db.Model(&models.ScoreTypeGroup{}).Where("id = ?", *groupID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound("Score type group")
	}
	return nil
}

func (s *ScoreTypeService) ensureNameFree(name string, target models.TargetKind, exceptID uint) error {
	var count int64
	if err := s.db.Model(&models.ScoreType{}).
		Where("name = ? AND target = ? AND id <> ?", name, target, exceptID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return stateError("A %s score type named %q already exists.", target, name)
	}
	return nil
}
