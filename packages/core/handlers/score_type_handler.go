package handlers

import (
	"net/http"

	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type ScoreTypeHandler struct {
	scoreTypeService *services.ScoreTypeService
}

func NewScoreTypeHandler(scoreTypeService *services.ScoreTypeService) *ScoreTypeHandler {
	return &ScoreTypeHandler{
		scoreTypeService: scoreTypeService,
	}
}

// GetScoreTypes lists score types
// @Summary List score types
// @Tags score-types
// @Produce json
// @Success 200 {array} models.ScoreType
// @Router /score-types [get]
func (h *ScoreTypeHandler) GetScoreTypes(c *gin.Context) {
	types, err := h.scoreTypeService.GetScoreTypes()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateScoreType adds a score type
// @Summary Create score type
// @Tags score-types
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param scoreType body models.CreateScoreTypeRequest true "Score type"
// @Success 201 {object} models.ScoreType
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /score-types [post]
func (h *ScoreTypeHandler) CreateScoreType(c *gin.Context) {
	var req models.CreateScoreTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scoreType, err := h.scoreTypeService.CreateScoreType(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scoreType)
}

// UpdateScoreType edits a score type; recorded scores keep their points
// @Summary Update score type
// @Tags score-types
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Score type ID"
// @Param scoreType body models.UpdateScoreTypeRequest true "Changes"
// @Success 200 {object} models.ScoreType
// @Failure 404 {object} map[string]string
// @Router /score-types/{id} [put]
func (h *ScoreTypeHandler) UpdateScoreType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateScoreTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scoreType, err := h.scoreTypeService.UpdateScoreType(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scoreType)
}

// DeleteScoreType removes an unused score type
// @Summary Delete score type
// @Tags score-types
// @Security BearerAuth
// @Produce json
// @Param id path int true "Score type ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /score-types/{id} [delete]
func (h *ScoreTypeHandler) DeleteScoreType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.scoreTypeService.DeleteScoreType(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Score type deleted"})
}

// GetGroups lists score type groups with their types
// @Summary List score type groups
// @Tags score-types
// @Produce json
// @Success 200 {array} models.ScoreTypeGroup
// @Router /score-type-groups [get]
func (h *ScoreTypeHandler) GetGroups(c *gin.Context) {
	groups, err := h.scoreTypeService.GetGroups()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// CreateGroup adds a score type group
// @Summary Create score type group
// @Tags score-types
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param group body models.CreateScoreTypeGroupRequest true "Group"
// @Success 201 {object} models.ScoreTypeGroup
// @Failure 409 {object} map[string]string
// @Router /score-type-groups [post]
func (h *ScoreTypeHandler) CreateGroup(c *gin.Context) {
	var req models.CreateScoreTypeGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.scoreTypeService.CreateGroup(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// UpdateGroup renames or reorders a score type group
// @Summary Update score type group
// @Tags score-types
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param group body models.UpdateScoreTypeGroupRequest true "Changes"
// @Success 200 {object} models.ScoreTypeGroup
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /score-type-groups/{id} [put]
func (h *ScoreTypeHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateScoreTypeGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.scoreTypeService.UpdateGroup(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroup removes a group; its score types become ungrouped
// @Summary Delete score type group
// @Tags score-types
// @Security BearerAuth
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /score-type-groups/{id} [delete]
func (h *ScoreTypeHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.scoreTypeService.DeleteGroup(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Score type group deleted"})
}
