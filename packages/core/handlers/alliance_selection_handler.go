package handlers

import (
	"net/http"

	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type AllianceSelectionHandler struct {
	selectionService *services.AllianceSelectionService
}

func NewAllianceSelectionHandler(selectionService *services.AllianceSelectionService) *AllianceSelectionHandler {
	return &AllianceSelectionHandler{
		selectionService: selectionService,
	}
}

// GetRankings returns qualification rankings
// @Summary Qualification rankings
// @Description Teams ordered by total score over completed qualification matches
// @Tags alliance-selection
// @Produce json
// @Success 200 {array} models.RankingEntry
// @Router /rankings [get]
func (h *AllianceSelectionHandler) GetRankings(c *gin.Context) {
	rankings, err := h.selectionService.GetRankings()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rankings)
}

// GetStatus returns the draft state
// @Summary Alliance selection status
// @Tags alliance-selection
// @Produce json
// @Success 200 {object} models.SelectionStatus
// @Router /alliance-selection [get]
func (h *AllianceSelectionHandler) GetStatus(c *gin.Context) {
	status, err := h.selectionService.GetStatus()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// StartSelection creates the alliance groups
// @Summary Start alliance selection
// @Tags alliance-selection
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.StartSelectionRequest true "Number of alliances"
// @Success 201 {array} models.AllianceGroup
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /alliance-selection/start [post]
func (h *AllianceSelectionHandler) StartSelection(c *gin.Context) {
	var req models.StartSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groups, err := h.selectionService.StartSelection(req.NumberOfAlliances)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, groups)
}

// InviteTeam sends a pick invite from a group
// @Summary Invite team
// @Tags alliance-selection
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Alliance group ID"
// @Param request body models.InviteTeamRequest true "Invited team"
// @Success 200 {object} models.AllianceGroup
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /alliance-selection/groups/{id}/invite [post]
func (h *AllianceSelectionHandler) InviteTeam(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.InviteTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.selectionService.InviteTeam(id, req.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// AcceptPick accepts the pending invite of a group
// @Summary Accept pick
// @Tags alliance-selection
// @Security BearerAuth
// @Produce json
// @Param id path int true "Alliance group ID"
// @Success 200 {object} models.AllianceGroup
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /alliance-selection/groups/{id}/accept [post]
func (h *AllianceSelectionHandler) AcceptPick(c *gin.Context) {
	h.groupAction(c, h.selectionService.AcceptPick)
}

// DeclinePick declines the pending invite of a group
// @Summary Decline pick
// @Tags alliance-selection
// @Security BearerAuth
// @Produce json
// @Param id path int true "Alliance group ID"
// @Success 200 {object} models.AllianceGroup
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /alliance-selection/groups/{id}/decline [post]
func (h *AllianceSelectionHandler) DeclinePick(c *gin.Context) {
	h.groupAction(c, h.selectionService.DeclinePick)
}

func (h *AllianceSelectionHandler) groupAction(c *gin.Context, fn func(uint) (*models.AllianceGroup, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	group, err := fn(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// GetAvailableTeams lists teams not yet claimed by a group
// @Summary Available teams
// @Tags alliance-selection
// @Produce json
// @Success 200 {array} models.Team
// @Router /alliance-selection/available-teams [get]
func (h *AllianceSelectionHandler) GetAvailableTeams(c *gin.Context) {
	teams, err := h.selectionService.GetAvailableTeams()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// Reset deletes every alliance group
// @Summary Reset alliance selection
// @Tags alliance-selection
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /alliance-selection [delete]
func (h *AllianceSelectionHandler) Reset(c *gin.Context) {
	if err := h.selectionService.Reset(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alliance selection reset"})
}
