package handlers

import (
	"net/http"

	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService *services.MatchService
	scheduler    *services.QualificationScheduler
}

func NewMatchHandler(matchService *services.MatchService, scheduler *services.QualificationScheduler) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		scheduler:    scheduler,
	}
}

// GetMatches lists matches with optional filters
// @Summary List matches
// @Description List matches ordered by number, with assignments and scores
// @Tags matches
// @Produce json
// @Param type query string false "Match type" Enums(qualification,elimination)
// @Param status query string false "Match status" Enums(upcoming,ongoing,completed,cancelled)
// @Param round query string false "Elimination round"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	var filters models.MatchFilters

	if t := c.Query("type"); t != "" {
		matchType := models.MatchType(t)
		if matchType != models.MatchTypeQualification && matchType != models.MatchTypeElimination {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type. Must be one of: qualification, elimination"})
			return
		}
		filters.Type = &matchType
	}
	if st := c.Query("status"); st != "" {
		status := models.MatchStatus(st)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be one of: upcoming, ongoing, completed, cancelled"})
			return
		}
		filters.Status = &status
	}
	if r := c.Query("round"); r != "" {
		round := models.EliminationRound(r)
		if !round.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round"})
			return
		}
		filters.Round = &round
	}

	matches, err := h.matchService.GetMatches(filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// GetMatch returns one match
// @Summary Get match
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.Match
// @Failure 404 {object} map[string]string
// @Router /matches/{id} [get]
func (h *MatchHandler) GetMatch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	match, err := h.matchService.GetMatch(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// GenerateSchedule replaces the schedule with a new qualification schedule
// @Summary Generate qualification schedule
// @Description Deletes every match, score and elimination series, then generates rounds of shuffled matches
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.GenerateScheduleRequest true "Schedule parameters"
// @Success 201 {object} models.ScheduleSummary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/generate [post]
func (h *MatchHandler) GenerateSchedule(c *gin.Context) {
	var req models.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.scheduler.Generate(req, createdBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// StartMatch starts an upcoming match
// @Summary Start match
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.MatchActionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /matches/{id}/start [post]
func (h *MatchHandler) StartMatch(c *gin.Context) {
	h.transition(c, "Match started", h.matchService.StartMatch)
}

// EndMatch completes an ongoing match
// @Summary End match
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.MatchActionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /matches/{id}/end [post]
func (h *MatchHandler) EndMatch(c *gin.Context) {
	h.transition(c, "Match ended", h.matchService.EndMatch)
}

// CancelMatch aborts an ongoing match
// @Summary Cancel match
// @Description Puts an ongoing match back to upcoming so it can be replayed
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.MatchActionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /matches/{id}/cancel [post]
func (h *MatchHandler) CancelMatch(c *gin.Context) {
	h.transition(c, "Match cancelled", h.matchService.CancelMatch)
}

// LoadMatch marks a match as loaded on the field displays
// @Summary Load match
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.MatchActionResponse
// @Failure 404 {object} map[string]string
// @Router /matches/{id}/load [post]
func (h *MatchHandler) LoadMatch(c *gin.Context) {
	h.transition(c, "Match loaded", h.matchService.LoadMatch)
}

func (h *MatchHandler) transition(c *gin.Context, message string, fn func(uint) (*models.Match, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	match, err := fn(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MatchActionResponse{Message: message, Match: match})
}

// GetLoadedMatch returns the match shown on the field
// @Summary Get loaded match
// @Description Returns the loaded match, or the next upcoming match when none is loaded
// @Tags matches
// @Produce json
// @Success 200 {object} models.Match
// @Success 204 {string} string "No match available"
// @Router /matches/loaded [get]
func (h *MatchHandler) GetLoadedMatch(c *gin.Context) {
	match, err := h.matchService.GetLoadedMatch()
	if err != nil {
		respondError(c, err)
		return
	}
	if match == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, match)
}

// DeleteAllMatches clears the schedule
// @Summary Delete all matches
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /matches [delete]
func (h *MatchHandler) DeleteAllMatches(c *gin.Context) {
	if err := h.matchService.DeleteAllMatches(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All matches deleted"})
}
