package handlers

import (
	"net/http"

	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type ScoreHandler struct {
	scoreService *services.ScoreService
}

func NewScoreHandler(scoreService *services.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
	}
}

// RecordScore applies a scoring event to a match
// @Summary Record score
// @Description Team score types need team_id; alliance score types need alliance_id
// @Tags scores
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body models.RecordScoreRequest true "Scoring event"
// @Success 201 {object} models.Score
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /matches/{id}/scores [post]
func (h *ScoreHandler) RecordScore(c *gin.Context) {
	matchID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.RecordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, err := h.scoreService.RecordScore(matchID, req, createdBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, score)
}

// DeleteScore reverses a scoring event
// @Summary Delete score
// @Tags scores
// @Security BearerAuth
// @Produce json
// @Param id path int true "Score ID"
// @Success 200 {object} models.Match
// @Failure 404 {object} map[string]string
// @Router /scores/{id} [delete]
func (h *ScoreHandler) DeleteScore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	match, err := h.scoreService.DeleteScore(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// GetScoreboard returns the per-alliance score breakdown of a match
// @Summary Match scoreboard
// @Tags scores
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.MatchScoreboard
// @Failure 404 {object} map[string]string
// @Router /matches/{id}/scoreboard [get]
func (h *ScoreHandler) GetScoreboard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	board, err := h.scoreService.GetScoreboard(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
