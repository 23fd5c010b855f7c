package handlers

import (
	"net/http"

	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type EliminationHandler struct {
	eliminationService *services.EliminationService
}

func NewEliminationHandler(eliminationService *services.EliminationService) *EliminationHandler {
	return &EliminationHandler{
		eliminationService: eliminationService,
	}
}

// GenerateBracket creates the opening elimination series
// @Summary Generate elimination bracket
// @Description Two completed groups play a final; four play 1v4 and 2v3 semifinals
// @Tags elimination
// @Security BearerAuth
// @Produce json
// @Success 201 {array} models.EliminationSeries
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /elimination/generate [post]
func (h *EliminationHandler) GenerateBracket(c *gin.Context) {
	series, err := h.eliminationService.GenerateBracket(createdBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, series)
}

// GetBracket returns every series with its result
// @Summary Bracket state
// @Tags elimination
// @Produce json
// @Success 200 {object} models.BracketState
// @Router /elimination [get]
func (h *EliminationHandler) GetBracket(c *gin.Context) {
	state, err := h.eliminationService.GetBracketState(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetSeriesResult returns the win tally of a series
// @Summary Series result
// @Tags elimination
// @Produce json
// @Param id path int true "Series ID"
// @Success 200 {object} models.SeriesResult
// @Failure 404 {object} map[string]string
// @Router /elimination/series/{id}/result [get]
func (h *EliminationHandler) GetSeriesResult(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.eliminationService.GetSeriesResult(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckWinner settles a series and advances the bracket when it has a winner
// @Summary Check series winner
// @Tags elimination
// @Security BearerAuth
// @Produce json
// @Param id path int true "Series ID"
// @Success 200 {object} models.SeriesWinnerResponse
// @Failure 404 {object} map[string]string
// @Router /elimination/series/{id}/check-winner [post]
func (h *EliminationHandler) CheckWinner(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	winner, result, err := h.eliminationService.DetermineSeriesWinner(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if winner == nil {
		message := "Series still in progress."
		if result.Tied() && result.CompletedMatches >= 2 {
			message = "Series is tied. Tiebreaker needed."
		}
		c.JSON(http.StatusOK, models.SeriesWinnerResponse{Message: message, Result: result})
		return
	}

	next, err := h.eliminationService.AdvanceBracket(id, createdBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SeriesWinnerResponse{
		Message:    "Series winner determined.",
		Winner:     winner,
		Result:     result,
		NextSeries: next,
	})
}

// GenerateTiebreaker adds an extra match to a tied series
// @Summary Generate tiebreaker
// @Tags elimination
// @Security BearerAuth
// @Produce json
// @Param id path int true "Series ID"
// @Success 201 {object} models.Match
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /elimination/series/{id}/tiebreaker [post]
func (h *EliminationHandler) GenerateTiebreaker(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	match, err := h.eliminationService.GenerateTiebreaker(id, createdBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, match)
}

// Reset removes the elimination bracket
// @Summary Reset elimination bracket
// @Description Deletes elimination matches and series; qualification data is kept
// @Tags elimination
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /elimination [delete]
func (h *EliminationHandler) Reset(c *gin.Context) {
	if err := h.eliminationService.Reset(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Elimination bracket reset"})
}
