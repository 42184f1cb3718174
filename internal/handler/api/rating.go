package api

import (
	"errors"
	"net/http"

	reqdto "bookcore/internal/handler/dto/request"
	resdto "bookcore/internal/handler/dto/response"
	"bookcore/internal/handler/httperr"
	"bookcore/internal/handler/middleware"
	"bookcore/internal/usecase/commands"
	"bookcore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingHandler struct {
	commands commands.RatingCommands
	queries  queries.RatingQueries
}

func NewRatingHandler(cmds commands.RatingCommands, qrys queries.RatingQueries) *RatingHandler {
	return &RatingHandler{
		commands: cmds,
		queries:  qrys,
	}
}

// @Summary Submit rating
// @Description Create or replace the caller's rating for a resource
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param request body reqdto.SubmitRatingRequest true "Rating"
// @Success 200 {object} resdto.RatingSubmittedResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/ratings [put]
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, "Internal server error", nil)
		return
	}

	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format", nil)
		return
	}

	var req reqdto.SubmitRatingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	id, err := h.commands.SubmitRating(c.Request.Context(), resourceID, act.ID, req.Score, req.Review)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidScore):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Score must be between 1 and 5", nil)
		case errors.Is(err, commands.ErrReviewTooLong):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Review exceeds maximum length", nil)
		case errors.Is(err, commands.ErrResourceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.RatingSubmittedResponse{ID: id})
}

// @Summary Delete rating
// @Description Remove the caller's rating for a resource
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/ratings [delete]
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, "Internal server error", nil)
		return
	}

	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format", nil)
		return
	}

	if err := h.commands.DeleteRating(c.Request.Context(), resourceID, act.ID); err != nil {
		switch {
		case errors.Is(err, commands.ErrRatingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Rating not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get rating summary
// @Description Read the denormalized rating aggregate for a resource
// @Tags ratings
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.RatingSummaryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/ratings/summary [get]
func (h *RatingHandler) GetRatingSummary(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format", nil)
		return
	}

	summary, err := h.queries.GetSummary(c.Request.Context(), resourceID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrResourceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromRatingSummary(summary))
}
