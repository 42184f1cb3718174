package api

import (
	"errors"
	"net/http"
	"time"

	resdto "bookcore/internal/handler/dto/response"
	"bookcore/internal/handler/httperr"
	"bookcore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ResourceHandler struct {
	queries queries.ReservationQueries
}

func NewResourceHandler(qrys queries.ReservationQueries) *ResourceHandler {
	return &ResourceHandler{queries: qrys}
}

// @Summary Check availability
// @Description Report whether an interval would be admitted against the resource's current blocking reservations. Advisory only: the result can be stale by the time a create request lands.
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Param start query string true "Interval start (RFC 3339)"
// @Param end query string true "Interval end (RFC 3339)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/availability [get]
func (h *ResourceHandler) CheckAvailability(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format", nil)
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid start time format", nil)
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid end time format", nil)
		return
	}

	result, err := h.queries.CheckAvailability(c.Request.Context(), resourceID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidInterval):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Start time must be before end time", nil)
		case errors.Is(err, queries.ErrResourceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityResult(result))
}
