package api

import (
	"errors"
	"net/http"

	reqdto "bookcore/internal/handler/dto/request"
	resdto "bookcore/internal/handler/dto/response"
	"bookcore/internal/handler/httperr"
	"bookcore/internal/handler/middleware"
	"bookcore/internal/pkg/errs"
	"bookcore/internal/usecase/commands"
	"bookcore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errActorMissing  = errs.New("actor missing from context")
	errNoStatusField = errs.New("no status field in request")
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qrys queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qrys,
	}
}

// @Summary Create reservation
// @Description Create a new reservation if the resource has remaining capacity
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationCreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, "Internal server error", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params := commands.CreateReservationParams{
		ResourceID:     req.ResourceID,
		RequesterID:    act.ID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		DailyRateCents: req.DailyRateCents,
		SurchargeCents: req.SurchargeCents,
		DiscountCents:  req.DiscountCents,
	}

	id, err := h.commands.CreateReservation(c.Request.Context(), params)
	if err != nil {
		var conflict *commands.ConflictError
		switch {
		case errors.As(err, &conflict):
			httperr.AbortWithError(c, http.StatusConflict, err,
				"Reservation conflicts with existing reservations",
				resdto.ConflictDetail{Conflicts: conflict.Conflicts})
		case errors.Is(err, commands.ErrReservationConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Reservation conflicts with existing reservations", nil)
		case errors.Is(err, commands.ErrResourceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
		case errors.Is(err, commands.ErrInvalidInterval):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Start time must be before end time", nil)
		case errors.Is(err, commands.ErrInvalidPricing):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid pricing inputs", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.ReservationCreatedResponse{ID: id})
}

// @Summary Get reservation
// @Description Get reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id, act)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, queries.ErrReservationAccess):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List own reservations
// @Description List the calling requester's reservations, newest first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationListResponse
// @Failure 401 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, "Internal server error", nil)
		return
	}

	items, err := h.queries.ListByRequester(c.Request.Context(), act.ID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.ReservationListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromReservationListItem(item)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update reservation workflow
// @Description Apply a partial update to the status, admin status, and owner status of a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateReservationStatusRequest true "Workflow update"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	var req reqdto.UpdateReservationStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}
	if req.Status == nil && req.AdminStatus == nil && req.OwnerStatus == nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errNoStatusField, "At least one status field is required", nil)
		return
	}

	params := commands.UpdateReservationStatusParams{
		Status:             req.Status,
		AdminStatus:        req.AdminStatus,
		OwnerStatus:        req.OwnerStatus,
		CancellationReason: req.CancellationReason,
	}

	if err := h.commands.UpdateReservationStatus(c.Request.Context(), id, params, act); err != nil {
		var conflict *commands.ConflictError
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, commands.ErrInvalidStatusValue):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status value", nil)
		case errors.Is(err, commands.ErrCancellationReason):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Cancellation reason is required", nil)
		case errors.As(err, &conflict):
			httperr.AbortWithError(c, http.StatusConflict, err,
				"Capacity exhausted for the reservation interval",
				resdto.ConflictDetail{Conflicts: conflict.Conflicts})
		case errors.Is(err, commands.ErrReservationConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Reservation was modified concurrently", nil)
		case errors.Is(err, commands.ErrTerminalState):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Reservation is in a terminal state", nil)
		case errors.Is(err, commands.ErrIllegalTransition):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Illegal status transition", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete reservation
// @Description Delete a pending or cancelled reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	act, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	if err := h.commands.DeleteReservation(c.Request.Context(), id, act); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, commands.ErrNotDeletable):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Only pending or cancelled reservations can be deleted", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
