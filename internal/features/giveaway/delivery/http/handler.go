package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cs2-giveaway-backend/internal/common/config"
	"cs2-giveaway-backend/internal/common/errors"
	"cs2-giveaway-backend/internal/common/middleware"
	"cs2-giveaway-backend/internal/features/giveaway/models"
	giveawayservice "cs2-giveaway-backend/internal/features/giveaway/service"
)

type GiveawayHandler struct {
	service giveawayservice.GiveawayService
	config  *config.Config
}

func NewGiveawayHandler(service giveawayservice.GiveawayService, cfg *config.Config) *GiveawayHandler {
	return &GiveawayHandler{service: service, config: cfg}
}

func (h *GiveawayHandler) RegisterRoutes(router *gin.RouterGroup) {
	giveaways := router.Group("/giveaways")
	{
		giveaways.GET("", h.list)
		giveaways.POST("", h.create)
		giveaways.PATCH("", h.patch)
		giveaways.DELETE("", h.delete)
		giveaways.GET("/:id", h.getByID)
		giveaways.POST("/:id/join", middleware.RequireUser(), h.join)
		giveaways.POST("/:id/leave", middleware.RequireUser(), h.leave)
		giveaways.POST("/:id/force-end", middleware.RequireAdmin(h.config), h.forceEnd)
	}
}

// @Summary List giveaways
// @Description Returns all giveaways ordered by creation time, newest first.
// @Tags giveaways
// @Produce json
// @Success 200 {array} models.Giveaway
// @Router /giveaways [get]
func (h *GiveawayHandler) list(c *gin.Context) {
	giveaways, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, giveaways)
}

// @Summary Create a giveaway
// @Description Creates a giveaway with the given prizes and end time. End time defaults to an hour out.
// @Tags giveaways
// @Accept json
// @Produce json
// @Param input body models.GiveawayCreate true "Giveaway data"
// @Success 201 {object} models.Giveaway
// @Failure 400 {object} middleware.ErrorResponse "validation failure"
// @Failure 500 {object} middleware.ErrorResponse "store failure"
// @Router /giveaways [post]
func (h *GiveawayHandler) create(c *gin.Context) {
	var input models.GiveawayCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError("body", err.Error()))
		return
	}

	giveaway, err := h.service.Create(c.Request.Context(), &input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, giveaway)
}

// @Summary Get a giveaway
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.Giveaway
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways/{id} [get]
func (h *GiveawayHandler) getByID(c *gin.Context) {
	giveaway, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, giveaway)
}

// @Summary Partially update a giveaway
// @Description Legacy partial update: participants are reconciled through the membership set, a status patch to "ended" runs the real transition and is idempotent on ended records.
// @Tags giveaways
// @Accept json
// @Produce json
// @Param input body models.GiveawayPatch true "Fields to update"
// @Success 200 {object} models.Giveaway
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways [patch]
func (h *GiveawayHandler) patch(c *gin.Context) {
	var patch models.GiveawayPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errors.NewValidationError("body", err.Error()))
		return
	}

	giveaway, err := h.service.ApplyPatch(c.Request.Context(), &patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, giveaway)
}

// @Summary Delete a giveaway
// @Tags giveaways
// @Produce json
// @Param id query string true "Giveaway ID"
// @Success 200 {object} map[string]bool
// @Router /giveaways [delete]
func (h *GiveawayHandler) delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.Error(errors.NewValidationError("id", "required"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Join a giveaway
// @Description Adds the caller to the participant set after the subscription gate passes. Joining twice or joining an ended giveaway is a no-op.
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.Giveaway
// @Failure 403 {object} middleware.ErrorResponse "not subscribed"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways/{id}/join [post]
func (h *GiveawayHandler) join(c *gin.Context) {
	giveaway, err := h.service.Join(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, giveaway)
}

// @Summary Leave a giveaway
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.Giveaway
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways/{id}/leave [post]
func (h *GiveawayHandler) leave(c *gin.Context) {
	giveaway, err := h.service.Leave(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, giveaway)
}

// @Summary Force-end a giveaway
// @Description Pulls the end time to now and ends the giveaway immediately, drawing winners. No-op when already ended.
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.Giveaway
// @Failure 403 {object} middleware.ErrorResponse
// @Router /giveaways/{id}/force-end [post]
func (h *GiveawayHandler) forceEnd(c *gin.Context) {
	giveaway, err := h.service.ForceEnd(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, giveaway)
}
