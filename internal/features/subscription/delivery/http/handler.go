package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cs2-giveaway-backend/internal/common/errors"
	"cs2-giveaway-backend/internal/features/subscription/service"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
}

func NewSubscriptionHandler(service service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/check-sub", h.checkSubscription)
}

// @Summary Check channel subscription
// @Description Reports whether the user is subscribed to the giveaway channel. Fails open with a warning when no bot token is configured.
// @Tags subscription
// @Produce json
// @Param userId query string true "User ID"
// @Success 200 {object} map[string]interface{} "subscribed flag, optional warning"
// @Failure 400 {object} map[string]interface{} "missing userId"
// @Failure 502 {object} middleware.ErrorResponse "check could not be completed"
// @Router /check-sub [get]
func (h *SubscriptionHandler) checkSubscription(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"subscribed": false, "error": "Missing userId"})
		return
	}

	subscribed, warning, err := h.service.CheckMembership(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeAuthCheck {
			c.Error(appErr)
			return
		}
		c.Error(err)
		return
	}

	resp := gin.H{"subscribed": subscribed}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}
