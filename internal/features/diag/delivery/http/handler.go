package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cs2-giveaway-backend/internal/common/config"
	"cs2-giveaway-backend/internal/common/middleware"
	"cs2-giveaway-backend/internal/features/diag"
)

type DiagHandler struct {
	log    *diag.Log
	config *config.Config
}

func NewDiagHandler(log *diag.Log, cfg *config.Config) *DiagHandler {
	return &DiagHandler{log: log, config: cfg}
}

func (h *DiagHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/diagnostics", middleware.RequireAdmin(h.config), h.list)
}

// @Summary Recent boundary failures
// @Description Returns the bounded diagnostic log, most recent first.
// @Tags diagnostics
// @Produce json
// @Success 200 {array} diag.Entry
// @Failure 403 {object} middleware.ErrorResponse
// @Router /diagnostics [get]
func (h *DiagHandler) list(c *gin.Context) {
	entries, err := h.log.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
