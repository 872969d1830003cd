package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cs2-giveaway-backend/internal/features/market/service"
)

type MarketHandler struct {
	service service.SearchService
}

func NewMarketHandler(service service.SearchService) *MarketHandler {
	return &MarketHandler{service: service}
}

func (h *MarketHandler) RegisterRoutes(router *gin.RouterGroup) {
	market := router.Group("/market")
	{
		market.GET("/search", h.search)
	}
}

// @Summary Search marketplace skins
// @Description Searches the marketplace for skins matching the query. Queries shorter than 2 characters return an empty list without a remote call.
// @Tags market
// @Produce json
// @Param query query string true "Skin name query"
// @Success 200 {array} models.Listing
// @Failure 502 {object} middleware.ErrorResponse "marketplace or relay failure"
// @Router /market/search [get]
func (h *MarketHandler) search(c *gin.Context) {
	listings, err := h.service.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listings)
}
