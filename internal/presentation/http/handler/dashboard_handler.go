package handler

import (
	"strconv"

	"github.com/bookhaven/pos-api/internal/application/service"
	"github.com/bookhaven/pos-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the storefront dashboard aggregates
func (h *DashboardHandler) Stats(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("low_stock_threshold", "5"))
	if err != nil || threshold < 0 {
		response.BadRequest(c, "Invalid low stock threshold")
		return
	}

	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
