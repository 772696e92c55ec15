package handler

import (
	"strconv"
	"time"

	"github.com/bookhaven/pos-api/internal/application/service"
	"github.com/bookhaven/pos-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sales returns the sales report for a date range. The range defaults to the
// last 30 days.
func (h *ReportHandler) Sales(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		start = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		// include the whole end day
		end = t.AddDate(0, 0, 1).Add(-time.Second)
	}

	report, err := h.reportService.GetSalesReport(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report retrieved successfully", report)
}

// Customers returns the top customer report
func (h *ReportHandler) Customers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		response.BadRequest(c, "Invalid limit")
		return
	}

	report, err := h.reportService.GetCustomerReport(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer report retrieved successfully", report)
}

// Inventory returns the stock level report
func (h *ReportHandler) Inventory(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("low_stock_threshold", "5"))
	if err != nil || threshold < 0 {
		response.BadRequest(c, "Invalid low stock threshold")
		return
	}

	report, err := h.reportService.GetInventoryReport(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory report retrieved successfully", report)
}
