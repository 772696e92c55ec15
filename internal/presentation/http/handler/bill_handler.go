package handler

import (
	"strconv"
	"time"

	"github.com/bookhaven/pos-api/internal/application/service"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/internal/presentation/http/dto/response"
	"github.com/bookhaven/pos-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BillHandler handles bill HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

func parseBillStatus(raw string) *enum.BillStatus {
	var status enum.BillStatus
	switch raw {
	case "completed":
		status = enum.BillStatusCompleted
	case "cancelled":
		status = enum.BillStatusCancelled
	default:
		return nil
	}
	return &status
}

func parseDate(raw string) *time.Time {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// List handles listing bills (supports both page-based and cursor-based pagination)
func (h *BillHandler) List(c *gin.Context) {
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		Search:     c.Query("search"),
		Status:     parseBillStatus(c.Query("status")),
		CustomerID: c.Query("customer_id"),
		StartDate:  parseDate(c.Query("start_date")),
		EndDate:    parseDate(c.Query("end_date")),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if method := enum.PaymentMethod(c.Query("payment_method")); method.Valid() {
		params.PaymentMethod = &method
	}

	result, err := h.billService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

func (h *BillHandler) listWithCursor(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))

	params := &repository.BillCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search:     c.Query("search"),
		Status:     parseBillStatus(c.Query("status")),
		CustomerID: c.Query("customer_id"),
		StartDate:  parseDate(c.Query("start_date")),
		EndDate:    parseDate(c.Query("end_date")),
	}

	result, err := h.billService.ListBillsWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bills retrieved successfully", result)
}

// Get handles retrieving a single bill with its items
func (h *BillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// GetByInvoiceNumber handles retrieving a bill by its invoice number
func (h *BillHandler) GetByInvoiceNumber(c *gin.Context) {
	bill, err := h.billService.GetBillByInvoiceNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Cancel marks a bill cancelled and restores the stock it consumed
func (h *BillHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.CancelBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill cancelled successfully", bill)
}
