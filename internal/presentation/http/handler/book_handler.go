package handler

import (
	"strconv"

	"github.com/bookhaven/pos-api/internal/application/service"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/internal/presentation/http/dto/response"
	"github.com/bookhaven/pos-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookHandler handles catalog HTTP requests
type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// List handles listing books (supports both page-based and cursor-based pagination)
func (h *BookHandler) List(c *gin.Context) {
	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.BookFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		LowStock:  c.Query("low_stock") == "true",
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	result, err := h.bookService.ListBooks(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Books retrieved successfully", result)
}

func (h *BookHandler) listWithCursor(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))

	params := &repository.BookCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search:   c.Query("search"),
		Category: c.Query("category"),
		LowStock: c.Query("low_stock") == "true",
	}

	result, err := h.bookService.ListBooksWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Books retrieved successfully", result)
}

// Get handles retrieving a single book
func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	book, err := h.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book retrieved successfully", book)
}

type createBookRequest struct {
	Title    string  `json:"title" binding:"required"`
	Author   string  `json:"author" binding:"required"`
	Category string  `json:"category"`
	Pages    int     `json:"pages"`
	Price    float64 `json:"price" binding:"required"`
	Stock    int     `json:"stock"`
}

// Create handles adding a book to the catalog
func (h *BookHandler) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), &service.CreateBookInput{
		Title:    req.Title,
		Author:   req.Author,
		Category: req.Category,
		Pages:    req.Pages,
		Price:    req.Price,
		Stock:    req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Book created successfully", book)
}

type updateBookRequest struct {
	Title    *string  `json:"title"`
	Author   *string  `json:"author"`
	Category *string  `json:"category"`
	Pages    *int     `json:"pages"`
	Price    *float64 `json:"price"`
	Stock    *int     `json:"stock"`
}

// Update handles updating a catalog entry
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), id, &service.UpdateBookInput{
		Title:    req.Title,
		Author:   req.Author,
		Category: req.Category,
		Pages:    req.Pages,
		Price:    req.Price,
		Stock:    req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book updated successfully", book)
}

// Delete handles removing a book from the catalog
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// LowStock lists titles at or below the low stock threshold
func (h *BookHandler) LowStock(c *gin.Context) {
	threshold, _ := strconv.Atoi(c.DefaultQuery("threshold", "5"))

	books, err := h.bookService.GetLowStockBooks(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock books retrieved successfully", books)
}
