package service

import (
	"context"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/bookhaven/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// BookService handles catalog operations
type BookService struct {
	bookRepo     repository.BookRepository
	categoryRepo repository.CategoryRepository
}

// NewBookService creates a new book service
func NewBookService(
	bookRepo repository.BookRepository,
	categoryRepo repository.CategoryRepository,
) *BookService {
	return &BookService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateBookInput represents the create book input
type CreateBookInput struct {
	Title    string
	Author   string
	Category string
	Pages    int
	Price    float64
	Stock    int
}

// CreateBook adds a title to the catalog
func (s *BookService) CreateBook(ctx context.Context, input *CreateBookInput) (*entity.Book, error) {
	if input.Stock < 0 {
		return nil, apperror.NewBadRequestError("Stock cannot be negative")
	}
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}

	book := &entity.Book{
		Title:    input.Title,
		Author:   input.Author,
		Category: input.Category,
		Pages:    input.Pages,
		Stock:    input.Stock,
	}
	book.SetPriceFromDecimal(input.Price)

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, book.ID)
}

// GetBook retrieves a book by ID
func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}
	return book, nil
}

// UpdateBookInput represents the update book input; nil fields are unchanged
type UpdateBookInput struct {
	Title    *string
	Author   *string
	Category *string
	Pages    *int
	Price    *float64
	Stock    *int
}

// UpdateBook updates a catalog entry
func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, input *UpdateBookInput) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Category != nil {
		book.Category = *input.Category
	}
	if input.Pages != nil {
		book.Pages = *input.Pages
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		book.SetPriceFromDecimal(*input.Price)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperror.NewBadRequestError("Stock cannot be negative")
		}
		book.Stock = *input.Stock
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// DeleteBook removes a book from the catalog
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return apperror.NewNotFoundError("Book")
	}
	return s.bookRepo.Delete(ctx, id)
}

// ListBooks lists books with filtering
func (s *BookService) ListBooks(ctx context.Context, params *repository.BookFilterParams) (*pagination.PaginatedResult[entity.Book], error) {
	books, total, err := s.bookRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(books, pag), nil
}

// ListBooksWithCursor lists books with cursor-based pagination
func (s *BookService) ListBooksWithCursor(ctx context.Context, params *repository.BookCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Book], error) {
	books, err := s.bookRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(books, params.Cursor.Limit,
		func(b entity.Book) string { return b.ID.String() },
		func(b entity.Book) time.Time { return b.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// GetLowStockBooks returns titles at or below the low stock threshold
func (s *BookService) GetLowStockBooks(ctx context.Context, threshold int) ([]entity.Book, error) {
	return s.bookRepo.GetLowStock(ctx, threshold)
}
