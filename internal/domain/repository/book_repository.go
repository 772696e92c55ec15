package repository

import (
	"context"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// BookRepository defines the interface for book data operations
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	CreateBatch(ctx context.Context, books []entity.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	// GetByIDs retrieves multiple books by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BookFilterParams) ([]entity.Book, int64, error)
	ListWithCursor(ctx context.Context, params *BookCursorFilterParams) ([]entity.Book, error)
	GetLowStock(ctx context.Context, threshold int) ([]entity.Book, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
}

// BookFilterParams contains filtering parameters for book queries
type BookFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// BookCursorFilterParams contains cursor-based filtering parameters for book queries
type BookCursorFilterParams struct {
	Cursor   *pagination.CursorParams
	Search   string
	Category string
	LowStock bool
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error)
}
