package repository

import (
	"context"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// BillRepository defines the interface for bill data operations
type BillRepository interface {
	// CreateWithStockDecrements persists the bill (with its items) and decrements
	// stock for each referenced book in a single transaction. A decrement only
	// applies when the book still has enough stock; if any book falls short the
	// whole transaction is rolled back and the IDs of the short books are
	// returned with a nil error.
	CreateWithStockDecrements(ctx context.Context, bill *entity.Bill, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Bill, error)
	// GetWithItems retrieves a bill with its line items preloaded
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	ListWithCursor(ctx context.Context, params *BillCursorFilterParams) ([]entity.Bill, error)
	// CancelWithStockRestore flips a completed bill to cancelled and increments
	// stock for each referenced book, all in one transaction. The status flip is
	// conditional on the bill still being completed; when another cancel got
	// there first nothing is written and false is returned with a nil error.
	CancelWithStockRestore(ctx context.Context, id uuid.UUID, increments map[uuid.UUID]int) (cancelled bool, err error)
	// GetLatest returns the bill with the highest invoice number, or nil when
	// no bills exist yet. Invoice numbers are compared numerically.
	GetLatest(ctx context.Context) (*entity.Bill, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	Status        *enum.BillStatus
	CustomerID    string
	PaymentMethod *enum.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}

// BillCursorFilterParams contains cursor-based filtering for bill queries
type BillCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	Search     string
	Status     *enum.BillStatus
	CustomerID string
	StartDate  *time.Time
	EndDate    *time.Time
}
