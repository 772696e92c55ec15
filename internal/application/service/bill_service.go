package service

import (
	"context"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/bookhaven/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// BillService handles the sales history
type BillService struct {
	billRepo repository.BillRepository
}

// NewBillService creates a new bill service
func NewBillService(billRepo repository.BillRepository) *BillService {
	return &BillService{billRepo: billRepo}
}

// GetBill retrieves a bill with its items
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// GetBillByInvoiceNumber retrieves a bill by its invoice number
func (s *BillService) GetBillByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists bills with filtering
func (s *BillService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// ListBillsWithCursor lists bills with cursor-based pagination
func (s *BillService) ListBillsWithCursor(ctx context.Context, params *repository.BillCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Bill], error) {
	bills, err := s.billRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(bills, params.Cursor.Limit,
		func(b entity.Bill) string { return b.ID.String() },
		func(b entity.Bill) time.Time { return b.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// CancelBill marks a bill cancelled and returns its copies to stock. The
// status flip and the stock restore are one repository transaction gated on
// the bill still being completed, so concurrent cancels restore stock at
// most once and a failed restore leaves the bill completed.
func (s *BillService) CancelBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	increments := make(map[uuid.UUID]int, len(bill.Items))
	for _, item := range bill.Items {
		increments[item.BookID] += item.Quantity
	}

	cancelled, err := s.billRepo.CancelWithStockRestore(ctx, id, increments)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, apperror.NewConflictError("Bill is already cancelled")
	}

	bill.Status = enum.BillStatusCancelled
	return bill, nil
}
