package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	domainRepo "github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// CreateWithStockDecrements inserts the bill with its items and decrements
// stock for every referenced book inside one transaction. Each decrement is a
// conditional update that only applies while enough stock remains; a decrement
// that matches zero rows means the book ran short, and the whole transaction
// is rolled back. The short book IDs are returned with a nil error so the
// caller can report them.
func (r *billRepository) CreateWithStockDecrements(ctx context.Context, bill *entity.Bill, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range decrements {
			result := tx.Model(&entity.Book{}).
				Where("id = ? AND stock >= ?", id, amount).
				Update("stock", gorm.Expr("stock - ?", amount))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		// If any books ran short, roll back without writing the bill
		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		return tx.Create(bill).Error
	})

	// Rolled back for insufficient stock, not a storage failure
	if errors.Is(err, gorm.ErrInvalidTransaction) && len(failedIDs) > 0 {
		return failedIDs, nil
	}

	return failedIDs, err
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *billRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Bill{}, "id = ?", id).Error
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{})
	query = applyBillFilters(query, params.Search, params.Status, params.CustomerID, params.StartDate, params.EndDate)

	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order(sortBy + " " + sortOrder).
		Find(&bills).Error

	return bills, total, err
}

// ListWithCursor returns bills using cursor-based pagination
func (r *billRepository) ListWithCursor(ctx context.Context, params *domainRepo.BillCursorFilterParams) ([]entity.Bill, error) {
	var bills []entity.Bill

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Bill{})
	query = applyBillFilters(query, params.Search, params.Status, params.CustomerID, params.StartDate, params.EndDate)

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	// Newest first; fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Find(&bills).Error

	return bills, err
}

func applyBillFilters(query *gorm.DB, search string, status *enum.BillStatus, customerID string, startDate, endDate *time.Time) *gorm.DB {
	if search != "" {
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}
	return query
}

// CancelWithStockRestore cancels a completed bill and returns its copies to
// stock in one transaction. The status flip only matches while the bill is
// still completed, so a concurrent cancel loses the race cleanly and the
// restore runs at most once.
func (r *billRepository) CancelWithStockRestore(ctx context.Context, id uuid.UUID, increments map[uuid.UUID]int) (bool, error) {
	cancelled := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Bill{}).
			Where("id = ? AND status = ?", id, enum.BillStatusCompleted).
			Update("status", enum.BillStatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		for bookID, amount := range increments {
			if err := tx.Model(&entity.Book{}).
				Where("id = ?", bookID).
				Update("stock", gorm.Expr("stock + ?", amount)).Error; err != nil {
				return err
			}
		}

		cancelled = true
		return nil
	})

	return cancelled, err
}

// GetLatest returns the bill with the numerically highest invoice number.
// Invoice numbers are digit strings of varying width, so they are compared
// as integers, not lexically.
func (r *billRepository) GetLatest(ctx context.Context) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Where("invoice_number ~ '^[0-9]+$'").
		Order("CAST(invoice_number AS bigint) DESC").
		First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}
