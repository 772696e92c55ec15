package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/google/uuid"
)

// fakeBookRepo is an in-memory BookRepository for service tests.
type fakeBookRepo struct {
	mu    sync.Mutex
	books map[uuid.UUID]*entity.Book
}

func newFakeBookRepo(books ...*entity.Book) *fakeBookRepo {
	repo := &fakeBookRepo{books: make(map[uuid.UUID]*entity.Book)}
	for _, b := range books {
		repo.books[b.ID] = b
	}
	return repo
}

func (r *fakeBookRepo) Create(ctx context.Context, book *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) CreateBatch(ctx context.Context, books []entity.Book) error {
	for i := range books {
		if err := r.Create(ctx, &books[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return nil, nil
	}
	copied := *book
	return &copied, nil
}

func (r *fakeBookRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Book
	for _, id := range ids {
		if book, ok := r.books[id]; ok {
			out = append(out, *book)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, book *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, params *repository.BookFilterParams) ([]entity.Book, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Book
	for _, book := range r.books {
		out = append(out, *book)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookRepo) ListWithCursor(ctx context.Context, params *repository.BookCursorFilterParams) ([]entity.Book, error) {
	books, _, err := r.List(ctx, nil)
	return books, err
}

func (r *fakeBookRepo) GetLowStock(ctx context.Context, threshold int) ([]entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Book
	for _, book := range r.books {
		if book.Stock <= threshold {
			out = append(out, *book)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book, ok := r.books[id]; ok {
		book.Stock = stock
	}
	return nil
}

func (r *fakeBookRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book, ok := r.books[id]; ok {
		return book.Stock
	}
	return -1
}

// fakeBillRepo is an in-memory BillRepository that mirrors the all-or-nothing
// checkout and cancellation transactions against a fakeBookRepo. Setting
// restoreErr makes the cancellation transaction fail before writing anything.
type fakeBillRepo struct {
	mu         sync.Mutex
	books      *fakeBookRepo
	bills      []*entity.Bill
	restoreErr error
}

func newFakeBillRepo(books *fakeBookRepo) *fakeBillRepo {
	return &fakeBillRepo{books: books}
}

func (r *fakeBillRepo) CreateWithStockDecrements(ctx context.Context, bill *entity.Bill, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books.mu.Lock()
	defer r.books.mu.Unlock()

	var failedIDs []uuid.UUID
	for id, amount := range decrements {
		book, ok := r.books.books[id]
		if !ok || book.Stock < amount {
			failedIDs = append(failedIDs, id)
		}
	}
	if len(failedIDs) > 0 {
		return failedIDs, nil
	}

	for id, amount := range decrements {
		r.books.books[id].Stock -= amount
	}
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now()
	}
	r.bills = append(r.bills, bill)
	return nil, nil
}

func (r *fakeBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bill := range r.bills {
		if bill.ID == id {
			return bill, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bill := range r.bills {
		if bill.InvoiceNumber == invoiceNumber {
			return bill, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBillRepo) Update(ctx context.Context, bill *entity.Bill) error {
	return nil
}

func (r *fakeBillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeBillRepo) List(ctx context.Context, params *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Bill
	for _, bill := range r.bills {
		out = append(out, *bill)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBillRepo) ListWithCursor(ctx context.Context, params *repository.BillCursorFilterParams) ([]entity.Bill, error) {
	bills, _, err := r.List(ctx, nil)
	return bills, err
}

func (r *fakeBillRepo) CancelWithStockRestore(ctx context.Context, id uuid.UUID, increments map[uuid.UUID]int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books.mu.Lock()
	defer r.books.mu.Unlock()

	// A failed transaction rolls back: no status flip, no stock change
	if r.restoreErr != nil {
		return false, r.restoreErr
	}

	for _, bill := range r.bills {
		if bill.ID != id {
			continue
		}
		if bill.Status != enum.BillStatusCompleted {
			return false, nil
		}
		bill.Status = enum.BillStatusCancelled
		for bookID, amount := range increments {
			if book, ok := r.books.books[bookID]; ok {
				book.Stock += amount
			}
		}
		return true, nil
	}
	return false, nil
}

func (r *fakeBillRepo) GetLatest(ctx context.Context) (*entity.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.Bill
	highest := -1
	for _, bill := range r.bills {
		n, err := strconv.Atoi(bill.InvoiceNumber)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
			latest = bill
		}
	}
	return latest, nil
}

func (r *fakeBillRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bills)
}

// fakeAnalyticsRepo returns canned aggregation results for report and
// dashboard tests.
type fakeAnalyticsRepo struct {
	topBooks       []repository.TopBookResult
	categorySales  []repository.CategorySalesResult
	topCustomers   []repository.TopCustomerResult
	dailySales     []repository.DailySalesResult
	paymentMethods []repository.PaymentMethodResult
	salesSummary   repository.SalesSummaryResult
	totalRevenue   float64
	revenueSince   func(since time.Time) float64
	countBooks     int64
	countCustomers int64
	countBills     int64

	topCustomersLimit int
}

func (r *fakeAnalyticsRepo) GetTopBooks(ctx context.Context, limit int) ([]repository.TopBookResult, error) {
	if limit < len(r.topBooks) {
		return r.topBooks[:limit], nil
	}
	return r.topBooks, nil
}

func (r *fakeAnalyticsRepo) GetSalesByCategory(ctx context.Context) ([]repository.CategorySalesResult, error) {
	return r.categorySales, nil
}

func (r *fakeAnalyticsRepo) GetTopCustomers(ctx context.Context, limit int) ([]repository.TopCustomerResult, error) {
	r.topCustomersLimit = limit
	if limit < len(r.topCustomers) {
		return r.topCustomers[:limit], nil
	}
	return r.topCustomers, nil
}

func (r *fakeAnalyticsRepo) GetDailySales(ctx context.Context, days int) ([]repository.DailySalesResult, error) {
	return r.dailySales, nil
}

func (r *fakeAnalyticsRepo) GetSalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]repository.PaymentMethodResult, error) {
	return r.paymentMethods, nil
}

func (r *fakeAnalyticsRepo) GetSalesSummary(ctx context.Context, start, end time.Time) (*repository.SalesSummaryResult, error) {
	summary := r.salesSummary
	return &summary, nil
}

func (r *fakeAnalyticsRepo) GetTotalRevenue(ctx context.Context) (float64, error) {
	return r.totalRevenue, nil
}

func (r *fakeAnalyticsRepo) GetRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	if r.revenueSince == nil {
		return 0, nil
	}
	return r.revenueSince(since), nil
}

func (r *fakeAnalyticsRepo) CountBooks(ctx context.Context) (int64, error) {
	return r.countBooks, nil
}

func (r *fakeAnalyticsRepo) CountCustomers(ctx context.Context) (int64, error) {
	return r.countCustomers, nil
}

func (r *fakeAnalyticsRepo) CountBills(ctx context.Context) (int64, error) {
	return r.countBills, nil
}

// fakeSettingsRepo is an in-memory SettingsRepository.
type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *entity.StoreSettings
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*entity.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	return nil
}
