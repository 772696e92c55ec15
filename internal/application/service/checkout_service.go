package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/bookhaven/pos-api/pkg/email"
	"github.com/google/uuid"
)

// GuestCustomerID marks bills sold without a selected customer.
const GuestCustomerID = "guest"

// invoiceNumberWidth is the minimum digit width of formatted invoice numbers.
// Numbers above 99 simply grow wider.
const invoiceNumberWidth = 2

// CheckoutService turns a cart into a persisted bill. The bill insert and the
// stock decrements happen in one transaction, so a sale either fully commits
// or leaves no trace.
type CheckoutService struct {
	billRepo repository.BillRepository
	bookRepo repository.BookRepository
	carts    *CartService
	emails   *email.EmailService
	settings repository.SettingsRepository
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	billRepo repository.BillRepository,
	bookRepo repository.BookRepository,
	carts *CartService,
	emails *email.EmailService,
	settings repository.SettingsRepository,
) *CheckoutService {
	return &CheckoutService{
		billRepo: billRepo,
		bookRepo: bookRepo,
		carts:    carts,
		emails:   emails,
		settings: settings,
	}
}

// CheckoutInput identifies the cashier completing the sale.
type CheckoutInput struct {
	UserID   uuid.UUID
	UserName string
}

// NextInvoiceNumber reads the highest invoice number and returns the next
// one, zero padded to at least two digits. The first invoice is "01".
// Concurrent checkouts can race to the same number; the unique index on
// invoice_number rejects the loser, which surfaces as a store failure.
func (s *CheckoutService) NextInvoiceNumber(ctx context.Context) (string, error) {
	latest, err := s.billRepo.GetLatest(ctx)
	if err != nil {
		return "", err
	}

	next := 1
	if latest != nil {
		n, err := strconv.Atoi(latest.InvoiceNumber)
		if err != nil {
			return "", fmt.Errorf("malformed invoice number %q: %w", latest.InvoiceNumber, err)
		}
		next = n + 1
	}

	return fmt.Sprintf("%0*d", invoiceNumberWidth, next), nil
}

// Checkout validates the cashier's cart, assigns an invoice number and commits
// the sale. On a stock conflict nothing is written, the cart survives, and the
// error names the first title that ran short together with its live
// availability. On success the cart is reset to its defaults.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Bill, error) {
	if input == nil || input.UserID == uuid.Nil {
		return nil, apperror.ErrNotAuthenticated
	}

	cart := s.carts.Get(input.UserID)
	if len(cart.Items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	totals := cart.Totals()

	invoiceNumber, err := s.NextInvoiceNumber(ctx)
	if err != nil {
		log.Printf("checkout: invoice number lookup failed: %v", err)
		return nil, apperror.ErrStoreFailure
	}

	customerID := cart.CustomerID
	if customerID == "" {
		customerID = GuestCustomerID
	}

	bill := &entity.Bill{
		ID:            uuid.New(),
		InvoiceNumber: invoiceNumber,
		SubTotal:      totals.SubTotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		CustomerID:    customerID,
		CustomerName:  cart.CustomerName,
		CustomerPhone: cart.CustomerPhone,
		CustomerEmail: cart.CustomerEmail,
		PaymentMethod: cart.PaymentMethod,
		Status:        enum.BillStatusCompleted,
		CreatedByID:   input.UserID,
		CreatedByName: input.UserName,
	}

	decrements := make(map[uuid.UUID]int, len(cart.Items))
	requested := make(map[uuid.UUID]int, len(cart.Items))
	for _, item := range cart.Items {
		bill.Items = append(bill.Items, entity.BillItem{
			ID:        uuid.New(),
			BillID:    bill.ID,
			BookID:    item.BookID,
			Title:     item.Title,
			Author:    item.Author,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Total:     (item.UnitPrice - item.Discount) * int64(item.Quantity),
		})
		decrements[item.BookID] = item.Quantity
		requested[item.BookID] = item.Quantity
	}

	failedIDs, err := s.billRepo.CreateWithStockDecrements(ctx, bill, decrements)
	if err != nil {
		log.Printf("checkout: transaction failed for invoice %s: %v", invoiceNumber, err)
		return nil, apperror.ErrStoreFailure
	}

	if len(failedIDs) > 0 {
		return nil, s.stockConflict(ctx, cart, failedIDs[0], requested[failedIDs[0]])
	}

	// Sale committed; the cart goes back to its default state
	s.carts.Clear(input.UserID)

	s.sendReceiptEmail(ctx, bill)

	return bill, nil
}

// stockConflict builds the conflict error for the first short title, using
// live stock so the cashier sees what is actually left.
func (s *CheckoutService) stockConflict(ctx context.Context, cart *Cart, bookID uuid.UUID, requested int) error {
	title := ""
	if idx := cart.findItem(bookID); idx >= 0 {
		title = cart.Items[idx].Title
	}

	available := 0
	if book, err := s.bookRepo.GetByID(ctx, bookID); err == nil && book != nil {
		available = book.Stock
		if title == "" {
			title = book.Title
		}
	}

	return apperror.NewStockConflictError(title, requested, available)
}

// sendReceiptEmail emails a receipt copy when the sale has a customer with an
// email address. Failures are logged and never affect the sale.
func (s *CheckoutService) sendReceiptEmail(ctx context.Context, bill *entity.Bill) {
	if s.emails == nil || !s.emails.Enabled() || bill.CustomerEmail == "" {
		return
	}

	storeName := "BookHaven"
	if settings, err := s.settings.Get(ctx); err == nil && settings != nil && settings.Name != "" {
		storeName = settings.Name
	}

	r := &email.ReceiptEmail{
		StoreName:     storeName,
		InvoiceNumber: bill.InvoiceNumber,
		Date:          bill.CreatedAt.Format(time.RFC1123),
		Subtotal:      formatAmount(bill.SubTotal),
		Discount:      formatAmount(bill.Discount),
		Total:         formatAmount(bill.Total),
		PaymentMethod: string(bill.PaymentMethod),
	}
	for _, item := range bill.Items {
		r.Lines = append(r.Lines, email.ReceiptEmailLine{
			Title:    item.Title,
			Quantity: item.Quantity,
			Total:    formatAmount(item.Total),
		})
	}

	if err := s.emails.SendReceipt(bill.CustomerEmail, r); err != nil {
		log.Printf("checkout: receipt email for invoice %s failed: %v", bill.InvoiceNumber, err)
	}
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
