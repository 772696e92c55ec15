package service

import (
	"context"
	"testing"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	books    *fakeBookRepo
	bills    *fakeBillRepo
	carts    *CartService
	checkout *CheckoutService
	userID   uuid.UUID
}

func newCheckoutFixture(t *testing.T, books ...*entity.Book) *checkoutFixture {
	t.Helper()
	bookRepo := newFakeBookRepo(books...)
	billRepo := newFakeBillRepo(bookRepo)
	carts := NewCartService(bookRepo)
	return &checkoutFixture{
		books:    bookRepo,
		bills:    billRepo,
		carts:    carts,
		checkout: NewCheckoutService(billRepo, bookRepo, carts, nil, &fakeSettingsRepo{}),
		userID:   uuid.New(),
	}
}

func (f *checkoutFixture) add(t *testing.T, bookID uuid.UUID, quantity int) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), f.userID, bookID)
	require.NoError(t, err)
	if quantity > 1 {
		_, err = f.carts.ChangeQuantity(context.Background(), f.userID, bookID, quantity-1)
		require.NoError(t, err)
	}
}

func (f *checkoutFixture) run() (*entity.Bill, error) {
	return f.checkout.Checkout(context.Background(), &CheckoutInput{
		UserID:   f.userID,
		UserName: "Test Cashier",
	})
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.Checkout(context.Background(), nil)
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	_, err = f.checkout.Checkout(context.Background(), &CheckoutInput{})
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.run()
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
	assert.Zero(t, f.bills.count())
}

func TestCheckoutCommitsSaleAndDecrementsStock(t *testing.T) {
	book := newTestBook("Snow Crash", 1500, 10)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 3)

	bill, err := f.run()
	require.NoError(t, err)
	require.NotNil(t, bill)

	assert.Equal(t, "01", bill.InvoiceNumber)
	assert.Equal(t, int64(4500), bill.SubTotal)
	assert.Equal(t, int64(4500), bill.Total)
	assert.Equal(t, GuestCustomerID, bill.CustomerID)
	assert.Equal(t, enum.BillStatusCompleted, bill.Status)
	assert.Equal(t, f.userID, bill.CreatedByID)
	assert.Equal(t, "Test Cashier", bill.CreatedByName)

	require.Len(t, bill.Items, 1)
	assert.Equal(t, 3, bill.Items[0].Quantity)
	assert.Equal(t, int64(4500), bill.Items[0].Total)

	assert.Equal(t, 7, f.books.stock(book.ID))
	assert.Equal(t, 1, f.bills.count())
}

func TestCheckoutResetsCartOnSuccess(t *testing.T) {
	book := newTestBook("Neuromancer", 1200, 5)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 2)
	_, err := f.carts.SetGlobalDiscount(f.userID, 20)
	require.NoError(t, err)
	_, err = f.carts.SetPaymentMethod(f.userID, enum.PaymentMethodCard)
	require.NoError(t, err)

	_, err = f.run()
	require.NoError(t, err)

	cart := f.carts.Get(f.userID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.GlobalDiscount)
	assert.Equal(t, enum.PaymentMethodCash, cart.PaymentMethod)
}

func TestCheckoutAppliesDiscounts(t *testing.T) {
	book := newTestBook("Dune", 2000, 10)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 2)

	_, err := f.carts.UpdateDiscount(context.Background(), f.userID, book.ID, 200)
	require.NoError(t, err)
	_, err = f.carts.SetGlobalDiscount(f.userID, 10)
	require.NoError(t, err)

	bill, err := f.run()
	require.NoError(t, err)

	// 2 x 2000 = 4000 gross; line discounts 400; global 10% of 4000 = 400
	assert.Equal(t, int64(4000), bill.SubTotal)
	assert.Equal(t, int64(800), bill.Discount)
	assert.Equal(t, int64(3200), bill.Total)

	// line total is net of the per-unit discount only
	require.Len(t, bill.Items, 1)
	assert.Equal(t, int64(3600), bill.Items[0].Total)
}

func TestCheckoutGlobalDiscountScenario(t *testing.T) {
	book := newTestBook("Atlas of Clouds", 10000, 3)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 2)

	_, err := f.carts.SetGlobalDiscount(f.userID, 10)
	require.NoError(t, err)

	bill, err := f.run()
	require.NoError(t, err)

	assert.Equal(t, int64(20000), bill.SubTotal)
	assert.Equal(t, int64(2000), bill.Discount)
	assert.Equal(t, int64(18000), bill.Total)
	assert.Equal(t, 1, f.books.stock(book.ID))
}

func TestCheckoutStockConflictLeavesEverythingUntouched(t *testing.T) {
	book := newTestBook("Hyperion", 1800, 5)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 4)

	// another terminal sells three copies before this checkout commits
	require.NoError(t, f.books.UpdateStock(context.Background(), book.ID, 2))

	_, err := f.run()
	require.Error(t, err)

	var conflict *apperror.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Hyperion", conflict.Title)
	assert.Equal(t, 4, conflict.Requested)
	assert.Equal(t, 2, conflict.Available)

	// nothing written, stock untouched, cart intact
	assert.Zero(t, f.bills.count())
	assert.Equal(t, 2, f.books.stock(book.ID))
	cart := f.carts.Get(f.userID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestCheckoutMultiLineConflictIsAllOrNothing(t *testing.T) {
	inStock := newTestBook("Plenty", 1000, 10)
	short := newTestBook("Scarce", 1000, 1)
	f := newCheckoutFixture(t, inStock, short)
	f.add(t, inStock.ID, 2)
	f.add(t, short.ID, 1)

	require.NoError(t, f.books.UpdateStock(context.Background(), short.ID, 0))

	_, err := f.run()
	require.Error(t, err)
	assert.True(t, apperror.IsStockConflict(err))

	// the in-stock line must not have been decremented either
	assert.Equal(t, 10, f.books.stock(inStock.ID))
	assert.Zero(t, f.bills.count())
}

func TestCheckoutAttachesSelectedCustomer(t *testing.T) {
	book := newTestBook("Foundation", 1100, 5)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 1)

	customer := &entity.Customer{
		ID:    uuid.New(),
		Name:  "Ravi Kumar",
		Email: "ravi@example.com",
	}
	_, err := f.carts.SelectCustomer(f.userID, customer)
	require.NoError(t, err)

	bill, err := f.run()
	require.NoError(t, err)

	assert.Equal(t, customer.ID.String(), bill.CustomerID)
	assert.Equal(t, "Ravi Kumar", bill.CustomerName)
	assert.Equal(t, "ravi@example.com", bill.CustomerEmail)
}

func TestInvoiceNumbersAreSequential(t *testing.T) {
	book := newTestBook("Serial", 500, 100)
	f := newCheckoutFixture(t, book)

	for _, want := range []string{"01", "02", "03"} {
		f.add(t, book.ID, 1)
		bill, err := f.run()
		require.NoError(t, err)
		assert.Equal(t, want, bill.InvoiceNumber)
	}
}

func TestInvoiceNumbersGrowPastPadding(t *testing.T) {
	f := newCheckoutFixture(t)
	f.bills.bills = append(f.bills.bills, &entity.Bill{
		ID:            uuid.New(),
		InvoiceNumber: "99",
	})

	next, err := f.checkout.NextInvoiceNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "100", next)
}

func TestNextInvoiceNumberIgnoresLexicographicOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	for _, n := range []string{"08", "09", "10"} {
		f.bills.bills = append(f.bills.bills, &entity.Bill{
			ID:            uuid.New(),
			InvoiceNumber: n,
		})
	}

	// "9" > "10" as strings; the comparison has to be numeric
	next, err := f.checkout.NextInvoiceNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "11", next)
}
