package service

import (
	"context"
	"sync"
	"testing"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(title string, priceCents int64, stock int) *entity.Book {
	return &entity.Book{
		ID:     uuid.New(),
		Title:  title,
		Author: "Test Author",
		Price:  priceCents,
		Stock:  stock,
	}
}

func TestCartDefaults(t *testing.T) {
	carts := NewCartService(newFakeBookRepo())
	cart := carts.Get(uuid.New())

	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.GlobalDiscount)
	assert.Empty(t, cart.CustomerID)
	assert.Equal(t, enum.PaymentMethodCash, cart.PaymentMethod)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	book := newTestBook("The Go Programming Language", 4500, 3)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	cart, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(4500), cart.Items[0].UnitPrice)

	cart, err = carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddItemAtStockBoundLeavesLineUnchanged(t *testing.T) {
	book := newTestBook("Rare First Edition", 20000, 1)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	_, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)

	// bumping past the snapshot stock is a silent no-op
	cart, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestAddItemOutOfStock(t *testing.T) {
	book := newTestBook("Sold Out", 1000, 0)
	carts := NewCartService(newFakeBookRepo(book))

	_, err := carts.AddItem(context.Background(), uuid.New(), book.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sold Out")
}

func TestAddItemUnknownBook(t *testing.T) {
	carts := NewCartService(newFakeBookRepo())

	_, err := carts.AddItem(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestChangeQuantityAppliesDelta(t *testing.T) {
	book := newTestBook("Clean Code", 3000, 10)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	_, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)

	cart, err := carts.ChangeQuantity(context.Background(), userID, book.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	cart, err = carts.ChangeQuantity(context.Background(), userID, book.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestChangeQuantityOutOfBoundsLeavesLineUnchanged(t *testing.T) {
	book := newTestBook("Clean Code", 3000, 5)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	_, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)
	_, err = carts.ChangeQuantity(context.Background(), userID, book.ID, 2)
	require.NoError(t, err)

	// above the cached stock: no change, no clamp
	cart, err := carts.ChangeQuantity(context.Background(), userID, book.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// below one: no change, line not removed
	cart, err = carts.ChangeQuantity(context.Background(), userID, book.ID, -3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// exactly to the stock bound is allowed
	cart, err = carts.ChangeQuantity(context.Background(), userID, book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestUpdateDiscountBounds(t *testing.T) {
	book := newTestBook("Discounted", 2000, 5)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	_, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)

	// negative clamps to zero
	cart, err := carts.UpdateDiscount(context.Background(), userID, book.ID, -100)
	require.NoError(t, err)
	assert.Zero(t, cart.Items[0].Discount)

	// above the unit price is rejected
	_, err = carts.UpdateDiscount(context.Background(), userID, book.ID, 2001)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	cart, err = carts.UpdateDiscount(context.Background(), userID, book.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), cart.Items[0].Discount)
}

func TestRemoveItem(t *testing.T) {
	book := newTestBook("Remove Me", 1500, 5)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	_, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)

	cart, err := carts.RemoveItem(userID, book.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = carts.RemoveItem(userID, book.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestTotalsCombineLineAndGlobalDiscounts(t *testing.T) {
	cart := NewCart()
	cart.Items = []CartItem{
		{BookID: uuid.New(), UnitPrice: 1000, Quantity: 2, Discount: 100}, // 2000 gross, 200 off
		{BookID: uuid.New(), UnitPrice: 500, Quantity: 1},                 // 500 gross
	}
	cart.GlobalDiscount = 10 // 10% of 2500 = 250

	totals := cart.Totals()
	assert.Equal(t, int64(2500), totals.SubTotal)
	assert.Equal(t, int64(450), totals.Discount)
	assert.Equal(t, int64(2050), totals.Total)
	assert.Equal(t, 3, totals.Items)
}

func TestTotalsIdentityHoldsWhenOverDiscounted(t *testing.T) {
	// Full per-unit discounts plus a global percentage push the total below
	// zero; the identity total = subtotal - discount still holds.
	cart := NewCart()
	cart.Items = []CartItem{
		{BookID: uuid.New(), UnitPrice: 10000, Quantity: 2, Discount: 10000},
	}
	cart.GlobalDiscount = 10

	totals := cart.Totals()
	assert.Equal(t, int64(20000), totals.SubTotal)
	assert.Equal(t, int64(22000), totals.Discount)
	assert.Equal(t, int64(-2000), totals.Total)
	assert.Equal(t, totals.SubTotal-totals.Discount, totals.Total)
}

func TestSetGlobalDiscountValidatesRange(t *testing.T) {
	carts := NewCartService(newFakeBookRepo())
	userID := uuid.New()

	_, err := carts.SetGlobalDiscount(userID, -1)
	assert.Error(t, err)

	_, err = carts.SetGlobalDiscount(userID, 101)
	assert.Error(t, err)

	cart, err := carts.SetGlobalDiscount(userID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25.0, cart.GlobalDiscount)
}

func TestSetPaymentMethodValidates(t *testing.T) {
	carts := NewCartService(newFakeBookRepo())
	userID := uuid.New()

	_, err := carts.SetPaymentMethod(userID, enum.PaymentMethod("cheque"))
	assert.Error(t, err)

	cart, err := carts.SetPaymentMethod(userID, enum.PaymentMethodUPI)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentMethodUPI, cart.PaymentMethod)
}

func TestSelectCustomerAndDetach(t *testing.T) {
	carts := NewCartService(newFakeBookRepo())
	userID := uuid.New()

	customer := &entity.Customer{
		ID:    uuid.New(),
		Name:  "Asha Patel",
		Phone: "+91 98765 43210",
		Email: "asha@example.com",
	}

	cart, err := carts.SelectCustomer(userID, customer)
	require.NoError(t, err)
	assert.Equal(t, customer.ID.String(), cart.CustomerID)
	assert.Equal(t, "Asha Patel", cart.CustomerName)

	cart, err = carts.SelectCustomer(userID, nil)
	require.NoError(t, err)
	assert.Empty(t, cart.CustomerID)
	assert.Empty(t, cart.CustomerName)
	assert.Empty(t, cart.CustomerEmail)
}

func TestClearResetsToDefaults(t *testing.T) {
	book := newTestBook("Reset Test", 1200, 5)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	_, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)
	_, err = carts.SetGlobalDiscount(userID, 15)
	require.NoError(t, err)
	_, err = carts.SetPaymentMethod(userID, enum.PaymentMethodCard)
	require.NoError(t, err)
	_, err = carts.SelectCustomer(userID, &entity.Customer{ID: uuid.New(), Name: "X"})
	require.NoError(t, err)

	cart := carts.Clear(userID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.GlobalDiscount)
	assert.Empty(t, cart.CustomerID)
	assert.Equal(t, enum.PaymentMethodCash, cart.PaymentMethod)
}

func TestRefreshStockClampsQuantities(t *testing.T) {
	book := newTestBook("Dwindling Stock", 900, 5)
	repo := newFakeBookRepo(book)
	carts := NewCartService(repo)
	userID := uuid.New()

	_, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)
	_, err = carts.ChangeQuantity(context.Background(), userID, book.ID, 4)
	require.NoError(t, err)

	// another terminal sold three copies in the meantime
	require.NoError(t, repo.UpdateStock(context.Background(), book.ID, 2))

	cart, err := carts.RefreshStock(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].AvailableStock)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestReturnedCartsAreDetachedSnapshots(t *testing.T) {
	book := newTestBook("Snapshot", 1100, 10)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	_, err := carts.AddItem(context.Background(), userID, book.ID)
	require.NoError(t, err)

	snap := carts.Get(userID)

	// later mutations do not leak into an earlier snapshot
	_, err = carts.ChangeQuantity(context.Background(), userID, book.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Items[0].Quantity)

	// writing through a snapshot does not reach the live cart
	snap.Items[0].Quantity = 99
	snap.GlobalDiscount = 50
	fresh := carts.Get(userID)
	assert.Equal(t, 4, fresh.Items[0].Quantity)
	assert.Zero(t, fresh.GlobalDiscount)
}

func TestConcurrentReadsAndMutations(t *testing.T) {
	book := newTestBook("Busy Title", 600, 100)
	carts := NewCartService(newFakeBookRepo(book))
	userID := uuid.New()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, err := carts.AddItem(context.Background(), userID, book.ID)
			assert.NoError(t, err)
			_, err = carts.RemoveItem(userID, book.ID)
			assert.NoError(t, err)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			totals := carts.Get(userID).Totals()
			assert.GreaterOrEqual(t, totals.Items, 0)
		}
	}()

	wg.Wait()
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	book := newTestBook("Shared Title", 700, 10)
	carts := NewCartService(newFakeBookRepo(book))

	alice := uuid.New()
	bob := uuid.New()

	_, err := carts.AddItem(context.Background(), alice, book.ID)
	require.NoError(t, err)

	assert.Len(t, carts.Get(alice).Items, 1)
	assert.Empty(t, carts.Get(bob).Items)
}
