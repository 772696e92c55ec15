package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelBillRestoresStock(t *testing.T) {
	book := newTestBook("Returnable", 1300, 10)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 4)

	bill, err := f.run()
	require.NoError(t, err)
	require.Equal(t, 6, f.books.stock(book.ID))

	bills := NewBillService(f.bills)

	cancelled, err := bills.CancelBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status.String())
	assert.Equal(t, 10, f.books.stock(book.ID))
}

func TestCancelBillRejectsDoubleCancel(t *testing.T) {
	book := newTestBook("Once Only", 1300, 10)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 2)

	bill, err := f.run()
	require.NoError(t, err)

	bills := NewBillService(f.bills)

	_, err = bills.CancelBill(context.Background(), bill.ID)
	require.NoError(t, err)

	_, err = bills.CancelBill(context.Background(), bill.ID)
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	// stock restored exactly once
	assert.Equal(t, 10, f.books.stock(book.ID))
}

func TestCancelBillFailedRestoreLeavesBillCompleted(t *testing.T) {
	book := newTestBook("Stuck", 1300, 10)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 4)

	bill, err := f.run()
	require.NoError(t, err)
	require.Equal(t, 6, f.books.stock(book.ID))

	f.bills.restoreErr = errors.New("connection reset")
	bills := NewBillService(f.bills)

	_, err = bills.CancelBill(context.Background(), bill.ID)
	require.Error(t, err)

	// The transaction rolled back: still completed, stock untouched
	stored, getErr := f.bills.GetByID(context.Background(), bill.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "completed", stored.Status.String())
	assert.Equal(t, 6, f.books.stock(book.ID))

	// The cancel goes through once the store recovers
	f.bills.restoreErr = nil
	_, err = bills.CancelBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, f.books.stock(book.ID))
}

func TestGetBillNotFound(t *testing.T) {
	f := newCheckoutFixture(t)
	bills := NewBillService(f.bills)

	_, err := bills.GetBill(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestGetBillByInvoiceNumber(t *testing.T) {
	book := newTestBook("Lookup", 800, 5)
	f := newCheckoutFixture(t, book)
	f.add(t, book.ID, 1)

	created, err := f.run()
	require.NoError(t, err)

	bills := NewBillService(f.bills)

	found, err := bills.GetBillByInvoiceNumber(context.Background(), created.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = bills.GetBillByInvoiceNumber(context.Background(), "9999")
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
