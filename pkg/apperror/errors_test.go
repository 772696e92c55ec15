package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockConflictErrorMessage(t *testing.T) {
	err := NewStockConflictError("Dune", 3, 1)
	assert.Equal(t, "Not enough stock for Dune (requested 3, available 1)", err.Error())
}

func TestIsStockConflict(t *testing.T) {
	err := NewStockConflictError("Dune", 2, 0)
	assert.True(t, IsStockConflict(err))
	assert.True(t, IsStockConflict(fmt.Errorf("checkout: %w", err)))
	assert.False(t, IsStockConflict(errors.New("plain error")))
}

func TestGetAppErrorMapsStockConflictTo409(t *testing.T) {
	appErr := GetAppError(NewStockConflictError("Dune", 2, 0))
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "Dune")
}

func TestGetAppErrorPassesThroughAppErrors(t *testing.T) {
	appErr := GetAppError(ErrEmptyCart)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Cart is empty", appErr.Message)

	appErr = GetAppError(ErrNotAuthenticated)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
}

func TestGetAppErrorWrapsUnknownErrorsAs500(t *testing.T) {
	appErr := GetAppError(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Book")
	assert.Equal(t, http.StatusNotFound, err.Code)
	assert.Equal(t, "Book not found", err.Message)
}
