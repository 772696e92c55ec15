package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid or expired token"}
	ErrNotAuthenticated   = &AppError{Code: http.StatusUnauthorized, Message: "Please login to create an order"}
	ErrEmptyCart          = &AppError{Code: http.StatusBadRequest, Message: "Cart is empty"}
	ErrStoreFailure       = &AppError{Code: http.StatusInternalServerError, Message: "Operation failed, please retry"}
)

// StockConflictError is returned when a checkout requests more copies of a
// book than are currently in stock. It names the offending title so the
// cashier can fix the cart.
type StockConflictError struct {
	Title     string `json:"title"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("Not enough stock for %s (requested %d, available %d)", e.Title, e.Requested, e.Available)
}

// NewStockConflictError creates a stock conflict error for a single title
func NewStockConflictError(title string, requested, available int) *StockConflictError {
	return &StockConflictError{Title: title, Requested: requested, Available: available}
}

// IsStockConflict checks if an error is a StockConflictError
func IsStockConflict(err error) bool {
	var sc *StockConflictError
	return errors.As(err, &sc)
}

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible. Stock conflicts map
// to 409 and keep their message; anything unrecognized becomes a 500.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var sc *StockConflictError
	if errors.As(err, &sc) {
		return &AppError{
			Code:    http.StatusConflict,
			Message: sc.Error(),
		}
	}

	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
