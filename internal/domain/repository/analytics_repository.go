package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopBookResult represents a book's sales performance
type TopBookResult struct {
	BookID       uuid.UUID
	Title        string
	Author       string
	QuantitySold int
	Revenue      float64
}

// CategorySalesResult represents sales aggregated by category
type CategorySalesResult struct {
	Category   string
	TotalSales float64
	BillCount  int
	Percentage float64
}

// TopCustomerResult represents a customer's spending data
type TopCustomerResult struct {
	CustomerID   string
	CustomerName string
	TotalSpent   float64
	BillCount    int
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date      time.Time
	Revenue   float64
	BillCount int
}

// PaymentMethodResult represents sales aggregated by payment method
type PaymentMethodResult struct {
	PaymentMethod string
	TotalSales    float64
	BillCount     int
}

// SalesSummaryResult aggregates completed bills over a date range
type SalesSummaryResult struct {
	TotalRevenue  float64
	TotalDiscount float64
	BillCount     int
	ItemsSold     int
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTopBooks returns top selling books by revenue
	GetTopBooks(ctx context.Context, limit int) ([]TopBookResult, error)

	// GetSalesByCategory returns sales aggregated by category with percentages
	GetSalesByCategory(ctx context.Context) ([]CategorySalesResult, error)

	// GetTopCustomers returns top customers by total spending
	GetTopCustomers(ctx context.Context, limit int) ([]TopCustomerResult, error)

	// GetDailySales returns daily sales data for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// GetSalesByPaymentMethod returns sales aggregated by payment method
	GetSalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]PaymentMethodResult, error)

	// GetSalesSummary aggregates completed bills between start and end
	GetSalesSummary(ctx context.Context, start, end time.Time) (*SalesSummaryResult, error)

	// GetTotalRevenue returns total revenue from completed bills
	GetTotalRevenue(ctx context.Context) (float64, error)

	// GetRevenueSince returns revenue from completed bills created at or after the given time
	GetRevenueSince(ctx context.Context, since time.Time) (float64, error)

	// CountBooks returns the number of books in the catalog
	CountBooks(ctx context.Context) (int64, error)

	// CountCustomers returns the number of registered customers
	CountCustomers(ctx context.Context) (int64, error)

	// CountBills returns the number of bills
	CountBills(ctx context.Context) (int64, error)
}
