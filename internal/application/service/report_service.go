package service

import (
	"context"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/bookhaven/pos-api/pkg/pagination"
)

// ReportService builds the sales, customer and inventory reports
type ReportService struct {
	analyticsRepo repository.AnalyticsRepository
	bookRepo      repository.BookRepository
}

// NewReportService creates a new report service
func NewReportService(
	analyticsRepo repository.AnalyticsRepository,
	bookRepo repository.BookRepository,
) *ReportService {
	return &ReportService{
		analyticsRepo: analyticsRepo,
		bookRepo:      bookRepo,
	}
}

// SalesReport summarizes completed sales over a date range
type SalesReport struct {
	StartDate      string               `json:"start_date"`
	EndDate        string               `json:"end_date"`
	TotalRevenue   float64              `json:"total_revenue"`
	TotalDiscount  float64              `json:"total_discount"`
	BillCount      int                  `json:"bill_count"`
	ItemsSold      int                  `json:"items_sold"`
	AverageBill    float64              `json:"average_bill"`
	PaymentMethods []PaymentMethodPoint `json:"payment_methods"`
	DailySales     []DailySalesPoint    `json:"daily_sales"`
}

// PaymentMethodPoint represents sales through one payment method
type PaymentMethodPoint struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Bills  int     `json:"bills"`
}

// GetSalesReport builds the sales report for [start, end]
func (s *ReportService) GetSalesReport(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	if end.Before(start) {
		return nil, apperror.NewBadRequestError("End date is before start date")
	}

	summary, err := s.analyticsRepo.GetSalesSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		TotalRevenue:  summary.TotalRevenue,
		TotalDiscount: summary.TotalDiscount,
		BillCount:     summary.BillCount,
		ItemsSold:     summary.ItemsSold,
	}
	if summary.BillCount > 0 {
		report.AverageBill = summary.TotalRevenue / float64(summary.BillCount)
	}

	methods, err := s.analyticsRepo.GetSalesByPaymentMethod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, m := range methods {
		report.PaymentMethods = append(report.PaymentMethods, PaymentMethodPoint{
			Method: m.PaymentMethod,
			Amount: m.TotalSales,
			Bills:  m.BillCount,
		})
	}

	days := int(end.Sub(start).Hours()/24) + 1
	daily, err := s.analyticsRepo.GetDailySales(ctx, days)
	if err != nil {
		return nil, err
	}
	for _, d := range daily {
		if d.Date.Before(start) || d.Date.After(end) {
			continue
		}
		report.DailySales = append(report.DailySales, DailySalesPoint{
			Date:    d.Date.Format("Jan 02"),
			Revenue: d.Revenue,
			Bills:   d.BillCount,
		})
	}

	return report, nil
}

// CustomerReport ranks customers by what they spent
type CustomerReport struct {
	Customers []CustomerReportRow `json:"customers"`
}

// CustomerReportRow is one customer's aggregate purchase data
type CustomerReportRow struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	TotalSpent   float64 `json:"total_spent"`
	BillCount    int     `json:"bill_count"`
}

// GetCustomerReport returns the top customers by spend. Guest sales are
// excluded because they cannot be attributed.
func (s *ReportService) GetCustomerReport(ctx context.Context, limit int) (*CustomerReport, error) {
	if limit < 1 {
		limit = 20
	}

	top, err := s.analyticsRepo.GetTopCustomers(ctx, limit)
	if err != nil {
		return nil, err
	}

	report := &CustomerReport{Customers: []CustomerReportRow{}}
	for _, c := range top {
		report.Customers = append(report.Customers, CustomerReportRow{
			CustomerID:   c.CustomerID,
			CustomerName: c.CustomerName,
			TotalSpent:   c.TotalSpent,
			BillCount:    c.BillCount,
		})
	}

	return report, nil
}

// InventoryReport summarizes the catalog's stock position
type InventoryReport struct {
	TotalTitles   int64         `json:"total_titles"`
	TotalStock    int           `json:"total_stock"`
	StockValue    float64       `json:"stock_value"`
	LowStockBooks []entity.Book `json:"low_stock_books"`
	OutOfStock    []entity.Book `json:"out_of_stock"`
}

// GetInventoryReport builds the inventory report
func (s *ReportService) GetInventoryReport(ctx context.Context, lowStockThreshold int) (*InventoryReport, error) {
	report := &InventoryReport{
		LowStockBooks: []entity.Book{},
		OutOfStock:    []entity.Book{},
	}

	var err error
	if report.TotalTitles, err = s.analyticsRepo.CountBooks(ctx); err != nil {
		return nil, err
	}

	lowStock, err := s.bookRepo.GetLowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}
	for _, b := range lowStock {
		if b.Stock == 0 {
			report.OutOfStock = append(report.OutOfStock, b)
		} else {
			report.LowStockBooks = append(report.LowStockBooks, b)
		}
	}

	// Walk the catalog in pages to total stock on hand and its retail value
	params := &repository.BookFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100},
	}
	for {
		books, total, err := s.bookRepo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, b := range books {
			report.TotalStock += b.Stock
			report.StockValue += float64(b.Price*int64(b.Stock)) / 100
		}
		if int64(params.Pagination.Page*params.Pagination.PerPage) >= total {
			break
		}
		params.Pagination.Page++
	}

	return report, nil
}
