package service

import (
	"context"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/pagination"
)

// DashboardService provides the overview numbers for the admin dashboard
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	bookRepo      repository.BookRepository
	billRepo      repository.BillRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	bookRepo repository.BookRepository,
	billRepo repository.BillRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		bookRepo:      bookRepo,
		billRepo:      billRepo,
	}
}

// DashboardStats represents the dashboard overview
type DashboardStats struct {
	TotalBooks     int64                `json:"total_books"`
	TotalCustomers int64                `json:"total_customers"`
	TotalBills     int64                `json:"total_bills"`
	TotalRevenue   float64              `json:"total_revenue"`
	TodayRevenue   float64              `json:"today_revenue"`
	WeekRevenue    float64              `json:"week_revenue"`
	MonthRevenue   float64              `json:"month_revenue"`
	LowStockCount  int64                `json:"low_stock_count"`
	LowStockBooks  []entity.Book        `json:"low_stock_books"`
	DailySalesData []DailySalesPoint    `json:"daily_sales_data"`
	TopBooks       []TopBookPoint       `json:"top_books"`
	CategorySales  []CategorySalesPoint `json:"category_sales"`
	RecentBills    []entity.Bill        `json:"recent_bills"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Bills   int     `json:"bills"`
}

// TopBookPoint represents a best selling title
type TopBookPoint struct {
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// CategorySalesPoint represents sales by category
type CategorySalesPoint struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// GetDashboardStats returns the dashboard overview
func (s *DashboardService) GetDashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalBooks, err = s.analyticsRepo.CountBooks(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = s.analyticsRepo.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBills, err = s.analyticsRepo.CountBills(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -6)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if stats.TodayRevenue, err = s.analyticsRepo.GetRevenueSince(ctx, startOfDay); err != nil {
		return nil, err
	}
	if stats.WeekRevenue, err = s.analyticsRepo.GetRevenueSince(ctx, startOfWeek); err != nil {
		return nil, err
	}
	if stats.MonthRevenue, err = s.analyticsRepo.GetRevenueSince(ctx, startOfMonth); err != nil {
		return nil, err
	}

	lowStock, err := s.bookRepo.GetLowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))
	stats.LowStockBooks = lowStock

	daily, err := s.analyticsRepo.GetDailySales(ctx, 7)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]repository.DailySalesResult, len(daily))
	for _, d := range daily {
		byDate[d.Date.Format("2006-01-02")] = d
	}

	// One point per day for the last 7 days, zeros for quiet days
	stats.DailySalesData = make([]DailySalesPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		date := startOfDay.AddDate(0, 0, -i)
		point := DailySalesPoint{Date: date.Format("Jan 02")}
		if d, ok := byDate[date.Format("2006-01-02")]; ok {
			point.Revenue = d.Revenue
			point.Bills = d.BillCount
		}
		stats.DailySalesData = append(stats.DailySalesData, point)
	}

	topBooks, err := s.analyticsRepo.GetTopBooks(ctx, 5)
	if err != nil {
		return nil, err
	}
	for _, b := range topBooks {
		stats.TopBooks = append(stats.TopBooks, TopBookPoint{
			Title:        b.Title,
			Author:       b.Author,
			QuantitySold: b.QuantitySold,
			Revenue:      b.Revenue,
		})
	}

	categorySales, err := s.analyticsRepo.GetSalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categorySales {
		stats.CategorySales = append(stats.CategorySales, CategorySalesPoint{
			Category:   c.Category,
			Amount:     c.TotalSales,
			Percentage: c.Percentage,
		})
	}

	recentCursor := &pagination.CursorParams{Limit: 5}
	recent, err := s.billRepo.ListWithCursor(ctx, &repository.BillCursorFilterParams{
		Cursor: recentCursor,
	})
	if err != nil {
		return nil, err
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentBills = recent

	return stats, nil
}
