package service

import (
	"context"
	"testing"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStatsAggregates(t *testing.T) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -6)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// Keyed on the exact window starts the service computes; when two
	// windows coincide (for example on the first of the month) the later
	// write wins for both lookups, so expectations stay consistent.
	revenueByWindow := map[time.Time]float64{}
	revenueByWindow[startOfDay] = 120.50
	revenueByWindow[startOfWeek] = 400
	revenueByWindow[startOfMonth] = 900

	analytics := &fakeAnalyticsRepo{
		countBooks:     12,
		countCustomers: 7,
		countBills:     30,
		totalRevenue:   4321.75,
		revenueSince: func(since time.Time) float64 {
			return revenueByWindow[since]
		},
		dailySales: []repository.DailySalesResult{
			{Date: startOfDay, Revenue: 120.50, BillCount: 2},
			{Date: startOfDay.AddDate(0, 0, -3), Revenue: 75, BillCount: 1},
		},
		topBooks: []repository.TopBookResult{
			{Title: "Atlas of Clouds", Author: "M. Iyer", QuantitySold: 14, Revenue: 1400},
		},
		categorySales: []repository.CategorySalesResult{
			{Category: "Fiction", TotalSales: 3000, Percentage: 69.4},
			{Category: "Science", TotalSales: 1321.75, Percentage: 30.6},
		},
	}

	books := newFakeBookRepo(
		newTestBook("Last Copies", 2000, 2),
		newTestBook("Evergreen", 1000, 40),
	)
	bills := newFakeBillRepo(books)
	for i := 0; i < 7; i++ {
		bills.bills = append(bills.bills, &entity.Bill{ID: uuid.New(), CreatedAt: now})
	}

	dashboard := NewDashboardService(analytics, books, bills)
	stats, err := dashboard.GetDashboardStats(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(12), stats.TotalBooks)
	assert.Equal(t, int64(7), stats.TotalCustomers)
	assert.Equal(t, int64(30), stats.TotalBills)
	assert.Equal(t, 4321.75, stats.TotalRevenue)
	assert.Equal(t, revenueByWindow[startOfDay], stats.TodayRevenue)
	assert.Equal(t, revenueByWindow[startOfWeek], stats.WeekRevenue)
	assert.Equal(t, revenueByWindow[startOfMonth], stats.MonthRevenue)

	assert.Equal(t, int64(1), stats.LowStockCount)
	require.Len(t, stats.LowStockBooks, 1)
	assert.Equal(t, "Last Copies", stats.LowStockBooks[0].Title)

	// One point per day for the last seven days, quiet days zeroed.
	require.Len(t, stats.DailySalesData, 7)
	today := stats.DailySalesData[6]
	assert.Equal(t, startOfDay.Format("Jan 02"), today.Date)
	assert.Equal(t, 120.50, today.Revenue)
	assert.Equal(t, 2, today.Bills)
	threeDaysAgo := stats.DailySalesData[3]
	assert.Equal(t, 75.0, threeDaysAgo.Revenue)
	assert.Equal(t, 1, threeDaysAgo.Bills)
	assert.Zero(t, stats.DailySalesData[5].Revenue)
	assert.Zero(t, stats.DailySalesData[5].Bills)

	require.Len(t, stats.TopBooks, 1)
	assert.Equal(t, "Atlas of Clouds", stats.TopBooks[0].Title)
	assert.Equal(t, 14, stats.TopBooks[0].QuantitySold)

	require.Len(t, stats.CategorySales, 2)
	assert.Equal(t, "Fiction", stats.CategorySales[0].Category)
	assert.Equal(t, 3000.0, stats.CategorySales[0].Amount)

	assert.Len(t, stats.RecentBills, 5)
}

func TestDashboardStatsEmptyStore(t *testing.T) {
	books := newFakeBookRepo()
	dashboard := NewDashboardService(&fakeAnalyticsRepo{}, books, newFakeBillRepo(books))

	stats, err := dashboard.GetDashboardStats(context.Background(), 5)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalBooks)
	assert.Zero(t, stats.TotalRevenue)
	require.Len(t, stats.DailySalesData, 7)
	for _, point := range stats.DailySalesData {
		assert.Zero(t, point.Revenue)
		assert.Zero(t, point.Bills)
	}
	assert.Empty(t, stats.RecentBills)
}
