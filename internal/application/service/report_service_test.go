package service

import (
	"context"
	"testing"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func midnight(daysAgo int) time.Time {
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -daysAgo)
}

func TestSalesReportAggregates(t *testing.T) {
	analytics := &fakeAnalyticsRepo{
		salesSummary: repository.SalesSummaryResult{
			TotalRevenue:  540.50,
			TotalDiscount: 59.50,
			BillCount:     4,
			ItemsSold:     11,
		},
		paymentMethods: []repository.PaymentMethodResult{
			{PaymentMethod: "cash", TotalSales: 340.50, BillCount: 3},
			{PaymentMethod: "card", TotalSales: 200, BillCount: 1},
		},
		dailySales: []repository.DailySalesResult{
			{Date: midnight(5), Revenue: 99, BillCount: 1},
			{Date: midnight(1), Revenue: 340.50, BillCount: 3},
			{Date: midnight(0), Revenue: 200, BillCount: 1},
		},
	}
	reports := NewReportService(analytics, newFakeBookRepo())

	report, err := reports.GetSalesReport(context.Background(), midnight(2), midnight(0))
	require.NoError(t, err)

	assert.Equal(t, 540.50, report.TotalRevenue)
	assert.Equal(t, 59.50, report.TotalDiscount)
	assert.Equal(t, 4, report.BillCount)
	assert.Equal(t, 11, report.ItemsSold)
	assert.InDelta(t, 135.125, report.AverageBill, 0.0001)

	require.Len(t, report.PaymentMethods, 2)
	assert.Equal(t, "cash", report.PaymentMethods[0].Method)
	assert.Equal(t, 340.50, report.PaymentMethods[0].Amount)
	assert.Equal(t, 3, report.PaymentMethods[0].Bills)

	// The point from five days ago falls outside the requested range.
	require.Len(t, report.DailySales, 2)
	assert.Equal(t, 340.50, report.DailySales[0].Revenue)
	assert.Equal(t, 200.0, report.DailySales[1].Revenue)
}

func TestSalesReportAverageIsZeroWithoutBills(t *testing.T) {
	reports := NewReportService(&fakeAnalyticsRepo{}, newFakeBookRepo())

	report, err := reports.GetSalesReport(context.Background(), midnight(7), midnight(0))
	require.NoError(t, err)
	assert.Zero(t, report.AverageBill)
	assert.Zero(t, report.BillCount)
}

func TestSalesReportRejectsInvertedRange(t *testing.T) {
	reports := NewReportService(&fakeAnalyticsRepo{}, newFakeBookRepo())

	_, err := reports.GetSalesReport(context.Background(), midnight(0), midnight(3))
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCustomerReportRanksBySpend(t *testing.T) {
	analytics := &fakeAnalyticsRepo{
		topCustomers: []repository.TopCustomerResult{
			{CustomerID: "c1", CustomerName: "Asha Rao", TotalSpent: 900, BillCount: 6},
			{CustomerID: "c2", CustomerName: "Vikram Shah", TotalSpent: 450, BillCount: 2},
		},
	}
	reports := NewReportService(analytics, newFakeBookRepo())

	report, err := reports.GetCustomerReport(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, report.Customers, 2)
	assert.Equal(t, "Asha Rao", report.Customers[0].CustomerName)
	assert.Equal(t, 900.0, report.Customers[0].TotalSpent)
	assert.Equal(t, 6, report.Customers[0].BillCount)
}

func TestCustomerReportDefaultsLimit(t *testing.T) {
	analytics := &fakeAnalyticsRepo{}
	reports := NewReportService(analytics, newFakeBookRepo())

	_, err := reports.GetCustomerReport(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 20, analytics.topCustomersLimit)
}

func TestInventoryReportSplitsOutOfStock(t *testing.T) {
	sold := newTestBook("Gone Tomorrow", 1500, 0)
	scarce := newTestBook("Last Copies", 2000, 3)
	healthy := newTestBook("Evergreen", 1000, 40)
	books := newFakeBookRepo(sold, scarce, healthy)
	analytics := &fakeAnalyticsRepo{countBooks: 3}
	reports := NewReportService(analytics, books)

	report, err := reports.GetInventoryReport(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.TotalTitles)
	assert.Equal(t, 43, report.TotalStock)
	assert.InDelta(t, 460.0, report.StockValue, 0.0001)

	require.Len(t, report.OutOfStock, 1)
	assert.Equal(t, "Gone Tomorrow", report.OutOfStock[0].Title)
	require.Len(t, report.LowStockBooks, 1)
	assert.Equal(t, "Last Copies", report.LowStockBooks[0].Title)
}
