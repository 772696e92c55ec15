package repository

import (
	"context"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	domainRepo "github.com/bookhaven/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopBooks(ctx context.Context, limit int) ([]domainRepo.TopBookResult, error) {
	var results []domainRepo.TopBookResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			bi.book_id as book_id,
			bi.title as title,
			bi.author as author,
			COALESCE(SUM(bi.quantity), 0) as quantity_sold,
			COALESCE(SUM(bi.total), 0) / 100.0 as revenue
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.status = 0 AND b.deleted_at IS NULL
		GROUP BY bi.book_id, bi.title, bi.author
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByCategory(ctx context.Context) ([]domainRepo.CategorySalesResult, error) {
	var results []domainRepo.CategorySalesResult

	// Total first, for percentage calculation
	var totalSales float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(bi.total), 0) / 100.0
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.status = 0 AND b.deleted_at IS NULL
	`).Scan(&totalSales).Error
	if err != nil {
		return nil, err
	}

	// Bill items carry a title snapshot, so category comes from the current
	// catalog row. Items whose book was deleted fall under Uncategorized.
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(NULLIF(bk.category, ''), 'Uncategorized') as category,
			COALESCE(SUM(bi.total), 0) / 100.0 as total_sales,
			COUNT(DISTINCT b.id) as bill_count
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		LEFT JOIN books bk ON bk.id = bi.book_id
		WHERE b.status = 0 AND b.deleted_at IS NULL
		GROUP BY COALESCE(NULLIF(bk.category, ''), 'Uncategorized')
		ORDER BY total_sales DESC
	`).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	if totalSales > 0 {
		for i := range results {
			results[i].Percentage = results[i].TotalSales / totalSales * 100
		}
	}

	return results, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.customer_id as customer_id,
			MAX(b.customer_name) as customer_name,
			COALESCE(SUM(b.total), 0) / 100.0 as total_spent,
			COUNT(*) as bill_count
		FROM bills b
		WHERE b.status = 0 AND b.deleted_at IS NULL AND b.customer_id <> 'guest'
		GROUP BY b.customer_id
		ORDER BY total_spent DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE(b.created_at) as date,
			COALESCE(SUM(b.total), 0) / 100.0 as revenue,
			COUNT(*) as bill_count
		FROM bills b
		WHERE b.status = 0 AND b.deleted_at IS NULL
			AND b.created_at >= CURRENT_DATE - (? * INTERVAL '1 day')
		GROUP BY DATE(b.created_at)
		ORDER BY date ASC
	`, days).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]domainRepo.PaymentMethodResult, error) {
	var results []domainRepo.PaymentMethodResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.payment_method as payment_method,
			COALESCE(SUM(b.total), 0) / 100.0 as total_sales,
			COUNT(*) as bill_count
		FROM bills b
		WHERE b.status = 0 AND b.deleted_at IS NULL
			AND b.created_at >= ? AND b.created_at <= ?
		GROUP BY b.payment_method
		ORDER BY total_sales DESC
	`, start, end).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesSummary(ctx context.Context, start, end time.Time) (*domainRepo.SalesSummaryResult, error) {
	var result domainRepo.SalesSummaryResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(b.total), 0) / 100.0 as total_revenue,
			COALESCE(SUM(b.discount), 0) / 100.0 as total_discount,
			COUNT(*) as bill_count,
			COALESCE((
				SELECT SUM(bi.quantity)
				FROM bill_items bi
				JOIN bills b2 ON b2.id = bi.bill_id
				WHERE b2.status = 0 AND b2.deleted_at IS NULL
					AND b2.created_at >= ? AND b2.created_at <= ?
			), 0) as items_sold
		FROM bills b
		WHERE b.status = 0 AND b.deleted_at IS NULL
			AND b.created_at >= ? AND b.created_at <= ?
	`, start, end, start, end).Scan(&result).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM bills
		WHERE status = 0 AND deleted_at IS NULL
	`).Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) GetRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM bills
		WHERE status = 0 AND deleted_at IS NULL AND created_at >= ?
	`, since).Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Book{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountBills(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).Count(&count).Error
	return count, err
}
