package reports

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

const (
	bestSellerLimit   = 5
	recentShiftsLimit = 5
)

type BestSeller struct {
	ProductName string `db:"product_name" json:"product_name"`
	Qty         int64  `db:"qty" json:"qty"`
}

type SalesSummaryResponse struct {
	GeneratedAt    time.Time         `json:"generated_at"`
	DailyRevenue   decimal.Decimal   `json:"daily_revenue"`
	WeeklyRevenue  decimal.Decimal   `json:"weekly_revenue"`
	MonthlyRevenue decimal.Decimal   `json:"monthly_revenue"`
	BestSellers    []*BestSeller     `json:"best_sellers"`
	LowStock       []*models.Product `json:"low_stock"`
	RecentShifts   []*models.Shift   `json:"recent_shifts"`
}

func getReadDB() (*sqlx.DB, error) {
	sqlDB, err := config.GetDB().DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, config.GetDialect()), nil
}

// revenueSince sums net totals of sales created on or after the start of from's calendar date.
func revenueSince(ctx context.Context, db *sqlx.DB, from time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := db.Rebind(`SELECT COALESCE(SUM(net_total), 0) FROM sales WHERE created_at >= ?`)
	if err := db.GetContext(ctx, &total, query, utils.StartOfDay(from)); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func bestSellers(ctx context.Context, db *sqlx.DB, limit int) ([]*BestSeller, error) {
	query := db.Rebind(`
SELECT
    product_name,
    SUM(qty) AS qty
FROM
    sale_items
GROUP BY
    product_name
ORDER BY
    qty DESC, product_name
LIMIT ?`)
	var records []*BestSeller
	if err := db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, err
	}
	return records, nil
}

// GetSalesSummaryReport builds the reports page: revenue for today, the last 7 and the
// last 30 calendar days, best sellers, low stock and the latest shifts.
func GetSalesSummaryReport(ctx context.Context, now time.Time) (*SalesSummaryResponse, error) {
	db, err := getReadDB()
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	response := SalesSummaryResponse{GeneratedAt: now}
	windows := []struct {
		days int
		dest *decimal.Decimal
	}{
		{0, &response.DailyRevenue},
		{7, &response.WeeklyRevenue},
		{30, &response.MonthlyRevenue},
	}
	for _, w := range windows {
		total, err := revenueSince(ctx, db, now.AddDate(0, 0, -w.days))
		if err != nil {
			return nil, err
		}
		*w.dest = total
	}

	if response.BestSellers, err = bestSellers(ctx, db, bestSellerLimit); err != nil {
		return nil, err
	}
	if response.LowStock, err = models.ListLowStockProducts(ctx); err != nil {
		return nil, err
	}
	if response.RecentShifts, err = models.ListShifts(ctx, recentShiftsLimit); err != nil {
		return nil, err
	}
	return &response, nil
}
