package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"RetailMind/internal/domain/models"
	pkgch "RetailMind/pkg/clickhouse"
	applogger "RetailMind/pkg/logger"
	"RetailMind/pkg/util"
)

// CHSalesStore implements SalesStore backed by ClickHouse: raw sale events
// aggregated into daily series at query time.
type CHSalesStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSalesStore(ch *pkgch.Client, table string) *CHSalesStore {
	return &CHSalesStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSalesStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSalesStore) GetDailySales(ctx context.Context, productID string, from, to time.Time) (models.SalesSeries, error) {
	start := time.Now()
	from, to = util.AlignDays(from, to)
	q := fmt.Sprintf(`
        SELECT toDate(ts) AS d, sum(qty) AS total
        FROM %s
        WHERE product_id = ? AND ts >= ? AND ts < ?
        GROUP BY d
        ORDER BY d ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, productID, from, to.AddDate(0, 0, 1))
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse daily_sales query error",
				applogger.String("product_id", productID),
				applogger.Error(err),
			)
		}
		return models.SalesSeries{}, fmt.Errorf("get daily sales: %w", err)
	}
	defer rows.Close()

	series := models.SalesSeries{ProductID: productID}
	for rows.Next() {
		var p models.SalesPoint
		if err := rows.Scan(&p.Date, &p.Quantity); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse daily_sales scan error",
					applogger.String("product_id", productID),
					applogger.Error(err),
				)
			}
			return models.SalesSeries{}, fmt.Errorf("scan daily sales: %w", err)
		}
		series.Points = append(series.Points, p)
	}
	if err := rows.Err(); err != nil {
		return models.SalesSeries{}, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse daily_sales ok",
			applogger.String("product_id", productID),
			applogger.Int("rows", series.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

func (s *CHSalesStore) GetLatestDailySales(ctx context.Context, productID string, days int) (models.SalesSeries, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)
	return s.GetDailySales(ctx, productID, from, to)
}
