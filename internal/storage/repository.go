// Package storage persists sales in SQLite and runs the aggregate queries
// behind the metrics endpoints.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/huyhoang1996vn/zinc-assignment/internal/core"
)

// Repository is the explicit, passed-down store handle. Connection pooling
// and transaction isolation are delegated to database/sql and SQLite.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dbPath.
// Migrations are applied separately so the caller controls the
// fail-open/fail-fast startup policy.
func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping runs a trivial connectivity probe. It never mutates state.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("probe database: %w", err)
	}
	return nil
}

// BulkInsertSales inserts all rows in a single transaction. The whole batch
// is rolled back on the first failure.
func (r *Repository) BulkInsertSales(ctx context.Context, sales []core.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO sale (date, order_id, product_id, amount_sgd) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sales {
		if _, err := stmt.ExecContext(ctx, s.Date.ISO(), s.OrderID, s.ProductID, s.AmountSGD); err != nil {
			return fmt.Errorf("insert sale (order_id=%s): %w", s.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}

	slog.InfoContext(ctx, "Sales bulk inserted", "rows", len(sales))
	return nil
}

// CountSales returns the total number of rows in the sale table.
func (r *Repository) CountSales(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sale").Scan(&count); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return count, nil
}

// RevenueSummary computes the range totals. SQL aggregate semantics are kept:
// a range with no rows yields null, not zero.
func (r *Repository) RevenueSummary(ctx context.Context, dr core.DateRange) (core.RevenueSummary, error) {
	const q = `
        SELECT
            ROUND(SUM(amount_sgd), 2) AS total_revenue_sgd,
            ROUND(AVG(amount_sgd), 2) AS average_order_value_sgd
        FROM sale
        WHERE date BETWEEN ? AND ?`

	var total, average sql.NullFloat64
	err := r.db.QueryRowContext(ctx, q, dr.Start.ISO(), dr.End.ISO()).Scan(&total, &average)
	if err != nil {
		return core.RevenueSummary{}, fmt.Errorf("revenue summary: %w", err)
	}

	var summary core.RevenueSummary
	if total.Valid {
		summary.TotalRevenueSGD = &total.Float64
	}
	if average.Valid {
		summary.AverageOrderValueSGD = &average.Float64
	}
	return summary, nil
}

// RevenueByDay returns one row per distinct date with sales in range,
// in ascending date order. Days without sales are omitted.
func (r *Repository) RevenueByDay(ctx context.Context, dr core.DateRange) ([]core.DailyRevenue, error) {
	const q = `
        SELECT
            date,
            ROUND(SUM(amount_sgd), 2) AS revenue_sgd
        FROM sale
        WHERE date BETWEEN ? AND ?
        GROUP BY date
        ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, q, dr.Start.ISO(), dr.End.ISO())
	if err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}
	defer rows.Close()

	var daily []core.DailyRevenue
	for rows.Next() {
		var (
			dateStr string
			revenue float64
		)
		if err := rows.Scan(&dateStr, &revenue); err != nil {
			return nil, fmt.Errorf("scan daily revenue: %w", err)
		}
		date, err := core.ParseISODate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		daily = append(daily, core.DailyRevenue{Date: date, RevenueSGD: revenue})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily revenue: %w", err)
	}
	return daily, nil
}
