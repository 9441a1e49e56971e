package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed aggregation for the dashboard.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PayBucketDays returns the daily pay totals per (method, bank) bucket in
// the window, ordered by method then bank so series come out in a stable
// order.
func (r *Repository) PayBucketDays(ctx context.Context, from, to time.Time) ([]PayBucketDay, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.payment_method_id, pm.name, p.bank_id, COALESCE(b.name, ''),
		       p.occurred_on, SUM(p.amount)
		FROM pays p
		JOIN payment_methods pm ON pm.id = p.payment_method_id
		LEFT JOIN banks b ON b.id = p.bank_id
		WHERE p.occurred_on >= $1 AND p.occurred_on <= $2
		GROUP BY p.payment_method_id, pm.name, p.bank_id, b.name, p.occurred_on
		ORDER BY p.payment_method_id, p.bank_id NULLS FIRST, p.occurred_on`, from, to)
	if err != nil {
		return nil, fmt.Errorf("insights: query pay buckets: %w", err)
	}
	defer rows.Close()

	var out []PayBucketDay
	for rows.Next() {
		var row PayBucketDay
		var bankID pgtype.Int8
		if err := rows.Scan(&row.PaymentMethodID, &row.MethodName, &bankID, &row.BankName, &row.Date, &row.Total); err != nil {
			return nil, fmt.Errorf("insights: scan pay bucket: %w", err)
		}
		if bankID.Valid {
			id := bankID.Int64
			row.BankID = &id
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SalesByDay returns per-day price and commission totals plus the sale
// count for the window.
func (r *Repository) SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT occurred_on, SUM(price), SUM(commission_amount), COUNT(*)
		FROM sales
		WHERE occurred_on >= $1 AND occurred_on <= $2
		GROUP BY occurred_on
		ORDER BY occurred_on`, from, to)
	if err != nil {
		return nil, fmt.Errorf("insights: query daily sales: %w", err)
	}
	defer rows.Close()

	var out []DailySales
	for rows.Next() {
		var day DailySales
		if err := rows.Scan(&day.Date, &day.PriceTotal, &day.CommissionTotal, &day.Count); err != nil {
			return nil, fmt.Errorf("insights: scan daily sales: %w", err)
		}
		out = append(out, day)
	}
	return out, rows.Err()
}

// AppointmentsByDay counts appointments by calendar day of their start. The
// upper bound is exclusive at the start of the day after to, so the closing
// day counts in full.
func (r *Repository) AppointmentsByDay(ctx context.Context, from, to time.Time) ([]SeriesPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT (start_at AT TIME ZONE 'UTC')::date AS day, COUNT(*)
		FROM appointments
		WHERE start_at >= $1 AND start_at < $2
		GROUP BY day
		ORDER BY day`, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("insights: query daily appointments: %w", err)
	}
	defer rows.Close()

	var out []SeriesPoint
	for rows.Next() {
		var point SeriesPoint
		if err := rows.Scan(&point.Date, &point.Value); err != nil {
			return nil, fmt.Errorf("insights: scan daily appointments: %w", err)
		}
		out = append(out, point)
	}
	return out, rows.Err()
}
