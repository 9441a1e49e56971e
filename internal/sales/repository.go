package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/glowdesk/internal/platform/httpx"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed sales repository.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) CreateSale(ctx context.Context, sale Sale) (Sale, error) {
	query := `
		INSERT INTO sales (customer_id, personnel_id, work_id, price, commission_amount, occurred_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		toInt8(sale.CustomerID), sale.PersonnelID, sale.WorkID,
		sale.Price, sale.CommissionAmount, sale.OccurredOn,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Sale{}, fmt.Errorf("sales: create: unknown reference: %w", httpx.ErrValidation)
		}
		return Sale{}, fmt.Errorf("sales: create: %w", err)
	}
	return sale, nil
}

func (r *pgRepository) ListByDate(ctx context.Context, date time.Time) ([]Sale, error) {
	query := `
		SELECT s.id, s.customer_id, s.personnel_id, s.work_id,
		       s.price, s.commission_amount, s.occurred_on, s.created_at,
		       COALESCE(c.name, '') AS customer_name,
		       p.first_name || CASE WHEN p.last_name = '' THEN '' ELSE ' ' || p.last_name END AS personnel_name,
		       w.name AS work_name
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		JOIN personnel p ON p.id = s.personnel_id
		JOIN works w ON w.id = s.work_id
		WHERE s.occurred_on = $1
		ORDER BY s.id`
	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("sales: list by date: %w", err)
	}
	defer rows.Close()

	var list []Sale
	for rows.Next() {
		var (
			s          Sale
			customerID pgtype.Int8
		)
		err := rows.Scan(&s.ID, &customerID, &s.PersonnelID, &s.WorkID,
			&s.Price, &s.CommissionAmount, &s.OccurredOn, &s.CreatedAt,
			&s.CustomerName, &s.PersonnelName, &s.WorkName)
		if err != nil {
			return nil, fmt.Errorf("sales: scan: %w", err)
		}
		s.CustomerID = int8Ptr(customerID)
		list = append(list, s)
	}
	return list, rows.Err()
}

func toInt8(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
