package treasury

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed aggregation for treasury positions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListPaymentMethods returns methods ordered by id so report order is stable
// across runs.
func (r *Repository) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, requires_bank FROM payment_methods ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("treasury: query payment methods: %w", err)
	}
	defer rows.Close()

	var out []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.RequiresBank); err != nil {
			return nil, fmt.Errorf("treasury: scan payment method: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListBanks returns banks ordered by id.
func (r *Repository) ListBanks(ctx context.Context) ([]Bank, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM banks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("treasury: query banks: %w", err)
	}
	defer rows.Close()

	var out []Bank
	for rows.Next() {
		var b Bank
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("treasury: scan bank: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BucketTotals sums both flows for one bucket over all time. A nil bankID
// selects the cash bucket (bank IS NULL).
func (r *Repository) BucketTotals(ctx context.Context, methodID int64, bankID *int64) (BucketTotals, error) {
	payQuery := `SELECT COALESCE(SUM(amount), 0), MAX(occurred_on) FROM pays WHERE payment_method_id = $1`
	receiptQuery := `SELECT COALESCE(SUM(amount), 0), MAX(occurred_on) FROM receipts WHERE payment_method_id = $1`
	args := []any{methodID}
	if bankID != nil {
		payQuery += ` AND bank_id = $2`
		receiptQuery += ` AND bank_id = $2`
		args = append(args, *bankID)
	} else {
		payQuery += ` AND bank_id IS NULL`
		receiptQuery += ` AND bank_id IS NULL`
	}

	var totals BucketTotals
	var lastPay, lastReceipt pgtype.Date
	if err := r.pool.QueryRow(ctx, payQuery, args...).Scan(&totals.Pays, &lastPay); err != nil {
		return BucketTotals{}, fmt.Errorf("treasury: sum pays: %w", err)
	}
	if err := r.pool.QueryRow(ctx, receiptQuery, args...).Scan(&totals.Receipts, &lastReceipt); err != nil {
		return BucketTotals{}, fmt.Errorf("treasury: sum receipts: %w", err)
	}
	totals.LastPayOn = datePtr(lastPay)
	totals.LastReceiptOn = datePtr(lastReceipt)
	return totals, nil
}

// MisplacedMovements counts rows whose bank reference contradicts the
// method's requires_bank flag: bank-tagged rows under a cash method, or
// bankless rows under a bank-backed one. Such rows would fall outside every
// bucket the report builds for that method.
func (r *Repository) MisplacedMovements(ctx context.Context, methodID int64, requiresBank bool) (int64, error) {
	cond := "IS NOT NULL"
	if requiresBank {
		cond = "IS NULL"
	}
	query := fmt.Sprintf(`
		SELECT (SELECT COUNT(*) FROM pays WHERE payment_method_id = $1 AND bank_id %s)
		     + (SELECT COUNT(*) FROM receipts WHERE payment_method_id = $1 AND bank_id %s)`, cond, cond)

	var count int64
	if err := r.pool.QueryRow(ctx, query, methodID).Scan(&count); err != nil {
		return 0, fmt.Errorf("treasury: count misplaced movements: %w", err)
	}
	return count, nil
}

func datePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
