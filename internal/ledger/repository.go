package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for ledger movements.
// All related names are joined in at the query boundary; report code never
// goes back to the store for a method or bank name.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListPays returns outflows in the window, oldest first. The caller re-sorts
// the merged sequence anyway; the ORDER BY only keeps scans cheap.
func (r *Repository) ListPays(ctx context.Context, f Filter) ([]PayMovement, error) {
	query := `
		SELECT p.id, p.occurred_on, p.amount,
		       p.payment_method_id, pm.name,
		       p.bank_id, COALESCE(b.name, ''),
		       p.pay_category_id, pc.name,
		       p.personnel_id, p.description, p.created_at
		FROM pays p
		JOIN payment_methods pm ON pm.id = p.payment_method_id
		JOIN pay_categories pc ON pc.id = p.pay_category_id
		LEFT JOIN banks b ON b.id = p.bank_id
		WHERE p.occurred_on >= $1 AND p.occurred_on <= $2`
	args := []any{f.Start, f.End}
	query, args = appendBucketFilters(query, args, "p", f)
	query += ` ORDER BY p.occurred_on, p.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: query pays: %w", err)
	}
	defer rows.Close()

	var out []PayMovement
	for rows.Next() {
		var p PayMovement
		var bankID, personnelID pgtype.Int8
		if err := rows.Scan(
			&p.ID, &p.OccurredOn, &p.Amount,
			&p.PaymentMethodID, &p.PaymentMethod,
			&bankID, &p.Bank,
			&p.CategoryID, &p.Category,
			&personnelID, &p.Description, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ledger: scan pay: %w", err)
		}
		p.BankID = int8Ptr(bankID)
		p.PersonnelID = int8Ptr(personnelID)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListReceipts returns inflows in the window, oldest first.
func (r *Repository) ListReceipts(ctx context.Context, f Filter) ([]ReceiptMovement, error) {
	query := `
		SELECT rc.id, rc.occurred_on, rc.amount,
		       rc.payment_method_id, pm.name,
		       rc.bank_id, COALESCE(b.name, ''),
		       rc.receipt_category_id, cat.name,
		       rc.customer_id, rc.sale_id, rc.description, rc.created_at
		FROM receipts rc
		JOIN payment_methods pm ON pm.id = rc.payment_method_id
		JOIN receipt_categories cat ON cat.id = rc.receipt_category_id
		LEFT JOIN banks b ON b.id = rc.bank_id
		WHERE rc.occurred_on >= $1 AND rc.occurred_on <= $2`
	args := []any{f.Start, f.End}
	query, args = appendBucketFilters(query, args, "rc", f)
	query += ` ORDER BY rc.occurred_on, rc.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: query receipts: %w", err)
	}
	defer rows.Close()

	var out []ReceiptMovement
	for rows.Next() {
		var rcpt ReceiptMovement
		var bankID, customerID, saleID pgtype.Int8
		if err := rows.Scan(
			&rcpt.ID, &rcpt.OccurredOn, &rcpt.Amount,
			&rcpt.PaymentMethodID, &rcpt.PaymentMethod,
			&bankID, &rcpt.Bank,
			&rcpt.CategoryID, &rcpt.Category,
			&customerID, &saleID, &rcpt.Description, &rcpt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ledger: scan receipt: %w", err)
		}
		rcpt.BankID = int8Ptr(bankID)
		rcpt.CustomerID = int8Ptr(customerID)
		rcpt.SaleID = int8Ptr(saleID)
		out = append(out, rcpt)
	}
	return out, rows.Err()
}

// OpeningTotals sums all movements strictly before the window start,
// scoped by bank only.
func (r *Repository) OpeningTotals(ctx context.Context, before time.Time, bankID *int64) (OpeningTotals, error) {
	payQuery := `SELECT COALESCE(SUM(amount), 0) FROM pays WHERE occurred_on < $1`
	receiptQuery := `SELECT COALESCE(SUM(amount), 0) FROM receipts WHERE occurred_on < $1`
	args := []any{before}
	if bankID != nil {
		payQuery += ` AND bank_id = $2`
		receiptQuery += ` AND bank_id = $2`
		args = append(args, *bankID)
	}

	var totals OpeningTotals
	if err := r.pool.QueryRow(ctx, payQuery, args...).Scan(&totals.Pays); err != nil {
		return OpeningTotals{}, fmt.Errorf("ledger: sum pays before window: %w", err)
	}
	if err := r.pool.QueryRow(ctx, receiptQuery, args...).Scan(&totals.Receipts); err != nil {
		return OpeningTotals{}, fmt.Errorf("ledger: sum receipts before window: %w", err)
	}
	return totals, nil
}

// CreatePay inserts one outflow and returns it with joined names.
func (r *Repository) CreatePay(ctx context.Context, input CreatePayInput) (*PayMovement, error) {
	query := `
		INSERT INTO pays (pay_category_id, personnel_id, payment_method_id, bank_id, amount, description, occurred_on, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at`

	var p PayMovement
	err := r.pool.QueryRow(ctx, query,
		input.CategoryID,
		toInt8(input.PersonnelID),
		input.PaymentMethodID,
		toInt8(input.BankID),
		input.Amount,
		input.Description,
		input.OccurredOn,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ledger: insert pay: %w", err)
	}

	p.CategoryID = input.CategoryID
	p.PersonnelID = input.PersonnelID
	p.PaymentMethodID = input.PaymentMethodID
	p.BankID = input.BankID
	p.Amount = input.Amount
	p.Description = input.Description
	p.OccurredOn = input.OccurredOn
	if err := r.fillBucketNames(ctx, p.PaymentMethodID, p.BankID, &p.PaymentMethod, &p.Bank); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateReceipt inserts one inflow and returns it with joined names.
func (r *Repository) CreateReceipt(ctx context.Context, input CreateReceiptInput) (*ReceiptMovement, error) {
	query := `
		INSERT INTO receipts (receipt_category_id, customer_id, sale_id, payment_method_id, bank_id, amount, description, occurred_on, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at`

	var rcpt ReceiptMovement
	err := r.pool.QueryRow(ctx, query,
		input.CategoryID,
		toInt8(input.CustomerID),
		toInt8(input.SaleID),
		input.PaymentMethodID,
		toInt8(input.BankID),
		input.Amount,
		input.Description,
		input.OccurredOn,
	).Scan(&rcpt.ID, &rcpt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ledger: insert receipt: %w", err)
	}

	rcpt.CategoryID = input.CategoryID
	rcpt.CustomerID = input.CustomerID
	rcpt.SaleID = input.SaleID
	rcpt.PaymentMethodID = input.PaymentMethodID
	rcpt.BankID = input.BankID
	rcpt.Amount = input.Amount
	rcpt.Description = input.Description
	rcpt.OccurredOn = input.OccurredOn
	if err := r.fillBucketNames(ctx, rcpt.PaymentMethodID, rcpt.BankID, &rcpt.PaymentMethod, &rcpt.Bank); err != nil {
		return nil, err
	}
	return &rcpt, nil
}

func (r *Repository) fillBucketNames(ctx context.Context, methodID int64, bankID *int64, method, bank *string) error {
	if err := r.pool.QueryRow(ctx, `SELECT name FROM payment_methods WHERE id = $1`, methodID).Scan(method); err != nil {
		return fmt.Errorf("ledger: resolve method name: %w", err)
	}
	if bankID != nil {
		if err := r.pool.QueryRow(ctx, `SELECT name FROM banks WHERE id = $1`, *bankID).Scan(bank); err != nil {
			return fmt.Errorf("ledger: resolve bank name: %w", err)
		}
	}
	return nil
}

func appendBucketFilters(query string, args []any, alias string, f Filter) (string, []any) {
	if f.BankID != nil {
		args = append(args, *f.BankID)
		query += fmt.Sprintf(` AND %s.bank_id = $%d`, alias, len(args))
	}
	if f.PaymentMethodID != nil {
		args = append(args, *f.PaymentMethodID)
		query += fmt.Sprintf(` AND %s.payment_method_id = $%d`, alias, len(args))
	}
	return query, args
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	val := v.Int64
	return &val
}

func toInt8(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}
