package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/glowdesk/internal/platform/db"
	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

// RepositoryPort defines data access for salon master data.
type RepositoryPort interface {
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id int64) (PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, method PaymentMethod) (PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, id int64, method PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, id int64) error

	ListBanks(ctx context.Context) ([]Bank, error)
	GetBank(ctx context.Context, id int64) (Bank, error)
	CreateBank(ctx context.Context, bank Bank) (Bank, error)
	UpdateBank(ctx context.Context, id int64, bank Bank) error
	DeleteBank(ctx context.Context, id int64) error

	ListWorks(ctx context.Context) ([]Work, error)
	GetWork(ctx context.Context, id int64) (Work, error)
	CreateWork(ctx context.Context, work Work) (Work, error)
	UpdateWork(ctx context.Context, id int64, work Work) error
	DeleteWork(ctx context.Context, id int64) error

	ListPersonnel(ctx context.Context, activeOnly bool) ([]Personnel, error)
	GetPersonnel(ctx context.Context, id int64) (Personnel, error)
	CreatePersonnel(ctx context.Context, person Personnel) (Personnel, error)
	UpdatePersonnel(ctx context.Context, id int64, person Personnel) error
	DeletePersonnel(ctx context.Context, id int64) error

	ListCustomers(ctx context.Context, search string, limit, offset int) ([]Customer, int, error)
	GetCustomer(ctx context.Context, id int64) (Customer, error)
	CreateCustomer(ctx context.Context, customer Customer) (Customer, error)
	UpdateCustomer(ctx context.Context, id int64, customer Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	ListCommissions(ctx context.Context, personnelID int64) ([]Commission, error)
	ReplaceCommissions(ctx context.Context, personnelID int64, commissions []Commission) error
	CommissionRate(ctx context.Context, personnelID, workID int64) (int32, error)

	ListPayCategories(ctx context.Context) ([]PayCategory, error)
	ListReceiptCategories(ctx context.Context) ([]ReceiptCategory, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed master data repository.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &pgRepository{pool: pool}
}

// mapWriteErr translates constraint violations into sentinel errors the
// handlers know how to render.
func mapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("masterdata: %s: %w", op, httpx.ErrDuplicate)
		case "23503":
			return fmt.Errorf("masterdata: %s: unknown reference: %w", op, httpx.ErrValidation)
		}
	}
	return fmt.Errorf("masterdata: %s: %w", op, err)
}

func mapReadErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("masterdata: %s: %w", op, shared.ErrNotFound)
	}
	return fmt.Errorf("masterdata: %s: %w", op, err)
}

// Payment method operations

func (r *pgRepository) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	query := `SELECT id, name, requires_bank, created_at FROM payment_methods ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.RequiresBank, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("masterdata: scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (r *pgRepository) GetPaymentMethod(ctx context.Context, id int64) (PaymentMethod, error) {
	query := `SELECT id, name, requires_bank, created_at FROM payment_methods WHERE id = $1`
	var m PaymentMethod
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.RequiresBank, &m.CreatedAt)
	if err != nil {
		return PaymentMethod{}, mapReadErr("get payment method", err)
	}
	return m, nil
}

func (r *pgRepository) CreatePaymentMethod(ctx context.Context, method PaymentMethod) (PaymentMethod, error) {
	query := `INSERT INTO payment_methods (name, requires_bank) VALUES ($1, $2) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, method.Name, method.RequiresBank).Scan(&method.ID, &method.CreatedAt)
	if err != nil {
		return PaymentMethod{}, mapWriteErr("create payment method", err)
	}
	return method, nil
}

func (r *pgRepository) UpdatePaymentMethod(ctx context.Context, id int64, method PaymentMethod) error {
	query := `UPDATE payment_methods SET name = $1, requires_bank = $2 WHERE id = $3`
	tag, err := r.pool.Exec(ctx, query, method.Name, method.RequiresBank, id)
	if err != nil {
		return mapWriteErr("update payment method", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: update payment method: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *pgRepository) DeletePaymentMethod(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1`, id)
	if err != nil {
		return mapWriteErr("delete payment method", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: delete payment method: %w", shared.ErrNotFound)
	}
	return nil
}

// Bank operations

func (r *pgRepository) ListBanks(ctx context.Context) ([]Bank, error) {
	query := `SELECT id, name, created_at FROM banks ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list banks: %w", err)
	}
	defer rows.Close()

	var banks []Bank
	for rows.Next() {
		var b Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("masterdata: scan bank: %w", err)
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

func (r *pgRepository) GetBank(ctx context.Context, id int64) (Bank, error) {
	var b Bank
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM banks WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err != nil {
		return Bank{}, mapReadErr("get bank", err)
	}
	return b, nil
}

func (r *pgRepository) CreateBank(ctx context.Context, bank Bank) (Bank, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO banks (name) VALUES ($1) RETURNING id, created_at`, bank.Name).
		Scan(&bank.ID, &bank.CreatedAt)
	if err != nil {
		return Bank{}, mapWriteErr("create bank", err)
	}
	return bank, nil
}

func (r *pgRepository) UpdateBank(ctx context.Context, id int64, bank Bank) error {
	tag, err := r.pool.Exec(ctx, `UPDATE banks SET name = $1 WHERE id = $2`, bank.Name, id)
	if err != nil {
		return mapWriteErr("update bank", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: update bank: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *pgRepository) DeleteBank(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM banks WHERE id = $1`, id)
	if err != nil {
		return mapWriteErr("delete bank", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: delete bank: %w", shared.ErrNotFound)
	}
	return nil
}

// Work operations

func (r *pgRepository) ListWorks(ctx context.Context) ([]Work, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM works ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list works: %w", err)
	}
	defer rows.Close()

	var works []Work
	for rows.Next() {
		var w Work
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, fmt.Errorf("masterdata: scan work: %w", err)
		}
		works = append(works, w)
	}
	return works, rows.Err()
}

func (r *pgRepository) GetWork(ctx context.Context, id int64) (Work, error) {
	var w Work
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM works WHERE id = $1`, id).Scan(&w.ID, &w.Name)
	if err != nil {
		return Work{}, mapReadErr("get work", err)
	}
	return w, nil
}

func (r *pgRepository) CreateWork(ctx context.Context, work Work) (Work, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO works (name) VALUES ($1) RETURNING id`, work.Name).Scan(&work.ID)
	if err != nil {
		return Work{}, mapWriteErr("create work", err)
	}
	return work, nil
}

func (r *pgRepository) UpdateWork(ctx context.Context, id int64, work Work) error {
	tag, err := r.pool.Exec(ctx, `UPDATE works SET name = $1 WHERE id = $2`, work.Name, id)
	if err != nil {
		return mapWriteErr("update work", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: update work: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *pgRepository) DeleteWork(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM works WHERE id = $1`, id)
	if err != nil {
		return mapWriteErr("delete work", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: delete work: %w", shared.ErrNotFound)
	}
	return nil
}

// Personnel operations

func (r *pgRepository) ListPersonnel(ctx context.Context, activeOnly bool) ([]Personnel, error) {
	query := `SELECT id, first_name, last_name, mobile, on_site, active, created_at FROM personnel`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY first_name, last_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list personnel: %w", err)
	}
	defer rows.Close()

	var people []Personnel
	for rows.Next() {
		var p Personnel
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Mobile, &p.OnSite, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("masterdata: scan personnel: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (r *pgRepository) GetPersonnel(ctx context.Context, id int64) (Personnel, error) {
	query := `SELECT id, first_name, last_name, mobile, on_site, active, created_at FROM personnel WHERE id = $1`
	var p Personnel
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Mobile, &p.OnSite, &p.Active, &p.CreatedAt)
	if err != nil {
		return Personnel{}, mapReadErr("get personnel", err)
	}
	return p, nil
}

func (r *pgRepository) CreatePersonnel(ctx context.Context, person Personnel) (Personnel, error) {
	query := `INSERT INTO personnel (first_name, last_name, mobile, on_site, active)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, person.FirstName, person.LastName, person.Mobile, person.OnSite, person.Active).
		Scan(&person.ID, &person.CreatedAt)
	if err != nil {
		return Personnel{}, mapWriteErr("create personnel", err)
	}
	return person, nil
}

func (r *pgRepository) UpdatePersonnel(ctx context.Context, id int64, person Personnel) error {
	query := `UPDATE personnel SET first_name = $1, last_name = $2, mobile = $3, on_site = $4, active = $5 WHERE id = $6`
	tag, err := r.pool.Exec(ctx, query, person.FirstName, person.LastName, person.Mobile, person.OnSite, person.Active, id)
	if err != nil {
		return mapWriteErr("update personnel", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: update personnel: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *pgRepository) DeletePersonnel(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM personnel WHERE id = $1`, id)
	if err != nil {
		return mapWriteErr("delete personnel", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: delete personnel: %w", shared.ErrNotFound)
	}
	return nil
}

// Customer operations

func (r *pgRepository) ListCustomers(ctx context.Context, search string, limit, offset int) ([]Customer, int, error) {
	where := ``
	args := []any{}
	if search != "" {
		where = ` WHERE name ILIKE $1 OR mobile LIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("masterdata: count customers: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, name, mobile, blacklisted, blacklist_reason, created_at FROM customers%s ORDER BY name LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("masterdata: list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Mobile, &c.Blacklisted, &c.BlacklistReason, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("masterdata: scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *pgRepository) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	query := `SELECT id, name, mobile, blacklisted, blacklist_reason, created_at FROM customers WHERE id = $1`
	var c Customer
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Mobile, &c.Blacklisted, &c.BlacklistReason, &c.CreatedAt)
	if err != nil {
		return Customer{}, mapReadErr("get customer", err)
	}
	return c, nil
}

func (r *pgRepository) CreateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	query := `INSERT INTO customers (name, mobile, blacklisted, blacklist_reason)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, customer.Name, customer.Mobile, customer.Blacklisted, customer.BlacklistReason).
		Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		return Customer{}, mapWriteErr("create customer", err)
	}
	return customer, nil
}

func (r *pgRepository) UpdateCustomer(ctx context.Context, id int64, customer Customer) error {
	query := `UPDATE customers SET name = $1, mobile = $2, blacklisted = $3, blacklist_reason = $4 WHERE id = $5`
	tag, err := r.pool.Exec(ctx, query, customer.Name, customer.Mobile, customer.Blacklisted, customer.BlacklistReason, id)
	if err != nil {
		return mapWriteErr("update customer", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: update customer: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *pgRepository) DeleteCustomer(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapWriteErr("delete customer", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("masterdata: delete customer: %w", shared.ErrNotFound)
	}
	return nil
}

// Commission operations

func (r *pgRepository) ListCommissions(ctx context.Context, personnelID int64) ([]Commission, error) {
	query := `SELECT personnel_id, work_id, rate_pct FROM personnel_commissions WHERE personnel_id = $1 ORDER BY work_id`
	rows, err := r.pool.Query(ctx, query, personnelID)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list commissions: %w", err)
	}
	defer rows.Close()

	var commissions []Commission
	for rows.Next() {
		var c Commission
		if err := rows.Scan(&c.PersonnelID, &c.WorkID, &c.RatePct); err != nil {
			return nil, fmt.Errorf("masterdata: scan commission: %w", err)
		}
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}

// ReplaceCommissions swaps the full commission set for one staff member in a
// single transaction so concurrent readers never see a half-applied update.
func (r *pgRepository) ReplaceCommissions(ctx context.Context, personnelID int64, commissions []Commission) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM personnel_commissions WHERE personnel_id = $1`, personnelID); err != nil {
			return mapWriteErr("clear commissions", err)
		}
		for _, c := range commissions {
			_, err := tx.Exec(ctx,
				`INSERT INTO personnel_commissions (personnel_id, work_id, rate_pct) VALUES ($1, $2, $3)`,
				personnelID, c.WorkID, c.RatePct)
			if err != nil {
				return mapWriteErr("insert commission", err)
			}
		}
		return nil
	})
}

func (r *pgRepository) CommissionRate(ctx context.Context, personnelID, workID int64) (int32, error) {
	query := `SELECT rate_pct FROM personnel_commissions WHERE personnel_id = $1 AND work_id = $2`
	var rate int32
	err := r.pool.QueryRow(ctx, query, personnelID, workID).Scan(&rate)
	if err != nil {
		return 0, mapReadErr("commission rate", err)
	}
	return rate, nil
}

// Category operations

func (r *pgRepository) ListPayCategories(ctx context.Context) ([]PayCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, is_personnel FROM pay_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list pay categories: %w", err)
	}
	defer rows.Close()

	var categories []PayCategory
	for rows.Next() {
		var c PayCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.IsPersonnel); err != nil {
			return nil, fmt.Errorf("masterdata: scan pay category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *pgRepository) ListReceiptCategories(ctx context.Context) ([]ReceiptCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, is_customer FROM receipt_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list receipt categories: %w", err)
	}
	defer rows.Close()

	var categories []ReceiptCategory
	for rows.Next() {
		var c ReceiptCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.IsCustomer); err != nil {
			return nil, fmt.Errorf("masterdata: scan receipt category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
