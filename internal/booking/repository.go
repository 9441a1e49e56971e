package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed appointment repository.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &pgRepository{pool: pool}
}

const apptColumns = `
	a.id, a.customer_id, a.personnel_id, a.work_id, a.start_at, a.end_at, a.paid, a.created_at,
	c.name AS customer_name,
	p.first_name || CASE WHEN p.last_name = '' THEN '' ELSE ' ' || p.last_name END AS personnel_name,
	w.name AS work_name`

const apptJoins = `
	FROM appointments a
	JOIN customers c ON c.id = a.customer_id
	JOIN personnel p ON p.id = a.personnel_id
	JOIN works w ON w.id = a.work_id`

func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.CustomerID, &a.PersonnelID, &a.WorkID,
		&a.StartAt, &a.EndAt, &a.Paid, &a.CreatedAt,
		&a.CustomerName, &a.PersonnelName, &a.WorkName)
	return a, err
}

func (r *pgRepository) Create(ctx context.Context, appt Appointment) (Appointment, error) {
	query := `
		INSERT INTO appointments (customer_id, personnel_id, work_id, start_at, end_at, paid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		appt.CustomerID, appt.PersonnelID, appt.WorkID, appt.StartAt, appt.EndAt, appt.Paid,
	).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Appointment{}, fmt.Errorf("booking: create: unknown reference: %w", httpx.ErrValidation)
		}
		return Appointment{}, fmt.Errorf("booking: create: %w", err)
	}
	return appt, nil
}

func (r *pgRepository) Update(ctx context.Context, id int64, appt Appointment) error {
	query := `
		UPDATE appointments
		SET customer_id = $1, personnel_id = $2, work_id = $3, start_at = $4, end_at = $5, paid = $6
		WHERE id = $7`
	tag, err := r.pool.Exec(ctx, query,
		appt.CustomerID, appt.PersonnelID, appt.WorkID, appt.StartAt, appt.EndAt, appt.Paid, id)
	if err != nil {
		return fmt.Errorf("booking: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking: update: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("booking: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking: delete: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *pgRepository) Get(ctx context.Context, id int64) (Appointment, error) {
	query := `SELECT ` + apptColumns + apptJoins + ` WHERE a.id = $1`
	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, fmt.Errorf("booking: get: %w", shared.ErrNotFound)
		}
		return Appointment{}, fmt.Errorf("booking: get: %w", err)
	}
	return appt, nil
}

func (r *pgRepository) ListByPersonnel(ctx context.Context, personnelID int64, from, to time.Time) ([]Appointment, error) {
	query := `SELECT ` + apptColumns + apptJoins + `
		WHERE a.personnel_id = $1 AND a.start_at < $3 AND a.end_at > $2
		ORDER BY a.start_at, a.id`
	return r.queryList(ctx, query, personnelID, from, to)
}

func (r *pgRepository) Overlapping(ctx context.Context, personnelID int64, start, end time.Time, excludeID *int64) ([]Appointment, error) {
	query := `SELECT ` + apptColumns + apptJoins + `
		WHERE a.personnel_id = $1 AND a.start_at < $3 AND a.end_at > $2`
	args := []any{personnelID, start, end}
	if excludeID != nil {
		query += ` AND a.id <> $4`
		args = append(args, *excludeID)
	}
	query += ` ORDER BY a.start_at, a.id`
	return r.queryList(ctx, query, args...)
}

func (r *pgRepository) queryList(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("booking: query: %w", err)
	}
	defer rows.Close()

	var list []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan: %w", err)
		}
		list = append(list, appt)
	}
	return list, rows.Err()
}
