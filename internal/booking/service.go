package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrOverlap marks a booking that collides with an existing one for the
	// same staff member.
	ErrOverlap = errors.New("booking: appointment overlaps an existing one")
	// ErrInvalidWindow marks an appointment whose end is not after its start.
	ErrInvalidWindow = errors.New("booking: end must be after start")
)

// RepositoryPort defines data access for appointments.
type RepositoryPort interface {
	Create(ctx context.Context, appt Appointment) (Appointment, error)
	Update(ctx context.Context, id int64, appt Appointment) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Appointment, error)
	ListByPersonnel(ctx context.Context, personnelID int64, from, to time.Time) ([]Appointment, error)
	Overlapping(ctx context.Context, personnelID int64, start, end time.Time, excludeID *int64) ([]Appointment, error)
}

// Notifier announces a confirmed booking, typically by queueing an SMS.
// Notification failures never fail the booking itself.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt Appointment) error
}

// Service books appointments and guards against double booking.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds a Service instance. A nil notifier disables
// notifications.
func NewService(repo RepositoryPort, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// BookInput carries a new or updated appointment.
type BookInput struct {
	CustomerID  int64
	PersonnelID int64
	WorkID      int64
	StartAt     time.Time
	EndAt       time.Time
	Paid        bool
}

func (s *Service) checkWindow(ctx context.Context, input BookInput, excludeID *int64) error {
	if !input.EndAt.After(input.StartAt) {
		return ErrInvalidWindow
	}
	clashes, err := s.repo.Overlapping(ctx, input.PersonnelID, input.StartAt, input.EndAt, excludeID)
	if err != nil {
		return fmt.Errorf("booking: check overlap: %w", err)
	}
	if len(clashes) > 0 {
		return fmt.Errorf("%w: appointment %d", ErrOverlap, clashes[0].ID)
	}
	return nil
}

// Book records a new appointment after verifying the staff member is free.
func (s *Service) Book(ctx context.Context, input BookInput) (Appointment, error) {
	if err := s.checkWindow(ctx, input, nil); err != nil {
		return Appointment{}, err
	}

	appt, err := s.repo.Create(ctx, Appointment{
		CustomerID:  input.CustomerID,
		PersonnelID: input.PersonnelID,
		WorkID:      input.WorkID,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		Paid:        input.Paid,
	})
	if err != nil {
		return Appointment{}, fmt.Errorf("booking: create: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.AppointmentBooked(ctx, appt); err != nil {
			s.logger.Warn("appointment notification failed",
				slog.Int64("appointment_id", appt.ID),
				slog.Any("error", err),
			)
		}
	}
	return appt, nil
}

// Reschedule updates an appointment. The appointment being moved is excluded
// from the overlap check so it never conflicts with itself.
func (s *Service) Reschedule(ctx context.Context, id int64, input BookInput) (Appointment, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Appointment{}, err
	}
	if err := s.checkWindow(ctx, input, &id); err != nil {
		return Appointment{}, err
	}

	appt := Appointment{
		ID:          id,
		CustomerID:  input.CustomerID,
		PersonnelID: input.PersonnelID,
		WorkID:      input.WorkID,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		Paid:        input.Paid,
	}
	if err := s.repo.Update(ctx, id, appt); err != nil {
		return Appointment{}, fmt.Errorf("booking: update: %w", err)
	}
	return appt, nil
}

// Cancel removes an appointment.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one appointment.
func (s *Service) Get(ctx context.Context, id int64) (Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Schedule lists a staff member's appointments inside a window.
func (s *Service) Schedule(ctx context.Context, personnelID int64, from, to time.Time) ([]Appointment, error) {
	return s.repo.ListByPersonnel(ctx, personnelID, from, to)
}
