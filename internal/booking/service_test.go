package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glowdesk/glowdesk/internal/shared"
	_ "github.com/glowdesk/glowdesk/testing"
)

type memoryBookingRepo struct {
	appts  map[int64]Appointment
	nextID int64
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{appts: make(map[int64]Appointment)}
}

func (r *memoryBookingRepo) Create(ctx context.Context, appt Appointment) (Appointment, error) {
	r.nextID++
	appt.ID = r.nextID
	appt.CreatedAt = time.Now().UTC()
	r.appts[appt.ID] = appt
	return appt, nil
}

func (r *memoryBookingRepo) Update(ctx context.Context, id int64, appt Appointment) error {
	if _, ok := r.appts[id]; !ok {
		return fmt.Errorf("booking: update: %w", shared.ErrNotFound)
	}
	appt.ID = id
	r.appts[id] = appt
	return nil
}

func (r *memoryBookingRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.appts[id]; !ok {
		return fmt.Errorf("booking: delete: %w", shared.ErrNotFound)
	}
	delete(r.appts, id)
	return nil
}

func (r *memoryBookingRepo) Get(ctx context.Context, id int64) (Appointment, error) {
	appt, ok := r.appts[id]
	if !ok {
		return Appointment{}, fmt.Errorf("booking: get: %w", shared.ErrNotFound)
	}
	return appt, nil
}

func (r *memoryBookingRepo) ListByPersonnel(ctx context.Context, personnelID int64, from, to time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appts {
		if a.PersonnelID == personnelID && Overlaps(a.StartAt, a.EndAt, from, to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryBookingRepo) Overlapping(ctx context.Context, personnelID int64, start, end time.Time, excludeID *int64) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appts {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.PersonnelID == personnelID && Overlaps(a.StartAt, a.EndAt, start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	notified []int64
	fail     error
}

func (n *recordingNotifier) AppointmentBooked(ctx context.Context, appt Appointment) error {
	if n.fail != nil {
		return n.fail
	}
	n.notified = append(n.notified, appt.ID)
	return nil
}

func at(hour, min int) time.Time {
	return time.Date(2024, 5, 20, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"partial", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"back to back", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"disjoint", at(10, 0), at(11, 0), at(13, 0), at(14, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBookRejectsDoubleBooking(t *testing.T) {
	repo := newMemoryBookingRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.Book(ctx, BookInput{CustomerID: 1, PersonnelID: 5, WorkID: 2, StartAt: at(10, 0), EndAt: at(11, 0)})
	require.NoError(t, err)

	_, err = svc.Book(ctx, BookInput{CustomerID: 2, PersonnelID: 5, WorkID: 2, StartAt: at(10, 30), EndAt: at(11, 30)})
	require.ErrorIs(t, err, ErrOverlap)

	// Same window, different staff member: fine.
	_, err = svc.Book(ctx, BookInput{CustomerID: 2, PersonnelID: 6, WorkID: 2, StartAt: at(10, 30), EndAt: at(11, 30)})
	require.NoError(t, err)

	// Back-to-back with the first: fine.
	_, err = svc.Book(ctx, BookInput{CustomerID: 3, PersonnelID: 5, WorkID: 2, StartAt: at(11, 0), EndAt: at(12, 0)})
	require.NoError(t, err)
}

func TestBookRejectsInvertedWindow(t *testing.T) {
	svc := NewService(newMemoryBookingRepo(), nil, nil)

	_, err := svc.Book(context.Background(), BookInput{CustomerID: 1, PersonnelID: 5, WorkID: 2, StartAt: at(11, 0), EndAt: at(10, 0)})
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Book(context.Background(), BookInput{CustomerID: 1, PersonnelID: 5, WorkID: 2, StartAt: at(10, 0), EndAt: at(10, 0)})
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestRescheduleExcludesSelfFromOverlapCheck(t *testing.T) {
	repo := newMemoryBookingRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	appt, err := svc.Book(ctx, BookInput{CustomerID: 1, PersonnelID: 5, WorkID: 2, StartAt: at(10, 0), EndAt: at(11, 0)})
	require.NoError(t, err)

	// Shifting inside its own window must not conflict with itself.
	moved, err := svc.Reschedule(ctx, appt.ID, BookInput{CustomerID: 1, PersonnelID: 5, WorkID: 2, StartAt: at(10, 15), EndAt: at(11, 15)})
	require.NoError(t, err)
	require.Equal(t, at(10, 15), moved.StartAt)

	other, err := svc.Book(ctx, BookInput{CustomerID: 2, PersonnelID: 5, WorkID: 2, StartAt: at(12, 0), EndAt: at(13, 0)})
	require.NoError(t, err)
	require.NotZero(t, other.ID)

	// Moving onto another appointment still conflicts.
	_, err = svc.Reschedule(ctx, appt.ID, BookInput{CustomerID: 1, PersonnelID: 5, WorkID: 2, StartAt: at(12, 30), EndAt: at(13, 30)})
	require.ErrorIs(t, err, ErrOverlap)

	_, err = svc.Reschedule(ctx, 999, BookInput{CustomerID: 1, PersonnelID: 5, WorkID: 2, StartAt: at(14, 0), EndAt: at(15, 0)})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBookNotifiesAndSurvivesNotifierFailure(t *testing.T) {
	repo := newMemoryBookingRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil)
	ctx := context.Background()

	appt, err := svc.Book(ctx, BookInput{CustomerID: 1, PersonnelID: 5, WorkID: 2, StartAt: at(9, 0), EndAt: at(10, 0)})
	require.NoError(t, err)
	require.Equal(t, []int64{appt.ID}, notifier.notified)

	notifier.fail = errors.New("queue down")
	appt2, err := svc.Book(ctx, BookInput{CustomerID: 2, PersonnelID: 5, WorkID: 2, StartAt: at(10, 0), EndAt: at(11, 0)})
	require.NoError(t, err)
	require.NotZero(t, appt2.ID)
}
