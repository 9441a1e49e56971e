package masterdata

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
	_ "github.com/glowdesk/glowdesk/testing"
)

type memoryMasterRepo struct {
	RepositoryPort

	methods     map[int64]PaymentMethod
	personnel   map[int64]Personnel
	commissions map[int64][]Commission
}

func newMemoryMasterRepo() *memoryMasterRepo {
	return &memoryMasterRepo{
		methods:     make(map[int64]PaymentMethod),
		personnel:   make(map[int64]Personnel),
		commissions: make(map[int64][]Commission),
	}
}

func (r *memoryMasterRepo) GetPaymentMethod(ctx context.Context, id int64) (PaymentMethod, error) {
	m, ok := r.methods[id]
	if !ok {
		return PaymentMethod{}, fmt.Errorf("masterdata: get payment method: %w", shared.ErrNotFound)
	}
	return m, nil
}

func (r *memoryMasterRepo) CreatePaymentMethod(ctx context.Context, method PaymentMethod) (PaymentMethod, error) {
	method.ID = int64(len(r.methods) + 1)
	r.methods[method.ID] = method
	return method, nil
}

func (r *memoryMasterRepo) GetPersonnel(ctx context.Context, id int64) (Personnel, error) {
	p, ok := r.personnel[id]
	if !ok {
		return Personnel{}, fmt.Errorf("masterdata: get personnel: %w", shared.ErrNotFound)
	}
	return p, nil
}

func (r *memoryMasterRepo) ReplaceCommissions(ctx context.Context, personnelID int64, commissions []Commission) error {
	r.commissions[personnelID] = commissions
	return nil
}

func (r *memoryMasterRepo) CommissionRate(ctx context.Context, personnelID, workID int64) (int32, error) {
	for _, c := range r.commissions[personnelID] {
		if c.WorkID == workID {
			return c.RatePct, nil
		}
	}
	return 0, fmt.Errorf("masterdata: commission rate: %w", shared.ErrNotFound)
}

func TestRequiresBank(t *testing.T) {
	repo := newMemoryMasterRepo()
	repo.methods[1] = PaymentMethod{ID: 1, Name: "Cash", RequiresBank: false}
	repo.methods[2] = PaymentMethod{ID: 2, Name: "Card", RequiresBank: true}
	svc := NewService(repo)

	required, err := svc.RequiresBank(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, required)

	required, err = svc.RequiresBank(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, required)

	_, err = svc.RequiresBank(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreatePaymentMethodRequiresName(t *testing.T) {
	svc := NewService(newMemoryMasterRepo())

	_, err := svc.CreatePaymentMethod(context.Background(), PaymentMethod{Name: "   "})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReplaceCommissionsValidation(t *testing.T) {
	repo := newMemoryMasterRepo()
	repo.personnel[5] = Personnel{ID: 5, FirstName: "Sara", Active: true}
	svc := NewService(repo)
	ctx := context.Background()

	err := svc.ReplaceCommissions(ctx, 5, []Commission{{WorkID: 1, RatePct: 120}})
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.ReplaceCommissions(ctx, 5, []Commission{{WorkID: 1, RatePct: 30}, {WorkID: 1, RatePct: 40}})
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.ReplaceCommissions(ctx, 99, []Commission{{WorkID: 1, RatePct: 30}})
	require.ErrorIs(t, err, shared.ErrNotFound)

	err = svc.ReplaceCommissions(ctx, 5, []Commission{{WorkID: 1, RatePct: 30}, {WorkID: 2, RatePct: 45}})
	require.NoError(t, err)

	rate, err := svc.CommissionRate(ctx, 5, 2)
	require.NoError(t, err)
	require.Equal(t, int32(45), rate)
	// The service stamped the personnel id onto each row.
	for _, c := range repo.commissions[5] {
		require.Equal(t, int64(5), c.PersonnelID)
	}
}
