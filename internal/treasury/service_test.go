package treasury

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

type memoryTreasuryRepo struct {
	methods   []PaymentMethod
	banks     []Bank
	buckets   map[string]BucketTotals
	failing   map[string]error
	misplaced map[int64]int64
}

func bucketKey(methodID int64, bankID *int64) string {
	if bankID == nil {
		return fmt.Sprintf("%d/cash", methodID)
	}
	return fmt.Sprintf("%d/%d", methodID, *bankID)
}

func (r *memoryTreasuryRepo) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	return r.methods, nil
}

func (r *memoryTreasuryRepo) ListBanks(ctx context.Context) ([]Bank, error) {
	return r.banks, nil
}

func (r *memoryTreasuryRepo) BucketTotals(ctx context.Context, methodID int64, bankID *int64) (BucketTotals, error) {
	key := bucketKey(methodID, bankID)
	if err, ok := r.failing[key]; ok {
		return BucketTotals{}, err
	}
	return r.buckets[key], nil
}

func (r *memoryTreasuryRepo) MisplacedMovements(ctx context.Context, methodID int64, requiresBank bool) (int64, error) {
	return r.misplaced[methodID], nil
}

func datePtrOf(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildReportCashBucket(t *testing.T) {
	repo := &memoryTreasuryRepo{
		methods: []PaymentMethod{{ID: 1, Name: "Cash", RequiresBank: false}},
		buckets: map[string]BucketTotals{
			"1/cash": {Receipts: 3000, Pays: 1200},
		},
	}
	svc := NewService(repo, nil)

	report, err := svc.BuildReport(context.Background(), shared.ReportContext{})
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	require.Equal(t, "Cash", report.Entries[0].Label)
	require.Equal(t, int64(1800), report.Entries[0].Balance)
	require.Nil(t, report.Entries[0].BankID)
}

func TestBuildReportBankBucket(t *testing.T) {
	repo := &memoryTreasuryRepo{
		methods: []PaymentMethod{{ID: 2, Name: "Card", RequiresBank: true}},
		banks:   []Bank{{ID: 10, Name: "X"}},
		buckets: map[string]BucketTotals{
			"2/10": {
				Receipts:      500,
				Pays:          500,
				LastReceiptOn: datePtrOf(2024, 1, 5),
				LastPayOn:     datePtrOf(2024, 1, 9),
			},
		},
	}
	svc := NewService(repo, nil)

	report, err := svc.BuildReport(context.Background(), shared.ReportContext{})
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	require.Equal(t, "Card - X", entry.Label)
	require.Zero(t, entry.Balance)
	require.NotNil(t, entry.LastMovementOn)
	require.Equal(t, *datePtrOf(2024, 1, 9), *entry.LastMovementOn)
	require.NotNil(t, entry.BankID)
	require.Equal(t, int64(10), *entry.BankID)
}

func TestBuildReportNeverMovedBucketHasNoLastDate(t *testing.T) {
	repo := &memoryTreasuryRepo{
		methods: []PaymentMethod{{ID: 1, Name: "Cash", RequiresBank: false}},
		buckets: map[string]BucketTotals{},
	}
	svc := NewService(repo, nil)

	report, err := svc.BuildReport(context.Background(), shared.ReportContext{})
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	require.Nil(t, report.Entries[0].LastMovementOn)
	require.Zero(t, report.Entries[0].Balance)
}

func TestBuildReportSkipsBrokenBucketAndContinues(t *testing.T) {
	repo := &memoryTreasuryRepo{
		methods: []PaymentMethod{
			{ID: 1, Name: "Cash", RequiresBank: false},
			{ID: 2, Name: "Card", RequiresBank: true},
		},
		banks: []Bank{{ID: 10, Name: "X"}, {ID: 11, Name: "Y"}},
		buckets: map[string]BucketTotals{
			"1/cash": {Receipts: 100},
			"2/11":   {Receipts: 700, Pays: 200},
		},
		failing: map[string]error{
			"2/10": errors.New("bucket exploded"),
		},
	}
	svc := NewService(repo, nil)

	report, err := svc.BuildReport(context.Background(), shared.ReportContext{})
	require.NoError(t, err)
	// The broken (Card, X) pairing is omitted; everything else survives.
	require.Len(t, report.Entries, 2)
	require.Equal(t, "Cash", report.Entries[0].Label)
	require.Equal(t, "Card - Y", report.Entries[1].Label)
	require.Equal(t, int64(500), report.Entries[1].Balance)
}

func TestBuildReportSkipsMethodWithInconsistentBankReference(t *testing.T) {
	// "Voucher" was flipped to cash after bank-tagged movements existed, so
	// its cash bucket would silently miss those amounts. The method must be
	// skipped, not reported with an understated balance.
	repo := &memoryTreasuryRepo{
		methods: []PaymentMethod{
			{ID: 1, Name: "Cash", RequiresBank: false},
			{ID: 3, Name: "Voucher", RequiresBank: false},
		},
		buckets: map[string]BucketTotals{
			"1/cash": {Receipts: 900},
			"3/cash": {Receipts: 50},
		},
		misplaced: map[int64]int64{3: 2},
	}
	svc := NewService(repo, nil)

	report, err := svc.BuildReport(context.Background(), shared.ReportContext{})
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	require.Equal(t, "Cash", report.Entries[0].Label)
	require.Equal(t, int64(900), report.Entries[0].Balance)
}

func TestBuildReportStableOrder(t *testing.T) {
	repo := &memoryTreasuryRepo{
		methods: []PaymentMethod{
			{ID: 1, Name: "Cash", RequiresBank: false},
			{ID: 2, Name: "Card", RequiresBank: true},
		},
		banks:   []Bank{{ID: 10, Name: "X"}, {ID: 11, Name: "Y"}},
		buckets: map[string]BucketTotals{},
	}
	svc := NewService(repo, nil)

	first, err := svc.BuildReport(context.Background(), shared.ReportContext{})
	require.NoError(t, err)
	second, err := svc.BuildReport(context.Background(), shared.ReportContext{})
	require.NoError(t, err)

	require.Len(t, first.Entries, 3)
	for i := range first.Entries {
		require.Equal(t, first.Entries[i].Label, second.Entries[i].Label)
	}
	require.Equal(t, []string{"Cash", "Card - X", "Card - Y"}, []string{
		first.Entries[0].Label, first.Entries[1].Label, first.Entries[2].Label,
	})
}
