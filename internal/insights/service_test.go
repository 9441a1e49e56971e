package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glowdesk/glowdesk/internal/shared"
	_ "github.com/glowdesk/glowdesk/testing"
)

type memoryInsightsRepo struct {
	pays         []PayBucketDay
	sales        []DailySales
	appointments []SeriesPoint
}

func (r *memoryInsightsRepo) PayBucketDays(ctx context.Context, from, to time.Time) ([]PayBucketDay, error) {
	return r.pays, nil
}

func (r *memoryInsightsRepo) SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	return r.sales, nil
}

func (r *memoryInsightsRepo) AppointmentsByDay(ctx context.Context, from, to time.Time) ([]SeriesPoint, error) {
	return r.appointments, nil
}

func dashDay(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDashboardGroupsPaySeries(t *testing.T) {
	bank := int64(10)
	repo := &memoryInsightsRepo{
		pays: []PayBucketDay{
			{PaymentMethodID: 1, MethodName: "Cash", Date: dashDay(1), Total: 300},
			{PaymentMethodID: 1, MethodName: "Cash", Date: dashDay(3), Total: 200},
			{PaymentMethodID: 2, MethodName: "Card", BankID: &bank, BankName: "X", Date: dashDay(2), Total: 700},
		},
	}
	svc := NewService(repo, nil)

	dash, err := svc.BuildDashboard(context.Background(), shared.ReportContext{}, dashDay(1), dashDay(3))
	require.NoError(t, err)
	require.Len(t, dash.PaySeries, 2)

	cash := dash.PaySeries[0]
	require.Equal(t, "Cash", cash.Label)
	require.Nil(t, cash.BankID)
	require.Len(t, cash.Points, 3)
	require.Equal(t, int64(300), cash.Points[0].Value)
	require.Zero(t, cash.Points[1].Value)
	require.Equal(t, int64(200), cash.Points[2].Value)

	card := dash.PaySeries[1]
	require.Equal(t, "Card - X", card.Label)
	require.NotNil(t, card.BankID)
	require.Equal(t, []SeriesPoint{
		{Date: dashDay(1)},
		{Date: dashDay(2), Value: 700},
		{Date: dashDay(3)},
	}, card.Points)
}

func TestBuildDashboardZeroFillsSalesAndAppointments(t *testing.T) {
	repo := &memoryInsightsRepo{
		sales: []DailySales{
			{Date: dashDay(2), PriceTotal: 1600, CommissionTotal: 800, Count: 2},
		},
		appointments: []SeriesPoint{
			{Date: dashDay(1), Value: 4},
		},
	}
	svc := NewService(repo, nil)

	dash, err := svc.BuildDashboard(context.Background(), shared.ReportContext{}, dashDay(1), dashDay(3))
	require.NoError(t, err)

	require.Len(t, dash.Sales, 3)
	require.Equal(t, dashDay(1), dash.Sales[0].Date)
	require.Zero(t, dash.Sales[0].Count)
	require.Equal(t, int64(1600), dash.Sales[1].PriceTotal)
	require.Equal(t, int64(800), dash.Sales[1].CommissionTotal)
	require.Equal(t, int64(2), dash.Sales[1].Count)
	require.Zero(t, dash.Sales[2].PriceTotal)

	require.Equal(t, []SeriesPoint{
		{Date: dashDay(1), Value: 4},
		{Date: dashDay(2)},
		{Date: dashDay(3)},
	}, dash.Appointments)
}

func TestBuildDashboardSingleDayWindow(t *testing.T) {
	svc := NewService(&memoryInsightsRepo{}, nil)

	dash, err := svc.BuildDashboard(context.Background(), shared.ReportContext{}, dashDay(5), dashDay(5))
	require.NoError(t, err)
	require.Len(t, dash.Sales, 1)
	require.Len(t, dash.Appointments, 1)
	require.Empty(t, dash.PaySeries)
}

func TestBuildDashboardRejectsInvertedWindow(t *testing.T) {
	svc := NewService(&memoryInsightsRepo{}, nil)

	_, err := svc.BuildDashboard(context.Background(), shared.ReportContext{}, dashDay(9), dashDay(2))
	require.ErrorIs(t, err, shared.ErrInvalidDateRange)
}

func TestBuildDashboardIgnoresRowsOutsideWindow(t *testing.T) {
	repo := &memoryInsightsRepo{
		pays: []PayBucketDay{
			{PaymentMethodID: 1, MethodName: "Cash", Date: dashDay(9), Total: 999},
			{PaymentMethodID: 1, MethodName: "Cash", Date: dashDay(2), Total: 100},
		},
	}
	svc := NewService(repo, nil)

	dash, err := svc.BuildDashboard(context.Background(), shared.ReportContext{}, dashDay(1), dashDay(3))
	require.NoError(t, err)
	require.Len(t, dash.PaySeries, 1)
	var sum int64
	for _, p := range dash.PaySeries[0].Points {
		sum += p.Value
	}
	require.Equal(t, int64(100), sum)
}
