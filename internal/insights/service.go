package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glowdesk/glowdesk/internal/shared"
)

// RepositoryPort defines data access for dashboard aggregation.
type RepositoryPort interface {
	PayBucketDays(ctx context.Context, from, to time.Time) ([]PayBucketDay, error)
	SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error)
	AppointmentsByDay(ctx context.Context, from, to time.Time) ([]SeriesPoint, error)
}

// Service assembles the home dashboard.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// BuildDashboard aggregates pays, sales and appointments day by day over
// [from, to] inclusive. Every returned series spans the full window with
// zeros where nothing happened.
func (s *Service) BuildDashboard(ctx context.Context, rctx shared.ReportContext, from, to time.Time) (*Dashboard, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("insights: window %s to %s: %w",
			from.Format(shared.DateLayout), to.Format(shared.DateLayout), shared.ErrInvalidDateRange)
	}

	payRows, err := s.repo.PayBucketDays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("insights: pay series: %w", err)
	}
	salesRows, err := s.repo.SalesByDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("insights: sales series: %w", err)
	}
	apptRows, err := s.repo.AppointmentsByDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("insights: appointment series: %w", err)
	}

	dash := &Dashboard{
		From:         from,
		To:           to,
		GeneratedAt:  time.Now().UTC(),
		PaySeries:    groupPaySeries(from, to, payRows),
		Sales:        fillSales(from, to, salesRows),
		Appointments: fillCounts(from, to, apptRows),
	}

	s.logger.Info("dashboard built",
		slog.String("request_id", rctx.RequestID),
		slog.Int64("actor_id", rctx.ActorID),
		slog.Int("pay_series", len(dash.PaySeries)),
		slog.Int("days", windowDays(from, to)),
	)
	return dash, nil
}

// groupPaySeries folds bucket-day rows into one zero-filled series per
// (method, bank) pair, preserving the order rows arrive in.
func groupPaySeries(from, to time.Time, rows []PayBucketDay) []PaySeries {
	type bucket struct {
		method int64
		bank   int64
		cash   bool
	}
	index := make(map[bucket]int)
	var series []PaySeries
	for _, row := range rows {
		key := bucket{method: row.PaymentMethodID, cash: row.BankID == nil}
		if row.BankID != nil {
			key.bank = *row.BankID
		}
		i, ok := index[key]
		if !ok {
			label := row.MethodName
			if row.BankID != nil {
				label = row.MethodName + " - " + row.BankName
			}
			series = append(series, PaySeries{
				Label:           label,
				PaymentMethodID: row.PaymentMethodID,
				BankID:          row.BankID,
				Points:          zeroPoints(from, to),
			})
			i = len(series) - 1
			index[key] = i
		}
		if offset := dayOffset(from, row.Date); offset >= 0 && offset < len(series[i].Points) {
			series[i].Points[offset].Value = row.Total
		}
	}
	return series
}

func fillSales(from, to time.Time, rows []DailySales) []DailySales {
	out := make([]DailySales, windowDays(from, to))
	for i := range out {
		out[i].Date = from.AddDate(0, 0, i)
	}
	for _, row := range rows {
		if offset := dayOffset(from, row.Date); offset >= 0 && offset < len(out) {
			row.Date = out[offset].Date
			out[offset] = row
		}
	}
	return out
}

func fillCounts(from, to time.Time, rows []SeriesPoint) []SeriesPoint {
	out := zeroPoints(from, to)
	for _, row := range rows {
		if offset := dayOffset(from, row.Date); offset >= 0 && offset < len(out) {
			out[offset].Value = row.Value
		}
	}
	return out
}

func zeroPoints(from, to time.Time) []SeriesPoint {
	points := make([]SeriesPoint, windowDays(from, to))
	for i := range points {
		points[i].Date = from.AddDate(0, 0, i)
	}
	return points
}

func windowDays(from, to time.Time) int {
	return int(shared.DateOf(to).Sub(shared.DateOf(from)).Hours()/24) + 1
}

func dayOffset(from, day time.Time) int {
	return int(shared.DateOf(day).Sub(shared.DateOf(from)).Hours() / 24)
}
