package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glowdesk/glowdesk/internal/shared"
)

// ErrNegativePrice rejects sales priced below zero.
var ErrNegativePrice = errors.New("sales: price must not be negative")

// RepositoryPort defines data access for sales.
type RepositoryPort interface {
	CreateSale(ctx context.Context, sale Sale) (Sale, error)
	ListByDate(ctx context.Context, date time.Time) ([]Sale, error)
}

// RateSource resolves a staff member's commission percentage for one kind
// of work.
type RateSource interface {
	CommissionRate(ctx context.Context, personnelID, workID int64) (int32, error)
}

// Service records sales and derives commissions.
type Service struct {
	repo   RepositoryPort
	rates  RateSource
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, rates RateSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, rates: rates, logger: logger}
}

// CreateSaleInput carries a sale to record. A nil CommissionAmount asks the
// service to derive it from the staff member's configured rate.
type CreateSaleInput struct {
	CustomerID       *int64
	PersonnelID      int64
	WorkID           int64
	Price            int64
	CommissionAmount *int64
	OccurredOn       time.Time
}

// RecordSale persists a sale. When no commission amount is supplied it is
// derived as price * rate / 100; a staff member with no configured rate for
// the work earns zero.
func (s *Service) RecordSale(ctx context.Context, input CreateSaleInput) (Sale, error) {
	if input.Price < 0 {
		return Sale{}, ErrNegativePrice
	}
	occurredAt := input.OccurredOn
	if occurredAt.IsZero() {
		occurredAt = shared.DateOf(time.Now())
	}

	commission, err := s.resolveCommission(ctx, input)
	if err != nil {
		return Sale{}, err
	}

	sale, err := s.repo.CreateSale(ctx, Sale{
		CustomerID:       input.CustomerID,
		PersonnelID:      input.PersonnelID,
		WorkID:           input.WorkID,
		Price:            input.Price,
		CommissionAmount: commission,
		OccurredOn:       occurredAt,
	})
	if err != nil {
		return Sale{}, fmt.Errorf("sales: create sale: %w", err)
	}

	s.logger.Info("sale recorded",
		slog.Int64("sale_id", sale.ID),
		slog.Int64("personnel_id", sale.PersonnelID),
		slog.Int64("price", sale.Price),
		slog.Int64("commission", sale.CommissionAmount),
	)
	return sale, nil
}

func (s *Service) resolveCommission(ctx context.Context, input CreateSaleInput) (int64, error) {
	if input.CommissionAmount != nil {
		if *input.CommissionAmount < 0 {
			return 0, ErrNegativePrice
		}
		return *input.CommissionAmount, nil
	}
	rate, err := s.rates.CommissionRate(ctx, input.PersonnelID, input.WorkID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("sales: resolve commission rate: %w", err)
	}
	return input.Price * int64(rate) / 100, nil
}

// DailySummary lists a day's sales with price and commission totals.
func (s *Service) DailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	day := shared.DateOf(date)
	list, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("sales: list by date: %w", err)
	}

	summary := &DailySummary{Date: day, Sales: list, SaleCount: len(list)}
	for _, sale := range list {
		summary.PriceTotal += sale.Price
		summary.CommissionTotal += sale.CommissionAmount
	}
	summary.PriceTotalDisplay = shared.FormatAmount(summary.PriceTotal)
	summary.CommissionTotalDisplay = shared.FormatAmount(summary.CommissionTotal)
	return summary, nil
}
