package treasury

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glowdesk/glowdesk/internal/shared"
)

// RepositoryPort defines data access for treasury aggregation.
type RepositoryPort interface {
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	ListBanks(ctx context.Context) ([]Bank, error)
	BucketTotals(ctx context.Context, methodID int64, bankID *int64) (BucketTotals, error)
	MisplacedMovements(ctx context.Context, methodID int64, requiresBank bool) (int64, error)
}

// Service computes all-time treasury positions.
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

// BuildReport walks every payment method and produces one position per
// (method, bank) pair for bank-backed methods and one cash position
// otherwise. A bucket that fails to aggregate is logged and skipped; one
// broken pairing never aborts the whole report.
func (s *Service) BuildReport(ctx context.Context, rctx shared.ReportContext) (*Report, error) {
	methods, err := s.repo.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("treasury: list payment methods: %w", err)
	}
	banks, err := s.repo.ListBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("treasury: list banks: %w", err)
	}

	report := &Report{GeneratedAt: time.Now().UTC()}
	skipped := 0
	for _, method := range methods {
		// Movements whose bank reference contradicts requires_bank would be
		// invisible to every bucket below, understating the method's
		// position. Skip the method rather than report a wrong number.
		misplaced, err := s.repo.MisplacedMovements(ctx, method.ID, method.RequiresBank)
		if err != nil {
			skipped++
			s.logger.Warn("treasury method skipped",
				slog.String("request_id", rctx.RequestID),
				slog.String("method", method.Name),
				slog.Any("error", err),
			)
			continue
		}
		if misplaced > 0 {
			skipped++
			s.logger.Warn("treasury method skipped: bank reference inconsistent",
				slog.String("request_id", rctx.RequestID),
				slog.String("method", method.Name),
				slog.Bool("requires_bank", method.RequiresBank),
				slog.Int64("misplaced_movements", misplaced),
			)
			continue
		}

		if method.RequiresBank {
			for _, bank := range banks {
				bankID := bank.ID
				totals, err := s.repo.BucketTotals(ctx, method.ID, &bankID)
				if err != nil {
					skipped++
					s.logger.Warn("treasury bucket skipped",
						slog.String("request_id", rctx.RequestID),
						slog.String("method", method.Name),
						slog.String("bank", bank.Name),
						slog.Any("error", err),
					)
					continue
				}
				report.Entries = append(report.Entries, Position{
					Label:           method.Name + " - " + bank.Name,
					Balance:         totals.Balance(),
					LastMovementOn:  totals.LastMovementOn(),
					PaymentMethodID: method.ID,
					BankID:          &bankID,
				})
			}
			continue
		}

		totals, err := s.repo.BucketTotals(ctx, method.ID, nil)
		if err != nil {
			skipped++
			s.logger.Warn("treasury cash bucket skipped",
				slog.String("request_id", rctx.RequestID),
				slog.String("method", method.Name),
				slog.Any("error", err),
			)
			continue
		}
		report.Entries = append(report.Entries, Position{
			Label:           method.Name,
			Balance:         totals.Balance(),
			LastMovementOn:  totals.LastMovementOn(),
			PaymentMethodID: method.ID,
		})
	}

	s.logger.Info("treasury report built",
		slog.String("request_id", rctx.RequestID),
		slog.Int64("actor_id", rctx.ActorID),
		slog.Int("entries", len(report.Entries)),
		slog.Int("skipped", skipped),
	)
	return report, nil
}
