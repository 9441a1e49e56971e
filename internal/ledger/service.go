package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glowdesk/glowdesk/internal/shared"
)

// Validation errors for movement entry.
var (
	ErrNegativeAmount = errors.New("ledger: amount must not be negative")
	ErrBankRequired   = errors.New("ledger: payment method requires a bank")
	ErrBankNotAllowed = errors.New("ledger: cash-like payment method must not carry a bank")
	ErrUnknownMethod  = errors.New("ledger: unknown payment method")
)

// RepositoryPort defines data access for ledger movements.
type RepositoryPort interface {
	ListPays(ctx context.Context, f Filter) ([]PayMovement, error)
	ListReceipts(ctx context.Context, f Filter) ([]ReceiptMovement, error)
	OpeningTotals(ctx context.Context, before time.Time, bankID *int64) (OpeningTotals, error)
	CreatePay(ctx context.Context, input CreatePayInput) (*PayMovement, error)
	CreateReceipt(ctx context.Context, input CreateReceiptInput) (*ReceiptMovement, error)
}

// MethodDirectory resolves payment-method constraints at the entry boundary.
type MethodDirectory interface {
	RequiresBank(ctx context.Context, methodID int64) (bool, error)
}

// CreatePayInput describes a new outflow.
type CreatePayInput struct {
	CategoryID      int64
	PersonnelID     *int64
	PaymentMethodID int64
	BankID          *int64
	Amount          int64
	Description     string
	OccurredOn      time.Time
}

// CreateReceiptInput describes a new inflow.
type CreateReceiptInput struct {
	CategoryID      int64
	CustomerID      *int64
	SaleID          *int64
	PaymentMethodID int64
	BankID          *int64
	Amount          int64
	Description     string
	OccurredOn      time.Time
}

// Service builds ledger reports and records movements.
type Service struct {
	repo    RepositoryPort
	methods MethodDirectory
	logger  *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, methods MethodDirectory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, methods: methods, logger: logger}
}

// BuildReport produces the running-balance report for the given window and
// filters. The opening balance is scoped by bank only; the windowed rows
// honour both filters. That asymmetry is deliberate: the opening figure
// answers "what was in this bank before the window", independent of method.
func (s *Service) BuildReport(ctx context.Context, rctx shared.ReportContext, f Filter) (*Report, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	opening, err := s.repo.OpeningTotals(ctx, f.Start, f.BankID)
	if err != nil {
		return nil, fmt.Errorf("ledger: opening totals: %w", err)
	}

	pays, err := s.repo.ListPays(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("ledger: list pays: %w", err)
	}
	receipts, err := s.repo.ListReceipts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("ledger: list receipts: %w", err)
	}

	entries := Merge(pays, receipts)
	rows, totals := Walk(opening.Balance(), f.Start, entries)

	s.logger.Info("ledger report built",
		slog.String("request_id", rctx.RequestID),
		slog.Int64("actor_id", rctx.ActorID),
		slog.Time("window_start", f.Start),
		slog.Time("window_end", f.End),
		slog.Int("rows", len(rows)),
	)

	return &Report{
		Window:          f.Window,
		BankID:          f.BankID,
		PaymentMethodID: f.PaymentMethodID,
		OpeningBalance:  opening.Balance(),
		ClosingBalance:  totals.ClosingBalance,
		TotalAmount:     totals.TotalAmount,
		ReceiptCount:    totals.ReceiptCount,
		PayCount:        totals.PayCount,
		Rows:            rows,
	}, nil
}

// ListPays returns outflows in the window, newest first left to the caller.
func (s *Service) ListPays(ctx context.Context, f Filter) ([]PayMovement, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListPays(ctx, f)
}

// ListReceipts returns inflows in the window.
func (s *Service) ListReceipts(ctx context.Context, f Filter) ([]ReceiptMovement, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListReceipts(ctx, f)
}

// RecordPay validates and stores one outflow.
func (s *Service) RecordPay(ctx context.Context, input CreatePayInput) (*PayMovement, error) {
	if err := s.checkMovement(ctx, input.Amount, input.PaymentMethodID, input.BankID); err != nil {
		return nil, err
	}
	if input.OccurredOn.IsZero() {
		input.OccurredOn = shared.DateOf(time.Now())
	}
	return s.repo.CreatePay(ctx, input)
}

// RecordReceipt validates and stores one inflow.
func (s *Service) RecordReceipt(ctx context.Context, input CreateReceiptInput) (*ReceiptMovement, error) {
	if err := s.checkMovement(ctx, input.Amount, input.PaymentMethodID, input.BankID); err != nil {
		return nil, err
	}
	if input.OccurredOn.IsZero() {
		input.OccurredOn = shared.DateOf(time.Now())
	}
	return s.repo.CreateReceipt(ctx, input)
}

// checkMovement enforces the stored-amount and bank-requirement invariants:
// amounts are non-negative, a requires_bank method always carries a bank and
// a cash-like method never does.
func (s *Service) checkMovement(ctx context.Context, amount, methodID int64, bankID *int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	requiresBank, err := s.methods.RequiresBank(ctx, methodID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrUnknownMethod
		}
		return fmt.Errorf("ledger: resolve payment method: %w", err)
	}
	if requiresBank && bankID == nil {
		return ErrBankRequired
	}
	if !requiresBank && bankID != nil {
		return ErrBankNotAllowed
	}
	return nil
}
