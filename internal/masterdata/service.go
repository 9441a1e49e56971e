package masterdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

// Service carries master data business rules. It also answers the payment
// method constraint lookups the movement recorders depend on.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func requireName(entity, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name is required: %w", entity, httpx.ErrValidation)
	}
	return nil
}

// RequiresBank reports whether movements using the method must carry a bank
// reference. Missing methods surface as shared.ErrNotFound via the repo.
func (s *Service) RequiresBank(ctx context.Context, methodID int64) (bool, error) {
	method, err := s.repo.GetPaymentMethod(ctx, methodID)
	if err != nil {
		return false, err
	}
	return method.RequiresBank, nil
}

// Payment method operations

func (s *Service) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx)
}

func (s *Service) GetPaymentMethod(ctx context.Context, id int64) (PaymentMethod, error) {
	return s.repo.GetPaymentMethod(ctx, id)
}

func (s *Service) CreatePaymentMethod(ctx context.Context, method PaymentMethod) (PaymentMethod, error) {
	if err := requireName("payment method", method.Name); err != nil {
		return PaymentMethod{}, err
	}
	return s.repo.CreatePaymentMethod(ctx, method)
}

func (s *Service) UpdatePaymentMethod(ctx context.Context, id int64, method PaymentMethod) error {
	if err := requireName("payment method", method.Name); err != nil {
		return err
	}
	return s.repo.UpdatePaymentMethod(ctx, id, method)
}

func (s *Service) DeletePaymentMethod(ctx context.Context, id int64) error {
	return s.repo.DeletePaymentMethod(ctx, id)
}

// Bank operations

func (s *Service) ListBanks(ctx context.Context) ([]Bank, error) {
	return s.repo.ListBanks(ctx)
}

func (s *Service) GetBank(ctx context.Context, id int64) (Bank, error) {
	return s.repo.GetBank(ctx, id)
}

func (s *Service) CreateBank(ctx context.Context, bank Bank) (Bank, error) {
	if err := requireName("bank", bank.Name); err != nil {
		return Bank{}, err
	}
	return s.repo.CreateBank(ctx, bank)
}

func (s *Service) UpdateBank(ctx context.Context, id int64, bank Bank) error {
	if err := requireName("bank", bank.Name); err != nil {
		return err
	}
	return s.repo.UpdateBank(ctx, id, bank)
}

func (s *Service) DeleteBank(ctx context.Context, id int64) error {
	return s.repo.DeleteBank(ctx, id)
}

// Work operations

func (s *Service) ListWorks(ctx context.Context) ([]Work, error) {
	return s.repo.ListWorks(ctx)
}

func (s *Service) GetWork(ctx context.Context, id int64) (Work, error) {
	return s.repo.GetWork(ctx, id)
}

func (s *Service) CreateWork(ctx context.Context, work Work) (Work, error) {
	if err := requireName("work", work.Name); err != nil {
		return Work{}, err
	}
	return s.repo.CreateWork(ctx, work)
}

func (s *Service) UpdateWork(ctx context.Context, id int64, work Work) error {
	if err := requireName("work", work.Name); err != nil {
		return err
	}
	return s.repo.UpdateWork(ctx, id, work)
}

func (s *Service) DeleteWork(ctx context.Context, id int64) error {
	return s.repo.DeleteWork(ctx, id)
}

// Personnel operations

func (s *Service) ListPersonnel(ctx context.Context, activeOnly bool) ([]Personnel, error) {
	return s.repo.ListPersonnel(ctx, activeOnly)
}

func (s *Service) GetPersonnel(ctx context.Context, id int64) (Personnel, error) {
	return s.repo.GetPersonnel(ctx, id)
}

func (s *Service) CreatePersonnel(ctx context.Context, person Personnel) (Personnel, error) {
	if err := requireName("personnel", person.FirstName); err != nil {
		return Personnel{}, err
	}
	return s.repo.CreatePersonnel(ctx, person)
}

func (s *Service) UpdatePersonnel(ctx context.Context, id int64, person Personnel) error {
	if err := requireName("personnel", person.FirstName); err != nil {
		return err
	}
	return s.repo.UpdatePersonnel(ctx, id, person)
}

func (s *Service) DeletePersonnel(ctx context.Context, id int64) error {
	return s.repo.DeletePersonnel(ctx, id)
}

// Customer operations

func (s *Service) ListCustomers(ctx context.Context, search string, page, perPage int) ([]Customer, shared.Pagination, error) {
	if perPage <= 0 {
		perPage = shared.DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	customers, total, err := s.repo.ListCustomers(ctx, search, perPage, (page-1)*perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return customers, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	if err := requireName("customer", customer.Name); err != nil {
		return Customer{}, err
	}
	if customer.Blacklisted && strings.TrimSpace(customer.BlacklistReason) == "" {
		return Customer{}, fmt.Errorf("blacklist reason is required: %w", httpx.ErrValidation)
	}
	return s.repo.CreateCustomer(ctx, customer)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, customer Customer) error {
	if err := requireName("customer", customer.Name); err != nil {
		return err
	}
	if customer.Blacklisted && strings.TrimSpace(customer.BlacklistReason) == "" {
		return fmt.Errorf("blacklist reason is required: %w", httpx.ErrValidation)
	}
	return s.repo.UpdateCustomer(ctx, id, customer)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.repo.DeleteCustomer(ctx, id)
}

// Commission operations

func (s *Service) ListCommissions(ctx context.Context, personnelID int64) ([]Commission, error) {
	if _, err := s.repo.GetPersonnel(ctx, personnelID); err != nil {
		return nil, err
	}
	return s.repo.ListCommissions(ctx, personnelID)
}

// ReplaceCommissions validates the rates then swaps the staff member's
// commission set atomically.
func (s *Service) ReplaceCommissions(ctx context.Context, personnelID int64, commissions []Commission) error {
	if _, err := s.repo.GetPersonnel(ctx, personnelID); err != nil {
		return err
	}
	seen := make(map[int64]struct{}, len(commissions))
	for i := range commissions {
		c := &commissions[i]
		c.PersonnelID = personnelID
		if c.RatePct < 0 || c.RatePct > 100 {
			return fmt.Errorf("commission rate must be between 0 and 100: %w", httpx.ErrValidation)
		}
		if _, dup := seen[c.WorkID]; dup {
			return fmt.Errorf("duplicate work in commission set: %w", httpx.ErrValidation)
		}
		seen[c.WorkID] = struct{}{}
	}
	return s.repo.ReplaceCommissions(ctx, personnelID, commissions)
}

// CommissionRate returns the staff member's rate for one kind of work.
func (s *Service) CommissionRate(ctx context.Context, personnelID, workID int64) (int32, error) {
	return s.repo.CommissionRate(ctx, personnelID, workID)
}

// Category operations

func (s *Service) ListPayCategories(ctx context.Context) ([]PayCategory, error) {
	return s.repo.ListPayCategories(ctx)
}

func (s *Service) ListReceiptCategories(ctx context.Context) ([]ReceiptCategory, error) {
	return s.repo.ListReceiptCategories(ctx)
}
