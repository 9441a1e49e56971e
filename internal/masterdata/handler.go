package masterdata

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

// Handler manages master data endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/payment-methods", func(r chi.Router) {
		r.Get("/", h.listPaymentMethods)
		r.Post("/", h.createPaymentMethod)
		r.Get("/{id}", h.getPaymentMethod)
		r.Put("/{id}", h.updatePaymentMethod)
		r.Delete("/{id}", h.deletePaymentMethod)
	})
	r.Route("/banks", func(r chi.Router) {
		r.Get("/", h.listBanks)
		r.Post("/", h.createBank)
		r.Get("/{id}", h.getBank)
		r.Put("/{id}", h.updateBank)
		r.Delete("/{id}", h.deleteBank)
	})
	r.Route("/works", func(r chi.Router) {
		r.Get("/", h.listWorks)
		r.Post("/", h.createWork)
		r.Get("/{id}", h.getWork)
		r.Put("/{id}", h.updateWork)
		r.Delete("/{id}", h.deleteWork)
	})
	r.Route("/personnel", func(r chi.Router) {
		r.Get("/", h.listPersonnel)
		r.Post("/", h.createPersonnel)
		r.Get("/{id}", h.getPersonnel)
		r.Put("/{id}", h.updatePersonnel)
		r.Delete("/{id}", h.deletePersonnel)
		r.Get("/{id}/commissions", h.listCommissions)
		r.Put("/{id}/commissions", h.replaceCommissions)
	})
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.listCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{id}", h.getCustomer)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.deleteCustomer)
	})
	r.Get("/pay-categories", h.listPayCategories)
	r.Get("/receipt-categories", h.listReceiptCategories)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, httpx.ErrValidation),
		errors.Is(err, httpx.ErrDuplicate),
		errors.Is(err, httpx.ErrConflict):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

// Payment method handlers

type paymentMethodRequest struct {
	Name         string `json:"name" validate:"required"`
	RequiresBank bool   `json:"requires_bank"`
}

func (h *Handler) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.service.ListPaymentMethods(r.Context())
	if err != nil {
		h.respondError(w, err, "list payment methods")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payment_methods": methods})
}

func (h *Handler) getPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "payment method id must be numeric")
		return
	}
	method, err := h.service.GetPaymentMethod(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get payment method")
		return
	}
	httpx.JSON(w, http.StatusOK, method)
}

func (h *Handler) createPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	method, err := h.service.CreatePaymentMethod(r.Context(), PaymentMethod{Name: req.Name, RequiresBank: req.RequiresBank})
	if err != nil {
		h.respondError(w, err, "create payment method")
		return
	}
	httpx.JSON(w, http.StatusCreated, method)
}

func (h *Handler) updatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "payment method id must be numeric")
		return
	}
	var req paymentMethodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.service.UpdatePaymentMethod(r.Context(), id, PaymentMethod{Name: req.Name, RequiresBank: req.RequiresBank}); err != nil {
		h.respondError(w, err, "update payment method")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "payment method id must be numeric")
		return
	}
	if err := h.service.DeletePaymentMethod(r.Context(), id); err != nil {
		h.respondError(w, err, "delete payment method")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Bank handlers

type bankRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) listBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.service.ListBanks(r.Context())
	if err != nil {
		h.respondError(w, err, "list banks")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"banks": banks})
}

func (h *Handler) getBank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bank id must be numeric")
		return
	}
	bank, err := h.service.GetBank(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get bank")
		return
	}
	httpx.JSON(w, http.StatusOK, bank)
}

func (h *Handler) createBank(w http.ResponseWriter, r *http.Request) {
	var req bankRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	bank, err := h.service.CreateBank(r.Context(), Bank{Name: req.Name})
	if err != nil {
		h.respondError(w, err, "create bank")
		return
	}
	httpx.JSON(w, http.StatusCreated, bank)
}

func (h *Handler) updateBank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bank id must be numeric")
		return
	}
	var req bankRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.service.UpdateBank(r.Context(), id, Bank{Name: req.Name}); err != nil {
		h.respondError(w, err, "update bank")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteBank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bank id must be numeric")
		return
	}
	if err := h.service.DeleteBank(r.Context(), id); err != nil {
		h.respondError(w, err, "delete bank")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Work handlers

type workRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) listWorks(w http.ResponseWriter, r *http.Request) {
	works, err := h.service.ListWorks(r.Context())
	if err != nil {
		h.respondError(w, err, "list works")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"works": works})
}

func (h *Handler) getWork(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "work id must be numeric")
		return
	}
	work, err := h.service.GetWork(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get work")
		return
	}
	httpx.JSON(w, http.StatusOK, work)
}

func (h *Handler) createWork(w http.ResponseWriter, r *http.Request) {
	var req workRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	work, err := h.service.CreateWork(r.Context(), Work{Name: req.Name})
	if err != nil {
		h.respondError(w, err, "create work")
		return
	}
	httpx.JSON(w, http.StatusCreated, work)
}

func (h *Handler) updateWork(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "work id must be numeric")
		return
	}
	var req workRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.service.UpdateWork(r.Context(), id, Work{Name: req.Name}); err != nil {
		h.respondError(w, err, "update work")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteWork(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "work id must be numeric")
		return
	}
	if err := h.service.DeleteWork(r.Context(), id); err != nil {
		h.respondError(w, err, "delete work")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Personnel handlers

type personnelRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile"`
	OnSite    bool   `json:"on_site"`
	Active    bool   `json:"active"`
}

func (req personnelRequest) toDomain() Personnel {
	return Personnel{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		OnSite:    req.OnSite,
		Active:    req.Active,
	}
}

func (h *Handler) listPersonnel(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	people, err := h.service.ListPersonnel(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, err, "list personnel")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"personnel": people})
}

func (h *Handler) getPersonnel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "personnel id must be numeric")
		return
	}
	person, err := h.service.GetPersonnel(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get personnel")
		return
	}
	httpx.JSON(w, http.StatusOK, person)
}

func (h *Handler) createPersonnel(w http.ResponseWriter, r *http.Request) {
	var req personnelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	person, err := h.service.CreatePersonnel(r.Context(), req.toDomain())
	if err != nil {
		h.respondError(w, err, "create personnel")
		return
	}
	httpx.JSON(w, http.StatusCreated, person)
}

func (h *Handler) updatePersonnel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "personnel id must be numeric")
		return
	}
	var req personnelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.service.UpdatePersonnel(r.Context(), id, req.toDomain()); err != nil {
		h.respondError(w, err, "update personnel")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deletePersonnel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "personnel id must be numeric")
		return
	}
	if err := h.service.DeletePersonnel(r.Context(), id); err != nil {
		h.respondError(w, err, "delete personnel")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Commission handlers

type commissionEntry struct {
	WorkID  int64 `json:"work_id" validate:"required"`
	RatePct int32 `json:"rate_pct" validate:"gte=0,lte=100"`
}

type replaceCommissionsRequest struct {
	Commissions []commissionEntry `json:"commissions" validate:"dive"`
}

func (h *Handler) listCommissions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "personnel id must be numeric")
		return
	}
	commissions, err := h.service.ListCommissions(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "list commissions")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"commissions": commissions})
}

func (h *Handler) replaceCommissions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "personnel id must be numeric")
		return
	}
	var req replaceCommissionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	commissions := make([]Commission, 0, len(req.Commissions))
	for _, c := range req.Commissions {
		commissions = append(commissions, Commission{WorkID: c.WorkID, RatePct: c.RatePct})
	}
	if err := h.service.ReplaceCommissions(r.Context(), id, commissions); err != nil {
		h.respondError(w, err, "replace commissions")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Customer handlers

type customerRequest struct {
	Name            string `json:"name" validate:"required"`
	Mobile          string `json:"mobile"`
	Blacklisted     bool   `json:"blacklisted"`
	BlacklistReason string `json:"blacklist_reason"`
}

func (req customerRequest) toDomain() Customer {
	return Customer{
		Name:            req.Name,
		Mobile:          req.Mobile,
		Blacklisted:     req.Blacklisted,
		BlacklistReason: req.BlacklistReason,
	}
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	customers, pagination, err := h.service.ListCustomers(r.Context(), r.URL.Query().Get("search"), page, perPage)
	if err != nil {
		h.respondError(w, err, "list customers")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customers": customers, "pagination": pagination})
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "customer id must be numeric")
		return
	}
	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get customer")
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	customer, err := h.service.CreateCustomer(r.Context(), req.toDomain())
	if err != nil {
		h.respondError(w, err, "create customer")
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "customer id must be numeric")
		return
	}
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.service.UpdateCustomer(r.Context(), id, req.toDomain()); err != nil {
		h.respondError(w, err, "update customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "customer id must be numeric")
		return
	}
	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		h.respondError(w, err, "delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Category handlers

func (h *Handler) listPayCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListPayCategories(r.Context())
	if err != nil {
		h.respondError(w, err, "list pay categories")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"pay_categories": categories})
}

func (h *Handler) listReceiptCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListReceiptCategories(r.Context())
	if err != nil {
		h.respondError(w, err, "list receipt categories")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"receipt_categories": categories})
}
