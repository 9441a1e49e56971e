package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/glowdesk/glowdesk/internal/observability"
	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

// Handler manages ledger endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	metrics   *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		metrics:   metrics,
	}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/report", h.report)
	r.Get("/pays", h.listPays)
	r.Post("/pays", h.createPay)
	r.Get("/receipts", h.listReceipts)
	r.Post("/receipts", h.createReceipt)
}

// report builds the running-balance report for the requested window.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, shared.DefaultReportWindow)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameters", err.Error())
		return
	}

	rctx := shared.NewReportContext(r.Context(), actorID(r))
	report, err := h.service.BuildReport(r.Context(), rctx, filter)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidDateRange) {
			h.metrics.CountReport("ledger", "rejected")
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", err.Error())
			return
		}
		h.metrics.CountReport("ledger", "error")
		h.logger.Error("build ledger report", slog.Any("error", err), slog.String("request_id", rctx.RequestID))
		httpx.RespondError(w, err)
		return
	}

	h.metrics.CountReport("ledger", "ok")
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) listPays(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, shared.DefaultListWindow)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameters", err.Error())
		return
	}
	pays, err := h.service.ListPays(r.Context(), filter)
	if err != nil {
		h.logger.Error("list pays", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"pays": pays, "window": filter.Window})
}

func (h *Handler) listReceipts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, shared.DefaultListWindow)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameters", err.Error())
		return
	}
	receipts, err := h.service.ListReceipts(r.Context(), filter)
	if err != nil {
		h.logger.Error("list receipts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"receipts": receipts, "window": filter.Window})
}

type createPayRequest struct {
	CategoryID      int64  `json:"category_id" validate:"required"`
	PersonnelID     *int64 `json:"personnel_id"`
	PaymentMethodID int64  `json:"payment_method_id" validate:"required"`
	BankID          *int64 `json:"bank_id"`
	Amount          int64  `json:"amount" validate:"gte=0"`
	Description     string `json:"description"`
	OccurredOn      string `json:"occurred_on"`
}

func (h *Handler) createPay(w http.ResponseWriter, r *http.Request) {
	var req createPayRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	occurredOn, err := parseOptionalDate(req.OccurredOn)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}

	pay, err := h.service.RecordPay(r.Context(), CreatePayInput{
		CategoryID:      req.CategoryID,
		PersonnelID:     req.PersonnelID,
		PaymentMethodID: req.PaymentMethodID,
		BankID:          req.BankID,
		Amount:          req.Amount,
		Description:     req.Description,
		OccurredOn:      occurredOn,
	})
	if err != nil {
		h.respondMovementError(w, err, "record pay")
		return
	}
	httpx.JSON(w, http.StatusCreated, pay)
}

type createReceiptRequest struct {
	CategoryID      int64  `json:"category_id" validate:"required"`
	CustomerID      *int64 `json:"customer_id"`
	SaleID          *int64 `json:"sale_id"`
	PaymentMethodID int64  `json:"payment_method_id" validate:"required"`
	BankID          *int64 `json:"bank_id"`
	Amount          int64  `json:"amount" validate:"gte=0"`
	Description     string `json:"description"`
	OccurredOn      string `json:"occurred_on"`
}

func (h *Handler) createReceipt(w http.ResponseWriter, r *http.Request) {
	var req createReceiptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	occurredOn, err := parseOptionalDate(req.OccurredOn)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}

	receipt, err := h.service.RecordReceipt(r.Context(), CreateReceiptInput{
		CategoryID:      req.CategoryID,
		CustomerID:      req.CustomerID,
		SaleID:          req.SaleID,
		PaymentMethodID: req.PaymentMethodID,
		BankID:          req.BankID,
		Amount:          req.Amount,
		Description:     req.Description,
		OccurredOn:      occurredOn,
	})
	if err != nil {
		h.respondMovementError(w, err, "record receipt")
		return
	}
	httpx.JSON(w, http.StatusCreated, receipt)
}

func (h *Handler) respondMovementError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNegativeAmount),
		errors.Is(err, ErrBankRequired),
		errors.Is(err, ErrBankNotAllowed),
		errors.Is(err, ErrUnknownMethod):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Movement", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

// parseFilter reads window and bucket filters from the query string,
// substituting the supplied default window when dates are absent.
func parseFilter(r *http.Request, defaultWindow func(time.Time) (time.Time, time.Time)) (Filter, error) {
	defStart, defEnd := defaultWindow(time.Now())

	start, err := shared.ParseDateOrDefault(firstQuery(r, "start_date", "from"), defStart)
	if err != nil {
		return Filter{}, err
	}
	end, err := shared.ParseDateOrDefault(firstQuery(r, "end_date", "to"), defEnd)
	if err != nil {
		return Filter{}, err
	}

	filter := Filter{Window: Window{Start: start, End: end}}
	if filter.BankID, err = parseOptionalID(r.URL.Query().Get("bank_id")); err != nil {
		return Filter{}, err
	}
	if filter.PaymentMethodID, err = parseOptionalID(r.URL.Query().Get("payment_method_id")); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

func firstQuery(r *http.Request, keys ...string) string {
	for _, key := range keys {
		if v := r.URL.Query().Get(key); v != "" {
			return v
		}
	}
	return ""
}

func parseOptionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errors.New("ledger: id must be an integer")
	}
	return &id, nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return shared.ParseDate(s)
}

func actorID(r *http.Request) int64 {
	// Authentication lives in front of this service; the proxy forwards the
	// acting user when it has one.
	id, _ := strconv.ParseInt(r.Header.Get("X-Actor-ID"), 10, 64)
	return id
}
