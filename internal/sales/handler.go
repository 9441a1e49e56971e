package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

// Handler manages sales endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createSale)
	r.Get("/daily", h.dailySummary)
}

type createSaleRequest struct {
	CustomerID       *int64 `json:"customer_id"`
	PersonnelID      int64  `json:"personnel_id" validate:"required"`
	WorkID           int64  `json:"work_id" validate:"required"`
	Price            int64  `json:"price" validate:"gte=0"`
	CommissionAmount *int64 `json:"commission_amount"`
	OccurredOn       string `json:"occurred_on"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var occurredAt time.Time
	if req.OccurredOn != "" {
		parsed, err := shared.ParseDate(req.OccurredOn)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
			return
		}
		occurredAt = parsed
	}

	sale, err := h.service.RecordSale(r.Context(), CreateSaleInput{
		CustomerID:       req.CustomerID,
		PersonnelID:      req.PersonnelID,
		WorkID:           req.WorkID,
		Price:            req.Price,
		CommissionAmount: req.CommissionAmount,
		OccurredOn:       occurredAt,
	})
	if err != nil {
		if errors.Is(err, ErrNegativePrice) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Sale", err.Error())
			return
		}
		if !errors.Is(err, httpx.ErrValidation) {
			h.logger.Error("record sale", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	date, err := shared.ParseDateOrDefault(r.URL.Query().Get("date"), shared.DateOf(time.Now()))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}

	summary, err := h.service.DailySummary(r.Context(), date)
	if err != nil {
		h.logger.Error("daily sales summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
