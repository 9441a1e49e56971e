package booking

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

// Handler manages appointment endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers appointment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.schedule)
	r.Post("/", h.book)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.reschedule)
	r.Delete("/{id}", h.cancel)
}

type appointmentRequest struct {
	CustomerID  int64     `json:"customer_id" validate:"required"`
	PersonnelID int64     `json:"personnel_id" validate:"required"`
	WorkID      int64     `json:"work_id" validate:"required"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndAt       time.Time `json:"end_at" validate:"required"`
	Paid        bool      `json:"paid"`
}

func (req appointmentRequest) toInput() BookInput {
	return BookInput{
		CustomerID:  req.CustomerID,
		PersonnelID: req.PersonnelID,
		WorkID:      req.WorkID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Paid:        req.Paid,
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrOverlap):
		httpx.Problem(w, http.StatusConflict, "Double Booking", err.Error())
	case errors.Is(err, ErrInvalidWindow):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, httpx.ErrValidation):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (appointmentRequest, bool) {
	var req appointmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	appt, err := h.service.Book(r.Context(), req.toInput())
	if err != nil {
		h.respondError(w, err, "book appointment")
		return
	}
	httpx.JSON(w, http.StatusCreated, appt)
}

func (h *Handler) reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "appointment id must be numeric")
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	appt, err := h.service.Reschedule(r.Context(), id, req.toInput())
	if err != nil {
		h.respondError(w, err, "reschedule appointment")
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "appointment id must be numeric")
		return
	}
	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.respondError(w, err, "cancel appointment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "appointment id must be numeric")
		return
	}
	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get appointment")
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	personnelID, err := strconv.ParseInt(r.URL.Query().Get("personnel_id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameters", "personnel_id is required and must be numeric")
		return
	}

	defFrom, defTo := shared.DefaultListWindow(time.Now())
	from, err := shared.ParseDateOrDefault(r.URL.Query().Get("from"), defFrom)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	to, err := shared.ParseDateOrDefault(r.URL.Query().Get("to"), defTo)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	// Windows are dates; include the whole closing day.
	to = to.AddDate(0, 0, 1)

	appts, err := h.service.Schedule(r.Context(), personnelID, from, to)
	if err != nil {
		h.respondError(w, err, "list schedule")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"appointments": appts})
}
