package insights

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/glowdesk/internal/observability"
	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

// Handler serves the home dashboard.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers insights routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	defFrom, defTo := shared.DefaultReportWindow(time.Now())
	from, err := shared.ParseDateOrDefault(r.URL.Query().Get("from"), defFrom)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameters", err.Error())
		return
	}
	to, err := shared.ParseDateOrDefault(r.URL.Query().Get("to"), defTo)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameters", err.Error())
		return
	}

	rctx := shared.NewReportContext(r.Context(), actorID(r))
	dash, err := h.service.BuildDashboard(r.Context(), rctx, from, to)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidDateRange) {
			h.metrics.CountReport("dashboard", "rejected")
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", err.Error())
			return
		}
		h.metrics.CountReport("dashboard", "error")
		h.logger.Error("build dashboard", slog.Any("error", err), slog.String("request_id", rctx.RequestID))
		httpx.RespondError(w, err)
		return
	}

	h.metrics.CountReport("dashboard", "ok")
	httpx.JSON(w, http.StatusOK, dash)
}

func actorID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.Header.Get("X-Actor-ID"), 10, 64)
	return id
}
