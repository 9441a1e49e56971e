package treasury

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/glowdesk/glowdesk/internal/observability"
	"github.com/glowdesk/glowdesk/internal/platform/httpx"
	"github.com/glowdesk/glowdesk/internal/shared"
)

// Handler manages treasury endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	cache   *SnapshotCache
	metrics *observability.Metrics
	group   singleflight.Group
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, cache *SnapshotCache, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, cache: cache, metrics: metrics}
}

// MountRoutes registers treasury routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/positions", h.positions)
	r.Post("/positions/refresh", h.refresh)
}

// positions serves the treasury position report, cache first. Concurrent
// misses collapse into one rebuild.
func (h *Handler) positions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rctx := shared.NewReportContext(ctx, actorID(r))

	if cached, err := h.cache.Get(ctx); err != nil {
		h.logger.Warn("treasury cache read failed", slog.Any("error", err))
	} else if cached != nil {
		h.metrics.CountReport("treasury", "cached")
		httpx.JSON(w, http.StatusOK, cached)
		return
	}

	report, err := h.buildAndCache(ctx, rctx)
	if err != nil {
		h.metrics.CountReport("treasury", "error")
		h.logger.Error("build treasury report", slog.Any("error", err), slog.String("request_id", rctx.RequestID))
		httpx.RespondError(w, err)
		return
	}
	h.metrics.CountReport("treasury", "ok")
	httpx.JSON(w, http.StatusOK, report)
}

// refresh drops the snapshot and rebuilds it immediately.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rctx := shared.NewReportContext(ctx, actorID(r))

	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.Warn("treasury cache invalidate failed", slog.Any("error", err))
	}
	report, err := h.buildAndCache(ctx, rctx)
	if err != nil {
		h.logger.Error("refresh treasury report", slog.Any("error", err), slog.String("request_id", rctx.RequestID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) buildAndCache(ctx context.Context, rctx shared.ReportContext) (*Report, error) {
	result, err, _ := h.group.Do("treasury-positions", func() (any, error) {
		report, err := h.service.BuildReport(ctx, rctx)
		if err != nil {
			return nil, err
		}
		if err := h.cache.Set(ctx, report); err != nil {
			h.logger.Warn("treasury cache write failed", slog.Any("error", err))
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Report), nil
}

func actorID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.Header.Get("X-Actor-ID"), 10, 64)
	return id
}
