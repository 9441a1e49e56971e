package shared

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ReportContext identifies who asked for a report and which request produced
// it. It is passed explicitly into report functions so observability never
// depends on ambient global state.
type ReportContext struct {
	RequestID string
	ActorID   int64
}

// NewReportContext builds a ReportContext from the request context. The chi
// request ID is reused when present so report log lines correlate with the
// HTTP access log; otherwise a fresh UUID is generated.
func NewReportContext(ctx context.Context, actorID int64) ReportContext {
	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return ReportContext{RequestID: requestID, ActorID: actorID}
}
