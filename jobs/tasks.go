package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/glowdesk/glowdesk/internal/shared"
	"github.com/glowdesk/glowdesk/internal/treasury"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendSMS is the task type for customer SMS notifications.
	TaskTypeSendSMS = "sms:send"
	// TaskTypeTreasuryWarmup rebuilds the treasury snapshot cache.
	TaskTypeTreasuryWarmup = "treasury:warmup"
)

// SendSMSPayload describes one outgoing text message.
type SendSMSPayload struct {
	To     string `json:"to"`
	Body   string `json:"body"`
	Sender string `json:"sender"`
}

// NewSendSMSTask constructs an Asynq task.
func NewSendSMSTask(payload SendSMSPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendSMS, data, asynq.MaxRetry(5)), nil
}

// HandleSendSMSTask processes TaskTypeSendSMS tasks.
func HandleSendSMSTask(ctx context.Context, t *asynq.Task) error {
	var payload SendSMSPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.To == "" {
		return asynq.SkipRetry
	}
	// Placeholder delivery: swap in the SMS gateway client here.
	slog.Info("sms dispatched", slog.String("to", payload.To), slog.String("sender", payload.Sender))
	return nil
}

// NewTreasuryWarmupTask constructs the periodic snapshot rebuild task.
func NewTreasuryWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeTreasuryWarmup, nil)
}

// NewTreasuryWarmupHandler builds the handler that refreshes the treasury
// snapshot cache so the first dashboard hit of the day is already warm.
func NewTreasuryWarmupHandler(svc *treasury.Service, cache *treasury.SnapshotCache, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		report, err := svc.BuildReport(ctx, shared.ReportContext{RequestID: "treasury-warmup"})
		if err != nil {
			return fmt.Errorf("jobs: treasury warmup: %w", err)
		}
		if err := cache.Set(ctx, report); err != nil {
			return fmt.Errorf("jobs: treasury warmup cache: %w", err)
		}
		logger.Info("treasury snapshot warmed",
			slog.Int("entries", len(report.Entries)),
			slog.Duration("took", time.Since(start)),
		)
		return nil
	}
}
