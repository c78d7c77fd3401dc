package audit

import (
	"context"
	"log/slog"
	"time"
)

// LogPublisher writes audit events to the structured log with
// log_type=audit so they can be shipped separately from application logs.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.logger.InfoContext(ctx, "company status changed",
		"log_type", "audit",
		"company_id", event.CompanyID,
		"from", event.From,
		"to", event.To,
		"event", event.Event,
		"actor_id", event.ActorID,
		"request_id", event.RequestID,
	)
	return nil
}
