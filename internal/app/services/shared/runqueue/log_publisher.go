package runqueue

import (
	"context"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/models"
	"openmrs-billing-e2e/internal/pkg/constvars"

	"go.uber.org/zap"
)

type logPublisher struct {
	log *zap.Logger
}

// NewLogPublisher only logs events. It stands in for the queue when no
// broker is configured.
func NewLogPublisher(log *zap.Logger) contracts.RunEventPublisher {
	return &logPublisher{log: log}
}

func (p *logPublisher) Publish(ctx context.Context, event *models.RunEvent) error {
	p.log.Debug("RunEventLog.Publish",
		zap.String(constvars.LoggingEventTypeKey, event.Type),
		zap.String(constvars.LoggingRunIDKey, event.RunID),
		zap.String("status", event.Status),
	)
	return nil
}

func (p *logPublisher) Close() error {
	return nil
}
