package ports

import (
	"context"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
)

// EventPublisher forwards report events to interested systems.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NoopEventPublisher drops every event.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, domain.Event) error { return nil }
