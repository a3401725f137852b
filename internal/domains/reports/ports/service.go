package ports

import (
	"context"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// Service exposes report lifecycle use cases to adapters.
type Service interface {
	CreateReport(ctx context.Context, draft domain.Draft, actor identity.Actor) (*domain.Report, error)
	ListReports(ctx context.Context, actor identity.Actor) ([]*domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status string, actor identity.Actor) (*domain.Report, error)
}
