package ports

import (
	"context"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// WorkflowOrchestrator runs report creation, durably when a workflow engine is configured.
type WorkflowOrchestrator interface {
	CreateReport(ctx context.Context, draft domain.Draft, actor identity.Actor) (*domain.Report, error)
}
