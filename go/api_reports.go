package bdoserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	reporthttpmapper "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/http/mapper"
	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	reportsports "github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// ReportsAPI wires HTTP transport with the reports bounded context service and workflows.
type ReportsAPI struct {
	service   reportsports.Service
	workflows reportsports.WorkflowOrchestrator
}

// NewReportsAPI creates a ReportsAPI backed by the provided service.
func NewReportsAPI(service reportsports.Service, workflows reportsports.WorkflowOrchestrator) ReportsAPI {
	return ReportsAPI{service: service, workflows: workflows}
}

// Get /reports/
// Lists reports visible to the current user
func (api *ReportsAPI) ListReports(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	reports, err := api.service.ListReports(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reporthttpmapper.FromDomainReports(reports))
}

// Post /reports/
// Opens a pending report owned by the current user
func (api *ReportsAPI) CreateReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var payload reporthttpmapper.CreateReport
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	report, err := api.createReport(c.Request.Context(), reporthttpmapper.ToDraft(payload), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reporthttpmapper.FromDomainReport(report))
}

func (api *ReportsAPI) createReport(ctx context.Context, draft domain.Draft, actor identity.Actor) (*domain.Report, error) {
	if api.workflows != nil {
		return api.workflows.CreateReport(ctx, draft, actor)
	}
	return api.service.CreateReport(ctx, draft, actor)
}

// Put /reports/?report_id=&delivery_status=
// Moves a report to a later delivery status
func (api *ReportsAPI) UpdateReportStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	reportID := strings.TrimSpace(c.Query("report_id"))
	status := strings.TrimSpace(c.Query("delivery_status"))
	if reportID == "" || status == "" {
		respondError(c, http.StatusBadRequest, errors.New("report_id and delivery_status are required"))
		return
	}
	report, err := api.service.UpdateStatus(c.Request.Context(), reportID, status, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reporthttpmapper.FromDomainReport(report))
}
