package bdoserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	dashhttpmapper "github.com/bdotrack/bdo-api/internal/domains/dashboard/adapters/http/mapper"
	dashapp "github.com/bdotrack/bdo-api/internal/domains/dashboard/application"
	dashports "github.com/bdotrack/bdo-api/internal/domains/dashboard/ports"
)

// DashAPI exposes the admin dashboard aggregations.
type DashAPI struct {
	service dashports.Service
}

// NewDashAPI wires dependencies.
func NewDashAPI(service dashports.Service) DashAPI {
	return DashAPI{service: service}
}

// Get /dash/
// Report counts bucketed by calendar period
func (api *DashAPI) GetReportCounts(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		respondServiceError(c, dashapp.ErrForbidden)
		return
	}
	year, ok := optionalIntQuery(c, "year")
	if !ok {
		return
	}
	month, ok := optionalIntQuery(c, "month")
	if !ok {
		return
	}
	query := dashports.CountsQuery{
		Filter:     c.Query("filter"),
		Year:       year,
		Month:      month,
		OperatorID: c.Query("operator_id"),
		Airline:    c.Query("airline"),
		Status:     c.Query("delivery_status"),
	}
	counts, err := api.service.ReportCounts(c.Request.Context(), actor, query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashhttpmapper.FromCounts(counts))
}

// Get /dash/average-completion-times
// Mean creation-to-delivery hours per destination of a zone
func (api *DashAPI) GetAverageCompletionTimes(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	times, err := api.service.AverageCompletionTimes(c.Request.Context(), actor, c.Query("delivery_zone"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashhttpmapper.FromCompletionTimes(times))
}

// Get /dash/status-percentages
// Share of reports per delivery status
func (api *DashAPI) GetStatusPercentages(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	items, err := api.service.StatusPercentages(c.Request.Context(), actor, c.Query("operator_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashhttpmapper.FromStatusPercentages(items))
}

func optionalIntQuery(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondServiceError(c, fmt.Errorf("%w: %s must be an integer", dashapp.ErrInvalidFilter, name))
		return 0, false
	}
	return value, true
}
