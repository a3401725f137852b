package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashports "github.com/bdotrack/bdo-api/internal/domains/dashboard/ports"
	reportsdomain "github.com/bdotrack/bdo-api/internal/domains/reports/domain"
)

func TestFromCounts_NullsUnbucketedFields(t *testing.T) {
	resp := FromCounts(&dashports.Counts{Rows: []dashports.CountRow{
		{Month: "Ene", Year: 2024, Total: 3},
		{Year: 2023, Total: 9},
	}})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"reports": [
			{"day": null, "month": "Ene", "year": 2024, "total_count": 3},
			{"day": null, "month": null, "year": 2023, "total_count": 9}
		],
		"reports_data": []
	}`, string(raw))
}

func TestFromStatusPercentages(t *testing.T) {
	resp := FromStatusPercentages([]dashports.StatusPercentage{
		{Status: reportsdomain.StatusCompleted, Percentage: 50},
	})
	assert.Equal(t, []StatusPercentage{{Status: "Finalizado", Percentage: 50}}, resp.Statuses)
	assert.NotNil(t, FromCompletionTimes(nil).CompletionTimes)
}
