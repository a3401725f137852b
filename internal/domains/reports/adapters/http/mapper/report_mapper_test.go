package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
)

func TestFromDomainReport_WireNames(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	report := &domain.Report{
		ID:              "r-1",
		CreationDate:    created,
		Airline:         "Avianca",
		ReferenceNumber: 77,
		BDONumber:       1001,
		DeliveryZone:    "Norte",
		Destination:     "Centro",
		Operator:        domain.Operator{ID: "op-1", Name: "Ana Ruiz"},
		Status:          domain.StatusPending,
	}

	raw, err := json.Marshal(FromDomainReport(report))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Pendiente", decoded["delivery_status"])
	assert.Nil(t, decoded["delivery_date"])
	assert.Equal(t, map[string]any{"operator_id": "op-1", "operator_name": "Ana Ruiz"}, decoded["operator"])
	assert.EqualValues(t, 1001, decoded["bdo_number"])
}

func TestFromDomainReports_Empty(t *testing.T) {
	assert.Empty(t, FromDomainReports(nil))
	assert.NotNil(t, FromDomainReports(nil))
}
