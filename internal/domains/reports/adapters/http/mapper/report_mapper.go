package mapper

import (
	"time"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
)

// Operator is the embedded operator of a report on the wire.
type Operator struct {
	ID   string `json:"operator_id"`
	Name string `json:"operator_name"`
}

// Report is the HTTP representation of a delivery order report.
type Report struct {
	ID              string     `json:"id"`
	CreationDate    time.Time  `json:"creation_date"`
	DeliveryDate    *time.Time `json:"delivery_date"`
	Airline         string     `json:"airline"`
	ReferenceNumber int64      `json:"reference_number"`
	BDONumber       int64      `json:"bdo_number"`
	DeliveryZone    string     `json:"delivery_zone"`
	Destination     string     `json:"destination"`
	Operator        Operator   `json:"operator"`
	Status          string     `json:"delivery_status"`
}

// CreateReport captures the inbound payload for opening a report. Operator
// and status are never read from the client.
type CreateReport struct {
	Airline         string `json:"airline" binding:"required"`
	ReferenceNumber int64  `json:"reference_number" binding:"required"`
	BDONumber       int64  `json:"bdo_number" binding:"required"`
	DeliveryZone    string `json:"delivery_zone" binding:"required"`
	Destination     string `json:"destination" binding:"required"`
}

// ToDraft converts the creation payload into a domain draft.
func ToDraft(payload CreateReport) domain.Draft {
	return domain.Draft{
		Airline:         payload.Airline,
		ReferenceNumber: payload.ReferenceNumber,
		BDONumber:       payload.BDONumber,
		DeliveryZone:    payload.DeliveryZone,
		Destination:     payload.Destination,
	}
}

// FromDomainReport converts a domain report to the transport representation.
func FromDomainReport(report *domain.Report) Report {
	if report == nil {
		return Report{}
	}
	return Report{
		ID:              report.ID,
		CreationDate:    report.CreationDate,
		DeliveryDate:    report.DeliveryDate,
		Airline:         report.Airline,
		ReferenceNumber: report.ReferenceNumber,
		BDONumber:       report.BDONumber,
		DeliveryZone:    report.DeliveryZone,
		Destination:     report.Destination,
		Operator:        Operator{ID: report.Operator.ID, Name: report.Operator.Name},
		Status:          report.Status.String(),
	}
}

// FromDomainReports converts a slice of domain reports.
func FromDomainReports(reports []*domain.Report) []Report {
	result := make([]Report, 0, len(reports))
	for _, report := range reports {
		result = append(result, FromDomainReport(report))
	}
	return result
}
