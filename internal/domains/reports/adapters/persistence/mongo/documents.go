package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
)

// reportDocument is the stored shape of a report in the reports collection.
type reportDocument struct {
	ID              bson.ObjectID    `bson:"_id,omitempty"`
	CreationDate    time.Time        `bson:"creation_date"`
	DeliveryDate    *time.Time       `bson:"delivery_date,omitempty"`
	Airline         string           `bson:"airline"`
	ReferenceNumber int64            `bson:"reference_number"`
	BDONumber       int64            `bson:"bdo_number"`
	DeliveryZone    string           `bson:"delivery_zone"`
	Destination     string           `bson:"destination"`
	Operator        operatorDocument `bson:"operator"`
	DeliveryStatus  string           `bson:"delivery_status"`
}

type operatorDocument struct {
	ID   string `bson:"operator_id"`
	Name string `bson:"operator_name"`
}

type groupID struct {
	Day         int    `bson:"day,omitempty"`
	Month       int    `bson:"month,omitempty"`
	Year        int    `bson:"year,omitempty"`
	Zone        string `bson:"delivery_zone,omitempty"`
	Destination string `bson:"destination,omitempty"`
	Status      string `bson:"delivery_status,omitempty"`
}

type groupDocument struct {
	ID            groupID  `bson:"_id"`
	Total         int64    `bson:"total"`
	AverageMillis *float64 `bson:"average_ms"`
}

func toDocument(report *domain.Report) (reportDocument, error) {
	doc := reportDocument{
		CreationDate:    report.CreationDate,
		DeliveryDate:    report.DeliveryDate,
		Airline:         report.Airline,
		ReferenceNumber: report.ReferenceNumber,
		BDONumber:       report.BDONumber,
		DeliveryZone:    report.DeliveryZone,
		Destination:     report.Destination,
		Operator:        operatorDocument{ID: report.Operator.ID, Name: report.Operator.Name},
		DeliveryStatus:  string(report.Status),
	}
	if report.ID != "" {
		id, err := bson.ObjectIDFromHex(report.ID)
		if err != nil {
			return reportDocument{}, err
		}
		doc.ID = id
	}
	return doc, nil
}

func (d reportDocument) toDomain() *domain.Report {
	report := &domain.Report{
		ID:              d.ID.Hex(),
		CreationDate:    d.CreationDate,
		Airline:         d.Airline,
		ReferenceNumber: d.ReferenceNumber,
		BDONumber:       d.BDONumber,
		DeliveryZone:    d.DeliveryZone,
		Destination:     d.Destination,
		Operator:        domain.Operator{ID: d.Operator.ID, Name: d.Operator.Name},
		Status:          domain.DeliveryStatus(d.DeliveryStatus),
	}
	if d.DeliveryDate != nil {
		delivered := d.DeliveryDate.UTC()
		report.DeliveryDate = &delivered
	}
	report.CreationDate = report.CreationDate.UTC()
	return report
}
