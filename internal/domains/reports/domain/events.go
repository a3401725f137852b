package domain

import "time"

// Event is the base interface for report domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	ReportID  string
	Timestamp time.Time
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func (e BaseEvent) AggregateID() string { return e.ReportID }

// ReportCreated is raised when a report is opened.
type ReportCreated struct {
	BaseEvent
	OperatorID   string
	DeliveryZone string
	Airline      string
	BDONumber    int64
}

func (e ReportCreated) EventName() string { return "reports.report.created" }

// ReportStatusChanged is raised after an accepted status transition.
type ReportStatusChanged struct {
	BaseEvent
	Status       DeliveryStatus
	DeliveryDate *time.Time
	ChangedBy    string
}

func (e ReportStatusChanged) EventName() string { return "reports.report.status_changed" }
