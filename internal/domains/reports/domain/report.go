package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingAirline     = errors.New("airline is required")
	ErrMissingZone        = errors.New("delivery zone is required")
	ErrMissingDestination = errors.New("destination is required")
	ErrInvalidNumber      = errors.New("reference and bdo numbers must be positive")
	ErrMissingOperator    = errors.New("operator is required")
)

// Operator identifies the user who created a report.
type Operator struct {
	ID   string
	Name string
}

// Report is a baggage delivery order.
type Report struct {
	ID              string
	CreationDate    time.Time
	DeliveryDate    *time.Time
	Airline         string
	ReferenceNumber int64
	BDONumber       int64
	DeliveryZone    string
	Destination     string
	Operator        Operator
	Status          DeliveryStatus
}

// Draft carries the caller-provided fields of a new report.
type Draft struct {
	Airline         string
	ReferenceNumber int64
	BDONumber       int64
	DeliveryZone    string
	Destination     string
}

// NewReport opens a pending report owned by operator. Any status or dates the
// caller may have sent are not part of Draft and so cannot leak in.
func NewReport(draft Draft, operator Operator, now time.Time) (*Report, error) {
	report := &Report{
		CreationDate:    now,
		Airline:         strings.TrimSpace(draft.Airline),
		ReferenceNumber: draft.ReferenceNumber,
		BDONumber:       draft.BDONumber,
		DeliveryZone:    strings.TrimSpace(draft.DeliveryZone),
		Destination:     strings.TrimSpace(draft.Destination),
		Operator:        operator,
		Status:          StatusPending,
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return report, nil
}

// Validate enforces invariants on the aggregate.
func (r *Report) Validate() error {
	switch {
	case r.Airline == "":
		return ErrMissingAirline
	case r.DeliveryZone == "":
		return ErrMissingZone
	case r.Destination == "":
		return ErrMissingDestination
	case r.ReferenceNumber <= 0 || r.BDONumber <= 0:
		return ErrInvalidNumber
	case r.Operator.ID == "":
		return ErrMissingOperator
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Transition moves the report to status, stamping the delivery date when the
// report is completed.
func (r *Report) Transition(status DeliveryStatus, now time.Time) error {
	if err := CheckTransition(r.Status, status); err != nil {
		return err
	}
	r.Status = status
	if status == StatusCompleted {
		delivered := now
		r.DeliveryDate = &delivered
	}
	return nil
}

// CompletionHours is the elapsed time between creation and delivery.
func (r *Report) CompletionHours() (float64, bool) {
	if r.DeliveryDate == nil {
		return 0, false
	}
	return r.DeliveryDate.Sub(r.CreationDate).Hours(), true
}

// Clone returns a deep copy.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	clone := *r
	if r.DeliveryDate != nil {
		d := *r.DeliveryDate
		clone.DeliveryDate = &d
	}
	return &clone
}
