package domain

import (
	"errors"
	"strings"
)

// DeliveryStatus enumerates report progression. Values are the wire strings
// stored with each report and must not change.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "Pendiente"
	StatusActive    DeliveryStatus = "Activo"
	StatusCompleted DeliveryStatus = "Finalizado"
	StatusInvoiced  DeliveryStatus = "Facturado"
)

var ErrInvalidStatus = errors.New("delivery status is invalid")

// statusRank orders statuses; higher means further along. Edit here to add
// or reorder statuses.
var statusRank = map[DeliveryStatus]int{
	StatusPending:   1,
	StatusActive:    2,
	StatusCompleted: 3,
	StatusInvoiced:  4,
}

// Statuses returns every known status ordered by rank.
func Statuses() []DeliveryStatus {
	return []DeliveryStatus{StatusPending, StatusActive, StatusCompleted, StatusInvoiced}
}

// ParseStatus maps a wire value onto a known status.
func ParseStatus(raw string) (DeliveryStatus, error) {
	status := DeliveryStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s DeliveryStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the position of the status in the lifecycle, 0 when unknown.
func (s DeliveryStatus) Rank() int {
	return statusRank[s]
}

// Closed reports whether the delivery has happened. Closed reports carry a
// delivery date.
func (s DeliveryStatus) Closed() bool {
	return s == StatusCompleted || s == StatusInvoiced
}

func (s DeliveryStatus) String() string { return string(s) }
