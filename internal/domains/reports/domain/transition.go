package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrSameOrLowerStatus  = errors.New("cannot update to the same or lower status")
	ErrPendingToCompleted = errors.New("cannot update directly from pending to completed")
	ErrPendingToInvoiced  = errors.New("cannot update directly from pending to invoiced")
)

// CheckTransition decides whether a report may move from current to proposed.
// A nil result allows the move; a rejection wraps ErrInvalidTransition and the
// reason for it.
func CheckTransition(current, proposed DeliveryStatus) error {
	if !current.Valid() || !proposed.Valid() {
		return ErrInvalidStatus
	}
	var reason error
	switch {
	case proposed.Rank() <= current.Rank():
		reason = ErrSameOrLowerStatus
	case current == StatusPending && proposed == StatusCompleted:
		reason = ErrPendingToCompleted
	case current == StatusPending && proposed == StatusInvoiced:
		reason = ErrPendingToInvoiced
	default:
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTransition, reason)
}
