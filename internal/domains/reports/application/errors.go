package application

import (
	"errors"
	"fmt"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
)

var (
	// ErrInvalidInput signals the request violated a report invariant.
	ErrInvalidInput = errors.New("invalid report input")
	// ErrNotFound is returned when the report does not exist.
	ErrNotFound = ports.ErrNotFound
	// ErrInvalidStatus is returned for unknown delivery status values.
	ErrInvalidStatus = domain.ErrInvalidStatus
	// ErrInvalidTransition wraps the reason a status change was rejected.
	ErrInvalidTransition = domain.ErrInvalidTransition
	// ErrCreationFailed is returned when an inserted report never became readable.
	ErrCreationFailed = errors.New("report creation failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingAirline) ||
		errors.Is(err, domain.ErrMissingZone) ||
		errors.Is(err, domain.ErrMissingDestination) ||
		errors.Is(err, domain.ErrInvalidNumber) ||
		errors.Is(err, domain.ErrMissingOperator) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
