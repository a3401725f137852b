package domain

import (
	"errors"
	"fmt"
	"time"
)

// Period names a report-count time window.
type Period string

const (
	PeriodFifteenDays Period = "15 days"
	PeriodMonthly     Period = "monthly"
	PeriodYear        Period = "year"
	PeriodAllYears    Period = "all years"
)

// AllAirlines disables airline filtering.
const AllAirlines = "Todas"

var (
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidYear   = errors.New("year must be positive")
)

// Window is a resolved period: the half-open time range to count in and the
// calendar granularity of the buckets. Year is always a bucket key.
type Window struct {
	Period  Period
	From    *time.Time
	To      *time.Time
	ByDay   bool
	ByMonth bool
}

// IncludesRows reports whether the raw reports backing the buckets are returned.
func (w Window) IncludesRows() bool {
	return w.Period == PeriodFifteenDays || w.Period == PeriodMonthly
}

// ResolveWindow turns a period name and optional year/month (0 when absent)
// into a Window relative to now, using calendar boundaries in loc.
func ResolveWindow(period string, year, month int, now time.Time, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	switch Period(period) {
	case PeriodFifteenDays:
		from := now.AddDate(0, 0, -15)
		to := now
		return Window{Period: PeriodFifteenDays, From: &from, To: &to, ByDay: true, ByMonth: true}, nil
	case PeriodMonthly:
		if month < 0 || month > 12 {
			return Window{}, fmt.Errorf("%w: %w", ErrInvalidFilter, ErrInvalidMonth)
		}
		if year < 0 {
			return Window{}, fmt.Errorf("%w: %w", ErrInvalidFilter, ErrInvalidYear)
		}
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		if year != 0 && month != 0 {
			start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		}
		end := start.AddDate(0, 1, 0)
		return Window{Period: PeriodMonthly, From: &start, To: &end, ByDay: true, ByMonth: true}, nil
	case PeriodYear:
		if year != 0 {
			if year < 0 {
				return Window{}, fmt.Errorf("%w: %w", ErrInvalidFilter, ErrInvalidYear)
			}
			start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
			end := start.AddDate(1, 0, 0)
			return Window{Period: PeriodYear, From: &start, To: &end, ByMonth: true}, nil
		}
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end := now
		return Window{Period: PeriodYear, From: &start, To: &end, ByMonth: true}, nil
	case PeriodAllYears:
		return Window{Period: PeriodAllYears}, nil
	default:
		return Window{}, fmt.Errorf("%w: unknown filter %q", ErrInvalidFilter, period)
	}
}

var monthLabels = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// MonthLabel returns the three-letter Spanish label for month 1-12, "" otherwise.
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthLabels[month-1]
}
