package resolve

import (
	"fmt"
	"time"

	"github.com/rickgao/crypto-aggregator/internal/errs"
)

// DateLayout is the request date format (dd-mm-yyyy), matching the origin's
// history endpoint.
const DateLayout = "02-01-2006"

// validateDate parses a request date and checks it against the allowed
// window: not in the future, not older than the configured history floor.
// Returns the date at midnight UTC.
func (e *Engine) validateDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, fmt.Errorf("%w: date", errs.ErrInvalidRequest)
	}

	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errs.ErrInvalidDateFormat, date)
	}

	today := midnightUTC(e.now())
	if parsed.After(today) {
		return time.Time{}, fmt.Errorf("%w: %q is in the future", errs.ErrDateOutOfRange, date)
	}

	floor := today.AddDate(0, 0, -e.cfg.MaxHistoryDays)
	if parsed.Before(floor) {
		return time.Time{}, fmt.Errorf("%w: %q is older than %d days", errs.ErrDateOutOfRange, date, e.cfg.MaxHistoryDays)
	}

	return parsed, nil
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay returns the last second of the given day.
func endOfDay(day time.Time) int64 {
	return day.AddDate(0, 0, 1).Add(-time.Second).Unix()
}
