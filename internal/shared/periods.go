package shared

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days in a location.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether the range is unset.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Bounds returns the half-open instant interval [start, end) covering both boundary days.
func (r DateRange) Bounds() (time.Time, time.Time) {
	return r.From, r.To.AddDate(0, 0, 1)
}

// Contains reports whether t falls on one of the days of the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.IsZero() {
		return true
	}
	start, end := r.Bounds()
	return !t.Before(start) && t.Before(end)
}

// ParseDateRange parses YYYY-MM-DD boundaries in loc. ok is false when either boundary is
// missing, in which case callers must not apply an implicit default range.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, bool, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return DateRange{}, false, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(DateLayout, from, loc)
	if err != nil {
		return DateRange{}, false, NewValidationError("from", "must be a date formatted YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(DateLayout, to, loc)
	if err != nil {
		return DateRange{}, false, NewValidationError("to", "must be a date formatted YYYY-MM-DD")
	}
	if end.Before(start) {
		return DateRange{}, false, NewValidationError("to", "must not be before from")
	}
	return DateRange{From: start, To: end}, true, nil
}
