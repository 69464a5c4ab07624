package daterange

import (
	"fmt"
	"stock-trend/src/helpers"
	"stock-trend/src/models"
	"strings"
	"time"
)

// Bounds is the calendar window a chart may request.
type Bounds struct {
	Min time.Time
	Max time.Time
}

// -----------------------------------------------------------------------------

// NewBounds allows minDate through the day before ref
func NewBounds(minDate, ref time.Time) Bounds {
	return Bounds{Min: dateOf(minDate), Max: dateOf(ref).AddDate(0, 0, -1)}
}

// -----------------------------------------------------------------------------

// Validate rejects ranges that are inverted or leave the bounds
func (b Bounds) Validate(r models.MDateRange) error {
	start, end := dateOf(r.Start), dateOf(r.End)
	switch {
	case start.After(end):
		return helpers.NewValidationError(fmt.Sprintf("invalid range: start %s is after end %s", r.StartString(), r.EndString()), nil)
	case start.Before(b.Min):
		return helpers.NewValidationError(fmt.Sprintf("invalid range: start %s is before %s", r.StartString(), b.Min.Format(models.DateLayout)), nil)
	case end.After(b.Max):
		return helpers.NewValidationError(fmt.Sprintf("invalid range: end %s is after %s", r.EndString(), b.Max.Format(models.DateLayout)), nil)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Clamp pulls both ends into the bounds, for callers that prefer correction over rejection
func (b Bounds) Clamp(r models.MDateRange) models.MDateRange {
	out := models.MDateRange{Start: dateOf(r.Start), End: dateOf(r.End)}
	if out.Start.Before(b.Min) {
		out.Start = b.Min
	}
	if out.Start.After(b.Max) {
		out.Start = b.Max
	}
	if out.End.After(b.Max) {
		out.End = b.Max
	}
	if out.End.Before(out.Start) {
		out.End = out.Start
	}
	return out
}

// -----------------------------------------------------------------------------

// ParseDate parses a YYYY-MM-DD string; empty gives the zero time
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, helpers.NewValidationError(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", s), err)
	}
	return t, nil
}
