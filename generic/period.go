package generic

import (
	"strconv"
	"time"
)

// =============================================================================
// PERIOD - The window every salary computation is reduced over
// =============================================================================

// Period is an inclusive date window whose bounds are independently optional.
// A zero Start means "since the beginning", a zero End means "until now and
// beyond".
//
// Examples:
//   - February 2024:      {2024-02-01, 2024-02-29}
//   - Everything so far:  {zero, zero}
//   - From March onwards: {2024-03-01, zero}
type Period struct {
	Start TimePoint
	End   TimePoint
}

// MonthPeriod returns the calendar month as a closed period.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// NewPeriod parses optional bounds. Empty strings leave that side open.
func NewPeriod(from, to string) (Period, error) {
	var p Period
	if from != "" {
		start, err := ParseDate(from)
		if err != nil {
			return Period{}, &InvalidInputError{Field: "from", Value: from, Reason: "expected YYYY-MM-DD"}
		}
		p.Start = start
	}
	if to != "" {
		end, err := ParseDate(to)
		if err != nil {
			return Period{}, &InvalidInputError{Field: "to", Value: to, Reason: "expected YYYY-MM-DD"}
		}
		p.End = end
	}
	return p, p.Validate()
}

// ReportPeriod resolves report options. Explicit bounds win; otherwise the
// period is one calendar month, with a zero year or month taken from now.
func ReportPeriod(from, to string, year, month int, now time.Time) (Period, error) {
	if from != "" || to != "" {
		return NewPeriod(from, to)
	}
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if !ValidMonth(month) {
		return Period{}, &InvalidInputError{Field: "month", Value: strconv.Itoa(month), Reason: "expected 1-12"}
	}
	return MonthPeriod(year, time.Month(month)), nil
}

// Validate rejects a period whose start is after its end.
func (p Period) Validate() error {
	if p.Bounded() && p.Start.After(p.End) {
		return &InvalidRangeError{From: p.Start, To: p.End}
	}
	return nil
}

// Bounded reports whether both bounds are set.
func (p Period) Bounded() bool {
	return !p.Start.IsZero() && !p.End.IsZero()
}

// Contains returns true if the time point is within the period [Start, End].
// Unset bounds do not constrain.
func (p Period) Contains(t TimePoint) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && t.After(p.End) {
		return false
	}
	return true
}

// ContainsKey parses a ledger key and checks it. Malformed keys are outside
// every period.
func (p Period) ContainsKey(key string) bool {
	t, err := ParseDate(key)
	if err != nil {
		return false
	}
	return p.Contains(t)
}

// Overlaps reports whether [start, end] shares at least one day with p.
func (p Period) Overlaps(start, end TimePoint) bool {
	if !p.Start.IsZero() && end.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && start.After(p.End) {
		return false
	}
	return true
}

// Months returns the number of calendar months spanned, or 0 when either
// bound is open.
func (p Period) Months() int {
	if !p.Bounded() {
		return 0
	}
	return MonthsSpanned(p.Start, p.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	start, end := p.Start.String(), p.End.String()
	if start == "" {
		start = "-inf"
	}
	if end == "" {
		end = "+inf"
	}
	return "[" + start + ", " + end + "]"
}
