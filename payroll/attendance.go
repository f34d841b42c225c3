package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-ledger/generic"
)

// AttendanceLine is one attended day.
type AttendanceLine struct {
	Name       string
	Phone      string
	Date       generic.TimePoint
	Weekday    time.Weekday
	Sessions   int
	DailyBonus decimal.Decimal
}

// AttendanceReport lists an hourly employee's attended days in a period.
type AttendanceReport struct {
	Name            string
	Period          generic.Period
	Lines           []AttendanceLine
	TotalSessions   int
	TotalDailyBonus decimal.Decimal
}

// AttendanceReport returns name's in-range attendance sorted by date.
func (s *Store) AttendanceReport(name string, period generic.Period) (AttendanceReport, error) {
	if err := period.Validate(); err != nil {
		return AttendanceReport{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookupKindLocked(name, KindHourly)
	if err != nil {
		return AttendanceReport{}, err
	}

	r := AttendanceReport{Name: e.Name, Period: period, Lines: attendanceLines(e, period), TotalDailyBonus: decimal.Zero}
	for _, l := range r.Lines {
		r.TotalSessions += l.Sessions
		r.TotalDailyBonus = r.TotalDailyBonus.Add(l.DailyBonus)
	}
	return r, nil
}

// AttendanceBetween returns every hourly employee's in-range attendance,
// sorted by name then date.
func (s *Store) AttendanceBetween(period generic.Period) ([]AttendanceLine, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []AttendanceLine
	for _, e := range s.employees {
		if e.Kind != KindHourly {
			continue
		}
		out = append(out, attendanceLines(e, period)...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func attendanceLines(e *Employee, period generic.Period) []AttendanceLine {
	lines := make([]AttendanceLine, 0, len(e.Attendance))
	for key, a := range e.Attendance {
		day, err := generic.ParseDate(key)
		if err != nil || !period.Contains(day) {
			continue
		}
		lines = append(lines, AttendanceLine{
			Name:       e.Name,
			Phone:      e.Phone,
			Date:       day,
			Weekday:    day.Weekday(),
			Sessions:   a.Sessions,
			DailyBonus: a.DailyBonus,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Date.Before(lines[j].Date) })
	return lines
}
