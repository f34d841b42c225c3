/*
salary.go - Salary computation engine

PURPOSE:
  Reduces one employee's ledgers over a Period into a Breakdown. Pure: the
  same employee and period always produce the same Breakdown, and nothing is
  written.

HOURLY:
  Sessions        = Σ attendance.sessions        (in range)
  DailyBonus      = Σ attendance.daily_bonus     (in range)
  Performance     = Σ performance_bonus.amount   (in range)
  MonthlyBonus    = Σ monthly_bonuses            (in range)
  Deduction       = Σ deductions.amount          (in range)
  Advance         = Σ advances                   (in range, due month also in range)
  EffectiveRate   = latest in-range monthly_rates entry, else current_rate
  SessionsSalary  = Sessions × EffectiveRate
  Net             = SessionsSalary + Performance + DailyBonus + MonthlyBonus
                    - Deduction - Advance

SALARIED:
  MonthlySalary   = Σ monthly_salaries whose month overlaps the period
                    or, when that is exactly zero and both bounds are set,
                    base salary × months spanned
  Net             = MonthlySalary + MonthlyBonus - Deduction - Advance

ADVANCE DUE DATES:
  An advance counts only when BOTH its record date and the first day of its
  due month fall in the period. An advance paid in January but due in March
  does not appear in a January report, and is not picked up by a March
  report either unless the period reaches back to January.

DEFENSIVE READING:
  Malformed date keys, malformed "{month}_{year}" keys and due months outside
  1..12 are skipped. Missing amounts are zero.
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-ledger/generic"
)

// =============================================================================
// BREAKDOWN
// =============================================================================

// Breakdown is the result of one salary computation. Hourly-only and
// salaried-only fields are zero for the other kind.
type Breakdown struct {
	Name   string
	Kind   Kind
	Phone  string
	Period generic.Period

	// Hourly
	BaseRate            decimal.Decimal
	EffectiveRate       decimal.Decimal
	Sessions            int
	SessionsSalary      decimal.Decimal
	PerformanceSessions int
	PerformanceBonus    decimal.Decimal
	DailyBonus          decimal.Decimal

	// Salaried
	BaseSalary    decimal.Decimal
	MonthlySalary decimal.Decimal

	// Both
	MonthlyBonus decimal.Decimal
	Deduction    decimal.Decimal
	Advance      decimal.Decimal
	NetSalary    decimal.Decimal
}

// Summary is the all-employees report for one period.
type Summary struct {
	Period   generic.Period
	Hourly   []Breakdown
	Salaried []Breakdown
	Total    decimal.Decimal
}

// All returns hourly breakdowns followed by salaried ones.
func (s Summary) All() []Breakdown {
	out := make([]Breakdown, 0, len(s.Hourly)+len(s.Salaried))
	out = append(out, s.Hourly...)
	return append(out, s.Salaried...)
}

// =============================================================================
// STORE ENTRY POINTS
// =============================================================================

// ComputeSalary computes one employee's breakdown.
func (s *Store) ComputeSalary(name string, period generic.Period) (Breakdown, error) {
	if err := period.Validate(); err != nil {
		return Breakdown{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookupLocked(name)
	if err != nil {
		return Breakdown{}, err
	}
	return Compute(e, period), nil
}

// ComputeAll computes every employee's breakdown, each kind sorted by name.
func (s *Store) ComputeAll(period generic.Period) (Summary, error) {
	if err := period.Validate(); err != nil {
		return Summary{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := Summary{Period: period, Total: decimal.Zero}
	for _, e := range s.employees {
		b := Compute(e, period)
		if b.Kind == KindSalaried {
			summary.Salaried = append(summary.Salaried, b)
		} else {
			summary.Hourly = append(summary.Hourly, b)
		}
		summary.Total = summary.Total.Add(b.NetSalary)
	}
	byName := func(list []Breakdown) func(i, j int) bool {
		return func(i, j int) bool { return list[i].Name < list[j].Name }
	}
	sort.Slice(summary.Hourly, byName(summary.Hourly))
	sort.Slice(summary.Salaried, byName(summary.Salaried))
	return summary, nil
}

// =============================================================================
// ENGINE
// =============================================================================

// Compute reduces e over period. The period is assumed valid.
func Compute(e *Employee, period generic.Period) Breakdown {
	b := Breakdown{
		Name:         e.Name,
		Kind:         e.Kind,
		Phone:        e.Phone,
		Period:       period,
		MonthlyBonus: sumInRange(e.MonthlyBonuses, period, identity),
		Deduction:    sumInRange(e.Deductions, period, func(d Deduction) decimal.Decimal { return d.Amount }),
		Advance:      advancesInRange(e, period),
	}

	if e.Kind == KindSalaried {
		b.BaseSalary = e.MonthlySalary
		b.MonthlySalary = salaryInRange(e, period)
		b.NetSalary = b.MonthlySalary.
			Add(b.MonthlyBonus).
			Sub(b.Deduction).
			Sub(b.Advance)
		return b
	}

	for key, a := range e.Attendance {
		if !period.ContainsKey(key) {
			continue
		}
		b.Sessions += a.Sessions
		b.DailyBonus = b.DailyBonus.Add(a.DailyBonus)
	}
	for key, pb := range e.PerformanceBonus {
		if !period.ContainsKey(key) {
			continue
		}
		b.PerformanceSessions += pb.Sessions
		b.PerformanceBonus = b.PerformanceBonus.Add(pb.Amount)
	}

	b.BaseRate = e.BaseRate
	b.EffectiveRate = effectiveRate(e, period)
	b.SessionsSalary = b.EffectiveRate.Mul(decimal.NewFromInt(int64(b.Sessions)))
	b.NetSalary = b.SessionsSalary.
		Add(b.PerformanceBonus).
		Add(b.DailyBonus).
		Add(b.MonthlyBonus).
		Sub(b.Deduction).
		Sub(b.Advance)
	return b
}

func identity(d decimal.Decimal) decimal.Decimal { return d }

func sumInRange[V any](m map[string]V, period generic.Period, amount func(V) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for key, v := range m {
		if period.ContainsKey(key) {
			total = total.Add(amount(v))
		}
	}
	return total
}

// advancesInRange applies the record-date and due-date filters together.
func advancesInRange(e *Employee, period generic.Period) decimal.Decimal {
	total := decimal.Zero
	for key, amount := range e.Advances {
		if !period.ContainsKey(key) {
			continue
		}
		if due, ok := e.AdvanceDueDates[key].Start(); ok && !period.Contains(due) {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

// effectiveRate scans the rate history newest first and takes the first
// entry inside the period.
func effectiveRate(e *Employee, period generic.Period) decimal.Decimal {
	type versioned struct {
		at   generic.TimePoint
		rate decimal.Decimal
	}
	history := make([]versioned, 0, len(e.MonthlyRates))
	for key, rate := range e.MonthlyRates {
		at, err := generic.ParseDate(key)
		if err != nil {
			continue
		}
		history = append(history, versioned{at: at, rate: rate})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].at.After(history[j].at) })

	for _, v := range history {
		if period.Contains(v.at) {
			return v.rate
		}
	}
	return e.CurrentRate
}

// salaryInRange sums the month overrides overlapping the period, falling
// back to base × months when nothing overlapped.
func salaryInRange(e *Employee, period generic.Period) decimal.Decimal {
	total := decimal.Zero
	for key, amount := range e.MonthlySalaries {
		month, year, ok := ParseMonthKey(key)
		if !ok {
			continue
		}
		start := generic.StartOfMonth(year, time.Month(month))
		end := generic.EndOfMonth(year, time.Month(month))
		if period.Overlaps(start, end) {
			total = total.Add(amount)
		}
	}

	if total.IsZero() && e.MonthlySalary.IsPositive() {
		if months := period.Months(); months > 0 {
			total = e.MonthlySalary.Mul(decimal.NewFromInt(int64(months)))
		}
	}
	return total
}
