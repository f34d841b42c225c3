/*
Package payroll holds the employee ledger and the salary computation engine.

PURPOSE:
  Employees are either paid per recorded session (hourly) or a recurring
  monthly amount (salaried). Each employee carries dated ledgers: attendance,
  performance bonuses, monthly bonuses, deductions, advances and rate or
  salary overrides. The engine reduces those ledgers over a period into a
  Breakdown; it never mutates them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind: hourly | salaried, the tagged variant of Employee
  - Employee: one record, every ledger always present (never nil)
  - Ledger entries: Attendance, PerformanceBonus, Deduction, DueDate

LEDGER KEYS:
  Every ledger is keyed by "YYYY-MM-DD". One entry per date: a second write
  to the same date overwrites. Monthly salary overrides are the exception,
  keyed by "{month}_{year}" without zero padding ("3_2024").

SEE ALSO:
  - store.go: Store, persistence lifecycle
  - ledger.go: Record/delete operations
  - salary.go: The computation engine
  - codec.go: Persisted document format
*/
package payroll

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-ledger/generic"
)

// =============================================================================
// KIND - Tagged variant
// =============================================================================

type Kind string

const (
	KindHourly   Kind = "hourly"
	KindSalaried Kind = "salaried"
)

// ParseKind accepts the canonical names plus the labels operators use in
// spreadsheets.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hourly", "session", "sessions", "بحصص":
		return KindHourly, nil
	case "salaried", "salary", "fixed", "راتب ثابت":
		return KindSalaried, nil
	}
	return "", &generic.InvalidInputError{Field: "kind", Value: s, Reason: "expected hourly or salaried"}
}

// =============================================================================
// LEDGER ENTRIES
// =============================================================================

type Attendance struct {
	Sessions   int
	DailyBonus decimal.Decimal
}

type PerformanceBonus struct {
	Sessions int
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

type Deduction struct {
	Amount decimal.Decimal
	Reason string
}

// DueDate is the month an advance is recovered against.
type DueDate struct {
	Month int
	Year  int
}

// IsSet reports whether both parts were recorded.
func (d DueDate) IsSet() bool { return d.Month != 0 && d.Year != 0 }

// Start returns the first day of the due month. ok is false when the due
// date is unset or the month is not a calendar month.
func (d DueDate) Start() (generic.TimePoint, bool) {
	if !d.IsSet() || !generic.ValidMonth(d.Month) {
		return generic.TimePoint{}, false
	}
	return generic.StartOfMonth(d.Year, time.Month(d.Month)), true
}

// MonthKey builds a monthly salary override key.
func MonthKey(month, year int) string {
	return fmt.Sprintf("%d_%d", month, year)
}

// ParseMonthKey splits "{month}_{year}".
func ParseMonthKey(key string) (month, year int, ok bool) {
	m, y, found := strings.Cut(key, "_")
	if !found {
		return 0, 0, false
	}
	month, err := strconv.Atoi(m)
	if err != nil || !generic.ValidMonth(month) {
		return 0, 0, false
	}
	year, err = strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is a single record for both kinds. Fields that do not apply to
// the record's Kind stay at their zero value.
type Employee struct {
	Name  string
	Kind  Kind
	Phone string

	// Hourly
	BaseRate         decimal.Decimal // onboarding rate, display only
	CurrentRate      decimal.Decimal
	Attendance       map[string]Attendance
	PerformanceBonus map[string]PerformanceBonus
	MonthlyRates     map[string]decimal.Decimal

	// Salaried
	MonthlySalary   decimal.Decimal
	MonthlySalaries map[string]decimal.Decimal

	// Both
	MonthlyBonuses  map[string]decimal.Decimal
	Deductions      map[string]Deduction
	Advances        map[string]decimal.Decimal
	AdvanceDueDates map[string]DueDate
}

func newEmployee(name string, kind Kind) *Employee {
	e := &Employee{Name: name, Kind: kind}
	e.normalize()
	return e
}

// normalize replaces nil ledgers with empty ones.
func (e *Employee) normalize() {
	if e.Attendance == nil {
		e.Attendance = make(map[string]Attendance)
	}
	if e.PerformanceBonus == nil {
		e.PerformanceBonus = make(map[string]PerformanceBonus)
	}
	if e.MonthlyRates == nil {
		e.MonthlyRates = make(map[string]decimal.Decimal)
	}
	if e.MonthlySalaries == nil {
		e.MonthlySalaries = make(map[string]decimal.Decimal)
	}
	if e.MonthlyBonuses == nil {
		e.MonthlyBonuses = make(map[string]decimal.Decimal)
	}
	if e.Deductions == nil {
		e.Deductions = make(map[string]Deduction)
	}
	if e.Advances == nil {
		e.Advances = make(map[string]decimal.Decimal)
	}
	if e.AdvanceDueDates == nil {
		e.AdvanceDueDates = make(map[string]DueDate)
	}
}

// Clone returns a deep copy.
func (e *Employee) Clone() *Employee {
	c := *e
	c.Attendance = cloneMap(e.Attendance)
	c.PerformanceBonus = cloneMap(e.PerformanceBonus)
	c.MonthlyRates = cloneMap(e.MonthlyRates)
	c.MonthlySalaries = cloneMap(e.MonthlySalaries)
	c.MonthlyBonuses = cloneMap(e.MonthlyBonuses)
	c.Deductions = cloneMap(e.Deductions)
	c.Advances = cloneMap(e.Advances)
	c.AdvanceDueDates = cloneMap(e.AdvanceDueDates)
	return &c
}

// Rate returns the figure shown next to the employee in listings: the
// current session rate or the base monthly salary.
func (e *Employee) Rate() decimal.Decimal {
	if e.Kind == KindSalaried {
		return e.MonthlySalary
	}
	return e.CurrentRate
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
