package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
	"github.com/warp/payroll-ledger/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) (*payroll.Store, *memory.Memory) {
	t.Helper()
	m := memory.New()
	return payroll.NewStore(m), m
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func period(t *testing.T, from, to string) generic.Period {
	t.Helper()
	p, err := generic.NewPeriod(from, to)
	require.NoError(t, err)
	return p
}

func registerHourly(t *testing.T, s *payroll.Store, name, rate string) {
	t.Helper()
	require.NoError(t, s.Register(context.Background(), payroll.RegisterInput{
		Name: name, Kind: payroll.KindHourly, Rate: dec(rate),
	}))
}

func registerSalaried(t *testing.T, s *payroll.Store, name, salary string) {
	t.Helper()
	require.NoError(t, s.Register(context.Background(), payroll.RegisterInput{
		Name: name, Kind: payroll.KindSalaried, Rate: dec(salary),
	}))
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

// =============================================================================
// HOURLY
// =============================================================================

func TestComputeSalary_EndToEndHourly(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// GIVEN: an hourly employee with a month of activity
	registerHourly(t, s, "Ali", "10")
	require.NoError(t, s.RecordAttendance(ctx, "Ali", "2024-02-01", 3, dec("2")))
	require.NoError(t, s.RecordAttendance(ctx, "Ali", "2024-02-05", 2, decimal.Zero))
	require.NoError(t, s.RecordPerformanceBonus(ctx, "Ali", "2024-02-03", 1, dec("10")))
	require.NoError(t, s.RecordMonthlyBonus(ctx, "Ali", "2024-02-10", dec("50")))

	// WHEN: computing February
	b, err := s.ComputeSalary("Ali", period(t, "2024-02-01", "2024-02-28"))
	require.NoError(t, err)

	// THEN: every component and the net add up
	assert.Equal(t, 5, b.Sessions)
	assertMoney(t, "10", b.EffectiveRate, "effective rate")
	assertMoney(t, "50", b.SessionsSalary, "sessions salary")
	assert.Equal(t, 1, b.PerformanceSessions)
	assertMoney(t, "10", b.PerformanceBonus, "performance bonus")
	assertMoney(t, "2", b.DailyBonus, "daily bonus")
	assertMoney(t, "50", b.MonthlyBonus, "monthly bonus")
	assertMoney(t, "0", b.Deduction, "deduction")
	assertMoney(t, "0", b.Advance, "advance")
	assertMoney(t, "112", b.NetSalary, "net")
}

func TestComputeSalary_NoEntriesIsZero(t *testing.T) {
	s, _ := newTestStore(t)
	registerHourly(t, s, "Ali", "10")

	b, err := s.ComputeSalary("Ali", period(t, "2024-02-01", "2024-02-28"))
	require.NoError(t, err)

	assert.Equal(t, 0, b.Sessions)
	assertMoney(t, "0", b.SessionsSalary, "sessions salary")
	assertMoney(t, "0", b.NetSalary, "net")
	assertMoney(t, "10", b.EffectiveRate, "falls back to current rate")
}

func TestComputeSalary_InclusiveBoundaries(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	registerHourly(t, s, "Ali", "1")

	for _, date := range []string{"2024-01-31", "2024-02-01", "2024-02-28", "2024-02-29"} {
		require.NoError(t, s.RecordAttendance(ctx, "Ali", date, 1, decimal.Zero))
	}

	b, err := s.ComputeSalary("Ali", period(t, "2024-02-01", "2024-02-28"))
	require.NoError(t, err)
	assert.Equal(t, 2, b.Sessions, "both bounds included, one day outside each excluded")
}

func TestComputeSalary_OpenBounds(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	registerHourly(t, s, "Ali", "1")
	require.NoError(t, s.RecordAttendance(ctx, "Ali", "2020-05-05", 4, decimal.Zero))
	require.NoError(t, s.RecordAttendance(ctx, "Ali", "2030-05-05", 6, decimal.Zero))

	all, err := s.ComputeSalary("Ali", generic.Period{})
	require.NoError(t, err)
	assert.Equal(t, 10, all.Sessions)

	since, err := s.ComputeSalary("Ali", period(t, "2025-01-01", ""))
	require.NoError(t, err)
	assert.Equal(t, 6, since.Sessions)

	until, err := s.ComputeSalary("Ali", period(t, "", "2025-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 4, until.Sessions)
}

func TestComputeSalary_RateVersioning(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// GIVEN: the rate changes to 5 on the 10th and to 7 on the 20th
	registerHourly(t, s, "Ali", "3")
	require.NoError(t, s.RecordPerformanceBonus(ctx, "Ali", "2024-01-10", 0, dec("5")))
	require.NoError(t, s.RecordPerformanceBonus(ctx, "Ali", "2024-01-20", 0, dec("7")))
	require.NoError(t, s.RecordAttendance(ctx, "Ali", "2024-01-12", 2, decimal.Zero))

	e, err := s.Employee("Ali")
	require.NoError(t, err)
	assertMoney(t, "7", e.CurrentRate, "current rate")
	assertMoney(t, "3", e.BaseRate, "base rate is untouched")
	assert.Len(t, e.MonthlyRates, 2)
	assert.Empty(t, e.PerformanceBonus, "zero sessions store no bonus")

	// WHEN: the window only covers the first change
	b, err := s.ComputeSalary("Ali", period(t, "2024-01-01", "2024-01-15"))
	require.NoError(t, err)

	// THEN: the rate in force inside the window applies
	assertMoney(t, "5", b.EffectiveRate, "effective rate")
	assertMoney(t, "10", b.SessionsSalary, "sessions salary")

	// Latest in-range change wins when both are in range.
	b, err = s.ComputeSalary("Ali", period(t, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)
	assertMoney(t, "7", b.EffectiveRate, "latest rate in window")

	// No change in range falls back to the current rate.
	b, err = s.ComputeSalary("Ali", period(t, "2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	assertMoney(t, "7", b.EffectiveRate, "current rate")
}

func TestCompute_RateVersioningFromLedger(t *testing.T) {
	e := &payroll.Employee{
		Name:        "Ali",
		Kind:        payroll.KindHourly,
		CurrentRate: dec("7.0"),
		MonthlyRates: map[string]decimal.Decimal{
			"2024-01-10": dec("5.0"),
			"2024-01-20": dec("7.0"),
			"garbage":    dec("99"),
		},
	}
	p := generic.Period{
		Start: generic.NewTimePoint(2024, time.January, 1),
		End:   generic.NewTimePoint(2024, time.January, 15),
	}
	assertMoney(t, "5", payroll.Compute(e, p).EffectiveRate, "effective rate")
}

func TestComputeSalary_AdvanceDueDateDoubleFilter(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	registerHourly(t, s, "Ali", "10")

	// GIVEN: an advance paid in January, due in March
	require.NoError(t, s.RecordAdvance(ctx, "Ali", "2024-01-05", dec("30"), 3, 2024))

	// THEN: January excludes it (due date outside)
	jan, err := s.ComputeSalary("Ali", period(t, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)
	assertMoney(t, "0", jan.Advance, "january")

	// AND: March excludes it (record date outside)
	mar, err := s.ComputeSalary("Ali", period(t, "2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	assertMoney(t, "0", mar.Advance, "march")

	// AND: a quarter covering both includes it
	q1, err := s.ComputeSalary("Ali", period(t, "2024-01-01", "2024-03-31"))
	require.NoError(t, err)
	assertMoney(t, "30", q1.Advance, "q1")
	assertMoney(t, "-30", q1.NetSalary, "net")
}

func TestCompute_AdvanceWithoutDueDate(t *testing.T) {
	e := &payroll.Employee{
		Kind: payroll.KindHourly,
		Advances: map[string]decimal.Decimal{
			"2024-01-05": dec("10"),
			"2024-01-06": dec("20"),
		},
		AdvanceDueDates: map[string]payroll.DueDate{
			"2024-01-06": {Month: 13, Year: 2024},
		},
	}
	b := payroll.Compute(e, generic.MonthPeriod(2024, time.January))
	assertMoney(t, "30", b.Advance, "missing and invalid due dates do not filter")
}

func TestComputeSalary_DeductionsAndMalformedKeys(t *testing.T) {
	e := &payroll.Employee{
		Kind:        payroll.KindHourly,
		CurrentRate: dec("10"),
		Attendance: map[string]payroll.Attendance{
			"2024-01-02": {Sessions: 2},
			"not-a-date": {Sessions: 100},
			"2024-02-30": {Sessions: 100},
		},
		Deductions: map[string]payroll.Deduction{
			"2024-01-03": {Amount: dec("4.5"), Reason: "late"},
		},
	}
	b := payroll.Compute(e, generic.Period{})
	assert.Equal(t, 2, b.Sessions)
	assertMoney(t, "4.5", b.Deduction, "deduction")
	assertMoney(t, "15.5", b.NetSalary, "net")
}

func TestComputeSalary_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	registerHourly(t, s, "Ali", "10")
	for i := 1; i <= 20; i++ {
		date := generic.NewTimePoint(2024, time.March, i).String()
		require.NoError(t, s.RecordAttendance(ctx, "Ali", date, i%3+1, dec("0.1")))
		require.NoError(t, s.RecordDeduction(ctx, "Ali", date, dec("0.3"), ""))
	}
	p := generic.MonthPeriod(2024, time.March)

	first, err := s.ComputeSalary("Ali", p)
	require.NoError(t, err)
	second, err := s.ComputeSalary("Ali", p)
	require.NoError(t, err)

	assert.Equal(t, first.Sessions, second.Sessions)
	assert.True(t, first.NetSalary.Equal(second.NetSalary))
	assertMoney(t, "2", first.DailyBonus, "daily bonus is exact")
}

// =============================================================================
// SALARIED
// =============================================================================

func TestComputeSalary_SalariedFallback(t *testing.T) {
	s, _ := newTestStore(t)
	registerSalaried(t, s, "Sara", "1000")

	b, err := s.ComputeSalary("Sara", period(t, "2024-01-15", "2024-03-10"))
	require.NoError(t, err)
	assertMoney(t, "1000", b.BaseSalary, "base")
	assertMoney(t, "3000", b.MonthlySalary, "three months spanned")
	assertMoney(t, "3000", b.NetSalary, "net")

	open, err := s.ComputeSalary("Sara", period(t, "2024-01-01", ""))
	require.NoError(t, err)
	assertMoney(t, "0", open.MonthlySalary, "no fallback with an open bound")
}

func TestComputeSalary_SalariedOverrides(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	registerSalaried(t, s, "Sara", "1000")

	require.NoError(t, s.SetMonthlySalary(ctx, "Sara", 2, 2024, dec("1200")))
	require.NoError(t, s.RecordMonthlyBonus(ctx, "Sara", "2024-02-20", dec("100")))
	require.NoError(t, s.RecordDeduction(ctx, "Sara", "2024-02-21", dec("50"), "absence"))
	require.NoError(t, s.RecordAdvance(ctx, "Sara", "2024-02-01", dec("200"), 2, 2024))

	// Overrides replace the fallback entirely once any overlaps.
	b, err := s.ComputeSalary("Sara", period(t, "2024-01-01", "2024-03-31"))
	require.NoError(t, err)
	assertMoney(t, "1200", b.MonthlySalary, "only the override")
	assertMoney(t, "1050", b.NetSalary, "1200 + 100 - 50 - 200")

	// A window touching one day of February still overlaps it.
	b, err = s.ComputeSalary("Sara", period(t, "2024-02-29", "2024-03-05"))
	require.NoError(t, err)
	assertMoney(t, "1200", b.MonthlySalary, "partial overlap")

	// Open windows see overrides too.
	b, err = s.ComputeSalary("Sara", generic.Period{})
	require.NoError(t, err)
	assertMoney(t, "1200", b.MonthlySalary, "unbounded")

	// An advance recovered after the window is left out.
	require.NoError(t, s.RecordAdvance(ctx, "Sara", "2024-02-01", dec("200"), 5, 2024))
	b, err = s.ComputeSalary("Sara", period(t, "2024-01-01", "2024-03-31"))
	require.NoError(t, err)
	assertMoney(t, "0", b.Advance, "due in May")
	assertMoney(t, "1250", b.NetSalary, "1200 + 100 - 50")

	e, err := s.Employee("Sara")
	require.NoError(t, err)
	assert.Contains(t, e.MonthlySalaries, "2_2024")
}

// =============================================================================
// ERRORS & SUMMARY
// =============================================================================

func TestComputeSalary_Errors(t *testing.T) {
	s, _ := newTestStore(t)
	registerHourly(t, s, "Ali", "10")

	_, err := s.ComputeSalary("Nobody", generic.Period{})
	assert.ErrorIs(t, err, generic.ErrNotFound)
	assert.True(t, generic.IsNotFound(err))

	inverted := generic.Period{
		Start: generic.NewTimePoint(2024, time.March, 1),
		End:   generic.NewTimePoint(2024, time.February, 1),
	}
	_, err = s.ComputeSalary("Ali", inverted)
	assert.ErrorIs(t, err, generic.ErrInvalidRange)
}

func TestComputeAll_Summary(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	registerHourly(t, s, "Zaid", "10")
	registerHourly(t, s, "Ali", "20")
	registerSalaried(t, s, "Sara", "1000")
	require.NoError(t, s.RecordAttendance(ctx, "Zaid", "2024-02-02", 1, decimal.Zero))
	require.NoError(t, s.RecordAttendance(ctx, "Ali", "2024-02-02", 2, decimal.Zero))

	summary, err := s.ComputeAll(generic.MonthPeriod(2024, time.February))
	require.NoError(t, err)

	require.Len(t, summary.Hourly, 2)
	assert.Equal(t, "Ali", summary.Hourly[0].Name)
	assert.Equal(t, "Zaid", summary.Hourly[1].Name)
	require.Len(t, summary.Salaried, 1)
	assert.Len(t, summary.All(), 3)
	assertMoney(t, "1050", summary.Total, "40 + 10 + 1000")
}
