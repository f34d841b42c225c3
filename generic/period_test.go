package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-ledger/generic"
)

// =============================================================================
// PERIOD TESTS
// =============================================================================

func TestPeriod_Contains_InclusiveBounds(t *testing.T) {
	p := generic.Period{
		Start: generic.NewTimePoint(2024, time.February, 1),
		End:   generic.NewTimePoint(2024, time.February, 28),
	}

	assert.True(t, p.Contains(generic.NewTimePoint(2024, time.February, 1)), "start is included")
	assert.True(t, p.Contains(generic.NewTimePoint(2024, time.February, 28)), "end is included")
	assert.False(t, p.Contains(generic.NewTimePoint(2024, time.January, 31)), "day before start")
	assert.False(t, p.Contains(generic.NewTimePoint(2024, time.February, 29)), "day after end")
}

func TestPeriod_Contains_OpenBounds(t *testing.T) {
	day := generic.NewTimePoint(1999, time.June, 15)

	assert.True(t, generic.Period{}.Contains(day))
	assert.True(t, generic.Period{End: generic.NewTimePoint(2000, time.January, 1)}.Contains(day))
	assert.False(t, generic.Period{Start: generic.NewTimePoint(2000, time.January, 1)}.Contains(day))
}

func TestPeriod_ContainsKey_MalformedIsOutside(t *testing.T) {
	assert.False(t, generic.Period{}.ContainsKey("2024-13-01"))
	assert.False(t, generic.Period{}.ContainsKey("yesterday"))
	assert.True(t, generic.Period{}.ContainsKey(" 2024-01-01 "))
}

func TestNewPeriod(t *testing.T) {
	p, err := generic.NewPeriod("2024-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", p.Start.String())
	assert.True(t, p.End.IsZero())
	assert.False(t, p.Bounded())

	_, err = generic.NewPeriod("2024-02-01", "2024-01-01")
	var rangeErr *generic.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.True(t, errors.Is(err, generic.ErrInvalidRange))
	assert.True(t, generic.IsClientError(err))

	_, err = generic.NewPeriod("01/02/2024", "")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestReportPeriod(t *testing.T) {
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

	// Explicit bounds win over the month
	p, err := generic.ReportPeriod("2024-01-10", "", 2023, 5, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", p.Start.String())
	assert.True(t, p.End.IsZero())

	// Nothing given: the current month
	p, err = generic.ReportPeriod("", "", 0, 0, now)
	require.NoError(t, err)
	assert.Equal(t, generic.MonthPeriod(2024, time.March), p)

	// Month only: that month of the current year
	p, err = generic.ReportPeriod("", "", 0, 2, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", p.End.String())

	_, err = generic.ReportPeriod("", "", 2024, 13, now)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestMonthPeriod_LeapYear(t *testing.T) {
	p := generic.MonthPeriod(2024, time.February)
	assert.Equal(t, "[2024-02-01, 2024-02-29]", p.String())
	assert.Equal(t, 1, p.Months())
}

func TestPeriod_Overlaps(t *testing.T) {
	p := generic.Period{
		Start: generic.NewTimePoint(2024, time.January, 15),
		End:   generic.NewTimePoint(2024, time.March, 10),
	}
	jan := generic.MonthPeriod(2024, time.January)
	apr := generic.MonthPeriod(2024, time.April)
	dec := generic.MonthPeriod(2023, time.December)

	assert.True(t, p.Overlaps(jan.Start, jan.End))
	assert.False(t, p.Overlaps(apr.Start, apr.End))
	assert.False(t, p.Overlaps(dec.Start, dec.End))
	assert.True(t, generic.Period{}.Overlaps(dec.Start, dec.End))
}

func TestMonthsSpanned(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"2024-01-01", "2024-01-31", 1},
		{"2024-01-31", "2024-02-01", 2},
		{"2023-11-15", "2024-02-10", 4},
	}
	for _, tc := range cases {
		got := generic.MonthsSpanned(generic.MustParseDate(tc.from), generic.MustParseDate(tc.to))
		assert.Equal(t, tc.want, got, "%s..%s", tc.from, tc.to)
	}
	assert.Equal(t, 0, generic.Period{Start: generic.MustParseDate("2024-01-01")}.Months())
}

// =============================================================================
// MONEY TESTS
// =============================================================================

func TestLenientParsing(t *testing.T) {
	assert.True(t, generic.MustParseDecimal("12.5").Equal(decimal.RequireFromString("12.5")))
	assert.True(t, generic.MustParseDecimal("abc").IsZero())
	assert.True(t, generic.MustParseDecimal("").IsZero())

	assert.Equal(t, 3, generic.ParseIntOrZero("3"))
	assert.Equal(t, 3, generic.ParseIntOrZero("3.0"))
	assert.Equal(t, 0, generic.ParseIntOrZero("three"))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "112.00", generic.FormatMoney(decimal.NewFromInt(112)))
	assert.Equal(t, "0.10", generic.FormatMoney(generic.Sum(decimal.RequireFromString("0.05"), decimal.RequireFromString("0.05"))))
}
