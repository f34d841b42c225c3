/*
Package generic provides the primitives the payroll engine is built on.

PURPOSE:
  Calendar days, open-bounded periods, money helpers and the error taxonomy.
  Nothing in here knows what an employee is; the payroll package layers the
  ledger and salary rules on top.

KEY CONCEPTS:
  - TimePoint: A calendar day, also the ledger key ("YYYY-MM-DD")
  - Period: Inclusive window with optional bounds
  - Money: decimal.Decimal, never float64

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Leniency at the edges: malformed numbers from files and imports become
     zero instead of failing a whole batch
  3. Strictness in the core: ranges are validated once, at the boundary

SEE ALSO:
  - period.go: Period and month windows
  - errors.go: Error taxonomy
*/
package generic

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY
// =============================================================================

// MustParseDecimal parses s, returning zero when s is not a number.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseIntOrZero parses a whole count. "3.0" is accepted as 3, anything
// unparseable is zero.
func ParseIntOrZero(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return int(d.IntPart())
}

// Sum adds values in order.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// FormatMoney renders an amount with two decimals, the way every report
// shows money.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
