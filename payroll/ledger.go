package payroll

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-ledger/generic"
)

// =============================================================================
// REGISTRATION
// =============================================================================

// RegisterInput describes a new employee. Rate is the session rate for
// hourly employees and the base monthly salary for salaried ones.
type RegisterInput struct {
	Name  string
	Kind  Kind
	Rate  decimal.Decimal
	Phone string
}

// Register adds an employee. Names are unique across both kinds.
func (s *Store) Register(ctx context.Context, in RegisterInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &generic.InvalidInputError{Field: "name", Reason: "required"}
	}
	if in.Kind != KindHourly && in.Kind != KindSalaried {
		return &generic.InvalidInputError{Field: "kind", Value: string(in.Kind), Reason: "expected hourly or salaried"}
	}

	return s.mutate(ctx, func() error {
		if _, exists := s.employees[name]; exists {
			return &generic.DuplicateNameError{Name: name}
		}
		e := newEmployee(name, in.Kind)
		e.Phone = strings.TrimSpace(in.Phone)
		switch in.Kind {
		case KindHourly:
			e.BaseRate = in.Rate
			e.CurrentRate = in.Rate
		case KindSalaried:
			e.MonthlySalary = in.Rate
		}
		s.employees[name] = e
		return nil
	})
}

// UpdateInput edits an employee. Nil fields are left alone; an empty NewName
// keeps the current name.
type UpdateInput struct {
	NewName string
	Phone   *string
	Rate    *decimal.Decimal
}

// UpdateEmployee edits contact details and the current rate or base salary.
// Renaming carries every ledger along.
func (s *Store) UpdateEmployee(ctx context.Context, name string, in UpdateInput) error {
	return s.mutate(ctx, func() error {
		e, err := s.lookupLocked(name)
		if err != nil {
			return err
		}
		if in.Phone != nil {
			e.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Rate != nil {
			if e.Kind == KindSalaried {
				e.MonthlySalary = *in.Rate
			} else {
				e.CurrentRate = *in.Rate
			}
		}
		newName := strings.TrimSpace(in.NewName)
		if newName != "" && newName != name {
			if _, exists := s.employees[newName]; exists {
				return &generic.DuplicateNameError{Name: newName}
			}
			delete(s.employees, name)
			e.Name = newName
			s.employees[newName] = e
		}
		return nil
	})
}

// Delete removes the record and all of its ledgers.
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.mutate(ctx, func() error {
		if _, err := s.lookupLocked(name); err != nil {
			return err
		}
		delete(s.employees, name)
		return nil
	})
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceEntry is one row of a daily attendance sheet.
type AttendanceEntry struct {
	Name       string
	Sessions   int
	DailyBonus decimal.Decimal
}

// RecordAttendance overwrites the entry for date. Zero sessions means "did
// not attend": the date is removed instead of stored.
func (s *Store) RecordAttendance(ctx context.Context, name, date string, sessions int, dailyBonus decimal.Decimal) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		e, err := s.lookupKindLocked(name, KindHourly)
		if err != nil {
			return err
		}
		applyAttendance(e, key, sessions, dailyBonus)
		return nil
	})
}

// RecordDailyAttendance records a whole day for several employees and saves
// once. Any unknown or salaried employee fails the batch.
func (s *Store) RecordDailyAttendance(ctx context.Context, date string, entries []AttendanceEntry) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		for _, entry := range entries {
			e, err := s.lookupKindLocked(entry.Name, KindHourly)
			if err != nil {
				return err
			}
			applyAttendance(e, key, entry.Sessions, entry.DailyBonus)
		}
		return nil
	})
}

func applyAttendance(e *Employee, key string, sessions int, dailyBonus decimal.Decimal) {
	if sessions == 0 {
		delete(e.Attendance, key)
		return
	}
	e.Attendance[key] = Attendance{Sessions: sessions, DailyBonus: dailyBonus}
}

// DeleteAttendance removes a single day.
func (s *Store) DeleteAttendance(ctx context.Context, name, date string) error {
	return deleteEntry(ctx, s, name, date, "attendance", func(e *Employee) map[string]Attendance { return e.Attendance })
}

// =============================================================================
// BONUSES
// =============================================================================

// BonusEntry is one row of a collective bonus sheet.
type BonusEntry struct {
	Name         string
	Sessions     int
	Rate         decimal.Decimal
	MonthlyBonus decimal.Decimal
}

// RecordPerformanceBonus stores sessions × rate when sessions > 0. A positive
// rate that differs from the current rate also becomes the new current rate
// and is versioned under date, whether or not any sessions were recorded.
func (s *Store) RecordPerformanceBonus(ctx context.Context, name, date string, sessions int, rate decimal.Decimal) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		e, err := s.lookupKindLocked(name, KindHourly)
		if err != nil {
			return err
		}
		applyPerformanceBonus(e, key, sessions, rate)
		return nil
	})
}

// RecordCollectiveBonus records performance and monthly bonuses for several
// employees on one date and saves once.
func (s *Store) RecordCollectiveBonus(ctx context.Context, date string, entries []BonusEntry) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		for _, entry := range entries {
			e, err := s.lookupKindLocked(entry.Name, KindHourly)
			if err != nil {
				return err
			}
			applyPerformanceBonus(e, key, entry.Sessions, entry.Rate)
			applyMonthlyBonus(e, key, entry.MonthlyBonus)
		}
		return nil
	})
}

func applyPerformanceBonus(e *Employee, key string, sessions int, rate decimal.Decimal) {
	if sessions > 0 {
		e.PerformanceBonus[key] = PerformanceBonus{
			Sessions: sessions,
			Rate:     rate,
			Amount:   rate.Mul(decimal.NewFromInt(int64(sessions))),
		}
	}
	if rate.IsPositive() && !rate.Equal(e.CurrentRate) {
		e.MonthlyRates[key] = rate
		e.CurrentRate = rate
	}
}

// DeletePerformanceBonus removes a single day's performance bonus. The rate
// history is left alone.
func (s *Store) DeletePerformanceBonus(ctx context.Context, name, date string) error {
	return deleteEntry(ctx, s, name, date, "performance bonus", func(e *Employee) map[string]PerformanceBonus { return e.PerformanceBonus })
}

// RecordMonthlyBonus stores amount when it is positive; otherwise it is a
// no-op for an existing employee.
func (s *Store) RecordMonthlyBonus(ctx context.Context, name, date string, amount decimal.Decimal) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		e, err := s.lookupLocked(name)
		if err != nil {
			return err
		}
		applyMonthlyBonus(e, key, amount)
		return nil
	})
}

func applyMonthlyBonus(e *Employee, key string, amount decimal.Decimal) {
	if amount.IsPositive() {
		e.MonthlyBonuses[key] = amount
	}
}

func (s *Store) DeleteMonthlyBonus(ctx context.Context, name, date string) error {
	return deleteEntry(ctx, s, name, date, "monthly bonus", func(e *Employee) map[string]decimal.Decimal { return e.MonthlyBonuses })
}

// =============================================================================
// DEDUCTIONS & ADVANCES
// =============================================================================

func (s *Store) RecordDeduction(ctx context.Context, name, date string, amount decimal.Decimal, reason string) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		e, err := s.lookupLocked(name)
		if err != nil {
			return err
		}
		e.Deductions[key] = Deduction{Amount: amount, Reason: reason}
		return nil
	})
}

func (s *Store) DeleteDeduction(ctx context.Context, name, date string) error {
	return deleteEntry(ctx, s, name, date, "deduction", func(e *Employee) map[string]Deduction { return e.Deductions })
}

// RecordAdvance writes the advance and its due month together.
func (s *Store) RecordAdvance(ctx context.Context, name, date string, amount decimal.Decimal, dueMonth, dueYear int) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	if !generic.ValidMonth(dueMonth) {
		return &generic.InvalidInputError{Field: "due_month", Value: itoa(dueMonth), Reason: "expected 1-12"}
	}
	if dueYear <= 0 {
		return &generic.InvalidInputError{Field: "due_year", Value: itoa(dueYear), Reason: "required"}
	}
	return s.mutate(ctx, func() error {
		e, err := s.lookupLocked(name)
		if err != nil {
			return err
		}
		e.Advances[key] = amount
		e.AdvanceDueDates[key] = DueDate{Month: dueMonth, Year: dueYear}
		return nil
	})
}

// DeleteAdvance removes the advance and its due month.
func (s *Store) DeleteAdvance(ctx context.Context, name, date string) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		e, err := s.lookupLocked(name)
		if err != nil {
			return err
		}
		if _, ok := e.Advances[key]; !ok {
			return &generic.NotFoundError{Name: name, Ledger: "advance", Date: key}
		}
		delete(e.Advances, key)
		delete(e.AdvanceDueDates, key)
		return nil
	})
}

// =============================================================================
// SALARY OVERRIDES
// =============================================================================

// SetMonthlySalary overrides the base salary for one calendar month.
func (s *Store) SetMonthlySalary(ctx context.Context, name string, month, year int, amount decimal.Decimal) error {
	if !generic.ValidMonth(month) {
		return &generic.InvalidInputError{Field: "month", Value: itoa(month), Reason: "expected 1-12"}
	}
	return s.mutate(ctx, func() error {
		e, err := s.lookupKindLocked(name, KindSalaried)
		if err != nil {
			return err
		}
		e.MonthlySalaries[MonthKey(month, year)] = amount
		return nil
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// ledgerKey normalizes a date string into its canonical key.
func ledgerKey(date string) (string, error) {
	tp, err := generic.ParseDate(date)
	if err != nil {
		return "", err
	}
	return tp.String(), nil
}

func deleteEntry[V any](ctx context.Context, s *Store, name, date, ledger string, pick func(*Employee) map[string]V) error {
	key, err := ledgerKey(date)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		e, err := s.lookupLocked(name)
		if err != nil {
			return err
		}
		m := pick(e)
		if _, ok := m[key]; !ok {
			return &generic.NotFoundError{Name: name, Ledger: ledger, Date: key}
		}
		delete(m, key)
		return nil
	})
}

func itoa(n int) string { return strconv.Itoa(n) }
