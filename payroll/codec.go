/*
codec.go - Persisted document format

PURPOSE:
  Maps a Snapshot to and from the on-disk JSON document:

    {
        "employees":       { "<name>": { hourly record } },
        "other_employees": { "<name>": { salaried record } },
        "users":           { "<username>": "<hash>" }
    }

  Numbers are written as JSON numbers. Reading is lenient: a number may
  arrive as a string, a missing or malformed amount reads as zero, and a
  missing ledger reads as an empty one. Files written by earlier versions
  carry no base_rate; it defaults to current_rate.

  A name present in both maps is kept as hourly.
*/
package payroll

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LENIENT SCALARS
// =============================================================================

// number is a decimal that is written unquoted and read from either a JSON
// number or a string. Anything unparseable is zero.
type number struct{ decimal.Decimal }

func num(d decimal.Decimal) number { return number{d} }

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		d = decimal.Zero
	}
	n.Decimal = d
	return nil
}

// count is an int read from a JSON number ("3" or "3.0") or a string.
type count int

func (c *count) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if i, err := strconv.Atoi(s); err == nil {
		*c = count(i)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*c = count(int(f))
		return nil
	}
	*c = 0
	return nil
}

// =============================================================================
// RECORDS
// =============================================================================

type attendanceRecord struct {
	Sessions   count  `json:"sessions"`
	DailyBonus number `json:"daily_bonus"`
}

type performanceRecord struct {
	Sessions count  `json:"sessions"`
	Amount   number `json:"amount"`
	Rate     number `json:"rate"`
}

type deductionRecord struct {
	Amount number `json:"amount"`
	Reason string `json:"reason"`
}

type dueDateRecord struct {
	Month count `json:"month"`
	Year  count `json:"year"`
}

type hourlyRecord struct {
	Phone            string                       `json:"phone,omitempty"`
	BaseRate         *number                      `json:"base_rate,omitempty"`
	CurrentRate      number                       `json:"current_rate"`
	Attendance       map[string]attendanceRecord  `json:"attendance"`
	PerformanceBonus map[string]performanceRecord `json:"performance_bonus"`
	MonthlyBonuses   map[string]number            `json:"monthly_bonuses"`
	Deductions       map[string]deductionRecord   `json:"deductions"`
	Advances         map[string]number            `json:"advances"`
	AdvanceDueDates  map[string]dueDateRecord     `json:"advance_due_dates"`
	MonthlyRates     map[string]number            `json:"monthly_rates"`
}

type salariedRecord struct {
	Phone           string                     `json:"phone,omitempty"`
	MonthlySalary   number                     `json:"monthly_salary"`
	MonthlySalaries map[string]number          `json:"monthly_salaries"`
	MonthlyBonuses  map[string]number          `json:"monthly_bonuses"`
	Deductions      map[string]deductionRecord `json:"deductions"`
	Advances        map[string]number          `json:"advances"`
	AdvanceDueDates map[string]dueDateRecord   `json:"advance_due_dates"`
}

type document struct {
	Employees      map[string]hourlyRecord   `json:"employees"`
	OtherEmployees map[string]salariedRecord `json:"other_employees"`
	Users          map[string]string         `json:"users"`
}

// =============================================================================
// ENCODE
// =============================================================================

// MarshalJSON writes the persisted document. HTML characters and non-ASCII
// names are written as-is.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	doc := document{
		Employees:      make(map[string]hourlyRecord),
		OtherEmployees: make(map[string]salariedRecord),
		Users:          make(map[string]string, len(s.Users)),
	}
	for name, e := range s.Employees {
		if e.Kind == KindSalaried {
			doc.OtherEmployees[name] = encodeSalaried(e)
		} else {
			doc.Employees[name] = encodeHourly(e)
		}
	}
	for user, hash := range s.Users {
		doc.Users[user] = hash
	}
	return marshalUnescaped(doc)
}

// EncodeEmployee writes a single record in the same shape it takes inside
// the persisted document.
func EncodeEmployee(e *Employee) ([]byte, error) {
	if e.Kind == KindSalaried {
		return marshalUnescaped(encodeSalaried(e))
	}
	return marshalUnescaped(encodeHourly(e))
}

func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func encodeHourly(e *Employee) hourlyRecord {
	base := num(e.BaseRate)
	r := hourlyRecord{
		Phone:            e.Phone,
		BaseRate:         &base,
		CurrentRate:      num(e.CurrentRate),
		Attendance:       make(map[string]attendanceRecord, len(e.Attendance)),
		PerformanceBonus: make(map[string]performanceRecord, len(e.PerformanceBonus)),
		MonthlyBonuses:   encodeAmounts(e.MonthlyBonuses),
		Deductions:       encodeDeductions(e.Deductions),
		Advances:         encodeAmounts(e.Advances),
		AdvanceDueDates:  encodeDueDates(e.AdvanceDueDates),
		MonthlyRates:     encodeAmounts(e.MonthlyRates),
	}
	for key, a := range e.Attendance {
		r.Attendance[key] = attendanceRecord{Sessions: count(a.Sessions), DailyBonus: num(a.DailyBonus)}
	}
	for key, pb := range e.PerformanceBonus {
		r.PerformanceBonus[key] = performanceRecord{Sessions: count(pb.Sessions), Amount: num(pb.Amount), Rate: num(pb.Rate)}
	}
	return r
}

func encodeSalaried(e *Employee) salariedRecord {
	return salariedRecord{
		Phone:           e.Phone,
		MonthlySalary:   num(e.MonthlySalary),
		MonthlySalaries: encodeAmounts(e.MonthlySalaries),
		MonthlyBonuses:  encodeAmounts(e.MonthlyBonuses),
		Deductions:      encodeDeductions(e.Deductions),
		Advances:        encodeAmounts(e.Advances),
		AdvanceDueDates: encodeDueDates(e.AdvanceDueDates),
	}
}

func encodeAmounts(m map[string]decimal.Decimal) map[string]number {
	out := make(map[string]number, len(m))
	for k, v := range m {
		out[k] = num(v)
	}
	return out
}

func encodeDeductions(m map[string]Deduction) map[string]deductionRecord {
	out := make(map[string]deductionRecord, len(m))
	for k, d := range m {
		out[k] = deductionRecord{Amount: num(d.Amount), Reason: d.Reason}
	}
	return out
}

func encodeDueDates(m map[string]DueDate) map[string]dueDateRecord {
	out := make(map[string]dueDateRecord, len(m))
	for k, d := range m {
		out[k] = dueDateRecord{Month: count(d.Month), Year: count(d.Year)}
	}
	return out
}

// =============================================================================
// DECODE
// =============================================================================

// UnmarshalJSON reads the persisted document.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*s = *NewSnapshot()
	for name, r := range doc.OtherEmployees {
		s.Employees[name] = decodeSalaried(name, r)
	}
	for name, r := range doc.Employees {
		s.Employees[name] = decodeHourly(name, r)
	}
	for user, hash := range doc.Users {
		s.Users[user] = hash
	}
	return nil
}

// DecodeEmployee reads a single record written by EncodeEmployee.
func DecodeEmployee(name string, kind Kind, data []byte) (*Employee, error) {
	if kind == KindSalaried {
		var r salariedRecord
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return decodeSalaried(name, r), nil
	}
	var r hourlyRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return decodeHourly(name, r), nil
}

func decodeHourly(name string, r hourlyRecord) *Employee {
	e := newEmployee(name, KindHourly)
	e.Phone = r.Phone
	e.CurrentRate = r.CurrentRate.Decimal
	e.BaseRate = e.CurrentRate
	if r.BaseRate != nil {
		e.BaseRate = r.BaseRate.Decimal
	}
	for key, a := range r.Attendance {
		e.Attendance[key] = Attendance{Sessions: int(a.Sessions), DailyBonus: a.DailyBonus.Decimal}
	}
	for key, pb := range r.PerformanceBonus {
		e.PerformanceBonus[key] = PerformanceBonus{Sessions: int(pb.Sessions), Rate: pb.Rate.Decimal, Amount: pb.Amount.Decimal}
	}
	decodeAmounts(e.MonthlyRates, r.MonthlyRates)
	decodeAmounts(e.MonthlyBonuses, r.MonthlyBonuses)
	decodeAmounts(e.Advances, r.Advances)
	decodeDeductions(e.Deductions, r.Deductions)
	decodeDueDates(e.AdvanceDueDates, r.AdvanceDueDates)
	return e
}

func decodeSalaried(name string, r salariedRecord) *Employee {
	e := newEmployee(name, KindSalaried)
	e.Phone = r.Phone
	e.MonthlySalary = r.MonthlySalary.Decimal
	decodeAmounts(e.MonthlySalaries, r.MonthlySalaries)
	decodeAmounts(e.MonthlyBonuses, r.MonthlyBonuses)
	decodeAmounts(e.Advances, r.Advances)
	decodeDeductions(e.Deductions, r.Deductions)
	decodeDueDates(e.AdvanceDueDates, r.AdvanceDueDates)
	return e
}

func decodeAmounts(dst map[string]decimal.Decimal, src map[string]number) {
	for k, v := range src {
		dst[k] = v.Decimal
	}
}

func decodeDeductions(dst map[string]Deduction, src map[string]deductionRecord) {
	for k, d := range src {
		dst[k] = Deduction{Amount: d.Amount.Decimal, Reason: d.Reason}
	}
}

func decodeDueDates(dst map[string]DueDate, src map[string]dueDateRecord) {
	for k, d := range src {
		dst[k] = DueDate{Month: int(d.Month), Year: int(d.Year)}
	}
}
