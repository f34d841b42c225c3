/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the payroll model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts are decimal.Decimal. Requests accept JSON numbers or strings;
  responses carry strings so no precision is lost in transit.

VALIDATION:
  Request types carry go-playground/validator tags, checked by decode() in
  handlers.go before anything reaches the store.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-ledger/importer"
	"github.com/warp/payroll-ledger/payroll"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO is the listing view of an employee. Rate is the current
// session rate or the base monthly salary.
type EmployeeDTO struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
	Phone string          `json:"phone"`
	Rate  decimal.Decimal `json:"rate"`
}

// EmployeeDetailDTO carries every ledger.
type EmployeeDetailDTO struct {
	EmployeeDTO
	BaseRate         decimal.Decimal                `json:"base_rate"`
	Attendance       map[string]AttendanceDTO       `json:"attendance,omitempty"`
	PerformanceBonus map[string]PerformanceBonusDTO `json:"performance_bonus,omitempty"`
	MonthlyRates     map[string]decimal.Decimal     `json:"monthly_rates,omitempty"`
	MonthlySalaries  map[string]decimal.Decimal     `json:"monthly_salaries,omitempty"`
	MonthlyBonuses   map[string]decimal.Decimal     `json:"monthly_bonuses"`
	Deductions       map[string]DeductionDTO        `json:"deductions"`
	Advances         map[string]AdvanceDTO          `json:"advances"`
}

type AttendanceDTO struct {
	Sessions   int             `json:"sessions"`
	DailyBonus decimal.Decimal `json:"daily_bonus"`
}

type PerformanceBonusDTO struct {
	Sessions int             `json:"sessions"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

type DeductionDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

type AdvanceDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	DueMonth int             `json:"due_month"`
	DueYear  int             `json:"due_year"`
}

// CreateEmployeeRequest registers an employee. Rate is the session rate for
// hourly employees and the base monthly salary for salaried ones.
type CreateEmployeeRequest struct {
	Name  string          `json:"name" validate:"required"`
	Kind  string          `json:"kind" validate:"required"`
	Rate  decimal.Decimal `json:"rate"`
	Phone string          `json:"phone"`
}

// UpdateEmployeeRequest edits an employee. Omitted fields are left alone.
type UpdateEmployeeRequest struct {
	Name  string           `json:"name"`
	Phone *string          `json:"phone"`
	Rate  *decimal.Decimal `json:"rate"`
}

func toEmployeeDTO(e *payroll.Employee) EmployeeDTO {
	return EmployeeDTO{
		Name:  e.Name,
		Kind:  string(e.Kind),
		Phone: e.Phone,
		Rate:  e.Rate(),
	}
}

func toEmployeeDetailDTO(e *payroll.Employee) EmployeeDetailDTO {
	dto := EmployeeDetailDTO{
		EmployeeDTO:    toEmployeeDTO(e),
		MonthlyBonuses: e.MonthlyBonuses,
		Deductions:     make(map[string]DeductionDTO, len(e.Deductions)),
		Advances:       make(map[string]AdvanceDTO, len(e.Advances)),
	}
	for date, d := range e.Deductions {
		dto.Deductions[date] = DeductionDTO{Amount: d.Amount, Reason: d.Reason}
	}
	for date, amount := range e.Advances {
		due := e.AdvanceDueDates[date]
		dto.Advances[date] = AdvanceDTO{Amount: amount, DueMonth: due.Month, DueYear: due.Year}
	}

	if e.Kind == payroll.KindSalaried {
		dto.MonthlySalaries = e.MonthlySalaries
		return dto
	}

	dto.BaseRate = e.BaseRate
	dto.MonthlyRates = e.MonthlyRates
	dto.Attendance = make(map[string]AttendanceDTO, len(e.Attendance))
	for date, a := range e.Attendance {
		dto.Attendance[date] = AttendanceDTO{Sessions: a.Sessions, DailyBonus: a.DailyBonus}
	}
	dto.PerformanceBonus = make(map[string]PerformanceBonusDTO, len(e.PerformanceBonus))
	for date, pb := range e.PerformanceBonus {
		dto.PerformanceBonus[date] = PerformanceBonusDTO{Sessions: pb.Sessions, Rate: pb.Rate, Amount: pb.Amount}
	}
	return dto
}

// =============================================================================
// LEDGER ENTRIES
// =============================================================================

type AttendanceRequest struct {
	Sessions   int             `json:"sessions" validate:"gte=0"`
	DailyBonus decimal.Decimal `json:"daily_bonus"`
}

type PerformanceBonusRequest struct {
	Sessions int             `json:"sessions" validate:"gte=0"`
	Rate     decimal.Decimal `json:"rate"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type DeductionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

type AdvanceRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	DueMonth int             `json:"due_month" validate:"min=1,max=12"`
	DueYear  int             `json:"due_year" validate:"required,gt=0"`
}

type DailyAttendanceRequest struct {
	Entries []AttendanceEntryRequest `json:"entries" validate:"required,dive"`
}

type AttendanceEntryRequest struct {
	Name       string          `json:"name" validate:"required"`
	Sessions   int             `json:"sessions" validate:"gte=0"`
	DailyBonus decimal.Decimal `json:"daily_bonus"`
}

type CollectiveBonusRequest struct {
	Entries []BonusEntryRequest `json:"entries" validate:"required,dive"`
}

type BonusEntryRequest struct {
	Name         string          `json:"name" validate:"required"`
	Sessions     int             `json:"sessions" validate:"gte=0"`
	Rate         decimal.Decimal `json:"rate"`
	MonthlyBonus decimal.Decimal `json:"monthly_bonus"`
}

// =============================================================================
// REPORTS
// =============================================================================

// BreakdownDTO is one salary computation. Fields that do not apply to the
// employee's kind are omitted.
type BreakdownDTO struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	BaseRate            *decimal.Decimal `json:"base_rate,omitempty"`
	EffectiveRate       *decimal.Decimal `json:"effective_rate,omitempty"`
	Sessions            *int             `json:"sessions,omitempty"`
	SessionsSalary      *decimal.Decimal `json:"sessions_salary,omitempty"`
	PerformanceSessions *int             `json:"performance_sessions,omitempty"`
	PerformanceBonus    *decimal.Decimal `json:"performance_bonus,omitempty"`
	DailyBonus          *decimal.Decimal `json:"daily_bonus,omitempty"`

	BaseSalary    *decimal.Decimal `json:"base_salary,omitempty"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary,omitempty"`

	MonthlyBonus decimal.Decimal `json:"monthly_bonus"`
	Deduction    decimal.Decimal `json:"deduction"`
	Advance      decimal.Decimal `json:"advance"`
	NetSalary    decimal.Decimal `json:"net_salary"`
}

func toBreakdownDTO(b payroll.Breakdown) BreakdownDTO {
	dto := BreakdownDTO{
		Name:         b.Name,
		Kind:         string(b.Kind),
		From:         b.Period.Start.String(),
		To:           b.Period.End.String(),
		MonthlyBonus: b.MonthlyBonus,
		Deduction:    b.Deduction,
		Advance:      b.Advance,
		NetSalary:    b.NetSalary,
	}
	if b.Kind == payroll.KindSalaried {
		dto.BaseSalary = &b.BaseSalary
		dto.MonthlySalary = &b.MonthlySalary
		return dto
	}
	dto.BaseRate = &b.BaseRate
	dto.EffectiveRate = &b.EffectiveRate
	dto.Sessions = &b.Sessions
	dto.SessionsSalary = &b.SessionsSalary
	dto.PerformanceSessions = &b.PerformanceSessions
	dto.PerformanceBonus = &b.PerformanceBonus
	dto.DailyBonus = &b.DailyBonus
	return dto
}

type SummaryDTO struct {
	From     string          `json:"from,omitempty"`
	To       string          `json:"to,omitempty"`
	Hourly   []BreakdownDTO  `json:"hourly"`
	Salaried []BreakdownDTO  `json:"salaried"`
	Total    decimal.Decimal `json:"total"`
}

func toSummaryDTO(s payroll.Summary) SummaryDTO {
	dto := SummaryDTO{
		From:     s.Period.Start.String(),
		To:       s.Period.End.String(),
		Hourly:   make([]BreakdownDTO, 0, len(s.Hourly)),
		Salaried: make([]BreakdownDTO, 0, len(s.Salaried)),
		Total:    s.Total,
	}
	for _, b := range s.Hourly {
		dto.Hourly = append(dto.Hourly, toBreakdownDTO(b))
	}
	for _, b := range s.Salaried {
		dto.Salaried = append(dto.Salaried, toBreakdownDTO(b))
	}
	return dto
}

type AttendanceLineDTO struct {
	Name       string          `json:"name"`
	Phone      string          `json:"phone,omitempty"`
	Date       string          `json:"date"`
	Weekday    string          `json:"weekday"`
	Sessions   int             `json:"sessions"`
	DailyBonus decimal.Decimal `json:"daily_bonus"`
}

type AttendanceReportDTO struct {
	Name            string              `json:"name"`
	From            string              `json:"from,omitempty"`
	To              string              `json:"to,omitempty"`
	Lines           []AttendanceLineDTO `json:"lines"`
	TotalSessions   int                 `json:"total_sessions"`
	TotalDailyBonus decimal.Decimal     `json:"total_daily_bonus"`
}

func toAttendanceLineDTOs(lines []payroll.AttendanceLine) []AttendanceLineDTO {
	out := make([]AttendanceLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, AttendanceLineDTO{
			Name:       l.Name,
			Phone:      l.Phone,
			Date:       l.Date.String(),
			Weekday:    l.Weekday.String(),
			Sessions:   l.Sessions,
			DailyBonus: l.DailyBonus,
		})
	}
	return out
}

func toAttendanceReportDTO(r payroll.AttendanceReport) AttendanceReportDTO {
	return AttendanceReportDTO{
		Name:            r.Name,
		From:            r.Period.Start.String(),
		To:              r.Period.End.String(),
		Lines:           toAttendanceLineDTOs(r.Lines),
		TotalSessions:   r.TotalSessions,
		TotalDailyBonus: r.TotalDailyBonus,
	}
}

// =============================================================================
// IMPORT
// =============================================================================

type ImportResultDTO struct {
	Imported int             `json:"imported"`
	Skipped  []ImportSkipDTO `json:"skipped"`
}

type ImportSkipDTO struct {
	Line   int    `json:"line"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func toImportResultDTO(res importer.Result) ImportResultDTO {
	dto := ImportResultDTO{Imported: res.Imported, Skipped: make([]ImportSkipDTO, 0, len(res.Skipped))}
	for _, s := range res.Skipped {
		dto.Skipped = append(dto.Skipped, ImportSkipDTO{Line: s.Line, Name: s.Name, Reason: s.Reason})
	}
	sort.SliceStable(dto.Skipped, func(i, j int) bool { return dto.Skipped[i].Line < dto.Skipped[j].Line })
	return dto
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
