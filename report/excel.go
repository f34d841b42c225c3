package report

import (
	"io"

	"github.com/warp/payroll-ledger/payroll"
	"github.com/xuri/excelize/v2"
)

const (
	hourlySheet     = "Hourly"
	salariedSheet   = "Salaried"
	attendanceSheet = "Attendance"
)

// WriteSummaryExcel writes one sheet per employee kind plus a total row on
// each.
func WriteSummaryExcel(w io.Writer, s payroll.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hourlySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(salariedSheet); err != nil {
		return err
	}

	hourly := make([][]any, 0, len(s.Hourly))
	for _, b := range s.Hourly {
		hourly = append(hourly, []any{
			b.Name, b.EffectiveRate.InexactFloat64(), b.Sessions,
			b.SessionsSalary.InexactFloat64(), b.PerformanceBonus.InexactFloat64(),
			b.DailyBonus.InexactFloat64(), b.MonthlyBonus.InexactFloat64(),
			b.Deduction.InexactFloat64(), b.Advance.InexactFloat64(), b.NetSalary.InexactFloat64(),
		})
	}
	if err := writeSheet(f, hourlySheet, hourlyHeaders, hourly); err != nil {
		return err
	}

	salaried := make([][]any, 0, len(s.Salaried))
	for _, b := range s.Salaried {
		salaried = append(salaried, []any{
			b.Name, b.BaseSalary.InexactFloat64(), b.MonthlySalary.InexactFloat64(),
			b.MonthlyBonus.InexactFloat64(), b.Deduction.InexactFloat64(),
			b.Advance.InexactFloat64(), b.NetSalary.InexactFloat64(),
		})
	}
	if err := writeSheet(f, salariedSheet, salariedHeaders, salaried); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteAttendanceExcel writes one hourly employee's attendance lines.
func WriteAttendanceExcel(w io.Writer, r payroll.AttendanceReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return err
	}
	rows := make([][]any, 0, len(r.Lines)+1)
	for _, l := range r.Lines {
		rows = append(rows, []any{l.Date.String(), l.Weekday.String(), l.Sessions, l.DailyBonus.InexactFloat64()})
	}
	rows = append(rows, []any{"Total", "", r.TotalSessions, r.TotalDailyBonus.InexactFloat64()})
	if err := writeSheet(f, attendanceSheet, attendanceHeaders, rows); err != nil {
		return err
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
