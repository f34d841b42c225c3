/*
Package report renders salary breakdowns for operators.

PURPOSE:
  Pure presentation over payroll.Breakdown, payroll.Summary and
  payroll.AttendanceReport. Nothing here computes money; amounts are only
  formatted (two decimals).

FORMATS:
  text.go:  aligned plain-text tables (CLI, text/plain API responses)
  excel.go: xlsx workbooks
  pdf.go:   payslips and summary documents
*/
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
)

var (
	hourlyHeaders = []string{
		"Name", "Rate", "Sessions", "Sessions Salary", "Performance",
		"Daily Bonus", "Monthly Bonus", "Deduction", "Advance", "Net",
	}
	salariedHeaders = []string{
		"Name", "Base Salary", "Salary", "Monthly Bonus", "Deduction", "Advance", "Net",
	}
	attendanceHeaders = []string{"Date", "Day", "Sessions", "Daily Bonus"}
)

func hourlyRow(b payroll.Breakdown) []string {
	return []string{
		b.Name,
		money(b.EffectiveRate),
		strconv.Itoa(b.Sessions),
		money(b.SessionsSalary),
		money(b.PerformanceBonus),
		money(b.DailyBonus),
		money(b.MonthlyBonus),
		money(b.Deduction),
		money(b.Advance),
		money(b.NetSalary),
	}
}

func salariedRow(b payroll.Breakdown) []string {
	return []string{
		b.Name,
		money(b.BaseSalary),
		money(b.MonthlySalary),
		money(b.MonthlyBonus),
		money(b.Deduction),
		money(b.Advance),
		money(b.NetSalary),
	}
}

func attendanceRow(l payroll.AttendanceLine) []string {
	return []string{l.Date.String(), l.Weekday.String(), strconv.Itoa(l.Sessions), money(l.DailyBonus)}
}

var money = generic.FormatMoney

// WriteText writes the all-employees report as aligned columns.
func WriteText(w io.Writer, s payroll.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Salary report %s\n\n", s.Period)

	if len(s.Hourly) > 0 {
		fmt.Fprintln(tw, "Hourly employees")
		writeRow(tw, hourlyHeaders)
		for _, b := range s.Hourly {
			writeRow(tw, hourlyRow(b))
		}
		fmt.Fprintln(tw)
	}
	if len(s.Salaried) > 0 {
		fmt.Fprintln(tw, "Salaried employees")
		writeRow(tw, salariedHeaders)
		for _, b := range s.Salaried {
			writeRow(tw, salariedRow(b))
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", money(s.Total))
	return tw.Flush()
}

// WriteBreakdownText writes one employee's breakdown as label/value lines.
func WriteBreakdownText(w io.Writer, b payroll.Breakdown) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, line := range breakdownLines(b) {
		fmt.Fprintf(tw, "%s:\t%s\n", line[0], line[1])
	}
	return tw.Flush()
}

// WriteAttendanceText writes an attendance report.
func WriteAttendanceText(w io.Writer, r payroll.AttendanceReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Attendance %s %s\n\n", r.Name, r.Period)
	writeRow(tw, attendanceHeaders)
	for _, l := range r.Lines {
		writeRow(tw, attendanceRow(l))
	}
	fmt.Fprintf(tw, "Total\t\t%d\t%s\t\n", r.TotalSessions, money(r.TotalDailyBonus))
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for _, c := range cells {
		fmt.Fprint(w, c, "\t")
	}
	fmt.Fprintln(w)
}

// breakdownLines is the label/value view shared by the text and PDF payslip.
func breakdownLines(b payroll.Breakdown) [][2]string {
	lines := [][2]string{
		{"Employee", b.Name},
		{"Period", b.Period.String()},
	}
	if b.Phone != "" {
		lines = append(lines, [2]string{"Phone", b.Phone})
	}
	if b.Kind == payroll.KindSalaried {
		lines = append(lines,
			[2]string{"Base salary", money(b.BaseSalary)},
			[2]string{"Salary", money(b.MonthlySalary)},
		)
	} else {
		lines = append(lines,
			[2]string{"Base rate", money(b.BaseRate)},
			[2]string{"Effective rate", money(b.EffectiveRate)},
			[2]string{"Sessions", strconv.Itoa(b.Sessions)},
			[2]string{"Sessions salary", money(b.SessionsSalary)},
			[2]string{"Performance sessions", strconv.Itoa(b.PerformanceSessions)},
			[2]string{"Performance bonus", money(b.PerformanceBonus)},
			[2]string{"Daily bonus", money(b.DailyBonus)},
		)
	}
	return append(lines,
		[2]string{"Monthly bonus", money(b.MonthlyBonus)},
		[2]string{"Deduction", money(b.Deduction)},
		[2]string{"Advance", money(b.Advance)},
		[2]string{"Net salary", money(b.NetSalary)},
	)
}
