package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
	"github.com/warp/payroll-ledger/report"
	"github.com/xuri/excelize/v2"
)

func testSummary() payroll.Summary {
	feb := generic.MonthPeriod(2024, time.February)
	ali := payroll.Breakdown{
		Name: "Ali", Kind: payroll.KindHourly, Period: feb,
		BaseRate: decimal.NewFromInt(10), EffectiveRate: decimal.NewFromInt(10),
		Sessions: 5, SessionsSalary: decimal.NewFromInt(50),
		PerformanceSessions: 1, PerformanceBonus: decimal.NewFromInt(10),
		DailyBonus: decimal.NewFromInt(2), MonthlyBonus: decimal.NewFromInt(50),
		NetSalary: decimal.NewFromInt(112),
	}
	sara := payroll.Breakdown{
		Name: "Sara", Kind: payroll.KindSalaried, Period: feb,
		BaseSalary: decimal.NewFromInt(1000), MonthlySalary: decimal.NewFromInt(1000),
		Deduction: decimal.RequireFromString("12.5"), NetSalary: decimal.RequireFromString("987.5"),
	}
	return payroll.Summary{
		Period:   feb,
		Hourly:   []payroll.Breakdown{ali},
		Salaried: []payroll.Breakdown{sara},
		Total:    decimal.RequireFromString("1099.5"),
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, testSummary()))
	out := buf.String()

	assert.Contains(t, out, "Salary report [2024-02-01, 2024-02-29]")
	assert.Contains(t, out, "Hourly employees")
	assert.Contains(t, out, "Salaried employees")
	assert.Contains(t, out, "112.00")
	assert.Contains(t, out, "987.50")
	assert.Contains(t, out, "1099.50")
}

func TestWriteBreakdownText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteBreakdownText(&buf, testSummary().Hourly[0]))
	out := buf.String()

	assert.Contains(t, out, "Sessions salary:")
	assert.Contains(t, out, "Net salary:")
	assert.False(t, strings.Contains(out, "Base salary"), "hourly breakdown has no salaried lines")
}

func TestWriteSummaryExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteSummaryExcel(&buf, testSummary()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Hourly", "Salaried"}, f.GetSheetList())

	name, err := f.GetCellValue("Hourly", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ali", name)
	net, err := f.GetCellValue("Hourly", "J2")
	require.NoError(t, err)
	assert.Equal(t, "112", net)

	header, err := f.GetCellValue("Salaried", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Base Salary", header)
}

func TestWriteAttendanceExcel(t *testing.T) {
	day := generic.MustParseDate("2024-02-01")
	r := payroll.AttendanceReport{
		Name: "Ali",
		Lines: []payroll.AttendanceLine{
			{Name: "Ali", Date: day, Weekday: day.Weekday(), Sessions: 3, DailyBonus: decimal.NewFromInt(2)},
		},
		TotalSessions:   3,
		TotalDailyBonus: decimal.NewFromInt(2),
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteAttendanceExcel(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-02-01", "Thursday", "3", "2"}, rows[1])
	assert.Equal(t, "Total", rows[2][0])
}

func TestWritePDF(t *testing.T) {
	var payslip bytes.Buffer
	require.NoError(t, report.WritePayslipPDF(&payslip, testSummary().Salaried[0]))
	assert.True(t, bytes.HasPrefix(payslip.Bytes(), []byte("%PDF-")))

	var summary bytes.Buffer
	require.NoError(t, report.WriteSummaryPDF(&summary, testSummary()))
	assert.True(t, bytes.HasPrefix(summary.Bytes(), []byte("%PDF-")))
}

func TestWritePDF_ArabicNameUsesEmbeddedFont(t *testing.T) {
	// GIVEN: A breakdown for an employee with an Arabic name and phone
	b := testSummary().Hourly[0]
	b.Name = "علي أحمد"
	b.Phone = "٠١٠٠١٢٣٤٥٦٧"

	// WHEN: The payslip and the summary are rendered
	var payslip bytes.Buffer
	require.NoError(t, report.WritePayslipPDF(&payslip, b))

	s := testSummary()
	s.Hourly[0] = b
	var summary bytes.Buffer
	require.NoError(t, report.WriteSummaryPDF(&summary, s))

	// THEN: Both carry an embedded UTF-8 font instead of a core font
	for _, out := range []string{payslip.String(), summary.String()} {
		assert.Contains(t, out, "/Subtype /Type0")
		assert.Contains(t, out, "/BaseFont /utf8")
		assert.Contains(t, out, "/FontFile2")
		assert.NotContains(t, out, "/Helvetica")
	}
}
