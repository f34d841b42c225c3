package report

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/warp/payroll-ledger/payroll"
)

// fontFamily is a UTF-8 font so Arabic names and phones survive.
const fontFamily = "DejaVuSans"

var (
	//go:embed fonts/DejaVuSans.ttf
	fontRegular []byte

	//go:embed fonts/DejaVuSans-Bold.ttf
	fontBold []byte
)

func newPDF(orientation string) *gofpdf.Fpdf {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	return pdf
}

// WritePayslipPDF writes a one-page payslip for a single breakdown.
func WritePayslipPDF(w io.Writer, b payroll.Breakdown) error {
	pdf := newPDF("P")

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont(fontFamily, "", 12)
	for _, line := range breakdownLines(b) {
		pdf.CellFormat(60, 8, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, line[1], "", 1, "L", false, 0, "")
	}
	return pdf.Output(w)
}

// WriteSummaryPDF writes the all-employees report as landscape tables.
func WriteSummaryPDF(w io.Writer, s payroll.Summary) error {
	pdf := newPDF("L")

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Salary report %s", s.Period))
	pdf.Ln(12)

	if len(s.Hourly) > 0 {
		rows := make([][]string, 0, len(s.Hourly))
		for _, b := range s.Hourly {
			rows = append(rows, hourlyRow(b))
		}
		pdfTable(pdf, "Hourly employees", hourlyHeaders, rows)
	}
	if len(s.Salaried) > 0 {
		rows := make([][]string, 0, len(s.Salaried))
		for _, b := range s.Salaried {
			rows = append(rows, salariedRow(b))
		}
		pdfTable(pdf, "Salaried employees", salariedHeaders, rows)
	}

	pdf.SetFont(fontFamily, "B", 12)
	pdf.Cell(0, 8, "Total: "+money(s.Total))
	return pdf.Output(w)
}

func pdfTable(pdf *gofpdf.Fpdf, title string, headers []string, rows [][]string) {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := (pageWidth - left - right) / float64(len(headers))

	pdf.SetFont(fontFamily, "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)

	pdf.SetFont(fontFamily, "B", 8)
	for _, h := range headers {
		pdf.CellFormat(width, 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 8)
	for _, row := range rows {
		for i, c := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(width, 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}
