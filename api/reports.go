/*
reports.go - Salary, attendance, export and import endpoints

ENDPOINTS:
  GET  /api/employees/{name}/salary             One breakdown
  GET  /api/employees/{name}/attendance         Attended days (json, text, xlsx)
  GET  /api/employees/{name}/payslip.pdf        Payslip
  GET  /api/attendance                          Every hourly employee's days
  GET  /api/reports/salaries                    Summary (json, text, xlsx, pdf)
  POST /api/import/employees                    Multipart "file", CSV or XLSX
  POST /api/import/attendance/{date}            Multipart "file", CSV or XLSX

PERIOD SELECTION:
  ?from=YYYY-MM-DD&to=YYYY-MM-DD   either bound may be omitted
  ?year=2024&month=3               the calendar month, when no bound is given
  (nothing)                        the current calendar month
*/
package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/importer"
	"github.com/warp/payroll-ledger/payroll"
	"github.com/warp/payroll-ledger/report"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypeText = "text/plain; charset=utf-8"

	maxUploadSize = 32 << 20
)

// =============================================================================
// SALARY
// =============================================================================

// GetSalary computes one employee's salary breakdown.
func (h *Handler) GetSalary(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	b, err := h.Store.ComputeSalary(nameParam(r), period)
	if err != nil {
		writeStoreError(w, "Failed to compute salary", err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		h.render(w, contentTypeText, "", func(out io.Writer) error { return report.WriteBreakdownText(out, b) })
		return
	}
	writeJSON(w, http.StatusOK, toBreakdownDTO(b))
}

// GetPayslip renders one employee's breakdown as a PDF.
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	b, err := h.Store.ComputeSalary(nameParam(r), period)
	if err != nil {
		writeStoreError(w, "Failed to compute salary", err)
		return
	}
	h.render(w, contentTypePDF, "payslip.pdf", func(out io.Writer) error { return report.WritePayslipPDF(out, b) })
}

// SalaryReport computes every employee's salary for one period.
func (h *Handler) SalaryReport(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	summary, err := h.Store.ComputeAll(period)
	if err != nil {
		writeStoreError(w, "Failed to compute salaries", err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, toSummaryDTO(summary))
	case "text":
		h.render(w, contentTypeText, "", func(out io.Writer) error { return report.WriteText(out, summary) })
	case "xlsx":
		h.render(w, contentTypeXLSX, "salaries.xlsx", func(out io.Writer) error { return report.WriteSummaryExcel(out, summary) })
	case "pdf":
		h.render(w, contentTypePDF, "salaries.pdf", func(out io.Writer) error { return report.WriteSummaryPDF(out, summary) })
	default:
		writeError(w, http.StatusBadRequest, "Unknown format", fmt.Errorf("format %q", format))
	}
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// GetEmployeeAttendance lists an hourly employee's attended days.
func (h *Handler) GetEmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	rep, err := h.Store.AttendanceReport(nameParam(r), period)
	if err != nil {
		writeStoreError(w, "Failed to load attendance", err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, toAttendanceReportDTO(rep))
	case "text":
		h.render(w, contentTypeText, "", func(out io.Writer) error { return report.WriteAttendanceText(out, rep) })
	case "xlsx":
		h.render(w, contentTypeXLSX, "attendance.xlsx", func(out io.Writer) error { return report.WriteAttendanceExcel(out, rep) })
	default:
		writeError(w, http.StatusBadRequest, "Unknown format", fmt.Errorf("format %q", format))
	}
}

// ListAttendance lists every hourly employee's attended days.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	lines, err := h.Store.AttendanceBetween(period)
	if err != nil {
		writeStoreError(w, "Failed to load attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceLineDTOs(lines))
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportEmployees registers every new employee in an uploaded sheet.
func (h *Handler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	res, err := importer.ImportEmployees(r.Context(), h.Store, rows)
	if err != nil {
		writeStoreError(w, "Import failed", err)
		return
	}
	h.Log.WithField("imported", res.Imported).WithField("skipped", len(res.Skipped)).Info("employees imported")
	writeJSON(w, http.StatusOK, toImportResultDTO(res))
}

// ImportAttendance records one day of attendance from an uploaded sheet.
func (h *Handler) ImportAttendance(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := generic.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	rows, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	res, err := importer.ImportAttendance(r.Context(), h.Store, date, rows)
	if err != nil {
		writeStoreError(w, "Import failed", err)
		return
	}
	h.Log.WithField("date", date).WithField("imported", res.Imported).Info("attendance imported")
	writeJSON(w, http.StatusOK, toImportResultDTO(res))
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]importer.Row, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file", err)
		return nil, false
	}
	defer file.Close()

	rows, err := importer.ReadRows(file, header.Filename)
	if err != nil {
		writeStoreError(w, "Unreadable file", err)
		return nil, false
	}
	return rows, true
}

// =============================================================================
// HELPERS
// =============================================================================

// periodFrom reads the report window from the query string.
func (h *Handler) periodFrom(r *http.Request) (generic.Period, error) {
	q := r.URL.Query()
	year, err := queryInt(q.Get("year"), "year")
	if err != nil {
		return generic.Period{}, err
	}
	month, err := queryInt(q.Get("month"), "month")
	if err != nil {
		return generic.Period{}, err
	}
	return generic.ReportPeriod(q.Get("from"), q.Get("to"), year, month, h.Now())
}

func queryInt(s, field string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &generic.InvalidInputError{Field: field, Value: s, Reason: "expected a number"}
	}
	return n, nil
}

// render buffers a document so a rendering failure still gets a JSON error.
func (h *Handler) render(w http.ResponseWriter, contentType, filename string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		h.Log.WithError(err).Error("render failed")
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

var _ importer.Ledger = (*payroll.Store)(nil)
