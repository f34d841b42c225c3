/*
handlers.go - HTTP API handlers for the payroll ledger

PURPOSE:
  Exposes the ledger store and salary engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to payroll.Store.

ENDPOINTS:
  Employees:
    GET    /api/employees                          List all employees
    POST   /api/employees                          Register employee
    GET    /api/employees/{name}                   Employee with every ledger
    PUT    /api/employees/{name}                   Rename / phone / rate
    DELETE /api/employees/{name}                   Remove employee

  Ledger entries (PUT records or overwrites, DELETE removes):
    /api/employees/{name}/attendance/{date}
    /api/employees/{name}/performance-bonuses/{date}
    /api/employees/{name}/monthly-bonuses/{date}
    /api/employees/{name}/deductions/{date}
    /api/employees/{name}/advances/{date}
    PUT /api/employees/{name}/monthly-salaries/{year}/{month}

  Batches:
    POST   /api/attendance/{date}                  Daily attendance sheet
    POST   /api/bonuses/{date}                     Collective bonus sheet

  Reports and import: see reports.go

REQUEST FLOW:
  1. Parse path parameters and body
  2. Validate input (validator tags on request DTOs)
  3. Call payroll.Store
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, inverted period
  - 401: Missing or wrong credentials
  - 404: Unknown employee or dated entry
  - 409: Duplicate employee name
  - 500: Persistence failures

SEE ALSO:
  - dto.go: Request/response data structures
  - reports.go: Salary, attendance, export and import endpoints
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/warp/payroll-ledger/auth"
	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Store *payroll.Store
	Auth  *auth.Authenticator
	Log   logrus.FieldLogger

	// Now picks the default report month.
	Now func() time.Time

	validate *validator.Validate
}

// NewHandler creates a new handler.
func NewHandler(store *payroll.Store, a *auth.Authenticator, log logrus.FieldLogger) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		Store:    store,
		Auth:     a,
		Log:      log,
		Now:      time.Now,
		validate: v,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees sorted by name.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees := h.Store.Employees()
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee registers a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind, err := payroll.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid kind", err)
		return
	}

	err = h.Store.Register(r.Context(), payroll.RegisterInput{
		Name:  req.Name,
		Kind:  kind,
		Rate:  req.Rate,
		Phone: req.Phone,
	})
	if err != nil {
		writeStoreError(w, "Failed to register employee", err)
		return
	}

	e, err := h.Store.Employee(strings.TrimSpace(req.Name))
	if err != nil {
		writeStoreError(w, "Failed to load employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDetailDTO(e))
}

// GetEmployee returns one employee with every ledger.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.Employee(nameParam(r))
	if err != nil {
		writeStoreError(w, "Employee not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDetailDTO(e))
}

// UpdateEmployee renames an employee or changes phone or rate.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpdateEmployeeRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	name := nameParam(r)
	err := h.Store.UpdateEmployee(r.Context(), name, payroll.UpdateInput{
		NewName: req.Name,
		Phone:   req.Phone,
		Rate:    req.Rate,
	})
	if err != nil {
		writeStoreError(w, "Failed to update employee", err)
		return
	}

	if newName := strings.TrimSpace(req.Name); newName != "" {
		name = newName
	}
	e, err := h.Store.Employee(name)
	if err != nil {
		writeStoreError(w, "Failed to load employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDetailDTO(e))
}

// DeleteEmployee removes an employee and every ledger.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), nameParam(r)); err != nil {
		writeStoreError(w, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// RecordAttendance sets one day's sessions. Zero sessions clears the day.
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req AttendanceRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Store.RecordAttendance(r.Context(), nameParam(r), chi.URLParam(r, "date"), req.Sessions, req.DailyBonus)
	h.respondEmployee(w, r, "Failed to record attendance", err)
}

func (h *Handler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteAttendance(r.Context(), nameParam(r), chi.URLParam(r, "date"))
	h.respondEmployee(w, r, "Failed to delete attendance", err)
}

// RecordPerformanceBonus stores sessions × rate for one date.
func (h *Handler) RecordPerformanceBonus(w http.ResponseWriter, r *http.Request) {
	var req PerformanceBonusRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Store.RecordPerformanceBonus(r.Context(), nameParam(r), chi.URLParam(r, "date"), req.Sessions, req.Rate)
	h.respondEmployee(w, r, "Failed to record performance bonus", err)
}

func (h *Handler) DeletePerformanceBonus(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeletePerformanceBonus(r.Context(), nameParam(r), chi.URLParam(r, "date"))
	h.respondEmployee(w, r, "Failed to delete performance bonus", err)
}

func (h *Handler) RecordMonthlyBonus(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Store.RecordMonthlyBonus(r.Context(), nameParam(r), chi.URLParam(r, "date"), req.Amount)
	h.respondEmployee(w, r, "Failed to record monthly bonus", err)
}

func (h *Handler) DeleteMonthlyBonus(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteMonthlyBonus(r.Context(), nameParam(r), chi.URLParam(r, "date"))
	h.respondEmployee(w, r, "Failed to delete monthly bonus", err)
}

func (h *Handler) RecordDeduction(w http.ResponseWriter, r *http.Request) {
	var req DeductionRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Store.RecordDeduction(r.Context(), nameParam(r), chi.URLParam(r, "date"), req.Amount, req.Reason)
	h.respondEmployee(w, r, "Failed to record deduction", err)
}

func (h *Handler) DeleteDeduction(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteDeduction(r.Context(), nameParam(r), chi.URLParam(r, "date"))
	h.respondEmployee(w, r, "Failed to delete deduction", err)
}

// RecordAdvance stores an advance and the month it is recovered against.
func (h *Handler) RecordAdvance(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Store.RecordAdvance(r.Context(), nameParam(r), chi.URLParam(r, "date"), req.Amount, req.DueMonth, req.DueYear)
	h.respondEmployee(w, r, "Failed to record advance", err)
}

func (h *Handler) DeleteAdvance(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteAdvance(r.Context(), nameParam(r), chi.URLParam(r, "date"))
	h.respondEmployee(w, r, "Failed to delete advance", err)
}

// SetMonthlySalary overrides a salaried employee's pay for one month.
func (h *Handler) SetMonthlySalary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	var req AmountRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err = h.Store.SetMonthlySalary(r.Context(), nameParam(r), month, year, req.Amount)
	h.respondEmployee(w, r, "Failed to set monthly salary", err)
}

// =============================================================================
// BATCH HANDLERS
// =============================================================================

// RecordDailyAttendance applies a whole attendance sheet for one date. The
// batch is all-or-nothing.
func (h *Handler) RecordDailyAttendance(w http.ResponseWriter, r *http.Request) {
	var req DailyAttendanceRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entries := make([]payroll.AttendanceEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, payroll.AttendanceEntry{Name: e.Name, Sessions: e.Sessions, DailyBonus: e.DailyBonus})
	}
	if err := h.Store.RecordDailyAttendance(r.Context(), chi.URLParam(r, "date"), entries); err != nil {
		writeStoreError(w, "Failed to record attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"recorded": len(entries)})
}

// RecordCollectiveBonus applies a bonus sheet for one date.
func (h *Handler) RecordCollectiveBonus(w http.ResponseWriter, r *http.Request) {
	var req CollectiveBonusRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entries := make([]payroll.BonusEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, payroll.BonusEntry{
			Name:         e.Name,
			Sessions:     e.Sessions,
			Rate:         e.Rate,
			MonthlyBonus: e.MonthlyBonus,
		})
	}
	if err := h.Store.RecordCollectiveBonus(r.Context(), chi.URLParam(r, "date"), entries); err != nil {
		writeStoreError(w, "Failed to record bonuses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"recorded": len(entries)})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body into v and runs its validator tags.
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &generic.InvalidInputError{Field: fe.Namespace(), Value: fmt.Sprint(fe.Value()), Reason: "failed " + fe.Tag()}
		}
		return err
	}
	return nil
}

// respondEmployee answers a ledger write with the employee's new state.
func (h *Handler) respondEmployee(w http.ResponseWriter, r *http.Request, message string, err error) {
	if err != nil {
		writeStoreError(w, message, err)
		return
	}
	e, err := h.Store.Employee(nameParam(r))
	if err != nil {
		writeStoreError(w, "Failed to load employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDetailDTO(e))
}

// nameParam returns the {name} path segment. chi routes on RawPath when the
// request has one, so only then is the segment still escaped.
func nameParam(r *http.Request) string {
	param := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return param
	}
	if name, err := url.PathUnescape(param); err == nil {
		return name
	}
	return param
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, generic.ErrDuplicateName):
		return http.StatusConflict
	case generic.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeStoreError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
