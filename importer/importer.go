/*
Package importer loads employee and attendance sheets into the ledger.

PURPOSE:
  Operators keep rosters and daily attendance in spreadsheets. This package
  reads CSV or XLSX (first sheet), maps the header row onto known columns,
  and feeds the rows to the ledger store.

COLUMNS:
  Employees:  name, phone, type, rate
  Attendance: name (or employee), sessions, daily_bonus
  The Arabic headers used by the desktop sheets are accepted too. Unknown
  columns are ignored.

LENIENCY:
  Malformed numbers read as zero rather than failing the batch. Rows
  without a name are dropped. Rows that cannot be applied (unknown type,
  existing or unknown employee) are reported in Result.Skipped.
*/
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
	"github.com/xuri/excelize/v2"
)

// Canonical column names.
const (
	ColName       = "name"
	ColPhone      = "phone"
	ColType       = "type"
	ColRate       = "rate"
	ColSessions   = "sessions"
	ColDailyBonus = "daily_bonus"
)

var headerAliases = map[string]string{
	"name":             ColName,
	"employee":         ColName,
	"الاسم":            ColName,
	"الموظف":           ColName,
	"phone":            ColPhone,
	"الهاتف":           ColPhone,
	"type":             ColType,
	"kind":             ColType,
	"النوع":            ColType,
	"rate":             ColRate,
	"salary":           ColRate,
	"rate/salary":      ColRate,
	"سعر الحصة/الراتب": ColRate,
	"sessions":         ColSessions,
	"عدد الحصص":        ColSessions,
	"daily_bonus":      ColDailyBonus,
	"daily bonus":      ColDailyBonus,
	"bonus":            ColDailyBonus,
	"البونص اليومي":    ColDailyBonus,
}

var ErrUnsupportedFormat = errors.New("unsupported import format")

// Row is one data row keyed by canonical column name.
type Row map[string]string

// Get returns the trimmed value of a column, or "".
func (r Row) Get(col string) string { return strings.TrimSpace(r[col]) }

// Skip records a row that was read but not applied.
type Skip struct {
	Line   int // 1-based, header is line 1
	Name   string
	Reason string
}

// Result summarizes one import.
type Result struct {
	Imported int
	Skipped  []Skip
}

// =============================================================================
// READING
// =============================================================================

// ReadRows reads a CSV or XLSX file. The format is chosen by the file
// extension.
func ReadRows(r io.Reader, filename string) ([]Row, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		records, err = readCSV(r)
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r)
	default:
		return nil, &generic.InvalidInputError{Field: "file", Value: filename, Reason: ErrUnsupportedFormat.Error()}
	}
	if err != nil {
		return nil, &generic.InvalidInputError{Field: "file", Value: filename, Reason: err.Error()}
	}
	return toRows(records), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func toRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}

	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimPrefix(h, "\ufeff")
		columns[i] = headerAliases[strings.ToLower(strings.TrimSpace(h))]
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(columns))
		for i, value := range record {
			if i < len(columns) && columns[i] != "" {
				row[columns[i]] = value
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// =============================================================================
// APPLYING
// =============================================================================

// Ledger is the slice of payroll.Store the importer writes through.
type Ledger interface {
	Employee(name string) (*payroll.Employee, error)
	Register(ctx context.Context, in payroll.RegisterInput) error
	RecordDailyAttendance(ctx context.Context, date string, entries []payroll.AttendanceEntry) error
}

// ImportEmployees registers every row whose name is not already taken.
func ImportEmployees(ctx context.Context, ledger Ledger, rows []Row) (Result, error) {
	var res Result
	for i, row := range rows {
		line := i + 2
		name := row.Get(ColName)
		if name == "" {
			continue
		}
		kind, err := payroll.ParseKind(row.Get(ColType))
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Line: line, Name: name, Reason: fmt.Sprintf("unknown type %q", row.Get(ColType))})
			continue
		}

		err = ledger.Register(ctx, payroll.RegisterInput{
			Name:  name,
			Kind:  kind,
			Rate:  generic.MustParseDecimal(row.Get(ColRate)),
			Phone: row.Get(ColPhone),
		})
		switch {
		case errors.Is(err, generic.ErrDuplicateName):
			res.Skipped = append(res.Skipped, Skip{Line: line, Name: name, Reason: "already exists"})
		case err != nil:
			return res, err
		default:
			res.Imported++
		}
	}
	return res, nil
}

// ImportAttendance records one day of attendance for every hourly employee
// in rows, in a single batch.
func ImportAttendance(ctx context.Context, ledger Ledger, date string, rows []Row) (Result, error) {
	var res Result
	var entries []payroll.AttendanceEntry
	for i, row := range rows {
		line := i + 2
		name := row.Get(ColName)
		if name == "" {
			continue
		}
		e, err := ledger.Employee(name)
		if err != nil {
			if generic.IsNotFound(err) {
				res.Skipped = append(res.Skipped, Skip{Line: line, Name: name, Reason: "unknown employee"})
				continue
			}
			return res, err
		}
		if e.Kind != payroll.KindHourly {
			res.Skipped = append(res.Skipped, Skip{Line: line, Name: name, Reason: "not an hourly employee"})
			continue
		}
		entries = append(entries, payroll.AttendanceEntry{
			Name:       name,
			Sessions:   generic.ParseIntOrZero(row.Get(ColSessions)),
			DailyBonus: generic.MustParseDecimal(row.Get(ColDailyBonus)),
		})
	}

	if len(entries) == 0 {
		return res, nil
	}
	if err := ledger.RecordDailyAttendance(ctx, date, entries); err != nil {
		return res, err
	}
	res.Imported = len(entries)
	return res, nil
}
