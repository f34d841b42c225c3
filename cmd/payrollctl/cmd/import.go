package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/importer"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk import from CSV or XLSX",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "employees FILE",
		Short: "Register every new employee in a sheet",
		Long: `Register every employee in a sheet whose name is not taken yet.

Columns: name, phone, type (hourly|salaried), rate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readSheet(args[0])
			if err != nil {
				return err
			}
			res, err := importer.ImportEmployees(cmd.Context(), a.ledger, rows)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "attendance DATE FILE",
		Short: "Record one day of attendance from a sheet",
		Long: `Record one day of attendance for every hourly employee in a sheet.

Columns: name, sessions, daily_bonus.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := generic.ParseDate(args[0]); err != nil {
				return err
			}
			rows, err := readSheet(args[1])
			if err != nil {
				return err
			}
			res, err := importer.ImportAttendance(cmd.Context(), a.ledger, args[0], rows)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	})

	return cmd
}

func readSheet(path string) ([]importer.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.ReadRows(f, filepath.Base(path))
}

func printResult(cmd *cobra.Command, res importer.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "imported: %d\n", res.Imported)
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "skipped line %d (%s): %s\n", s.Line, s.Name, s.Reason)
	}
}
