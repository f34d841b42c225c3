package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/warp/payroll-ledger/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		pf     periodFlags
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute every employee's salary for a period",
		Long: `Compute the salary summary for every employee.

Without --from/--to the report covers one calendar month: --year/--month,
or the current month.

Example:
  payrollctl report --year 2024 --month 3
  payrollctl report --from 2024-03-01 --to 2024-03-31 --format pdf --out march.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := pf.period(a.now())
			if err != nil {
				return err
			}
			summary, err := a.ledger.ComputeAll(period)
			if err != nil {
				return err
			}

			var write func(io.Writer) error
			switch format {
			case "text":
				write = func(w io.Writer) error { return report.WriteText(w, summary) }
			case "xlsx":
				write = func(w io.Writer) error { return report.WriteSummaryExcel(w, summary) }
			case "pdf":
				write = func(w io.Writer) error { return report.WriteSummaryPDF(w, summary) }
			default:
				return fmt.Errorf("unknown format %q (text, xlsx, pdf)", format)
			}

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := write(w); err != nil {
				closeOut()
				return err
			}
			a.log.WithField("period", period.String()).WithField("employees", len(summary.Hourly)+len(summary.Salaried)).Debug("report written")
			return closeOut()
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, xlsx or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
