package cmd

import (
	"github.com/spf13/cobra"
	"github.com/warp/payroll-ledger/report"
)

func newPayslipCmd(a *app) *cobra.Command {
	var (
		pf  periodFlags
		out string
		pdf bool
	)

	cmd := &cobra.Command{
		Use:   "payslip NAME",
		Short: "Print one employee's salary breakdown",
		Example: `  payrollctl payslip "Ali" --year 2024 --month 3
  payrollctl payslip "Ali" --month 3 --pdf --out ali-march.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := pf.period(a.now())
			if err != nil {
				return err
			}
			b, err := a.ledger.ComputeSalary(args[0], period)
			if err != nil {
				return err
			}

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			if pdf {
				err = report.WritePayslipPDF(w, b)
			} else {
				err = report.WriteBreakdownText(w, b)
			}
			if err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}

	pf.register(cmd)
	cmd.Flags().BoolVar(&pdf, "pdf", false, "write a PDF instead of text")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
