package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/warp/payroll-ledger/report"
)

func newAttendanceCmd(a *app) *cobra.Command {
	var (
		pf     periodFlags
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "attendance NAME",
		Short: "List an hourly employee's attended days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := pf.period(a.now())
			if err != nil {
				return err
			}
			rep, err := a.ledger.AttendanceReport(args[0], period)
			if err != nil {
				return err
			}

			var write func(io.Writer) error
			switch format {
			case "text":
				write = func(w io.Writer) error { return report.WriteAttendanceText(w, rep) }
			case "xlsx":
				write = func(w io.Writer) error { return report.WriteAttendanceExcel(w, rep) }
			default:
				return fmt.Errorf("unknown format %q (text, xlsx)", format)
			}

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := write(w); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
